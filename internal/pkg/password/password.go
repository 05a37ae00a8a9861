// Package password wraps bcrypt behind the two operations the auth flows
// need: one-way hashing with a per-call random salt, and fail-closed
// verification.
package password

import "golang.org/x/crypto/bcrypt"

// Hash produces a salted one-way digest of plaintext. Two calls with the
// same plaintext yield different digests.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plaintext matches the stored digest. A malformed
// or empty digest fails verification instead of surfacing an error.
func Verify(plaintext, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
