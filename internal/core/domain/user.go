package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the authorization level attached to a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// ParseRole maps a caller-supplied role string onto the closed enumeration.
// Unknown or empty values fall back to RoleStaff.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	default:
		return RoleStaff
	}
}

// Valid reports whether the role is a member of the enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	default:
		return false
	}
}

var ErrMissingFields = errors.New("username, email and password are required")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrInvalidRole = errors.New("invalid role")
var ErrEmailUnverified = errors.New("email not verified by provider")
var ErrOAuthExchange = errors.New("oauth exchange failed")
var ErrStateMismatch = errors.New("oauth state mismatch")
var ErrSessionNotFound = errors.New("session not found")

// User models an authenticated actor in the system.
//
// PasswordHash is empty for accounts created through an external identity
// provider; those accounts never authenticate by password.
type User struct {
	ID           string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the projection returned to clients after login. It carries
// no audit fields and, like User, never exposes the password hash.
type PublicUser struct {
	ID       string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
