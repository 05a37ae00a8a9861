package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inventorio/inventory-api/internal/core/domain"
)

const sessionKeyPrefix = "session:"

// tokenBytes sized so tokens carry 256 bits of entropy; the hex form is the
// cookie value and must be unguessable.
const tokenBytes = 32

// SessionStore keeps authenticated-identity attributes under opaque tokens.
// Key format: session:<token> → JSON attrs, expiring after ttl. Expiry is
// refreshed on every write, not on reads.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore with the given session lifetime.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Create(ctx context.Context, attrs domain.SessionAttrs) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	if err := s.write(ctx, token, attrs); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	return token, nil
}

func (s *SessionStore) Read(ctx context.Context, token string) (*domain.SessionAttrs, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("session read: %w", err)
	}

	var attrs domain.SessionAttrs
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &attrs, nil
}

func (s *SessionStore) Update(ctx context.Context, token string, attrs domain.SessionAttrs) error {
	n, err := s.client.Exists(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("session update: %w", err)
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	if err := s.write(ctx, token, attrs); err != nil {
		return fmt.Errorf("session update: %w", err)
	}
	return nil
}

func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}

func (s *SessionStore) write(ctx context.Context, token string, attrs domain.SessionAttrs) error {
	raw, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+token, raw, s.ttl).Err()
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
