package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "oauthstate:"

// StateStore issues single-use anti-forgery nonces for the authorization-code
// flow. Key format: oauthstate:<nonce>, expiring after ttl. Consume removes
// the key atomically, so a replayed callback never verifies twice.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateStore creates a StateStore; ttl bounds how long a pending
// authorization attempt stays valid.
func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateStore{client: client, ttl: ttl}
}

func (s *StateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.client.Set(ctx, stateKeyPrefix+state, "1", s.ttl).Err(); err != nil {
		return "", fmt.Errorf("state issue: %w", err)
	}
	return state, nil
}

func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	if err := s.client.GetDel(ctx, stateKeyPrefix+state).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("state consume: %w", err)
	}
	return true, nil
}
