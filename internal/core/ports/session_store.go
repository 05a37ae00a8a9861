package ports

import (
	"context"

	"github.com/inventorio/inventory-api/internal/core/domain"
)

// SessionStore maps opaque, unguessable tokens to authenticated-identity
// attributes. Tokens expire at the store level; Read on an expired or
// destroyed token returns domain.ErrSessionNotFound.
type SessionStore interface {
	Create(ctx context.Context, attrs domain.SessionAttrs) (string, error)
	Read(ctx context.Context, token string) (*domain.SessionAttrs, error)
	Update(ctx context.Context, token string, attrs domain.SessionAttrs) error
	Destroy(ctx context.Context, token string) error
}

// StateStore issues and checks single-use anti-forgery nonces for the
// authorization-code flow. Consume reports whether state was issued by us
// and removes it, so a replayed callback never matches twice.
type StateStore interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, state string) (bool, error)
}
