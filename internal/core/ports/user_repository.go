package ports

import (
	"context"

	"github.com/inventorio/inventory-api/internal/core/domain"
)

// UserRepository defines the interface for user persistence. Create must be
// backed by storage-level uniqueness on username and email: a concurrent
// duplicate insert surfaces as domain.ErrUserExists, never as a second user.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIdentifier matches the value against username or email.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}
