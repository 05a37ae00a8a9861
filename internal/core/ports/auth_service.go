package ports

import (
	"context"

	"github.com/inventorio/inventory-api/internal/core/domain"
)

type AuthService interface {
	Signup(ctx context.Context, username, email, password, role string) (*domain.User, error)
	// Login authenticates by username or email and establishes a session.
	// The returned token is the opaque value delivered to the client as a
	// cookie.
	Login(ctx context.Context, identifier, password string) (string, *domain.User, error)
	// Logout destroys the session for token. Unconditionally succeeds.
	Logout(ctx context.Context, token string) error
	// OAuthLoginOrCreate resolves a verified provider profile to a local
	// user (creating one on first sight of the email) and establishes a
	// session.
	OAuthLoginOrCreate(ctx context.Context, profile domain.ProviderProfile) (string, *domain.User, error)
}
