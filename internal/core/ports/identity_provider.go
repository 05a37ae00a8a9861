package ports

import (
	"context"

	"github.com/inventorio/inventory-api/internal/core/domain"
)

// IdentityProvider executes the external authorization-code flow.
type IdentityProvider interface {
	// AuthCodeURL builds the provider authorization URL carrying state.
	AuthCodeURL(state string) string
	// Exchange trades the callback code for an access token, fetches the
	// provider profile, and normalizes it. Any transport or non-2xx failure
	// wraps domain.ErrOAuthExchange.
	Exchange(ctx context.Context, code string) (*domain.ProviderProfile, error)
}
