package ports

import (
	"context"

	"github.com/bookshelf/library-system/internal/core/domain"
)

// TokenStore maps opaque access tokens to user ids. It is the single source
// of truth for a token's binding.
type TokenStore interface {
	// Lookup returns the bound user id. found is false when the token is
	// unknown, expired or revoked.
	Lookup(ctx context.Context, token domain.AccessToken) (userID string, found bool, err error)
	Bind(ctx context.Context, token domain.AccessToken, userID string) error
	Revoke(ctx context.Context, token domain.AccessToken) error
}
