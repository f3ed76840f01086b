package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookshelf/library-system/internal/core/domain"
	"github.com/bookshelf/library-system/internal/core/ports"
)

const bearerPrefix = "Bearer "

// IdentityResolver resolves bearer credentials into principals. It performs
// two lookups on every call (token → user id, user id → user) and keeps no
// cache of its own.
type IdentityResolver struct {
	tokens ports.TokenStore
	users  ports.UserRepository
}

func NewIdentityResolver(tokens ports.TokenStore, users ports.UserRepository) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, users: users}
}

// Resolve maps the raw Authorization header value to its principal.
//
//   - missing, non-text or non-Bearer values fail with domain.ErrUnauthorized;
//   - unknown tokens and tokens bound to deleted users fail with
//     domain.ErrUnauthenticated.
func (r *IdentityResolver) Resolve(ctx context.Context, authorization string) (domain.AuthorizedUser, error) {
	if authorization == "" || !isHeaderText(authorization) {
		return domain.AuthorizedUser{}, domain.ErrUnauthorized
	}

	raw, ok := strings.CutPrefix(authorization, bearerPrefix)
	if !ok {
		return domain.AuthorizedUser{}, domain.ErrUnauthorized
	}
	token := domain.AccessToken(raw)

	userID, found, err := r.tokens.Lookup(ctx, token)
	if err != nil {
		return domain.AuthorizedUser{}, fmt.Errorf("resolve identity: %w", err)
	}
	if !found {
		return domain.AuthorizedUser{}, domain.ErrUnauthenticated
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return domain.AuthorizedUser{}, fmt.Errorf("resolve identity: %w", err)
	}
	if user == nil {
		// The token outlived its user.
		return domain.AuthorizedUser{}, domain.ErrUnauthenticated
	}

	return domain.AuthorizedUser{AccessToken: token, User: *user}, nil
}

// isHeaderText accepts visible ASCII plus space and tab, the same set an
// HTTP header value may carry as text.
func isHeaderText(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\t' {
			continue
		}
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
