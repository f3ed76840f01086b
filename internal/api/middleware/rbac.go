package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bookshelf/library-system/internal/api/metrics"
	"github.com/bookshelf/library-system/internal/core/domain"
)

// RequireRole enforces role-based access control on an AuthorizedHandler.
// It runs before the request body is read.
func RequireRole(allowedRoles ...domain.Role) func(AuthorizedHandler) AuthorizedHandler {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next AuthorizedHandler) AuthorizedHandler {
		return func(c echo.Context, principal domain.AuthorizedUser) error {
			if _, ok := allowed[principal.User.Role]; !ok {
				metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
				return domain.ErrForbidden
			}
			return next(c, principal)
		}
	}
}

// AdminOnly is RequireRole(domain.RoleAdmin).
func AdminOnly(next AuthorizedHandler) AuthorizedHandler {
	return RequireRole(domain.RoleAdmin)(next)
}
