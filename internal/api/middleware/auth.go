package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/library-system/internal/api/metrics"
	"github.com/bookshelf/library-system/internal/core/domain"
	"github.com/bookshelf/library-system/internal/core/ports"
)

// UserIDKey is the context key the request logger reads the principal id
// from. Handlers receive the principal as an argument instead.
const UserIDKey = "user_id"

// AuthorizedHandler is a handler that runs only for resolved principals.
type AuthorizedHandler func(c echo.Context, principal domain.AuthorizedUser) error

// Authenticator turns an AuthorizedHandler into a plain echo handler.
type Authenticator func(next AuthorizedHandler) echo.HandlerFunc

// Auth resolves the Authorization header on every request and passes the
// principal to next. Resolution errors are returned untouched for the
// central error handler to map.
func Auth(resolver ports.IdentityResolver) Authenticator {
	return func(next AuthorizedHandler) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			start := time.Now()
			principal, err := resolver.Resolve(req.Context(), req.Header.Get(echo.HeaderAuthorization))
			metrics.IdentityResolutionDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return err
			}

			c.Set(UserIDKey, principal.ID())
			return next(c, principal)
		}
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	}
	return "error"
}
