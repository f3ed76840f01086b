package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/library-system/internal/core/domain"
)

func TestRequireRole_Allows(t *testing.T) {
	c, rec := newContext("")
	admin := domain.AuthorizedUser{User: domain.User{ID: "a1", Role: domain.RoleAdmin}}

	called := false
	handler := AdminOnly(func(c echo.Context, principal domain.AuthorizedUser) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c, admin); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	c, _ := newContext("")
	member := domain.AuthorizedUser{User: domain.User{ID: "u1", Role: domain.RoleUser}}

	handler := AdminOnly(func(echo.Context, domain.AuthorizedUser) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c, member); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireRole_MultipleRoles(t *testing.T) {
	c, _ := newContext("")
	member := domain.AuthorizedUser{User: domain.User{ID: "u1", Role: domain.RoleUser}}

	handler := RequireRole(domain.RoleAdmin, domain.RoleUser)(func(echo.Context, domain.AuthorizedUser) error {
		return nil
	})
	if err := handler(c, member); err != nil {
		t.Fatalf("expected member to pass, got %v", err)
	}
}
