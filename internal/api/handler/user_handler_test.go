package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/bookshelf/library-system/internal/core/domain"
)

func TestUserHandler_MeUsesWireRole(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/v1/users/me", "")

	if err := NewUserHandler(&stubUserService{}).Me(c, member(userID)); err != nil {
		t.Fatalf("me: %v", err)
	}

	var body userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != userID || body.Role != "user" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestUserHandler_CreateDefaultsToMemberRole(t *testing.T) {
	var got domain.CreateUser
	svc := &stubUserService{createFn: func(_ context.Context, _ domain.AuthorizedUser, event domain.CreateUser) (*domain.User, error) {
		got = event
		return &domain.User{ID: userID, Name: event.Name, Email: event.Email, Role: event.Role}, nil
	}}
	c, rec := newContext(http.MethodPost, "/api/v1/users", `{"name":"Bob","email":"bob@example.com","password":"pw"}`)

	if err := NewUserHandler(svc).Create(c, member("admin")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Role != domain.RoleUser {
		t.Fatalf("expected RoleUser, got %q", got.Role)
	}
}

func TestUserHandler_ChangeRoleParsesWireName(t *testing.T) {
	var got domain.UpdateUserRole
	svc := &stubUserService{updateRoleFn: func(_ context.Context, _ domain.AuthorizedUser, event domain.UpdateUserRole) error {
		got = event
		return nil
	}}
	c, rec := newContext(http.MethodPut, "/", `{"role":"admin"}`, "user_id", userID)

	if err := NewUserHandler(svc).ChangeRole(c, member("admin")); err != nil {
		t.Fatalf("change role: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.UserID != userID || got.Role != domain.RoleAdmin {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestUserHandler_ChangeRoleRejectsUnknownRole(t *testing.T) {
	c, _ := newContext(http.MethodPut, "/", `{"role":"librarian"}`, "user_id", userID)

	err := NewUserHandler(&stubUserService{}).ChangeRole(c, member("admin"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserHandler_DeleteRejectsMalformedID(t *testing.T) {
	c, _ := newContext(http.MethodDelete, "/", "", "user_id", "not-a-uuid")

	err := NewUserHandler(&stubUserService{}).Delete(c, member("admin"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserHandler_ChangePasswordPassesBothPasswords(t *testing.T) {
	svc := &stubUserService{updatePasswordFn: func(_ context.Context, p domain.AuthorizedUser, event domain.UpdateUserPassword) error {
		if p.ID() != userID || event.CurrentPassword != "old" || event.NewPassword != "new" {
			t.Fatalf("unexpected call %s %+v", p.ID(), event)
		}
		return nil
	}}
	c, rec := newContext(http.MethodPut, "/", `{"currentPassword":"old","newPassword":"new"}`)

	if err := NewUserHandler(svc).ChangePassword(c, member(userID)); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
