package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/bookshelf/library-system/internal/core/domain"
)

func TestUserService_AdminOperations_Forbidden(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["target"] = &domain.User{ID: "target", Email: "t@example.com", Role: domain.RoleUser}
	svc := NewUserService(repo, nopLogger())
	member := principal("member", domain.RoleUser)
	ctx := context.Background()

	if _, err := svc.Create(ctx, member, domain.CreateUser{Name: "x", Email: "x@example.com", Password: "pw"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Create: expected ErrForbidden, got %v", err)
	}
	if err := svc.UpdateRole(ctx, member, domain.UpdateUserRole{UserID: "target", Role: domain.RoleAdmin}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("UpdateRole: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, member, domain.DeleteUser{UserID: "target"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Delete: expected ErrForbidden, got %v", err)
	}

	if repo.calls != 0 {
		t.Fatalf("gate must reject before storage is touched, got %d repository calls", repo.calls)
	}
	if repo.users["target"].Role != domain.RoleUser {
		t.Fatalf("target user was modified")
	}
}

func TestUserService_Create(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, nopLogger())
	admin := principal("admin", domain.RoleAdmin)

	user, err := svc.Create(context.Background(), admin, domain.CreateUser{
		Name:     "  Bob ",
		Email:    "bob@example.com",
		Password: "pass123",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if user.Name != "Bob" {
		t.Fatalf("expected trimmed name, got %q", user.Name)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role User, got %s", user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.CreatedAt.IsZero() {
		t.Fatalf("expected creation timestamp")
	}
}

func TestUserService_Create_Validation(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), nopLogger())
	admin := principal("admin", domain.RoleAdmin)

	cases := []domain.CreateUser{
		{Email: "a@example.com", Password: "pw"},
		{Name: "a", Password: "pw"},
		{Name: "a", Email: "a@example.com"},
		{Name: "a", Email: "a@example.com", Password: "pw", Role: "Librarian"},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), admin, tc); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("Create(%+v): expected ErrValidation, got %v", tc, err)
		}
	}
}

func TestUserService_Create_Duplicate(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), nopLogger())
	admin := principal("admin", domain.RoleAdmin)
	in := domain.CreateUser{Name: "Bob", Email: "bob@example.com", Password: "pw"}

	if _, err := svc.Create(context.Background(), admin, in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), admin, in); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Bootstrap_SkipsGate(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), nopLogger())

	user, err := svc.Bootstrap(context.Background(), domain.CreateUser{
		Name: "root", Email: "root@example.com", Password: "pw", Role: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", user.Role)
	}
}

func TestUserService_UpdatePassword(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "u1", "u1@example.com", "old", domain.RoleUser)
	svc := NewUserService(repo, nopLogger())
	self := principal("u1", domain.RoleUser)

	if err := svc.UpdatePassword(context.Background(), self, domain.UpdateUserPassword{CurrentPassword: "wrong", NewPassword: "new"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.UpdatePassword(context.Background(), self, domain.UpdateUserPassword{CurrentPassword: "old", NewPassword: ""}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := svc.UpdatePassword(context.Background(), self, domain.UpdateUserPassword{CurrentPassword: "old", NewPassword: "new"}); err != nil {
		t.Fatalf("UpdatePassword returned error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.users["u1"].PasswordHash), []byte("new")); err != nil {
		t.Fatalf("password was not changed: %v", err)
	}
}

func TestUserService_UpdatePassword_DeletedUser(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), nopLogger())

	err := svc.UpdatePassword(context.Background(), principal("ghost", domain.RoleUser), domain.UpdateUserPassword{CurrentPassword: "a", NewPassword: "b"})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestUserService_UpdateRole(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["u1"] = &domain.User{ID: "u1", Role: domain.RoleUser}
	svc := NewUserService(repo, nopLogger())
	admin := principal("admin", domain.RoleAdmin)

	if err := svc.UpdateRole(context.Background(), admin, domain.UpdateUserRole{UserID: "u1", Role: "root"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := svc.UpdateRole(context.Background(), admin, domain.UpdateUserRole{UserID: "u1", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("UpdateRole returned error: %v", err)
	}
	if repo.users["u1"].Role != domain.RoleAdmin {
		t.Fatalf("role not updated")
	}
	if err := svc.UpdateRole(context.Background(), admin, domain.UpdateUserRole{UserID: "missing", Role: domain.RoleAdmin}); !errors.Is(err, domain.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["u1"] = &domain.User{ID: "u1", Role: domain.RoleUser}
	svc := NewUserService(repo, nopLogger())

	if err := svc.Delete(context.Background(), principal("admin", domain.RoleAdmin), domain.DeleteUser{UserID: "u1"}); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := repo.users["u1"]; ok {
		t.Fatalf("user still present")
	}
}
