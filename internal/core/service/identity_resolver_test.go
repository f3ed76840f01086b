package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bookshelf/library-system/internal/core/domain"
)

func newResolverFixture() (*IdentityResolver, *stubTokenStore, *stubUserRepo) {
	tokens := newStubTokenStore()
	users := newStubUserRepo()
	users.users["u1"] = &domain.User{ID: "u1", Name: "Ann", Email: "ann@example.com", Role: domain.RoleUser}
	tokens.bindings["abc123"] = "u1"
	return NewIdentityResolver(tokens, users), tokens, users
}

func TestIdentityResolver_Resolve_Success(t *testing.T) {
	resolver, _, _ := newResolverFixture()

	got, err := resolver.Resolve(context.Background(), "Bearer abc123")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.AccessToken != "abc123" {
		t.Fatalf("unexpected token: %q", got.AccessToken)
	}
	if got.ID() != "u1" || got.User.Name != "Ann" || got.User.Role != domain.RoleUser {
		t.Fatalf("unexpected principal: %+v", got)
	}
}

func TestIdentityResolver_Resolve_Unauthorized(t *testing.T) {
	resolver, _, users := newResolverFixture()

	cases := map[string]string{
		"missing":       "",
		"no scheme":     "abc123",
		"basic scheme":  "Basic abc123",
		"lowercase":     "bearer abc123",
		"non text":      "Bearer abc\x00123",
		"non ascii":     "Bearer àbc",
		"missing space": "Bearerabc123",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), header)
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
	if users.calls != 0 {
		t.Fatalf("user repository must not be consulted for malformed headers, got %d calls", users.calls)
	}
}

func TestIdentityResolver_Resolve_UnknownToken(t *testing.T) {
	resolver, _, users := newResolverFixture()

	_, err := resolver.Resolve(context.Background(), "Bearer unknown")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if users.calls != 0 {
		t.Fatalf("expected no user lookups, got %d", users.calls)
	}
}

func TestIdentityResolver_Resolve_DeletedUser(t *testing.T) {
	resolver, _, users := newResolverFixture()
	delete(users.users, "u1")

	_, err := resolver.Resolve(context.Background(), "Bearer abc123")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for a stale token, got %v", err)
	}
}

func TestIdentityResolver_Resolve_StoreFailure(t *testing.T) {
	resolver, tokens, _ := newResolverFixture()
	tokens.err = errStub

	_, err := resolver.Resolve(context.Background(), "Bearer abc123")
	if !errors.Is(err, errStub) {
		t.Fatalf("expected token store error to propagate, got %v", err)
	}
	if errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("infrastructure failure must not look like an auth failure: %v", err)
	}
}

func TestIdentityResolver_Resolve_UserRepoFailure(t *testing.T) {
	resolver, _, users := newResolverFixture()
	users.err = errStub

	if _, err := resolver.Resolve(context.Background(), "Bearer abc123"); !errors.Is(err, errStub) {
		t.Fatalf("expected repository error to propagate, got %v", err)
	}
}

func TestIdentityResolver_Resolve_RevokedToken(t *testing.T) {
	resolver, tokens, _ := newResolverFixture()
	if err := tokens.Revoke(context.Background(), "abc123"); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if _, err := resolver.Resolve(context.Background(), "Bearer abc123"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after revoke, got %v", err)
	}
}
