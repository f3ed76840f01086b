package ports

import (
	"context"

	"github.com/bookshelf/library-system/internal/core/domain"
)

// IdentityResolver turns the raw Authorization header value of a request
// into its principal.
type IdentityResolver interface {
	Resolve(ctx context.Context, authorization string) (domain.AuthorizedUser, error)
}

// AuthService issues and revokes access tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (domain.AccessToken, *domain.User, error)
	Logout(ctx context.Context, principal domain.AuthorizedUser) error
}

// UserService defines use-case operations for users. Admin-only operations
// take the principal and enforce the authorization gate themselves.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, principal domain.AuthorizedUser, event domain.CreateUser) (*domain.User, error)
	UpdatePassword(ctx context.Context, principal domain.AuthorizedUser, event domain.UpdateUserPassword) error
	UpdateRole(ctx context.Context, principal domain.AuthorizedUser, event domain.UpdateUserRole) error
	Delete(ctx context.Context, principal domain.AuthorizedUser, event domain.DeleteUser) error
}

// BookService defines use-case operations for books.
type BookService interface {
	Register(ctx context.Context, principal domain.AuthorizedUser, event domain.CreateBook) (string, error)
	List(ctx context.Context, options domain.BookListOptions) (domain.PaginatedList[domain.Book], error)
	// Get returns domain.ErrEntityNotFound when the book does not exist.
	Get(ctx context.Context, id string) (*domain.Book, error)
	Update(ctx context.Context, principal domain.AuthorizedUser, event domain.UpdateBook) error
	Delete(ctx context.Context, principal domain.AuthorizedUser, id string) error
}

// CheckoutService defines use-case operations for the checkout lifecycle.
type CheckoutService interface {
	Checkout(ctx context.Context, principal domain.AuthorizedUser, bookID string) (string, error)
	Return(ctx context.Context, principal domain.AuthorizedUser, bookID, checkoutID string) error
	ListUnreturned(ctx context.Context) ([]domain.CheckoutRecord, error)
	ListByUser(ctx context.Context, principal domain.AuthorizedUser) ([]domain.CheckoutRecord, error)
	History(ctx context.Context, bookID string) ([]domain.CheckoutRecord, error)
}
