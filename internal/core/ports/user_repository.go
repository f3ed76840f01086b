package ports

import (
	"context"

	"github.com/bookshelf/library-system/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// FindByID returns (nil, nil) when no user has the given id.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail returns (nil, nil) when no user has the given email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	// Create stores a user whose password is already hashed. A duplicate
	// email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
	UpdateRole(ctx context.Context, event domain.UpdateUserRole) error
	// Delete removes the user, their books and every related checkout.
	Delete(ctx context.Context, event domain.DeleteUser) error
}
