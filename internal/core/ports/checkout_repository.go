package ports

import (
	"context"

	"github.com/bookshelf/library-system/internal/core/domain"
)

// CheckoutRepository owns the checkout lifecycle. A book has at most one
// Active checkout at any time.
type CheckoutRepository interface {
	// Create opens an Active checkout. It fails with domain.ErrEntityNotFound
	// when the book does not exist and domain.ErrConflict when the book is
	// already checked out.
	Create(ctx context.Context, event domain.CreateCheckout) (string, error)
	// UpdateReturned closes an Active checkout. Returning twice or using a
	// mismatched book/checkout pair yields domain.ErrEntityNotFound.
	UpdateReturned(ctx context.Context, event domain.UpdateReturned) error
	FindUnreturnedAll(ctx context.Context) ([]domain.CheckoutRecord, error)
	FindUnreturnedByUserID(ctx context.Context, userID string) ([]domain.CheckoutRecord, error)
	// FindHistoryByBookID includes Returned records.
	FindHistoryByBookID(ctx context.Context, bookID string) ([]domain.CheckoutRecord, error)
}
