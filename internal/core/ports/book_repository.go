package ports

import (
	"context"

	"github.com/bookshelf/library-system/internal/core/domain"
)

// BookRepository defines persistence operations for books.
//
// Update and Delete are ownership-scoped: the ownership check and the write
// are one storage operation, and a missing book and a book owned by someone
// else both yield domain.ErrEntityNotFound.
type BookRepository interface {
	Create(ctx context.Context, event domain.CreateBook, ownerID string) (string, error)
	// FindAll returns a page ordered by descending creation time.
	FindAll(ctx context.Context, options domain.BookListOptions) (domain.PaginatedList[domain.Book], error)
	// FindByID returns (nil, nil) when the book does not exist.
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	Update(ctx context.Context, event domain.UpdateBook) error
	Delete(ctx context.Context, event domain.DeleteBook) error
}
