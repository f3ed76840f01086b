package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookshelf/library-system/internal/core/domain"
	"github.com/bookshelf/library-system/internal/core/ports"
)

const (
	DefaultListLimit int64 = 20
	MaxListLimit     int64 = 100
)

// BookService implements book registration and owner-only maintenance.
type BookService struct {
	repo ports.BookRepository
	log  zerolog.Logger
}

func NewBookService(repo ports.BookRepository, log zerolog.Logger) *BookService {
	return &BookService{repo: repo, log: log}
}

// Register stores a new book owned by the principal.
func (s *BookService) Register(ctx context.Context, principal domain.AuthorizedUser, event domain.CreateBook) (string, error) {
	id, err := s.repo.Create(ctx, event, principal.ID())
	if err != nil {
		s.log.Error().Err(err).Str("owner_id", principal.ID()).Msg("failed to register book")
		return "", err
	}

	s.log.Info().Str("book_id", id).Str("owner_id", principal.ID()).Msg("book registered")
	return id, nil
}

// List returns a page of books, newest first.
func (s *BookService) List(ctx context.Context, options domain.BookListOptions) (domain.PaginatedList[domain.Book], error) {
	if options.Limit < 0 || options.Limit > MaxListLimit {
		return domain.PaginatedList[domain.Book]{}, fmt.Errorf("%w: limit must be between 0 and %d", domain.ErrValidation, MaxListLimit)
	}
	if options.Offset < 0 {
		return domain.PaginatedList[domain.Book]{}, fmt.Errorf("%w: offset must not be negative", domain.ErrValidation)
	}
	return s.repo.FindAll(ctx, options)
}

func (s *BookService) Get(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, domain.ErrEntityNotFound
	}
	return book, nil
}

// Update applies the change only when the principal owns the book. The
// repository performs the ownership check as part of the write.
func (s *BookService) Update(ctx context.Context, principal domain.AuthorizedUser, event domain.UpdateBook) error {
	event.RequestedBy = principal.ID()
	if err := s.repo.Update(ctx, event); err != nil {
		return err
	}

	s.log.Info().Str("book_id", event.ID).Str("owner_id", principal.ID()).Msg("book updated")
	return nil
}

// Delete removes the book only when the principal owns it.
func (s *BookService) Delete(ctx context.Context, principal domain.AuthorizedUser, id string) error {
	if err := s.repo.Delete(ctx, domain.DeleteBook{ID: id, RequestedBy: principal.ID()}); err != nil {
		return err
	}

	s.log.Info().Str("book_id", id).Str("owner_id", principal.ID()).Msg("book deleted")
	return nil
}
