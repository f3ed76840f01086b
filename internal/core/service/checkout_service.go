package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookshelf/library-system/internal/core/domain"
	"github.com/bookshelf/library-system/internal/core/ports"
)

// CheckoutService drives the Available → CheckedOut → Available cycle.
type CheckoutService struct {
	repo ports.CheckoutRepository
	log  zerolog.Logger
	now  func() time.Time

	// returnRequiresBorrower restricts returns to the user who checked the
	// book out.
	returnRequiresBorrower bool
}

// CheckoutOption configures a CheckoutService.
type CheckoutOption func(*CheckoutService)

// WithReturnRequiresBorrower makes Return fail with domain.ErrEntityNotFound
// unless the principal is the borrower.
func WithReturnRequiresBorrower(enabled bool) CheckoutOption {
	return func(s *CheckoutService) { s.returnRequiresBorrower = enabled }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) CheckoutOption {
	return func(s *CheckoutService) { s.now = now }
}

func NewCheckoutService(repo ports.CheckoutRepository, log zerolog.Logger, opts ...CheckoutOption) *CheckoutService {
	s := &CheckoutService{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout opens an Active checkout of bookID for the principal.
func (s *CheckoutService) Checkout(ctx context.Context, principal domain.AuthorizedUser, bookID string) (string, error) {
	id, err := s.repo.Create(ctx, domain.CreateCheckout{
		BookID:       bookID,
		UserID:       principal.ID(),
		CheckedOutAt: s.now(),
	})
	if err != nil {
		return "", err
	}

	s.log.Info().Str("checkout_id", id).Str("book_id", bookID).Str("user_id", principal.ID()).Msg("book checked out")
	return id, nil
}

// Return closes the Active checkout checkoutID of bookID.
func (s *CheckoutService) Return(ctx context.Context, principal domain.AuthorizedUser, bookID, checkoutID string) error {
	err := s.repo.UpdateReturned(ctx, domain.UpdateReturned{
		CheckoutID:         checkoutID,
		BookID:             bookID,
		ReturnedBy:         principal.ID(),
		ReturnedAt:         s.now(),
		RestrictToBorrower: s.returnRequiresBorrower,
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("checkout_id", checkoutID).Str("book_id", bookID).Str("user_id", principal.ID()).Msg("book returned")
	return nil
}

func (s *CheckoutService) ListUnreturned(ctx context.Context) ([]domain.CheckoutRecord, error) {
	return s.repo.FindUnreturnedAll(ctx)
}

// ListByUser lists the principal's own Active checkouts.
func (s *CheckoutService) ListByUser(ctx context.Context, principal domain.AuthorizedUser) ([]domain.CheckoutRecord, error) {
	return s.repo.FindUnreturnedByUserID(ctx, principal.ID())
}

func (s *CheckoutService) History(ctx context.Context, bookID string) ([]domain.CheckoutRecord, error) {
	return s.repo.FindHistoryByBookID(ctx, bookID)
}
