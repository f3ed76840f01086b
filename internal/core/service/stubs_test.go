package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookshelf/library-system/internal/core/domain"
)

var errStub = errors.New("stub failure")

func nopLogger() zerolog.Logger { return zerolog.Nop() }

func principal(id string, role domain.Role) domain.AuthorizedUser {
	return domain.AuthorizedUser{
		AccessToken: domain.AccessToken("token-" + id),
		User:        domain.User{ID: id, Name: id, Email: id + "@example.com", Role: role},
	}
}

type stubUserRepo struct {
	users map[string]*domain.User
	calls int
	err   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return cloneUser(r.users[id]), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	r.calls++
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, r.err
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.calls++
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	stored := cloneUser(user)
	if stored.ID == "" {
		stored.ID = "user-" + strconv.Itoa(len(r.users)+1)
	}
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	r.calls++
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrEntityNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, event domain.UpdateUserRole) error {
	r.calls++
	u, ok := r.users[event.UserID]
	if !ok {
		return domain.ErrEntityNotFound
	}
	u.Role = event.Role
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, event domain.DeleteUser) error {
	r.calls++
	if _, ok := r.users[event.UserID]; !ok {
		return domain.ErrEntityNotFound
	}
	delete(r.users, event.UserID)
	return nil
}

type stubTokenStore struct {
	bindings map[domain.AccessToken]string
	err      error
}

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{bindings: make(map[domain.AccessToken]string)}
}

func (s *stubTokenStore) Lookup(_ context.Context, token domain.AccessToken) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	id, ok := s.bindings[token]
	return id, ok, nil
}

func (s *stubTokenStore) Bind(_ context.Context, token domain.AccessToken, userID string) error {
	if s.err != nil {
		return s.err
	}
	s.bindings[token] = userID
	return nil
}

func (s *stubTokenStore) Revoke(_ context.Context, token domain.AccessToken) error {
	if s.err != nil {
		return s.err
	}
	delete(s.bindings, token)
	return nil
}

// stubBookRepo mirrors the ownership-scoped contract of the real stores.
type stubBookRepo struct {
	books   map[string]*domain.Book
	lastOpt domain.BookListOptions
	seq     int
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{books: make(map[string]*domain.Book)}
}

func (r *stubBookRepo) Create(_ context.Context, event domain.CreateBook, ownerID string) (string, error) {
	r.seq++
	id := "book-" + strconv.Itoa(r.seq)
	r.books[id] = &domain.Book{
		ID:          id,
		Title:       event.Title,
		Author:      event.Author,
		ISBN:        event.ISBN,
		Description: event.Description,
		Owner:       domain.BookOwner{ID: ownerID, Name: ownerID},
		CreatedAt:   time.Unix(int64(r.seq), 0),
	}
	return id, nil
}

func (r *stubBookRepo) FindAll(_ context.Context, options domain.BookListOptions) (domain.PaginatedList[domain.Book], error) {
	r.lastOpt = options
	all := make([]domain.Book, 0, len(r.books))
	for _, b := range r.books {
		all = append(all, *b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := min(options.Offset, int64(len(all)))
	end := min(start+options.Limit, int64(len(all)))
	return domain.PaginatedList[domain.Book]{
		Total:  int64(len(all)),
		Limit:  options.Limit,
		Offset: options.Offset,
		Items:  all[start:end],
	}, nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (r *stubBookRepo) Update(_ context.Context, event domain.UpdateBook) error {
	b, ok := r.books[event.ID]
	if !ok || b.Owner.ID != event.RequestedBy {
		return domain.ErrEntityNotFound
	}
	b.Title, b.Author, b.ISBN, b.Description = event.Title, event.Author, event.ISBN, event.Description
	return nil
}

func (r *stubBookRepo) Delete(_ context.Context, event domain.DeleteBook) error {
	b, ok := r.books[event.ID]
	if !ok || b.Owner.ID != event.RequestedBy {
		return domain.ErrEntityNotFound
	}
	delete(r.books, event.ID)
	return nil
}

type stubCheckoutRepo struct {
	records []domain.CheckoutRecord
	books   map[string]bool
	lastRet domain.UpdateReturned
}

func newStubCheckoutRepo(bookIDs ...string) *stubCheckoutRepo {
	books := make(map[string]bool, len(bookIDs))
	for _, id := range bookIDs {
		books[id] = true
	}
	return &stubCheckoutRepo{books: books}
}

func (r *stubCheckoutRepo) Create(_ context.Context, event domain.CreateCheckout) (string, error) {
	if !r.books[event.BookID] {
		return "", domain.ErrEntityNotFound
	}
	for _, rec := range r.records {
		if rec.Book.ID == event.BookID && !rec.Returned() {
			return "", domain.ErrConflict
		}
	}
	id := "checkout-" + strconv.Itoa(len(r.records)+1)
	r.records = append(r.records, domain.CheckoutRecord{
		ID:           id,
		Book:         domain.CheckoutBook{ID: event.BookID},
		CheckedOutBy: domain.CheckoutUser{ID: event.UserID},
		CheckedOutAt: event.CheckedOutAt,
	})
	return id, nil
}

func (r *stubCheckoutRepo) UpdateReturned(_ context.Context, event domain.UpdateReturned) error {
	r.lastRet = event
	for i := range r.records {
		rec := &r.records[i]
		if rec.ID != event.CheckoutID || rec.Book.ID != event.BookID || rec.Returned() {
			continue
		}
		if event.RestrictToBorrower && rec.CheckedOutBy.ID != event.ReturnedBy {
			continue
		}
		at := event.ReturnedAt
		rec.ReturnedAt = &at
		rec.ReturnedBy = event.ReturnedBy
		return nil
	}
	return domain.ErrEntityNotFound
}

func (r *stubCheckoutRepo) FindUnreturnedAll(_ context.Context) ([]domain.CheckoutRecord, error) {
	var out []domain.CheckoutRecord
	for _, rec := range r.records {
		if !rec.Returned() {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *stubCheckoutRepo) FindUnreturnedByUserID(_ context.Context, userID string) ([]domain.CheckoutRecord, error) {
	var out []domain.CheckoutRecord
	for _, rec := range r.records {
		if !rec.Returned() && rec.CheckedOutBy.ID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *stubCheckoutRepo) FindHistoryByBookID(_ context.Context, bookID string) ([]domain.CheckoutRecord, error) {
	var out []domain.CheckoutRecord
	for _, rec := range r.records {
		if rec.Book.ID == bookID {
			out = append(out, rec)
		}
	}
	return out, nil
}
