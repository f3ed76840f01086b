package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/bookshelf/library-system/internal/core/domain"
)

const checkoutsTable = "checkouts"

type CheckoutRepository struct {
	store *Store
}

func NewCheckoutRepository(store *Store) *CheckoutRepository {
	return &CheckoutRepository{store: store}
}

type checkoutRow struct {
	ID           string         `db:"id"`
	BookID       string         `db:"book_id"`
	Title        string         `db:"title"`
	Author       string         `db:"author"`
	ISBN         string         `db:"isbn"`
	UserID       string         `db:"user_id"`
	UserName     string         `db:"user_name"`
	CheckedOutAt time.Time      `db:"checked_out_at"`
	ReturnedAt   sql.NullTime   `db:"returned_at"`
	ReturnedBy   sql.NullString `db:"returned_by"`
}

func (r checkoutRow) toDomain() domain.CheckoutRecord {
	rec := domain.CheckoutRecord{
		ID:           r.ID,
		Book:         domain.CheckoutBook{ID: r.BookID, Title: r.Title, Author: r.Author, ISBN: r.ISBN},
		CheckedOutBy: domain.CheckoutUser{ID: r.UserID, Name: r.UserName},
		CheckedOutAt: r.CheckedOutAt.UTC(),
		ReturnedBy:   r.ReturnedBy.String,
	}
	if r.ReturnedAt.Valid {
		at := r.ReturnedAt.Time.UTC()
		rec.ReturnedAt = &at
	}
	return rec
}

// Create inserts the checkout through INSERT ... SELECT over the book row, so
// a missing book inserts nothing. The partial unique index on active
// checkouts rejects a second active checkout of the same book.
func (r *CheckoutRepository) Create(ctx context.Context, event domain.CreateCheckout) (string, error) {
	if uuid.Validate(event.BookID) != nil {
		return "", domain.ErrEntityNotFound
	}

	id := uuid.NewString()
	source := r.store.from(booksTable).
		Select(
			r.store.typed(id, "UUID"),
			goqu.C("id"),
			r.store.typed(event.UserID, "UUID"),
			r.store.typed(event.CheckedOutAt.UTC(), "TIMESTAMPTZ"),
		).
		Where(goqu.C("id").Eq(event.BookID))

	ds := r.store.insert(checkoutsTable).
		Cols("id", "book_id", "user_id", "checked_out_at").
		FromQuery(source)

	n, err := exec(ctx, r.store.db, ds)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.ErrConflict
		}
		return "", storageErr("insert checkout", err)
	}
	if n == 0 {
		return "", domain.ErrEntityNotFound
	}
	return id, nil
}

// UpdateReturned closes the checkout only while it is still active and
// belongs to the given book.
func (r *CheckoutRepository) UpdateReturned(ctx context.Context, event domain.UpdateReturned) error {
	if uuid.Validate(event.CheckoutID) != nil || uuid.Validate(event.BookID) != nil {
		return domain.ErrEntityNotFound
	}

	where := []exp.Expression{
		goqu.C("id").Eq(event.CheckoutID),
		goqu.C("book_id").Eq(event.BookID),
		goqu.C("returned_at").IsNull(),
	}
	if event.RestrictToBorrower {
		where = append(where, goqu.C("user_id").Eq(event.ReturnedBy))
	}

	ds := r.store.update(checkoutsTable).
		Set(goqu.Record{
			"returned_at": event.ReturnedAt.UTC(),
			"returned_by": event.ReturnedBy,
		}).
		Where(where...)

	n, err := exec(ctx, r.store.db, ds)
	if err != nil {
		return storageErr("update checkout", err)
	}
	if n == 0 {
		return domain.ErrEntityNotFound
	}
	return nil
}

func (r *CheckoutRepository) FindUnreturnedAll(ctx context.Context) ([]domain.CheckoutRecord, error) {
	return r.find(ctx, "list active checkouts",
		r.selectCheckouts().
			Where(goqu.I("c.returned_at").IsNull()).
			Order(goqu.I("c.checked_out_at").Desc(), goqu.I("c.id").Desc()))
}

func (r *CheckoutRepository) FindUnreturnedByUserID(ctx context.Context, userID string) ([]domain.CheckoutRecord, error) {
	if uuid.Validate(userID) != nil {
		return []domain.CheckoutRecord{}, nil
	}
	return r.find(ctx, "list user checkouts",
		r.selectCheckouts().
			Where(goqu.I("c.returned_at").IsNull(), goqu.I("c.user_id").Eq(userID)).
			Order(goqu.I("c.checked_out_at").Desc(), goqu.I("c.id").Desc()))
}

// FindHistoryByBookID lists active and returned checkouts, oldest first.
func (r *CheckoutRepository) FindHistoryByBookID(ctx context.Context, bookID string) ([]domain.CheckoutRecord, error) {
	if uuid.Validate(bookID) != nil {
		return []domain.CheckoutRecord{}, nil
	}
	return r.find(ctx, "list checkout history",
		r.selectCheckouts().
			Where(goqu.I("c.book_id").Eq(bookID)).
			Order(goqu.I("c.checked_out_at").Asc(), goqu.I("c.id").Asc()))
}

func (r *CheckoutRepository) selectCheckouts() *goqu.SelectDataset {
	return r.store.from(goqu.T(checkoutsTable).As("c")).
		Select(
			goqu.I("c.id").As("id"),
			goqu.I("b.id").As("book_id"),
			goqu.I("b.title").As("title"),
			goqu.I("b.author").As("author"),
			goqu.I("b.isbn").As("isbn"),
			goqu.I("u.id").As("user_id"),
			goqu.I("u.name").As("user_name"),
			goqu.I("c.checked_out_at").As("checked_out_at"),
			goqu.I("c.returned_at").As("returned_at"),
			goqu.I("c.returned_by").As("returned_by"),
		).
		Join(goqu.T(booksTable).As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("c.book_id")))).
		Join(goqu.T(usersTable).As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("c.user_id"))))
}

func (r *CheckoutRepository) find(ctx context.Context, op string, ds *goqu.SelectDataset) ([]domain.CheckoutRecord, error) {
	var rows []checkoutRow
	if err := selectAll(ctx, r.store.db, &rows, ds); err != nil {
		return nil, storageErr(op, err)
	}

	out := make([]domain.CheckoutRecord, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
