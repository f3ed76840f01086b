package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/bookshelf/library-system/internal/core/domain"
)

const booksTable = "books"

type BookRepository struct {
	store *Store
}

func NewBookRepository(store *Store) *BookRepository {
	return &BookRepository{store: store}
}

type bookRow struct {
	ID           string         `db:"id"`
	Title        string         `db:"title"`
	Author       string         `db:"author"`
	ISBN         string         `db:"isbn"`
	Description  string         `db:"description"`
	OwnerID      string         `db:"owner_id"`
	OwnerName    string         `db:"owner_name"`
	CreatedAt    time.Time      `db:"created_at"`
	CheckoutID   sql.NullString `db:"checkout_id"`
	BorrowerID   sql.NullString `db:"borrower_id"`
	BorrowerName sql.NullString `db:"borrower_name"`
	CheckedOutAt sql.NullTime   `db:"checked_out_at"`
}

func (r bookRow) toDomain() domain.Book {
	book := domain.Book{
		ID:          r.ID,
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		Description: r.Description,
		Owner:       domain.BookOwner{ID: r.OwnerID, Name: r.OwnerName},
		CreatedAt:   r.CreatedAt.UTC(),
	}
	if r.CheckoutID.Valid {
		book.Checkout = &domain.Checkout{
			ID:           r.CheckoutID.String,
			CheckedOutBy: domain.CheckoutUser{ID: r.BorrowerID.String, Name: r.BorrowerName.String},
			CheckedOutAt: r.CheckedOutAt.Time.UTC(),
		}
	}
	return book
}

// selectBooks joins the owner and the active checkout, if any.
func (r *BookRepository) selectBooks() *goqu.SelectDataset {
	return r.store.from(goqu.T(booksTable).As("b")).
		Select(
			goqu.I("b.id").As("id"),
			goqu.I("b.title").As("title"),
			goqu.I("b.author").As("author"),
			goqu.I("b.isbn").As("isbn"),
			goqu.I("b.description").As("description"),
			goqu.I("b.owner_id").As("owner_id"),
			goqu.I("o.name").As("owner_name"),
			goqu.I("b.created_at").As("created_at"),
			goqu.I("c.id").As("checkout_id"),
			goqu.I("cu.id").As("borrower_id"),
			goqu.I("cu.name").As("borrower_name"),
			goqu.I("c.checked_out_at").As("checked_out_at"),
		).
		Join(goqu.T(usersTable).As("o"), goqu.On(goqu.I("o.id").Eq(goqu.I("b.owner_id")))).
		LeftJoin(goqu.T(checkoutsTable).As("c"), goqu.On(
			goqu.I("c.book_id").Eq(goqu.I("b.id")),
			goqu.I("c.returned_at").IsNull(),
		)).
		LeftJoin(goqu.T(usersTable).As("cu"), goqu.On(goqu.I("cu.id").Eq(goqu.I("c.user_id"))))
}

func (r *BookRepository) Create(ctx context.Context, event domain.CreateBook, ownerID string) (string, error) {
	id := uuid.NewString()
	now := r.store.now()

	ds := r.store.insert(booksTable).Rows(goqu.Record{
		"id":          id,
		"title":       event.Title,
		"author":      event.Author,
		"isbn":        event.ISBN,
		"description": event.Description,
		"owner_id":    ownerID,
		"created_at":  now,
		"updated_at":  now,
	})
	if _, err := exec(ctx, r.store.db, ds); err != nil {
		return "", storageErr("insert book", err)
	}
	return id, nil
}

// FindAll reads the total and the page inside one transaction so both come
// from the same snapshot.
func (r *BookRepository) FindAll(ctx context.Context, options domain.BookListOptions) (domain.PaginatedList[domain.Book], error) {
	list := domain.PaginatedList[domain.Book]{
		Limit:  options.Limit,
		Offset: options.Offset,
		Items:  []domain.Book{},
	}

	tx, err := r.store.readTx(ctx)
	if err != nil {
		return list, storageErr("begin list books", err)
	}
	defer func() { _ = tx.Rollback() }()

	countDS := r.store.from(booksTable).Select(goqu.COUNT(goqu.Star()))
	if err := get(ctx, tx, &list.Total, countDS); err != nil {
		return list, storageErr("count books", err)
	}

	// goqu treats LIMIT 0 as "no limit".
	if options.Limit > 0 && options.Offset < list.Total {
		var rows []bookRow
		pageDS := r.selectBooks().
			Order(goqu.I("b.created_at").Desc(), goqu.I("b.id").Desc()).
			Limit(uint(options.Limit)).
			Offset(uint(options.Offset))
		if err := selectAll(ctx, tx, &rows, pageDS); err != nil {
			return list, storageErr("list books", err)
		}
		for _, row := range rows {
			list.Items = append(list.Items, row.toDomain())
		}
	}

	if err := tx.Commit(); err != nil {
		return list, storageErr("commit list books", err)
	}
	return list, nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}

	var row bookRow
	if err := get(ctx, r.store.db, &row, r.selectBooks().Where(goqu.I("b.id").Eq(id))); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("find book", err)
	}
	book := row.toDomain()
	return &book, nil
}

// Update changes the book only if RequestedBy owns it. A missing book and a
// foreign book both affect zero rows and are reported the same way.
func (r *BookRepository) Update(ctx context.Context, event domain.UpdateBook) error {
	if uuid.Validate(event.ID) != nil {
		return domain.ErrEntityNotFound
	}

	ds := r.store.update(booksTable).
		Set(goqu.Record{
			"title":       event.Title,
			"author":      event.Author,
			"isbn":        event.ISBN,
			"description": event.Description,
			"updated_at":  r.store.now(),
		}).
		Where(goqu.Ex{"id": event.ID, "owner_id": event.RequestedBy})

	n, err := exec(ctx, r.store.db, ds)
	if err != nil {
		return storageErr("update book", err)
	}
	if n == 0 {
		return domain.ErrEntityNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, event domain.DeleteBook) error {
	if uuid.Validate(event.ID) != nil {
		return domain.ErrEntityNotFound
	}

	ds := r.store.delete(booksTable).Where(goqu.Ex{"id": event.ID, "owner_id": event.RequestedBy})
	n, err := exec(ctx, r.store.db, ds)
	if err != nil {
		return storageErr("delete book", err)
	}
	if n == 0 {
		return domain.ErrEntityNotFound
	}
	return nil
}
