package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookshelf/library-system/internal/core/domain"
)

type BookRepository struct {
	users     *mongo.Collection
	books     *mongo.Collection
	checkouts *mongo.Collection
	now       func() time.Time
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{
		users:     db.Collection(collectionUsers),
		books:     db.Collection(collectionBooks),
		checkouts: db.Collection(collectionCheckouts),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// mongoBook keeps a snapshot of the owner's name; names never change after
// registration.
type mongoBook struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Author      string    `bson:"author"`
	ISBN        string    `bson:"isbn"`
	Description string    `bson:"description"`
	OwnerID     string    `bson:"owner_id"`
	OwnerName   string    `bson:"owner_name"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// mongoBookView is a book with its active checkout looked up. The codec
// only inlines exported fields, hence the named Doc field.
type mongoBookView struct {
	Doc    mongoBook       `bson:",inline"`
	Active []mongoCheckout `bson:"active_checkout"`
}

func (v mongoBookView) toDomain() domain.Book {
	book := domain.Book{
		ID:          v.Doc.ID,
		Title:       v.Doc.Title,
		Author:      v.Doc.Author,
		ISBN:        v.Doc.ISBN,
		Description: v.Doc.Description,
		Owner:       domain.BookOwner{ID: v.Doc.OwnerID, Name: v.Doc.OwnerName},
		CreatedAt:   v.Doc.CreatedAt.UTC(),
	}
	if len(v.Active) > 0 {
		c := v.Active[0]
		book.Checkout = &domain.Checkout{
			ID:           c.ID,
			CheckedOutBy: domain.CheckoutUser{ID: c.UserID, Name: c.UserName},
			CheckedOutAt: c.CheckedOutAt.UTC(),
		}
	}
	return book
}

var lookupActiveCheckout = bson.D{{Key: "$lookup", Value: bson.D{
	{Key: "from", Value: collectionCheckouts},
	{Key: "let", Value: bson.D{{Key: "bookId", Value: "$_id"}}},
	{Key: "pipeline", Value: bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$book_id", "$$bookId"}}},
			bson.D{{Key: "$eq", Value: bson.A{"$active", true}}},
		}}}}}}},
		bson.D{{Key: "$limit", Value: 1}},
	}},
	{Key: "as", Value: "active_checkout"},
}}}

var sortNewestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// ownedBookFilter matches a book only for its owner.
func ownedBookFilter(id, ownerID string) bson.M {
	return bson.M{"_id": id, "owner_id": ownerID}
}

// bookPagePipeline counts every book and selects one page in a single
// $facet stage. options.Limit must be positive.
func bookPagePipeline(options domain.BookListOptions) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$facet", Value: bson.D{
			{Key: "total", Value: bson.A{bson.D{{Key: "$count", Value: "n"}}}},
			{Key: "items", Value: bson.A{
				bson.D{{Key: "$sort", Value: sortNewestFirst}},
				bson.D{{Key: "$skip", Value: options.Offset}},
				bson.D{{Key: "$limit", Value: options.Limit}},
				lookupActiveCheckout,
			}},
		}}},
	}
}

// bookPage is the single document bookPagePipeline produces. $count emits
// nothing on an empty collection.
type bookPage struct {
	Total []struct {
		N int64 `bson:"n"`
	} `bson:"total"`
	Items []mongoBookView `bson:"items"`
}

func (p bookPage) fill(list *domain.PaginatedList[domain.Book]) {
	if len(p.Total) > 0 {
		list.Total = p.Total[0].N
	}
	for _, v := range p.Items {
		list.Items = append(list.Items, v.toDomain())
	}
}

func (r *BookRepository) Create(ctx context.Context, event domain.CreateBook, ownerID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var owner mongoUser
	if err := r.users.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&owner); err != nil {
		return "", storageErr("find book owner", err)
	}

	now := r.now()
	doc := mongoBook{
		ID:          uuid.NewString(),
		Title:       event.Title,
		Author:      event.Author,
		ISBN:        event.ISBN,
		Description: event.Description,
		OwnerID:     owner.ID,
		OwnerName:   owner.Name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.books.InsertOne(ctx, doc); err != nil {
		return "", storageErr("insert book", err)
	}
	return doc.ID, nil
}

// FindAll computes the total and the page in a single $facet aggregation.
func (r *BookRepository) FindAll(ctx context.Context, options domain.BookListOptions) (domain.PaginatedList[domain.Book], error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	list := domain.PaginatedList[domain.Book]{
		Limit:  options.Limit,
		Offset: options.Offset,
		Items:  []domain.Book{},
	}

	// $limit must be positive.
	if options.Limit == 0 {
		total, err := r.books.CountDocuments(ctx, bson.M{})
		if err != nil {
			return list, storageErr("count books", err)
		}
		list.Total = total
		return list, nil
	}

	cur, err := r.books.Aggregate(ctx, bookPagePipeline(options))
	if err != nil {
		return list, storageErr("list books", err)
	}
	var out []bookPage
	if err := cur.All(ctx, &out); err != nil {
		return list, storageErr("list books", err)
	}
	if len(out) > 0 {
		out[0].fill(&list)
	}
	return list, nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.books.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
		lookupActiveCheckout,
	})
	if err != nil {
		return nil, storageErr("find book", err)
	}
	var views []mongoBookView
	if err := cur.All(ctx, &views); err != nil {
		return nil, storageErr("find book", err)
	}
	if len(views) == 0 {
		return nil, nil
	}
	book := views[0].toDomain()
	return &book, nil
}

// Update matches on id and owner in one filter, so a foreign book is
// indistinguishable from a missing one.
func (r *BookRepository) Update(ctx context.Context, event domain.UpdateBook) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.books.UpdateOne(ctx,
		ownedBookFilter(event.ID, event.RequestedBy),
		bson.M{"$set": bson.M{
			"title":       event.Title,
			"author":      event.Author,
			"isbn":        event.ISBN,
			"description": event.Description,
			"updated_at":  r.now(),
		}},
	)
	if err != nil {
		return storageErr("update book", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEntityNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, event domain.DeleteBook) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.books.DeleteOne(ctx, ownedBookFilter(event.ID, event.RequestedBy))
	if err != nil {
		return storageErr("delete book", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEntityNotFound
	}

	if _, err := r.checkouts.DeleteMany(ctx, bson.M{"book_id": event.ID}); err != nil {
		return storageErr("delete book checkouts", err)
	}
	return nil
}
