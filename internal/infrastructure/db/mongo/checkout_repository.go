package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookshelf/library-system/internal/core/domain"
)

type CheckoutRepository struct {
	users     *mongo.Collection
	books     *mongo.Collection
	checkouts *mongo.Collection
}

func NewCheckoutRepository(db *mongo.Database) *CheckoutRepository {
	return &CheckoutRepository{
		users:     db.Collection(collectionUsers),
		books:     db.Collection(collectionBooks),
		checkouts: db.Collection(collectionCheckouts),
	}
}

// mongoCheckout is one ledger entry. Active mirrors "returned_at is unset"
// and backs the partial unique index on book_id.
type mongoCheckout struct {
	ID           string     `bson:"_id"`
	BookID       string     `bson:"book_id"`
	UserID       string     `bson:"user_id"`
	UserName     string     `bson:"user_name"`
	CheckedOutAt time.Time  `bson:"checked_out_at"`
	Active       bool       `bson:"active"`
	ReturnedAt   *time.Time `bson:"returned_at,omitempty"`
	ReturnedBy   string     `bson:"returned_by,omitempty"`
}

type mongoCheckoutView struct {
	Doc  mongoCheckout `bson:",inline"`
	Book []mongoBook   `bson:"book"`
}

func (v mongoCheckoutView) toDomain() domain.CheckoutRecord {
	rec := domain.CheckoutRecord{
		ID:           v.Doc.ID,
		Book:         domain.CheckoutBook{ID: v.Doc.BookID},
		CheckedOutBy: domain.CheckoutUser{ID: v.Doc.UserID, Name: v.Doc.UserName},
		CheckedOutAt: v.Doc.CheckedOutAt.UTC(),
		ReturnedBy:   v.Doc.ReturnedBy,
	}
	if len(v.Book) > 0 {
		b := v.Book[0]
		rec.Book.Title, rec.Book.Author, rec.Book.ISBN = b.Title, b.Author, b.ISBN
	}
	if v.Doc.ReturnedAt != nil {
		at := v.Doc.ReturnedAt.UTC()
		rec.ReturnedAt = &at
	}
	return rec
}

// returnFilter matches only the Active checkout of the given book, so a
// second return or a mismatched pair updates nothing.
func returnFilter(event domain.UpdateReturned) bson.M {
	filter := bson.M{"_id": event.CheckoutID, "book_id": event.BookID, "active": true}
	if event.RestrictToBorrower {
		filter["user_id"] = event.ReturnedBy
	}
	return filter
}

// insertCheckoutErr maps a rejected insert. A duplicate key can only come
// from active_checkout_per_book.
func insertCheckoutErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrConflict
	}
	return storageErr("insert checkout", err)
}

func checkoutsPipeline(match bson.M, order int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "checked_out_at", Value: order}, {Key: "_id", Value: order}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionBooks},
			{Key: "localField", Value: "book_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "book"},
		}}},
	}
}

// Create relies on the active_checkout_per_book index: of two concurrent
// inserts for the same book exactly one succeeds.
func (r *CheckoutRepository) Create(ctx context.Context, event domain.CreateCheckout) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.books.CountDocuments(ctx, bson.M{"_id": event.BookID})
	if err != nil {
		return "", storageErr("find book", err)
	}
	if n == 0 {
		return "", domain.ErrEntityNotFound
	}

	var user mongoUser
	if err := r.users.FindOne(ctx, bson.M{"_id": event.UserID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrEntityNotFound
		}
		return "", storageErr("find borrower", err)
	}

	doc := mongoCheckout{
		ID:           uuid.NewString(),
		BookID:       event.BookID,
		UserID:       user.ID,
		UserName:     user.Name,
		CheckedOutAt: event.CheckedOutAt.UTC(),
		Active:       true,
	}
	if _, err := r.checkouts.InsertOne(ctx, doc); err != nil {
		return "", insertCheckoutErr(err)
	}
	return doc.ID, nil
}

func (r *CheckoutRepository) UpdateReturned(ctx context.Context, event domain.UpdateReturned) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.checkouts.UpdateOne(ctx, returnFilter(event), bson.M{"$set": bson.M{
		"active":      false,
		"returned_at": event.ReturnedAt.UTC(),
		"returned_by": event.ReturnedBy,
	}})
	if err != nil {
		return storageErr("update checkout", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEntityNotFound
	}
	return nil
}

func (r *CheckoutRepository) FindUnreturnedAll(ctx context.Context) ([]domain.CheckoutRecord, error) {
	return r.find(ctx, "list active checkouts", bson.M{"active": true}, -1)
}

func (r *CheckoutRepository) FindUnreturnedByUserID(ctx context.Context, userID string) ([]domain.CheckoutRecord, error) {
	return r.find(ctx, "list user checkouts", bson.M{"active": true, "user_id": userID}, -1)
}

func (r *CheckoutRepository) FindHistoryByBookID(ctx context.Context, bookID string) ([]domain.CheckoutRecord, error) {
	return r.find(ctx, "list checkout history", bson.M{"book_id": bookID}, 1)
}

func (r *CheckoutRepository) find(ctx context.Context, op string, match bson.M, order int) ([]domain.CheckoutRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.checkouts.Aggregate(ctx, checkoutsPipeline(match, order))
	if err != nil {
		return nil, storageErr(op, err)
	}
	var views []mongoCheckoutView
	if err := cur.All(ctx, &views); err != nil {
		return nil, storageErr(op, err)
	}

	out := make([]domain.CheckoutRecord, len(views))
	for i, v := range views {
		out[i] = v.toDomain()
	}
	return out, nil
}
