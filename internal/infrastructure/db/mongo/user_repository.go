package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookshelf/library-system/internal/core/domain"
)

type UserRepository struct {
	users     *mongo.Collection
	books     *mongo.Collection
	checkouts *mongo.Collection
	now       func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:     db.Collection(collectionUsers),
		books:     db.Collection(collectionBooks),
		checkouts: db.Collection(collectionCheckouts),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type mongoUser struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (mu mongoUser) toDomain() domain.User {
	return domain.User{
		ID:           mu.ID,
		Name:         mu.Name,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Role:         domain.Role(mu.Role),
		CreatedAt:    mu.CreatedAt.UTC(),
		UpdatedAt:    mu.UpdatedAt.UTC(),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	created := *user
	created.ID = uuid.NewString()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = r.now()
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = created.CreatedAt
	}

	doc := mongoUser{
		ID:           created.ID,
		Name:         created.Name,
		Email:        created.Email,
		PasswordHash: created.PasswordHash,
		Role:         string(created.Role),
		CreatedAt:    created.CreatedAt,
		UpdatedAt:    created.UpdatedAt,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, storageErr("insert user", err)
	}
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.users.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, storageErr("find user", err)
	}
	user := mu.toDomain()
	return &user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr("list users", err)
	}

	users := make([]domain.User, len(docs))
	for i, d := range docs {
		users[i] = d.toDomain()
	}
	return users, nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	return r.updateOne(ctx, userID, bson.M{"password_hash": passwordHash}, "update password")
}

func (r *UserRepository) UpdateRole(ctx context.Context, event domain.UpdateUserRole) error {
	return r.updateOne(ctx, event.UserID, bson.M{"role": string(event.Role)}, "update role")
}

func (r *UserRepository) updateOne(ctx context.Context, userID string, set bson.M, op string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set["updated_at"] = r.now()
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		return storageErr(op, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEntityNotFound
	}
	return nil
}

// Delete removes the user and then everything that referenced them: owned
// books, checkouts of those books and the user's own checkouts.
func (r *UserRepository) Delete(ctx context.Context, event domain.DeleteUser) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.users.DeleteOne(ctx, bson.M{"_id": event.UserID})
	if err != nil {
		return storageErr("delete user", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEntityNotFound
	}

	bookIDs, err := r.books.Distinct(ctx, "_id", bson.M{"owner_id": event.UserID})
	if err != nil {
		return storageErr("find owned books", err)
	}
	if bookIDs == nil {
		bookIDs = []any{}
	}
	if _, err := r.checkouts.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"user_id": event.UserID},
		bson.M{"book_id": bson.M{"$in": bookIDs}},
	}}); err != nil {
		return storageErr("delete user checkouts", err)
	}
	if _, err := r.books.DeleteMany(ctx, bson.M{"owner_id": event.UserID}); err != nil {
		return storageErr("delete owned books", err)
	}
	return nil
}
