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

const usersTable = "users"

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

type userRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

var userColumns = []any{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}
	return r.findOne(ctx, goqu.Ex{"id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, goqu.Ex{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, where goqu.Ex) (*domain.User, error) {
	var row userRow
	ds := r.store.from(usersTable).Select(userColumns...).Where(where)
	if err := get(ctx, r.store.db, &row, ds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("find user", err)
	}
	user := row.toDomain()
	return &user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	var rows []userRow
	ds := r.store.from(usersTable).Select(userColumns...).Order(goqu.C("created_at").Asc(), goqu.C("id").Asc())
	if err := selectAll(ctx, r.store.db, &rows, ds); err != nil {
		return nil, storageErr("list users", err)
	}

	users := make([]domain.User, len(rows))
	for i, row := range rows {
		users[i] = row.toDomain()
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	created := *user
	created.ID = uuid.NewString()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = r.store.now()
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = created.CreatedAt
	}

	ds := r.store.insert(usersTable).Rows(goqu.Record{
		"id":            created.ID,
		"name":          created.Name,
		"email":         created.Email,
		"password_hash": created.PasswordHash,
		"role":          string(created.Role),
		"created_at":    created.CreatedAt,
		"updated_at":    created.UpdatedAt,
	})
	if _, err := exec(ctx, r.store.db, ds); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, storageErr("insert user", err)
	}
	return &created, nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	return r.updateOne(ctx, userID, goqu.Record{"password_hash": passwordHash}, "update password")
}

func (r *UserRepository) UpdateRole(ctx context.Context, event domain.UpdateUserRole) error {
	return r.updateOne(ctx, event.UserID, goqu.Record{"role": string(event.Role)}, "update role")
}

func (r *UserRepository) updateOne(ctx context.Context, userID string, set goqu.Record, op string) error {
	if uuid.Validate(userID) != nil {
		return domain.ErrEntityNotFound
	}
	set["updated_at"] = r.store.now()

	ds := r.store.update(usersTable).Set(set).Where(goqu.C("id").Eq(userID))
	n, err := exec(ctx, r.store.db, ds)
	if err != nil {
		return storageErr(op, err)
	}
	if n == 0 {
		return domain.ErrEntityNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE to remove the user's books and checkouts.
func (r *UserRepository) Delete(ctx context.Context, event domain.DeleteUser) error {
	if uuid.Validate(event.UserID) != nil {
		return domain.ErrEntityNotFound
	}

	ds := r.store.delete(usersTable).Where(goqu.C("id").Eq(event.UserID))
	n, err := exec(ctx, r.store.db, ds)
	if err != nil {
		return storageErr("delete user", err)
	}
	if n == 0 {
		return domain.ErrEntityNotFound
	}
	return nil
}
