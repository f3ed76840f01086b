// Package storage selects the repository implementations for the configured
// DB_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/bookshelf/library-system/internal/core/ports"
	"github.com/bookshelf/library-system/internal/infrastructure/config"
	"github.com/bookshelf/library-system/internal/infrastructure/db/mongo"
	"github.com/bookshelf/library-system/internal/infrastructure/db/sqlstore"
)

// Storage bundles the repositories of one backend with its lifecycle hooks.
type Storage struct {
	Driver    string
	Users     ports.UserRepository
	Books     ports.BookRepository
	Checkouts ports.CheckoutRepository

	ping    func(ctx context.Context) error
	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

func Open(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres, config.DriverSQLite:
		return openSQL(ctx, cfg.DB)
	case config.DriverMongo:
		return openMongo(ctx, cfg.Mongo)
	}
	return nil, fmt.Errorf("storage: unknown driver %q", cfg.DB.Driver)
}

func openSQL(ctx context.Context, cfg config.DBConfig) (*Storage, error) {
	store, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:          sqlstore.Driver(cfg.Driver),
		DSN:             cfg.URL,
		Path:            cfg.SQLitePath,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	return &Storage{
		Driver:    cfg.Driver,
		Users:     sqlstore.NewUserRepository(store),
		Books:     sqlstore.NewBookRepository(store),
		Checkouts: sqlstore.NewCheckoutRepository(store),
		ping:      store.Ping,
		migrate:   store.Migrate,
		close:     func(context.Context) error { return store.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg config.MongoConfig) (*Storage, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.URI, Database: cfg.Database})
	if err != nil {
		return nil, err
	}

	return &Storage{
		Driver:    config.DriverMongo,
		Users:     mongo.NewUserRepository(db),
		Books:     mongo.NewBookRepository(db),
		Checkouts: mongo.NewCheckoutRepository(db),
		ping:      func(ctx context.Context) error { return client.Ping(ctx, nil) },
		migrate:   func(ctx context.Context) error { return mongo.EnsureIndexes(ctx, db) },
		close:     client.Disconnect,
	}, nil
}

// Ping reports whether the backend is reachable.
func (s *Storage) Ping(ctx context.Context) error { return s.ping(ctx) }

// Migrate creates tables or indexes. It is safe to run on every start.
func (s *Storage) Migrate(ctx context.Context) error { return s.migrate(ctx) }

func (s *Storage) Close(ctx context.Context) error { return s.close(ctx) }
