package sqlstore

import (
	"context"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('Admin', 'User')),
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id          UUID PRIMARY KEY,
		title       TEXT NOT NULL,
		author      TEXT NOT NULL,
		isbn        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		owner_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS books_created_at_idx ON books (created_at DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS checkouts (
		id             UUID PRIMARY KEY,
		book_id        UUID NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		user_id        UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		checked_out_at TIMESTAMPTZ NOT NULL,
		returned_at    TIMESTAMPTZ,
		returned_by    UUID REFERENCES users(id) ON DELETE SET NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS checkouts_active_book_idx ON checkouts (book_id) WHERE returned_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS checkouts_active_user_idx ON checkouts (user_id) WHERE returned_at IS NULL`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('Admin', 'User')),
		created_at    TIMESTAMP NOT NULL,
		updated_at    TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		author      TEXT NOT NULL,
		isbn        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		owner_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS books_created_at_idx ON books (created_at DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS checkouts (
		id             TEXT PRIMARY KEY,
		book_id        TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		checked_out_at TIMESTAMP NOT NULL,
		returned_at    TIMESTAMP,
		returned_by    TEXT REFERENCES users(id) ON DELETE SET NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS checkouts_active_book_idx ON checkouts (book_id) WHERE returned_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS checkouts_active_user_idx ON checkouts (user_id) WHERE returned_at IS NULL`,
}

// Migrate creates the schema if it does not exist. It is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := postgresSchema
	if s.driver == DriverSQLite {
		// WAL cannot be switched on inside a transaction.
		if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("enable WAL: %w", err)
		}
		stmts = sqliteSchema
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return tx.Commit()
}
