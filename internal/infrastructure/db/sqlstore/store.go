package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const defaultTimeout = 10 * time.Second

// Driver selects the SQL engine behind a Store.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// Config captures the settings required to open a relational store. Postgres
// uses DSN; SQLite uses Path.
type Config struct {
	Driver          Driver
	DSN             string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Timeout         time.Duration
}

// Store is a pooled connection plus the query dialect matching its driver.
// Repositories built on the same Store share the pool.
type Store struct {
	db      *sqlx.DB
	driver  Driver
	builder goqu.DialectWrapper
	now     func() time.Time
}

// Open connects to the configured engine and verifies connectivity with a
// ping.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	var (
		driverName  string
		dsn         string
		dialectName string
	)
	switch cfg.Driver {
	case DriverPostgres:
		driverName, dsn, dialectName = "pgx", cfg.DSN, "postgres"
	case DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		driverName, dsn, dialectName = "sqlite3", sqliteDSN(cfg.Path), "sqlite3"
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSQLite {
		// One writer at a time; concurrent callers queue on the pool.
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s ping: %w", cfg.Driver, err)
	}

	return &Store{
		db:      db,
		driver:  cfg.Driver,
		builder: goqu.Dialect(dialectName),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", path)
}

// Driver reports the engine the store talks to.
func (s *Store) Driver() Driver { return s.driver }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Every dataset is prepared so values travel as driver arguments.
func (s *Store) from(table any) *goqu.SelectDataset {
	return s.builder.From(table).Prepared(true)
}

func (s *Store) insert(table any) *goqu.InsertDataset {
	return s.builder.Insert(table).Prepared(true)
}

func (s *Store) update(table any) *goqu.UpdateDataset {
	return s.builder.Update(table).Prepared(true)
}

func (s *Store) delete(table any) *goqu.DeleteDataset {
	return s.builder.Delete(table).Prepared(true)
}

// typed casts a bound value in a SELECT list. Postgres resolves untyped
// parameters there as text, so INSERT ... SELECT needs explicit types.
func (s *Store) typed(v any, pgType string) exp.Expression {
	if s.driver == DriverPostgres {
		return goqu.Cast(goqu.V(v), pgType)
	}
	return goqu.V(v)
}

// readTx opens the transaction used for multi-statement reads that must see
// one snapshot.
func (s *Store) readTx(ctx context.Context) (*sqlx.Tx, error) {
	var opts *sql.TxOptions
	if s.driver == DriverPostgres {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return s.db.BeginTxx(ctx, opts)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

// exec runs a write and returns the number of affected rows.
func exec(ctx context.Context, db execer, ds sqlBuilder) (int64, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type queryer interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

func get(ctx context.Context, db queryer, dest any, ds sqlBuilder) error {
	query, args, err := ds.ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return db.GetContext(ctx, dest, query, args...)
}

func selectAll(ctx context.Context, db queryer, dest any, ds sqlBuilder) error {
	query, args, err := ds.ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return db.SelectContext(ctx, dest, query, args...)
}
