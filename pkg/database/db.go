// Package database provides the SQLite-backed staging store plumbing
package database

import (
	"context"
	"database/sql"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite
const DriverName = "sqlite"

// DB is the subset of sqlx the repositories depend on
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	PingContext(ctx context.Context) error
	Close() error
	Unwrap() *sqlx.DB
}

// DatabaseInstance wraps a sqlx connection with the service logger
type DatabaseInstance struct {
	*sqlx.DB
	logger ectologger.Logger
}

// NewDatabaseInstance wraps an existing sqlx connection
func NewDatabaseInstance(db *sqlx.DB, logger ectologger.Logger) DB {
	return &DatabaseInstance{
		DB:     db,
		logger: logger,
	}
}

// Unwrap exposes the underlying sqlx handle for migration wiring
func (db *DatabaseInstance) Unwrap() *sqlx.DB {
	return db.DB
}

// Connect opens the SQLite staging database at path. SQLite serializes
// writers, so the pool is capped at a single open connection.
func Connect(path string, logger ectologger.Logger) (DB, error) {
	db, err := sqlx.Connect(DriverName, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite database %s", path)
	}
	db.SetMaxOpenConns(1)
	return NewDatabaseInstance(db, logger), nil
}
