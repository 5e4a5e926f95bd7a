package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DBTX is the common interface satisfied by both *sqlx.DB and *sqlx.Tx.
// Repository implementations depend on this interface instead of the
// concrete handle, enabling transactional composition. Queries are written
// with ? placeholders and passed through Rebind so the same SQL runs on
// SQLite and PostgreSQL.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	Rebind(query string) string
	DriverName() string
}

// Compile-time verification that *sqlx.DB and *sqlx.Tx satisfy DBTX.
var (
	_ DBTX = (*sqlx.DB)(nil)
	_ DBTX = (*sqlx.Tx)(nil)
)
