// Package sqlite implements the persistence contracts on SQLite using the
// pure-Go modernc driver. Statements are built with goqu and scanned with
// sqlx; the DB type doubles as the mutation adapter consumed by the record
// projector.
package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // database/sql driver registration

	"github.com/example/eventlist/internal/persistence"
)

const dialect = "sqlite3"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		current_token_id TEXT,
		role TEXT NOT NULL DEFAULT 'user',
		request INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		is_chosen INTEGER NOT NULL DEFAULT 0,
		time TEXT NOT NULL,
		duration INTEGER NOT NULL,
		date TEXT NOT NULL,
		link TEXT,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		user_id TEXT NOT NULL,
		category_id TEXT NOT NULL REFERENCES categories(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_name ON events(name)`,
	`CREATE INDEX IF NOT EXISTS idx_users_current_token_id ON users(current_token_id)`,
}

// DB wraps the SQLite handle shared by the repositories.
type DB struct {
	db *sqlx.DB
}

// Open opens (or creates) the database at dsn.
func Open(dsn string) (*DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", dsn, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	// modernc's driver serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)
	return &DB{db: db}, nil
}

// Close releases the underlying handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Migrate applies the schema. Every statement is idempotent, so repeated
// startups are safe.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}
	return nil
}

// Exec implements the record projector's adapter contract, returning the
// affected-row count of a single mutation.
func (d *DB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	return affected, nil
}

// mapError translates driver errors into persistence sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s", persistence.ErrDuplicate, msg)
	}
	if strings.Contains(msg, "constraint failed") {
		return fmt.Errorf("%w: %s", persistence.ErrConstraintViolation, msg)
	}
	return err
}

func builder() goqu.DialectWrapper {
	return goqu.Dialect(dialect)
}
