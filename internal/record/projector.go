package record

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
)

const dialectSQLite = "sqlite3"

// Adapter executes a parameterized mutation and reports the affected-row
// count. The persistence layer provides the implementation.
type Adapter interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

// Row is implemented by entities that can project themselves into storage
// columns for a partial update.
type Row interface {
	TableName() string
	ID() string
	Field(name string) (any, bool)
	Err() error
}

var (
	// ErrNoFields is returned when an update names no fields at all.
	ErrNoFields = errors.New("record: no fields to update")
	// ErrIdentityImmutable is returned when an update names the id field.
	ErrIdentityImmutable = errors.New("record: identity cannot be updated")
)

// Projector translates a set of changed in-memory field names into a single
// conditional UPDATE keyed by identity.
type Projector struct {
	db Adapter
}

// NewProjector wires the projector to a persistence adapter.
func NewProjector(db Adapter) *Projector {
	return &Projector{db: db}
}

// BuildUpdate constructs the mutation statement for the named fields: each
// camel-case field name is folded to its snake_case column and set to the
// entity's current value, keyed by id equality. Fields not named are never
// touched.
func BuildUpdate(row Row, fields []string) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, ErrNoFields
	}

	columns := goqu.Record{}
	for _, field := range fields {
		if field == "id" {
			return "", nil, ErrIdentityImmutable
		}
		value, ok := row.Field(field)
		if !ok {
			return "", nil, fmt.Errorf("record: unknown field %q", field)
		}
		columns[CamelToSnake(field)] = value
	}

	query, args, err := goqu.Dialect(dialectSQLite).
		Update(row.TableName()).
		Set(columns).
		Where(goqu.C("id").Eq(row.ID())).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("record: building update: %w", err)
	}

	return query, args, nil
}

// Update re-checks the entity's accumulated validation state, issues the
// projected mutation, and reports whether exactly one row was affected. A
// zero count is not a confirmed change: the row may have vanished, or every
// named column may already have held the written value.
func (p *Projector) Update(ctx context.Context, row Row, fields []string) (bool, error) {
	if err := row.Err(); err != nil {
		return false, err
	}

	query, args, err := BuildUpdate(row, fields)
	if err != nil {
		return false, err
	}

	affected, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}
