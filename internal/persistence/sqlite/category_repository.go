package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/example/eventlist/internal/persistence"
)

const categoriesTable = "categories"

// CategoryRepository implements persistence.CategoryRepository on SQLite.
type CategoryRepository struct {
	db *DB
}

// NewCategoryRepository wires the repository to an open database.
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Insert stores a new category row. A name collision that slipped past the
// availability pre-check surfaces as ErrDuplicate from the UNIQUE constraint,
// which remains the real arbiter.
func (r *CategoryRepository) Insert(ctx context.Context, row persistence.CategoryRow) error {
	query, args, err := builder().
		Insert(categoriesTable).
		Rows(row).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("sqlite: building category insert: %w", err)
	}

	if _, err := r.db.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID fetches a category by id.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (persistence.CategoryRow, error) {
	return r.getOne(ctx, goqu.C("id").Eq(id))
}

// FindByName fetches a category by exact name. It doubles as the
// name-availability pre-check: ErrNotFound means the name is free.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (persistence.CategoryRow, error) {
	return r.getOne(ctx, goqu.C("name").Eq(name))
}

func (r *CategoryRepository) getOne(ctx context.Context, where goqu.Expression) (persistence.CategoryRow, error) {
	query, args, err := builder().
		From(categoriesTable).
		Where(where).
		Prepared(true).
		ToSQL()
	if err != nil {
		return persistence.CategoryRow{}, fmt.Errorf("sqlite: building category select: %w", err)
	}

	var row persistence.CategoryRow
	if err := r.db.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.CategoryRow{}, persistence.ErrNotFound
		}
		return persistence.CategoryRow{}, mapError(err)
	}
	return row, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]persistence.CategoryRow, error) {
	query, args, err := builder().
		From(categoriesTable).
		Order(goqu.I("name").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building category list: %w", err)
	}

	var rows []persistence.CategoryRow
	if err := r.db.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, mapError(err)
	}
	return rows, nil
}

// Delete removes a category by id, reporting whether exactly one row went
// away.
func (r *CategoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := builder().
		Delete(categoriesTable).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("sqlite: building category delete: %w", err)
	}

	affected, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
