package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/example/eventlist/internal/persistence"
)

const usersTable = "users"

// UserRepository implements persistence.UserRepository on SQLite.
type UserRepository struct {
	db *DB
}

// NewUserRepository wires the repository to an open database.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Insert stores a new user row. An email collision that slipped past the
// availability pre-check surfaces as ErrDuplicate from the UNIQUE constraint.
func (r *UserRepository) Insert(ctx context.Context, row persistence.UserRow) error {
	query, args, err := builder().
		Insert(usersTable).
		Rows(row).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("sqlite: building user insert: %w", err)
	}

	if _, err := r.db.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID fetches a full user row.
func (r *UserRepository) GetByID(ctx context.Context, id string) (persistence.UserRow, error) {
	return r.getOne(ctx, goqu.C("id").Eq(id))
}

// FindByEmailAndHash performs the credential lookup: digest equality is the
// sole verification mechanism.
func (r *UserRepository) FindByEmailAndHash(ctx context.Context, email, passwordHash string) (persistence.UserRow, error) {
	return r.getOne(ctx, goqu.And(
		goqu.C("email").Eq(email),
		goqu.C("password_hash").Eq(passwordHash),
	))
}

// FindByTokenID resolves the active session token id to its account. A token
// overwritten by a later login no longer resolves.
func (r *UserRepository) FindByTokenID(ctx context.Context, tokenID string) (persistence.UserRow, error) {
	return r.getOne(ctx, goqu.C("current_token_id").Eq(tokenID))
}

func (r *UserRepository) getOne(ctx context.Context, where goqu.Expression) (persistence.UserRow, error) {
	query, args, err := builder().
		From(usersTable).
		Where(where).
		Prepared(true).
		ToSQL()
	if err != nil {
		return persistence.UserRow{}, fmt.Errorf("sqlite: building user select: %w", err)
	}

	var row persistence.UserRow
	if err := r.db.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.UserRow{}, persistence.ErrNotFound
		}
		return persistence.UserRow{}, mapError(err)
	}
	return row, nil
}

// List returns the administrator projection of all accounts.
func (r *UserRepository) List(ctx context.Context) ([]persistence.UserListItem, error) {
	query, args, err := builder().
		From(usersTable).
		Select("id", "name", "email", "role").
		Order(goqu.I("name").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building user list: %w", err)
	}

	var items []persistence.UserListItem
	if err := r.db.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// IsEmailAvailable reports whether no account currently claims the address.
// The check-then-insert window is the documented race; the UNIQUE constraint
// is the real arbiter.
func (r *UserRepository) IsEmailAvailable(ctx context.Context, email string) (bool, error) {
	query, args, err := builder().
		From(usersTable).
		Select("id").
		Where(goqu.C("email").Eq(email)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("sqlite: building email availability check: %w", err)
	}

	var id string
	if err := r.db.db.GetContext(ctx, &id, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return true, nil
		}
		return false, mapError(err)
	}
	return false, nil
}

// GetRequestStatus reads the pending role-upgrade flag.
func (r *UserRepository) GetRequestStatus(ctx context.Context, id string) (bool, error) {
	query, args, err := builder().
		From(usersTable).
		Select("request").
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("sqlite: building request status check: %w", err)
	}

	var request bool
	if err := r.db.db.GetContext(ctx, &request, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, persistence.ErrNotFound
		}
		return false, mapError(err)
	}
	return request, nil
}

// Delete removes an account by id, reporting whether exactly one row went
// away.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := builder().
		Delete(usersTable).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("sqlite: building user delete: %w", err)
	}

	affected, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
