package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/example/eventlist/internal/persistence"
)

const eventsTable = "events"

// EventRepository implements persistence.EventRepository on SQLite.
type EventRepository struct {
	db *DB
}

// NewEventRepository wires the repository to an open database.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Insert stores a new event row.
func (r *EventRepository) Insert(ctx context.Context, row persistence.EventRow) error {
	query, args, err := builder().
		Insert(eventsTable).
		Rows(row).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("sqlite: building event insert: %w", err)
	}

	if _, err := r.db.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID fetches a full event row.
func (r *EventRepository) GetByID(ctx context.Context, id string) (persistence.EventRow, error) {
	query, args, err := builder().
		From(eventsTable).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return persistence.EventRow{}, fmt.Errorf("sqlite: building event select: %w", err)
	}

	var row persistence.EventRow
	if err := r.db.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.EventRow{}, persistence.ErrNotFound
		}
		return persistence.EventRow{}, mapError(err)
	}
	return row, nil
}

// List returns the trimmed projection for the main listing, without link or
// location data.
func (r *EventRepository) List(ctx context.Context) ([]persistence.EventListItem, error) {
	query, args, err := builder().
		From(eventsTable).
		Select("id", "name", "description", "is_chosen", "duration").
		Order(goqu.I("date").Asc(), goqu.I("time").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building event list: %w", err)
	}

	var items []persistence.EventListItem
	if err := r.db.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// SearchByName returns the map projection for events whose name contains the
// search term.
func (r *EventRepository) SearchByName(ctx context.Context, name string) ([]persistence.EventSearchItem, error) {
	query, args, err := builder().
		From(eventsTable).
		Select("id", "name", "lat", "lon").
		Where(goqu.C("name").Like("%" + name + "%")).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building event search: %w", err)
	}

	var items []persistence.EventSearchItem
	if err := r.db.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// Delete removes an event by id, reporting whether exactly one row went away.
func (r *EventRepository) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := builder().
		Delete(eventsTable).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("sqlite: building event delete: %w", err)
	}

	affected, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
