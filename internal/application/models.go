package application

import (
	"context"

	"github.com/example/eventlist/internal/persistence"
	"github.com/example/eventlist/internal/record"
)

// Principal identifies the authenticated account an operation acts on behalf
// of.
type Principal struct {
	UserID string
	Role   record.Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool { return p.Role == record.RoleAdmin }

// CanEdit reports whether the principal may manage events.
func (p Principal) CanEdit() bool {
	return p.Role == record.RoleEditor || p.Role == record.RoleAdmin
}

// Projector issues partial updates for validated entities. Satisfied by
// record.Projector; fakes stand in for it in tests.
type Projector interface {
	Update(ctx context.Context, row record.Row, fields []string) (bool, error)
}

// EventChanges carries the optional fields of a partial event update. A nil
// pointer means the field was not supplied and must not be touched.
type EventChanges struct {
	Name        *string
	Description *string
	IsChosen    *bool
	Time        *string
	Duration    *int
	Date        *string
	Link        *string
	Lat         *float64
	Lon         *float64
	CategoryID  *string
}

// EventDetail is the single-event view, with the category name joined in.
type EventDetail struct {
	ID           string
	Name         string
	Description  string
	IsChosen     bool
	Time         string
	Duration     int
	Date         string
	Link         *string
	Lat          float64
	Lon          float64
	UserID       string
	CategoryID   string
	CategoryName string
}

func eventInputFromRow(row persistence.EventRow) record.EventInput {
	isChosen := row.IsChosen
	return record.EventInput{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		IsChosen:    &isChosen,
		Time:        row.Time,
		Duration:    row.Duration,
		Date:        row.Date,
		Link:        row.Link,
		Lat:         row.Lat,
		Lon:         row.Lon,
		UserID:      row.UserID,
		CategoryID:  row.CategoryID,
	}
}

func eventRowFromRecord(e *record.Event) persistence.EventRow {
	return persistence.EventRow{
		ID:          e.ID(),
		Name:        e.Name(),
		Description: e.Description(),
		IsChosen:    e.IsChosen(),
		Time:        e.Time(),
		Duration:    e.Duration(),
		Date:        e.Date(),
		Link:        e.Link(),
		Lat:         e.Lat(),
		Lon:         e.Lon(),
		UserID:      e.UserID(),
		CategoryID:  e.CategoryID(),
	}
}

func userInputFromRow(row persistence.UserRow) record.UserInput {
	return record.UserInput{
		ID:             row.ID,
		Name:           row.Name,
		Email:          row.Email,
		PasswordHash:   row.PasswordHash,
		CurrentTokenID: row.CurrentTokenID,
		Role:           row.Role,
		Request:        row.Request,
	}
}

func userRowFromRecord(u *record.User) persistence.UserRow {
	return persistence.UserRow{
		ID:             u.ID(),
		Name:           u.Name(),
		Email:          u.Email(),
		PasswordHash:   u.PasswordHash(),
		CurrentTokenID: u.CurrentTokenID(),
		Role:           string(u.Role()),
		Request:        u.Request(),
	}
}
