package application

import (
	"context"
	"strings"

	"github.com/example/eventlist/internal/persistence"
	"github.com/example/eventlist/internal/record"
)

type fakeEventRepo struct {
	rows map[string]persistence.EventRow
}

func newFakeEventRepo(rows ...persistence.EventRow) *fakeEventRepo {
	r := &fakeEventRepo{rows: map[string]persistence.EventRow{}}
	for _, row := range rows {
		r.rows[row.ID] = row
	}
	return r
}

func (r *fakeEventRepo) Insert(_ context.Context, row persistence.EventRow) error {
	r.rows[row.ID] = row
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (persistence.EventRow, error) {
	row, ok := r.rows[id]
	if !ok {
		return persistence.EventRow{}, persistence.ErrNotFound
	}
	return row, nil
}

func (r *fakeEventRepo) List(_ context.Context) ([]persistence.EventListItem, error) {
	items := make([]persistence.EventListItem, 0, len(r.rows))
	for _, row := range r.rows {
		items = append(items, persistence.EventListItem{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			IsChosen:    row.IsChosen,
			Duration:    row.Duration,
		})
	}
	return items, nil
}

func (r *fakeEventRepo) SearchByName(_ context.Context, name string) ([]persistence.EventSearchItem, error) {
	var items []persistence.EventSearchItem
	for _, row := range r.rows {
		if strings.Contains(row.Name, name) {
			items = append(items, persistence.EventSearchItem{ID: row.ID, Name: row.Name, Lat: row.Lat, Lon: row.Lon})
		}
	}
	return items, nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

type fakeCategoryRepo struct {
	rows      map[string]persistence.CategoryRow
	deleteErr error
}

func newFakeCategoryRepo(rows ...persistence.CategoryRow) *fakeCategoryRepo {
	r := &fakeCategoryRepo{rows: map[string]persistence.CategoryRow{}}
	for _, row := range rows {
		r.rows[row.ID] = row
	}
	return r
}

func (r *fakeCategoryRepo) Insert(_ context.Context, row persistence.CategoryRow) error {
	for _, existing := range r.rows {
		if existing.Name == row.Name {
			return persistence.ErrDuplicate
		}
	}
	r.rows[row.ID] = row
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (persistence.CategoryRow, error) {
	row, ok := r.rows[id]
	if !ok {
		return persistence.CategoryRow{}, persistence.ErrNotFound
	}
	return row, nil
}

func (r *fakeCategoryRepo) FindByName(_ context.Context, name string) (persistence.CategoryRow, error) {
	for _, row := range r.rows {
		if row.Name == name {
			return row, nil
		}
	}
	return persistence.CategoryRow{}, persistence.ErrNotFound
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]persistence.CategoryRow, error) {
	rows := make([]persistence.CategoryRow, 0, len(r.rows))
	for _, row := range r.rows {
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) (bool, error) {
	if r.deleteErr != nil {
		return false, r.deleteErr
	}
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

type fakeUserRepo struct {
	rows map[string]persistence.UserRow
}

func newFakeUserRepo(rows ...persistence.UserRow) *fakeUserRepo {
	r := &fakeUserRepo{rows: map[string]persistence.UserRow{}}
	for _, row := range rows {
		r.rows[row.ID] = row
	}
	return r
}

func (r *fakeUserRepo) Insert(_ context.Context, row persistence.UserRow) error {
	for _, existing := range r.rows {
		if existing.Email == row.Email {
			return persistence.ErrDuplicate
		}
	}
	r.rows[row.ID] = row
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (persistence.UserRow, error) {
	row, ok := r.rows[id]
	if !ok {
		return persistence.UserRow{}, persistence.ErrNotFound
	}
	return row, nil
}

func (r *fakeUserRepo) FindByEmailAndHash(_ context.Context, email, passwordHash string) (persistence.UserRow, error) {
	for _, row := range r.rows {
		if row.Email == email && row.PasswordHash == passwordHash {
			return row, nil
		}
	}
	return persistence.UserRow{}, persistence.ErrNotFound
}

func (r *fakeUserRepo) FindByTokenID(_ context.Context, tokenID string) (persistence.UserRow, error) {
	for _, row := range r.rows {
		if row.CurrentTokenID != nil && *row.CurrentTokenID == tokenID {
			return row, nil
		}
	}
	return persistence.UserRow{}, persistence.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]persistence.UserListItem, error) {
	items := make([]persistence.UserListItem, 0, len(r.rows))
	for _, row := range r.rows {
		items = append(items, persistence.UserListItem{ID: row.ID, Name: row.Name, Email: row.Email, Role: row.Role})
	}
	return items, nil
}

func (r *fakeUserRepo) IsEmailAvailable(_ context.Context, email string) (bool, error) {
	for _, row := range r.rows {
		if row.Email == email {
			return false, nil
		}
	}
	return true, nil
}

func (r *fakeUserRepo) GetRequestStatus(_ context.Context, id string) (bool, error) {
	row, ok := r.rows[id]
	if !ok {
		return false, persistence.ErrNotFound
	}
	return row.Request, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

// fakeProjector mimics record.Projector: it refuses rows with accumulated
// validation errors, then records what would have been written. The optional
// apply hook lets a test persist the projected fields into a fake repo.
type fakeProjector struct {
	ok     bool
	err    error
	rows   []record.Row
	fields [][]string
	apply  func(row record.Row, fields []string)
}

func newFakeProjector() *fakeProjector { return &fakeProjector{ok: true} }

func (p *fakeProjector) Update(_ context.Context, row record.Row, fields []string) (bool, error) {
	if err := row.Err(); err != nil {
		return false, err
	}
	p.rows = append(p.rows, row)
	p.fields = append(p.fields, append([]string(nil), fields...))
	if p.err != nil {
		return false, p.err
	}
	if p.apply != nil {
		p.apply(row, fields)
	}
	return p.ok, nil
}

func (p *fakeProjector) lastFields() []string {
	if len(p.fields) == 0 {
		return nil
	}
	return p.fields[len(p.fields)-1]
}

func (p *fakeProjector) lastRow() record.Row {
	if len(p.rows) == 0 {
		return nil
	}
	return p.rows[len(p.rows)-1]
}
