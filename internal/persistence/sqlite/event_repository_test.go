package sqlite

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/eventlist/internal/persistence"
	"github.com/example/eventlist/internal/record"
)

func testEventRow(userID, categoryID string) persistence.EventRow {
	return persistence.EventRow{
		ID:          uuid.NewString(),
		Name:        "Test event name",
		Description: "Dummy description",
		Time:        "18:30",
		Duration:    150,
		Date:        "2023-05-28",
		Lat:         21.23,
		Lon:         50.03,
		UserID:      userID,
		CategoryID:  categoryID,
	}
}

func TestEventRepository_InsertAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewEventRepository(db)

	user := insertTestUser(t, db, "owner@example.com")
	category := insertTestCategory(t, db, "Concerts")

	row := testEventRow(user.ID, category.ID)
	link := "https://example.link"
	row.Link = &link
	require.NoError(t, repo.Insert(ctx, row))

	got, err := repo.GetByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, row, got)
}

func TestEventRepository_GetMissing(t *testing.T) {
	db := newTestDB(t)

	_, err := NewEventRepository(db).GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestEventRepository_List(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewEventRepository(db)

	user := insertTestUser(t, db, "owner@example.com")
	category := insertTestCategory(t, db, "Concerts")

	first := testEventRow(user.ID, category.ID)
	second := testEventRow(user.ID, category.ID)
	second.Name = "Another event"
	second.Date = "2023-06-02"
	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// The listing projection carries no link or location data.
	assert.Equal(t, persistence.EventListItem{
		ID:          first.ID,
		Name:        first.Name,
		Description: first.Description,
		IsChosen:    first.IsChosen,
		Duration:    first.Duration,
	}, items[0])
}

func TestEventRepository_SearchByName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewEventRepository(db)

	user := insertTestUser(t, db, "owner@example.com")
	category := insertTestCategory(t, db, "Concerts")

	row := testEventRow(user.ID, category.ID)
	require.NoError(t, repo.Insert(ctx, row))

	found, err := repo.SearchByName(ctx, "Test")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, persistence.EventSearchItem{
		ID:   row.ID,
		Name: row.Name,
		Lat:  row.Lat,
		Lon:  row.Lon,
	}, found[0])

	empty, err := repo.SearchByName(ctx, "xxx")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEventRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewEventRepository(db)

	user := insertTestUser(t, db, "owner@example.com")
	category := insertTestCategory(t, db, "Concerts")

	row := testEventRow(user.ID, category.ID)
	require.NoError(t, repo.Insert(ctx, row))

	ok, err := repo.Delete(ctx, row.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, row.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProjectorAgainstSQLite(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewEventRepository(db)

	user := insertTestUser(t, db, "owner@example.com")
	category := insertTestCategory(t, db, "Concerts")

	row := testEventRow(user.ID, category.ID)
	require.NoError(t, repo.Insert(ctx, row))

	event, err := record.NewEvent(record.EventInput{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Time:        row.Time,
		Duration:    row.Duration,
		Date:        row.Date,
		Lat:         row.Lat,
		Lon:         row.Lon,
		UserID:      row.UserID,
		CategoryID:  row.CategoryID,
	})
	require.NoError(t, err)

	event.SetName("Updated event")
	event.SetDuration(88)

	ok, err := record.NewProjector(db).Update(ctx, event, []string{"name", "duration"})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated event", got.Name)
	assert.Equal(t, 88, got.Duration)
	assert.Equal(t, row.Description, got.Description, "unnamed columns stay untouched")

	// Writing identical values a second time affects a row in SQLite, which
	// still counts it as changed; a vanished row reports no change at all.
	ok, err = record.NewProjector(db).Update(ctx, event, []string{"name"})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Delete(ctx, row.ID)
	require.NoError(t, err)
	ok, err = record.NewProjector(db).Update(ctx, event, []string{"name"})
	require.NoError(t, err)
	assert.False(t, ok)
}
