package record

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	query    string
	args     []any
	affected int64
	err      error
}

func (f *fakeAdapter) Exec(_ context.Context, query string, args ...any) (int64, error) {
	f.query = query
	f.args = args
	return f.affected, f.err
}

func TestBuildUpdate(t *testing.T) {
	t.Parallel()

	t.Run("targets exactly the named columns plus the identity predicate", func(t *testing.T) {
		t.Parallel()

		event, err := NewEvent(validEventInput())
		require.NoError(t, err)

		query, args, err := BuildUpdate(event, []string{"name", "description"})
		require.NoError(t, err)

		assert.Contains(t, query, `UPDATE`)
		assert.Contains(t, query, "`events`")
		assert.Contains(t, query, "`name`")
		assert.Contains(t, query, "`description`")
		assert.Contains(t, query, "`id`")
		assert.NotContains(t, query, "`duration`")
		assert.NotContains(t, query, "`date`")
		assert.NotContains(t, query, "`lat`")

		// Two column values plus the id predicate.
		require.Len(t, args, 3)
		assert.Contains(t, args, event.Name())
		assert.Contains(t, args, event.Description())
		assert.Contains(t, args, event.ID())
	})

	t.Run("folds camel-case field names to snake_case columns", func(t *testing.T) {
		t.Parallel()

		event, err := NewEvent(validEventInput())
		require.NoError(t, err)

		query, _, err := BuildUpdate(event, []string{"isChosen", "categoryId"})
		require.NoError(t, err)
		assert.Contains(t, query, "`is_chosen`")
		assert.Contains(t, query, "`category_id`")
		assert.NotContains(t, query, "isChosen")
		assert.NotContains(t, query, "categoryId")
	})

	t.Run("refuses to update identity", func(t *testing.T) {
		t.Parallel()

		event, err := NewEvent(validEventInput())
		require.NoError(t, err)

		_, _, err = BuildUpdate(event, []string{"id", "name"})
		assert.ErrorIs(t, err, ErrIdentityImmutable)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		event, err := NewEvent(validEventInput())
		require.NoError(t, err)

		_, _, err = BuildUpdate(event, []string{"owner"})
		assert.Error(t, err)
	})

	t.Run("rejects an empty field list", func(t *testing.T) {
		t.Parallel()

		event, err := NewEvent(validEventInput())
		require.NoError(t, err)

		_, _, err = BuildUpdate(event, nil)
		assert.ErrorIs(t, err, ErrNoFields)
	})
}

func TestProjectorUpdate(t *testing.T) {
	t.Parallel()

	t.Run("reports success when exactly one row changed", func(t *testing.T) {
		t.Parallel()

		event, err := NewEvent(validEventInput())
		require.NoError(t, err)

		db := &fakeAdapter{affected: 1}
		ok, err := NewProjector(db).Update(context.Background(), event, []string{"name"})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NotEmpty(t, db.query)
	})

	t.Run("zero affected rows is not a confirmed change", func(t *testing.T) {
		t.Parallel()

		event, err := NewEvent(validEventInput())
		require.NoError(t, err)

		db := &fakeAdapter{affected: 0}
		ok, err := NewProjector(db).Update(context.Background(), event, []string{"name"})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("refuses entities carrying validation errors", func(t *testing.T) {
		t.Parallel()

		event, err := NewEvent(validEventInput())
		require.NoError(t, err)
		event.SetName("ab")
		event.SetDuration(0)

		db := &fakeAdapter{affected: 1}
		_, err = NewProjector(db).Update(context.Background(), event, []string{"name"})

		vErr, ok := AsValidationError(err)
		require.True(t, ok)
		assert.Len(t, vErr.Messages, 2)
		assert.Empty(t, db.query, "storage must not be touched")
	})

	t.Run("propagates adapter failures", func(t *testing.T) {
		t.Parallel()

		event, err := NewEvent(validEventInput())
		require.NoError(t, err)

		execErr := errors.New("exec failed")
		db := &fakeAdapter{err: execErr}
		_, err = NewProjector(db).Update(context.Background(), event, []string{"name"})
		assert.ErrorIs(t, err, execErr)
	})

	t.Run("projects user single-column mutations", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser(UserInput{
			Name:     "Tester",
			Email:    "test@example.com",
			Password: "qwerty1234*",
		}, fakeHash)
		require.NoError(t, err)

		token := uuid.NewString()
		user.SetCurrentTokenID(&token)

		db := &fakeAdapter{affected: 1}
		ok, err := NewProjector(db).Update(context.Background(), user, []string{"currentTokenId"})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Contains(t, db.query, "`users`")
		assert.Contains(t, db.query, "`current_token_id`")
	})
}
