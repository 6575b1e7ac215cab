// Package storagetest holds the behaviour every storage.Backend must share,
// exercised through a storage.Store.
package storagetest

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/storage"
)

// Opener returns a fresh, empty backend. It should register its own cleanup.
type Opener func(t *testing.T) storage.Backend

// Run runs the backend contract against open.
func Run(t *testing.T, open Opener) {
	ctx := context.Background()
	newStore := func(t *testing.T) *storage.Store {
		return storage.NewStore(open(t))
	}

	t.Run("empty", func(t *testing.T) {
		s := newStore(t)
		records, err := s.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)

		target, err := s.GetTarget(ctx, "2025-08", "app")
		require.NoError(t, err)
		assert.Equal(t, 0, target)

		deleted, err := s.Delete(ctx, "2025-08-12", "Alice", "new")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("upsert_creates_row_with_week", func(t *testing.T) {
		s := newStore(t)
		rec, err := s.Upsert(ctx, "2025-08-12", "Alice", "new", 3)
		require.NoError(t, err)
		assert.Equal(t, model.Record{Date: "2025-08-12", Week: "33w", Name: "Alice", Type: model.TypeNew, Count: 3}, rec)

		records, err := s.LoadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Record{rec}, records)
	})

	t.Run("upsert_replaces_count", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Upsert(ctx, "2025-08-12", "Alice", "new", 3)
		require.NoError(t, err)
		_, err = s.Upsert(ctx, "2025-08-12", "Alice", "new", 5)
		require.NoError(t, err)

		records, err := s.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 5, records[0].Count)
	})

	t.Run("slash_date_round_trips", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Upsert(ctx, "2025/08/12", "Bob", "survey", 2)
		require.NoError(t, err)
		_, err = s.Upsert(ctx, "2025-8-12", "Bob", "survey", 4)
		require.NoError(t, err)

		records, err := s.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "2025-08-12", records[0].Date)
		assert.Equal(t, "33w", records[0].Week)
		assert.Equal(t, 4, records[0].Count)

		deleted, err := s.Delete(ctx, "2025/8/12", "Bob", "survey")
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("key_components_are_distinct", func(t *testing.T) {
		s := newStore(t)
		for _, in := range []struct {
			date, name, typ string
		}{
			{"2025-08-12", "Alice", "new"},
			{"2025-08-12", "Alice", "exist"},
			{"2025-08-12", "Bob", "new"},
			{"2025-08-13", "Alice", "new"},
			{"2025-08-12", "Sato: A", "line"},
		} {
			_, err := s.Upsert(ctx, in.date, in.name, in.typ, 1)
			require.NoError(t, err)
		}
		records, err := s.LoadAll(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 5)
	})

	t.Run("add_accumulates", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Add(ctx, "2025-08-12", "Alice", "line", 2)
		require.NoError(t, err)
		rec, err := s.Add(ctx, "2025-08-12", "Alice", "line", 3)
		require.NoError(t, err)
		assert.Equal(t, 5, rec.Count)

		rec, err = s.Add(ctx, "2025-08-12", "Alice", "line", -5)
		require.NoError(t, err)
		assert.Equal(t, 0, rec.Count)

		_, err = s.Add(ctx, "2025-08-12", "Alice", "line", -1)
		assert.Error(t, err)

		records, err := s.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 0, records[0].Count)
	})

	t.Run("delete_removes_only_the_key", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Upsert(ctx, "2025-08-12", "Alice", "new", 1)
		require.NoError(t, err)
		_, err = s.Upsert(ctx, "2025-08-12", "Alice", "exist", 2)
		require.NoError(t, err)

		deleted, err := s.Delete(ctx, "2025-08-12", "Alice", "new")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.Delete(ctx, "2025-08-12", "Alice", "new")
		require.NoError(t, err)
		assert.False(t, deleted)

		records, err := s.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, model.TypeExist, records[0].Type)
	})

	t.Run("week_53_is_kept", func(t *testing.T) {
		s := newStore(t)
		rec, err := s.Upsert(ctx, "2026-12-31", "Alice", "new", 1)
		require.NoError(t, err)
		assert.Equal(t, "53w", rec.Week)
	})

	t.Run("targets", func(t *testing.T) {
		s := newStore(t)
		_, err := s.SetTarget(ctx, "2025-08", "app", 100)
		require.NoError(t, err)
		_, err = s.SetTarget(ctx, "2025/8", "app", 120)
		require.NoError(t, err)
		_, err = s.SetTarget(ctx, "2025-08", "survey", 30)
		require.NoError(t, err)

		app, err := s.GetTarget(ctx, "2025-08", "app")
		require.NoError(t, err)
		assert.Equal(t, 120, app)

		other, err := s.GetTarget(ctx, "2025-09", "app")
		require.NoError(t, err)
		assert.Equal(t, 0, other)

		targets, err := s.ListTargets(ctx)
		require.NoError(t, err)
		sort.Slice(targets, func(i, j int) bool { return targets[i].Category < targets[j].Category })
		assert.Equal(t, []model.Target{
			{Month: "2025-08", Category: model.CategoryApp, Target: 120},
			{Month: "2025-08", Category: model.CategorySurvey, Target: 30},
		}, targets)
	})
}
