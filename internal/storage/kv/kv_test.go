package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/andst/staffboard/internal/errors"
	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/storage"
	"github.com/andst/staffboard/internal/storage/storagetest"
)

// Helper to create an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// =============================================================================
// DB Tests
// =============================================================================

func TestOpenClose(t *testing.T) {
	t.Run("in_memory", func(t *testing.T) {
		db, err := Open(Options{InMemory: true})
		require.NoError(t, err)
		assert.Equal(t, MemoryName, db.Name())
		assert.Equal(t, "", db.Path())
		assert.NoError(t, db.Close())
	})

	t.Run("empty_path_uses_in_memory", func(t *testing.T) {
		db, err := Open(Options{Path: ""})
		require.NoError(t, err)
		assert.Equal(t, MemoryName, db.Name())
		db.Close()
	})

	t.Run("on_disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "db")
		db, err := Open(Options{Path: path})
		require.NoError(t, err)
		assert.Equal(t, Name, db.Name())
		assert.Equal(t, path, db.Path())
		assert.NoError(t, db.Close())
	})
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir()

	db, err := Open(Options{Path: path})
	require.NoError(t, err)
	_, err = storage.NewStore(db).Upsert(ctx, "2025-08-12", "Alice", "new", 7)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(Options{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	records, err := storage.NewStore(db).LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].Count)
}

// =============================================================================
// CRUD Tests
// =============================================================================

func TestGetMissing(t *testing.T) {
	db := setupTestDB(t)
	row, found, err := db.GetRecord(context.Background(), model.RecordKey{Date: "2025-08-12", Name: "A", Type: model.TypeNew})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, row)
}

func TestRowsStoredUnderPrefixedKeys(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	key := model.RecordKey{Date: "2025-08-12", Name: "Sato: A", Type: model.TypeLine}
	require.NoError(t, db.PutRecord(ctx, key, &model.RecordRow{Date: key.Date, Week: "33w", Name: key.Name, Type: "line", Count: "2"}))
	require.NoError(t, db.PutTarget(ctx, model.TargetKey{Month: "2025-08", Category: model.CategoryApp},
		&model.TargetRow{Month: "2025-08", Type: "app", Target: "50"}))

	records, err := db.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "record:2025-08-12:line:Sato: A", records[0].GetKey())
	assert.Equal(t, "Sato: A", records[0].Name)

	targets, err := db.ListTargets(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "target:2025-08:app", targets[0].GetKey())
}

func TestCanceledContext(t *testing.T) {
	db := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := db.ListRecords(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// Contract
// =============================================================================

func TestBackendContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Backend {
		return setupTestDB(t)
	})
}

func TestSecondOpenReportsLock(t *testing.T) {
	path := t.TempDir()
	db, err := Open(Options{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = Open(Options{Path: path})
	require.Error(t, err)
	assert.ErrorIs(t, err, serrors.ErrLockHeld)
	assert.Equal(t, serrors.CategoryBackend, serrors.Classify(err))
}
