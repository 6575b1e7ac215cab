package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/storage"
	"github.com/andst/staffboard/internal/storage/storagetest"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "staffboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "board.db")
	db, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, Name, db.Name())
	assert.Equal(t, path, db.Path())
	assert.NoError(t, db.Close())
}

func TestReopenKeepsDataAndSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.db")

	db, err := Open(path)
	require.NoError(t, err)
	_, err = storage.NewStore(db).SetTarget(ctx, "2025-08", "survey", 40)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var versions int
	require.NoError(t, db.db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&versions))
	assert.Equal(t, 1, versions, "schema applied once")

	target, err := storage.NewStore(db).GetTarget(ctx, "2025-08", "survey")
	require.NoError(t, err)
	assert.Equal(t, 40, target)
}

func TestCountStoredAsInteger(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	key := model.RecordKey{Date: "2025-08-12", Name: "Alice", Type: model.TypeNew}
	require.NoError(t, db.PutRecord(ctx, key, &model.RecordRow{Date: key.Date, Week: "33w", Name: "Alice", Type: "new", Count: "12"}))

	var typ string
	require.NoError(t, db.db.QueryRow("SELECT typeof(count) FROM records").Scan(&typ))
	assert.Equal(t, "integer", typ)

	row, found, err := db.GetRecord(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "12", row.Count)
}

func TestListRecordsInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := storage.NewStore(setupTestDB(t))
	for _, name := range []string{"Carol", "Alice", "Bob"} {
		_, err := s.Upsert(ctx, "2025-08-12", name, "new", 1)
		require.NoError(t, err)
	}
	records, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Carol", "Alice", "Bob"}, []string{records[0].Name, records[1].Name, records[2].Name})
}

func TestBackendContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Backend {
		return setupTestDB(t)
	})
}
