// Package sqlite is the SQLite backend, built on the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

const currentSchemaVersion = 1

// Name is the backend name.
const Name = "sqlite"

var _ storage.Backend = (*DB)(nil)

// DB is the SQLite-backed record and target table.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens or creates a SQLite database at path and applies the schema.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := storage.EnsureDirectory(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps :memory: databases coherent and matches the
	// one-writer model of the store.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &DB{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// migrate applies the schema if not already at the current version.
func (s *DB) migrate() error {
	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&name)

	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.Exec(schemaSQL); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
		_, err = s.db.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion)
		return err
	}
	if err != nil {
		return fmt.Errorf("checking schema version: %w", err)
	}

	var version int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}
	return nil
}

// Name identifies the backend.
func (s *DB) Name() string {
	return Name
}

// Path returns the database file path.
func (s *DB) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *DB) Close() error {
	return s.db.Close()
}

// =============================================================================
// Records
// =============================================================================

// GetRecord returns the row for key.
func (s *DB) GetRecord(ctx context.Context, key model.RecordKey) (*model.RecordRow, bool, error) {
	row := &model.RecordRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT date, week, name, type, count FROM records WHERE date = ? AND name = ? AND type = ?`,
		key.Date, key.Name, string(key.Type),
	).Scan(&row.Date, &row.Week, &row.Name, &row.Type, &row.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	row.SetKey(model.GenerateRecordKey(key))
	return row, true, nil
}

// checkSpace refuses writes when the database disk is nearly full.
func (s *DB) checkSpace() error {
	if s.path == ":memory:" {
		return nil
	}
	return storage.CheckDiskSpace(filepath.Dir(s.path))
}

// PutRecord inserts the row or replaces week and count on the existing one.
func (s *DB) PutRecord(ctx context.Context, key model.RecordKey, row *model.RecordRow) error {
	if err := s.checkSpace(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (date, week, name, type, count) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (date, name, type) DO UPDATE SET week = excluded.week, count = excluded.count`,
		key.Date, row.Week, key.Name, string(key.Type), row.Count,
	)
	return err
}

// DeleteRecord removes the row for key.
func (s *DB) DeleteRecord(ctx context.Context, key model.RecordKey) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE date = ? AND name = ? AND type = ?`,
		key.Date, key.Name, string(key.Type),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListRecords returns every row in insertion order.
func (s *DB) ListRecords(ctx context.Context) ([]*model.RecordRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, week, name, type, count FROM records ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.RecordRow
	for rows.Next() {
		var (
			r     model.RecordRow
			count sql.NullString
		)
		if err := rows.Scan(&r.Date, &r.Week, &r.Name, &r.Type, &count); err != nil {
			return nil, err
		}
		r.Count = count.String
		out = append(out, &r)
	}
	return out, rows.Err()
}

// =============================================================================
// Targets
// =============================================================================

// GetTarget returns the row for key.
func (s *DB) GetTarget(ctx context.Context, key model.TargetKey) (*model.TargetRow, bool, error) {
	row := &model.TargetRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT month, type, target FROM targets WHERE month = ? AND type = ?`,
		key.Month, string(key.Category),
	).Scan(&row.Month, &row.Type, &row.Target)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	row.SetKey(model.GenerateTargetKey(key))
	return row, true, nil
}

// PutTarget inserts the row or replaces the target on the existing one.
func (s *DB) PutTarget(ctx context.Context, key model.TargetKey, row *model.TargetRow) error {
	if err := s.checkSpace(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO targets (month, type, target) VALUES (?, ?, ?)
		 ON CONFLICT (month, type) DO UPDATE SET target = excluded.target`,
		key.Month, string(key.Category), row.Target,
	)
	return err
}

// ListTargets returns every target row in insertion order.
func (s *DB) ListTargets(ctx context.Context) ([]*model.TargetRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT month, type, target FROM targets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.TargetRow
	for rows.Next() {
		var r model.TargetRow
		if err := rows.Scan(&r.Month, &r.Type, &r.Target); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
