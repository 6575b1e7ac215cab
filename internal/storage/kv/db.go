// Package kv is the embedded badger backend, and the default.
package kv

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"

	"github.com/andst/staffboard/internal/errors"
	"github.com/andst/staffboard/internal/storage"
)

const (
	// AppName is the application name used for data directories.
	AppName = "staffboard"

	// Name is the backend name for an on-disk database.
	Name = "badger"
	// MemoryName is the backend name for an in-memory database.
	MemoryName = "memory"
)

// DB wraps a Badger database connection.
type DB struct {
	db   *badger.DB
	path string
}

// Options configures the database connection.
type Options struct {
	// Path is the database directory path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// DefaultPath returns the default database path under the XDG data directory.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "db")
}

// Open opens or creates a database at the given path.
func Open(opts Options) (*DB, error) {
	var badgerOpts badger.Options
	path := opts.Path

	if opts.InMemory || path == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
		path = ""
	} else {
		if err := storage.EnsureDirectory(path); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(path)
	}

	// Reduce logging noise
	badgerOpts = badgerOpts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		if strings.Contains(err.Error(), "Cannot acquire directory lock") {
			return nil, fmt.Errorf("%w: %v", errors.ErrLockHeld, err)
		}
		return nil, err
	}

	return &DB{db: db, path: path}, nil
}

// Name identifies the backend.
func (d *DB) Name() string {
	if d.path == "" {
		return MemoryName
	}
	return Name
}

// Path returns the database directory, or "" in memory mode.
func (d *DB) Path() string {
	return d.path
}

// checkSpace refuses writes when the data directory's disk is nearly full.
func (d *DB) checkSpace() error {
	if d.path == "" {
		return nil
	}
	return storage.CheckDiskSpace(d.path)
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}
