// Package storage provides the record and target stores for staffboard.
//
// A Store validates input and serialises access to a Backend, which only
// knows how to persist rows. Backends live in the kv, sqlite and sheet
// subpackages.
package storage

import (
	"context"

	"github.com/andst/staffboard/internal/model"
)

// Backend persists record and target rows.
//
// Keys passed to a backend are already canonical: dates are YYYY-MM-DD,
// months YYYY-MM, names sanitised. Implementations need not be safe for
// concurrent use; Store serialises every call.
type Backend interface {
	// Name identifies the backend in logs and errors.
	Name() string

	// GetRecord returns the row for key, or false if there is none.
	GetRecord(ctx context.Context, key model.RecordKey) (*model.RecordRow, bool, error)
	// PutRecord replaces the row for key, or appends it.
	PutRecord(ctx context.Context, key model.RecordKey, row *model.RecordRow) error
	// DeleteRecord removes the first row matching key.
	DeleteRecord(ctx context.Context, key model.RecordKey) (bool, error)
	// ListRecords returns every stored row, undecoded.
	ListRecords(ctx context.Context) ([]*model.RecordRow, error)

	// GetTarget returns the row for key, or false if there is none.
	GetTarget(ctx context.Context, key model.TargetKey) (*model.TargetRow, bool, error)
	// PutTarget replaces the row for key, or appends it.
	PutTarget(ctx context.Context, key model.TargetKey, row *model.TargetRow) error
	// ListTargets returns every stored target row, undecoded.
	ListTargets(ctx context.Context) ([]*model.TargetRow, error)

	Close() error
}
