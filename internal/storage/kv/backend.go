package kv

import (
	"context"

	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/storage"
)

var _ storage.Backend = (*DB)(nil)

// GetRecord returns the record row stored under key.
func (d *DB) GetRecord(ctx context.Context, key model.RecordKey) (*model.RecordRow, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	row := &model.RecordRow{}
	found, err := d.get(model.GenerateRecordKey(key), row)
	if err != nil || !found {
		return nil, false, err
	}
	return row, true, nil
}

// PutRecord stores row under key, replacing any previous row.
func (d *DB) PutRecord(ctx context.Context, key model.RecordKey, row *model.RecordRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row.SetKey(model.GenerateRecordKey(key))
	return d.set(row)
}

// DeleteRecord removes the row stored under key.
func (d *DB) DeleteRecord(ctx context.Context, key model.RecordKey) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return d.delete(model.GenerateRecordKey(key))
}

// ListRecords returns every record row in key order.
func (d *DB) ListRecords(ctx context.Context) ([]*model.RecordRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return getAllByPrefix(d, model.PrefixRecord+":", func() *model.RecordRow {
		return &model.RecordRow{}
	})
}

// GetTarget returns the target row stored under key.
func (d *DB) GetTarget(ctx context.Context, key model.TargetKey) (*model.TargetRow, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	row := &model.TargetRow{}
	found, err := d.get(model.GenerateTargetKey(key), row)
	if err != nil || !found {
		return nil, false, err
	}
	return row, true, nil
}

// PutTarget stores row under key, replacing any previous row.
func (d *DB) PutTarget(ctx context.Context, key model.TargetKey, row *model.TargetRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row.SetKey(model.GenerateTargetKey(key))
	return d.set(row)
}

// ListTargets returns every target row in key order.
func (d *DB) ListTargets(ctx context.Context) ([]*model.TargetRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return getAllByPrefix(d, model.PrefixTarget+":", func() *model.TargetRow {
		return &model.TargetRow{}
	})
}
