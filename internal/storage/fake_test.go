package storage

import (
	"context"
	"errors"
	"slices"

	"github.com/andst/staffboard/internal/model"
)

// memBackend is a slice-backed Backend for store tests. Rows may be seeded
// verbatim, malformed ones included.
type memBackend struct {
	records []*model.RecordRow
	targets []*model.TargetRow
	fail    error
	closed  bool
}

func (m *memBackend) Name() string { return "mem" }

func (m *memBackend) Close() error {
	m.closed = true
	return nil
}

func (m *memBackend) findRecord(key model.RecordKey) int {
	return slices.IndexFunc(m.records, func(r *model.RecordRow) bool {
		return r.Date == key.Date && r.Name == key.Name && r.Type == string(key.Type)
	})
}

func (m *memBackend) GetRecord(_ context.Context, key model.RecordKey) (*model.RecordRow, bool, error) {
	if m.fail != nil {
		return nil, false, m.fail
	}
	if i := m.findRecord(key); i >= 0 {
		row := *m.records[i]
		return &row, true, nil
	}
	return nil, false, nil
}

func (m *memBackend) PutRecord(_ context.Context, key model.RecordKey, row *model.RecordRow) error {
	if m.fail != nil {
		return m.fail
	}
	stored := *row
	if i := m.findRecord(key); i >= 0 {
		m.records[i] = &stored
		return nil
	}
	m.records = append(m.records, &stored)
	return nil
}

func (m *memBackend) DeleteRecord(_ context.Context, key model.RecordKey) (bool, error) {
	if m.fail != nil {
		return false, m.fail
	}
	i := m.findRecord(key)
	if i < 0 {
		return false, nil
	}
	m.records = slices.Delete(m.records, i, i+1)
	return true, nil
}

func (m *memBackend) ListRecords(context.Context) ([]*model.RecordRow, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	out := make([]*model.RecordRow, len(m.records))
	for i, r := range m.records {
		row := *r
		out[i] = &row
	}
	return out, nil
}

func (m *memBackend) findTarget(key model.TargetKey) int {
	return slices.IndexFunc(m.targets, func(r *model.TargetRow) bool {
		return r.Month == key.Month && r.Type == string(key.Category)
	})
}

func (m *memBackend) GetTarget(_ context.Context, key model.TargetKey) (*model.TargetRow, bool, error) {
	if m.fail != nil {
		return nil, false, m.fail
	}
	if i := m.findTarget(key); i >= 0 {
		row := *m.targets[i]
		return &row, true, nil
	}
	return nil, false, nil
}

func (m *memBackend) PutTarget(_ context.Context, key model.TargetKey, row *model.TargetRow) error {
	if m.fail != nil {
		return m.fail
	}
	stored := *row
	if i := m.findTarget(key); i >= 0 {
		m.targets[i] = &stored
		return nil
	}
	m.targets = append(m.targets, &stored)
	return nil
}

func (m *memBackend) ListTargets(context.Context) ([]*model.TargetRow, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	out := make([]*model.TargetRow, len(m.targets))
	for i, r := range m.targets {
		row := *r
		out[i] = &row
	}
	return out, nil
}

var errOffline = errors.New("dial tcp 203.0.113.1:443: i/o timeout")
