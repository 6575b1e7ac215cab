package storage

import (
	"context"
	"sync"
	"time"

	"github.com/andst/staffboard/internal/errors"
	"github.com/andst/staffboard/internal/logging"
	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/validate"
)

// Store is the only writer of records and targets.
type Store struct {
	mu      sync.Mutex
	backend Backend
}

// NewStore creates a store over an open backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// BackendName returns the name of the underlying backend.
func (s *Store) BackendName() string {
	return s.backend.Name()
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Close()
}

// =============================================================================
// Records
// =============================================================================

// Upsert sets the count for (date, name, type), creating the row if needed.
// An existing count is replaced, not added to.
func (s *Store) Upsert(ctx context.Context, date, name, typ string, count int) (model.Record, error) {
	key, err := recordKey(date, name, typ)
	if err != nil {
		return model.Record{}, err
	}
	if err := validate.Count("count", count); err != nil {
		return model.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer logging.LogOperation(ctx, "upsert", time.Now(), keyArgs(key)...)

	rec := newRecord(key, count)
	if err := s.backend.PutRecord(ctx, key, rec.Row()); err != nil {
		return model.Record{}, s.fail("upsert", err)
	}
	return rec, nil
}

// Add adds delta to the count for (date, name, type), creating the row with
// delta if none exists. The resulting count must not be negative.
func (s *Store) Add(ctx context.Context, date, name, typ string, delta int) (model.Record, error) {
	key, err := recordKey(date, name, typ)
	if err != nil {
		return model.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer logging.LogOperation(ctx, "add", time.Now(), keyArgs(key)...)

	current := 0
	row, found, err := s.backend.GetRecord(ctx, key)
	if err != nil {
		return model.Record{}, s.fail("add", err)
	}
	if found {
		if existing, err := model.DecodeRecord(row); err == nil {
			current = existing.Count
		}
	}

	total := current + delta
	if err := validate.Count("count", total); err != nil {
		return model.Record{}, err
	}

	rec := newRecord(key, total)
	if err := s.backend.PutRecord(ctx, key, rec.Row()); err != nil {
		return model.Record{}, s.fail("add", err)
	}
	return rec, nil
}

// Delete removes the row for (date, name, type).
// It reports false, without error, when no row matched.
func (s *Store) Delete(ctx context.Context, date, name, typ string) (bool, error) {
	key, err := recordKey(date, name, typ)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.backend.DeleteRecord(ctx, key)
	if err != nil {
		return false, s.fail("delete", err)
	}
	logging.DebugContext(ctx, "delete", append(keyArgs(key), "deleted", deleted)...)
	return deleted, nil
}

// LoadAll returns every well-formed record. Malformed rows are skipped.
// The returned slice is never shared with other callers.
func (s *Store) LoadAll(ctx context.Context) ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	rows, err := s.backend.ListRecords(ctx)
	if err != nil {
		return nil, s.fail("load_all", err)
	}

	records := make([]model.Record, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		rec, err := model.DecodeRecord(row)
		if err != nil {
			skipped++
			logging.DebugContext(ctx, "skipping row", logging.KeyError, err)
			continue
		}
		records = append(records, rec)
	}
	logging.LogOperation(ctx, "load_all", start, logging.KeyCount, len(records), "skipped", skipped)
	return records, nil
}

// =============================================================================
// Targets
// =============================================================================

// SetTarget sets the target for (month, category).
func (s *Store) SetTarget(ctx context.Context, month, category string, value int) (model.Target, error) {
	key, err := targetKey(month, category)
	if err != nil {
		return model.Target{}, err
	}
	if err := validate.Count("target", value); err != nil {
		return model.Target{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer logging.LogOperation(ctx, "set_target", time.Now(),
		logging.KeyMonth, key.Month, logging.KeyCategory, key.Category, logging.KeyCount, value)

	target := model.Target{Month: key.Month, Category: key.Category, Target: value}
	if err := s.backend.PutTarget(ctx, key, target.Row()); err != nil {
		return model.Target{}, s.fail("set_target", err)
	}
	return target, nil
}

// GetTarget returns the target for (month, category), or 0 if none is set
// or the stored value is unusable.
func (s *Store) GetTarget(ctx context.Context, month, category string) (int, error) {
	key, err := targetKey(month, category)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, found, err := s.backend.GetTarget(ctx, key)
	if err != nil {
		return 0, s.fail("get_target", err)
	}
	if !found {
		return 0, nil
	}
	target, err := model.DecodeTarget(row)
	if err != nil {
		logging.DebugContext(ctx, "malformed target", logging.KeyError, err)
		return 0, nil
	}
	return target.Target, nil
}

// ListTargets returns every well-formed target.
func (s *Store) ListTargets(ctx context.Context) ([]model.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.backend.ListTargets(ctx)
	if err != nil {
		return nil, s.fail("list_targets", err)
	}
	targets := make([]model.Target, 0, len(rows))
	for _, row := range rows {
		target, err := model.DecodeTarget(row)
		if err != nil {
			logging.DebugContext(ctx, "skipping target row", logging.KeyError, err)
			continue
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// =============================================================================
// Helpers
// =============================================================================

// fail wraps a backend error. Validation errors raised by a backend pass
// through unchanged.
func (s *Store) fail(op string, err error) error {
	if errors.IsValidationError(err) || errors.IsBackendError(err) {
		return err
	}
	return errors.NewBackendError(s.backend.Name(), op, err)
}

func recordKey(date, name, typ string) (model.RecordKey, error) {
	d, err := validate.Date(date)
	if err != nil {
		return model.RecordKey{}, err
	}
	n, err := validate.StaffName(name)
	if err != nil {
		return model.RecordKey{}, err
	}
	t, err := validate.ActivityType(typ)
	if err != nil {
		return model.RecordKey{}, err
	}
	return model.RecordKey{Date: d, Name: n, Type: t}, nil
}

func targetKey(month, category string) (model.TargetKey, error) {
	m, err := validate.Month(month)
	if err != nil {
		return model.TargetKey{}, err
	}
	c, err := validate.Category(category)
	if err != nil {
		return model.TargetKey{}, err
	}
	return model.TargetKey{Month: m, Category: c}, nil
}

// newRecord builds a record for a canonical key; the date is known to parse.
func newRecord(key model.RecordKey, count int) model.Record {
	t, _ := model.ParseDate(key.Date)
	return model.Record{
		Date:  key.Date,
		Week:  model.WeekLabel(model.WeekNumber(t)),
		Name:  key.Name,
		Type:  key.Type,
		Count: count,
	}
}

func keyArgs(key model.RecordKey) []any {
	return []any{logging.KeyDate, key.Date, logging.KeyName, key.Name, logging.KeyType, key.Type}
}
