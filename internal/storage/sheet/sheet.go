package sheet

import (
	"context"
	"strings"

	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/storage"
)

// Name is the backend name.
const Name = "sheet"

var _ storage.Backend = (*DB)(nil)

// Options configures the sheet backend.
type Options struct {
	// RecordsTab and TargetsTab name the worksheets. Default: records, targets
	RecordsTab string
	TargetsTab string
}

// DB stores records and targets in two worksheets of a workbook.
type DB struct {
	recordsT *table
	targetsT *table
}

// Open prepares both worksheets of wb, creating or repairing them.
func Open(ctx context.Context, wb Workbook, opts Options) (*DB, error) {
	if opts.RecordsTab == "" {
		opts.RecordsTab = "records"
	}
	if opts.TargetsTab == "" {
		opts.TargetsTab = "targets"
	}
	records, err := ensureTable(ctx, wb, opts.RecordsTab, model.RecordHeaders)
	if err != nil {
		return nil, err
	}
	targets, err := ensureTable(ctx, wb, opts.TargetsTab, model.TargetHeaders)
	if err != nil {
		return nil, err
	}
	return &DB{recordsT: records, targetsT: targets}, nil
}

// Name identifies the backend.
func (d *DB) Name() string {
	return Name
}

// Close is a no-op; the API client holds no open resources.
func (d *DB) Close() error {
	return nil
}

// =============================================================================
// Records
// =============================================================================

// recordMatcher matches rows by canonical date, canonical name and
// lowercased type, so rows typed by hand as 2025/8/12 or "Sato  Taro"
// still match the key a write would use.
func recordMatcher(t *table, key model.RecordKey) func([]string) bool {
	return func(row []string) bool {
		date, err := model.CanonicalDate(t.cell(row, "date"))
		if err != nil || date != key.Date {
			return false
		}
		return model.CanonicalName(t.cell(row, "name")) == key.Name &&
			strings.EqualFold(t.cell(row, "type"), string(key.Type))
	}
}

func (t *table) recordRow(row []string) *model.RecordRow {
	return &model.RecordRow{
		Date:  t.cell(row, "date"),
		Week:  t.cell(row, "week"),
		Name:  t.cell(row, "name"),
		Type:  t.cell(row, "type"),
		Count: t.cell(row, "count"),
	}
}

// GetRecord returns the first row matching key.
func (d *DB) GetRecord(ctx context.Context, key model.RecordKey) (*model.RecordRow, bool, error) {
	t, rows, err := d.loadRecords(ctx)
	if err != nil {
		return nil, false, err
	}
	i := t.find(rows, recordMatcher(t, key))
	if i < 0 {
		return nil, false, nil
	}
	return t.recordRow(rows[i]), true, nil
}

// PutRecord rewrites the first matching row in place, keeping any extra
// columns, or appends a new row.
func (d *DB) PutRecord(ctx context.Context, key model.RecordKey, row *model.RecordRow) error {
	t, rows, err := d.loadRecords(ctx)
	if err != nil {
		return err
	}
	values := map[string]string{
		"date":  row.Date,
		"week":  row.Week,
		"name":  row.Name,
		"type":  row.Type,
		"count": row.Count,
	}
	if i := t.find(rows, recordMatcher(t, key)); i >= 0 {
		return t.ws.Update(ctx, sheetRow(i), t.merge(rows[i], values))
	}
	return t.ws.Append(ctx, t.merge(nil, values))
}

// DeleteRecord removes the first row matching key.
func (d *DB) DeleteRecord(ctx context.Context, key model.RecordKey) (bool, error) {
	t, rows, err := d.loadRecords(ctx)
	if err != nil {
		return false, err
	}
	i := t.find(rows, recordMatcher(t, key))
	if i < 0 {
		return false, nil
	}
	if err := t.ws.DeleteRow(ctx, sheetRow(i)); err != nil {
		return false, err
	}
	return true, nil
}

// ListRecords returns every data row in sheet order.
func (d *DB) ListRecords(ctx context.Context) ([]*model.RecordRow, error) {
	t, rows, err := d.loadRecords(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.RecordRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, t.recordRow(row))
	}
	return out, nil
}

func (d *DB) loadRecords(ctx context.Context) (*table, [][]string, error) {
	t := d.recordsT
	rows, err := t.rows(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := t.require("date", "name", "type", "count"); err != nil {
		return nil, nil, err
	}
	return t, rows, nil
}

// =============================================================================
// Targets
// =============================================================================

func targetMatcher(t *table, key model.TargetKey) func([]string) bool {
	return func(row []string) bool {
		month, err := model.CanonicalMonth(t.cell(row, "month"))
		if err != nil || month != key.Month {
			return false
		}
		return strings.EqualFold(t.cell(row, "type"), string(key.Category))
	}
}

func (t *table) targetRow(row []string) *model.TargetRow {
	return &model.TargetRow{
		Month:  t.cell(row, "month"),
		Type:   t.cell(row, "type"),
		Target: t.cell(row, "target"),
	}
}

// GetTarget returns the first row matching key.
func (d *DB) GetTarget(ctx context.Context, key model.TargetKey) (*model.TargetRow, bool, error) {
	t, rows, err := d.loadTargets(ctx)
	if err != nil {
		return nil, false, err
	}
	i := t.find(rows, targetMatcher(t, key))
	if i < 0 {
		return nil, false, nil
	}
	return t.targetRow(rows[i]), true, nil
}

// PutTarget rewrites the first matching row or appends a new one.
func (d *DB) PutTarget(ctx context.Context, key model.TargetKey, row *model.TargetRow) error {
	t, rows, err := d.loadTargets(ctx)
	if err != nil {
		return err
	}
	values := map[string]string{
		"month":  row.Month,
		"type":   row.Type,
		"target": row.Target,
	}
	if i := t.find(rows, targetMatcher(t, key)); i >= 0 {
		return t.ws.Update(ctx, sheetRow(i), t.merge(rows[i], values))
	}
	return t.ws.Append(ctx, t.merge(nil, values))
}

// ListTargets returns every target row in sheet order.
func (d *DB) ListTargets(ctx context.Context) ([]*model.TargetRow, error) {
	t, rows, err := d.loadTargets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.TargetRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, t.targetRow(row))
	}
	return out, nil
}

func (d *DB) loadTargets(ctx context.Context) (*table, [][]string, error) {
	t := d.targetsT
	rows, err := t.rows(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := t.require("month", "type", "target"); err != nil {
		return nil, nil, err
	}
	return t, rows, nil
}
