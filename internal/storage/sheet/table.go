package sheet

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/andst/staffboard/internal/logging"
)

// newSheetRows and newSheetCols size freshly created worksheets.
const (
	newSheetRows = 1000
	newSheetCols = 10
)

// table is a worksheet addressed by header name.
type table struct {
	ws      Worksheet
	headers []string
	columns map[string]int
}

// ensureTable opens the named worksheet, creating it with headers if it is
// missing. A worksheet holding no data gets its header row rewritten; one
// holding data only has missing headers appended, so existing columns are
// never moved.
func ensureTable(ctx context.Context, wb Workbook, title string, headers []string) (*table, error) {
	ws, err := wb.Worksheet(ctx, title)
	if errors.Is(err, ErrWorksheetNotFound) {
		ws, err = wb.AddWorksheet(ctx, title, newSheetRows, max(newSheetCols, len(headers)))
		if err != nil {
			return nil, fmt.Errorf("add worksheet %q: %w", title, err)
		}
		if err := ws.Append(ctx, headers); err != nil {
			return nil, fmt.Errorf("write headers of %q: %w", title, err)
		}
		return newTable(ws, headers), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open worksheet %q: %w", title, err)
	}

	values, err := ws.Values(ctx)
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", title, err)
	}
	var first []string
	if len(values) > 0 {
		first = trimCells(values[0])
	}
	if slices.Equal(first, headers) {
		return newTable(ws, first), nil
	}

	if len(values) <= 1 {
		logging.Warn("rewriting worksheet headers", "worksheet", title)
		if err := ws.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clear worksheet %q: %w", title, err)
		}
		if err := ws.Append(ctx, headers); err != nil {
			return nil, fmt.Errorf("write headers of %q: %w", title, err)
		}
		return newTable(ws, headers), nil
	}

	repaired := slices.Clone(first)
	for _, h := range headers {
		if !slices.Contains(repaired, h) {
			repaired = append(repaired, h)
		}
	}
	if len(repaired) != len(first) {
		logging.Warn("appending missing worksheet headers", "worksheet", title, "headers", repaired[len(first):])
		if err := ws.Update(ctx, 1, repaired); err != nil {
			return nil, fmt.Errorf("repair headers of %q: %w", title, err)
		}
	}
	return newTable(ws, repaired), nil
}

func newTable(ws Worksheet, headers []string) *table {
	t := &table{ws: ws}
	t.setHeaders(headers)
	return t
}

func (t *table) setHeaders(headers []string) {
	t.headers = trimCells(headers)
	t.columns = make(map[string]int, len(t.headers))
	for i, h := range t.headers {
		if _, dup := t.columns[h]; !dup && h != "" {
			t.columns[h] = i
		}
	}
}

// rows reads the data rows, refreshing the column map from the header row
// in case someone reordered columns by hand.
func (t *table) rows(ctx context.Context) ([][]string, error) {
	values, err := t.ws.Values(ctx)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	t.setHeaders(values[0])
	return values[1:], nil
}

// require checks that every named column is present.
func (t *table) require(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := t.columns[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("worksheet %q is missing columns %s", t.ws.Title(), strings.Join(missing, ", "))
	}
	return nil
}

// cell returns the named cell of row, or "" if the row is short.
func (t *table) cell(row []string, name string) string {
	i, ok := t.columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// find returns the index of the first data row matching, or -1.
func (t *table) find(rows [][]string, match func(row []string) bool) int {
	for i, row := range rows {
		if match(row) {
			return i
		}
	}
	return -1
}

// merge writes values into a copy of base, widened to the header row.
func (t *table) merge(base []string, values map[string]string) []string {
	out := make([]string, max(len(base), len(t.headers)))
	copy(out, base)
	for name, v := range values {
		if i, ok := t.columns[name]; ok {
			out[i] = v
		}
	}
	return out
}

// sheetRow converts a data row index to a worksheet row number.
func sheetRow(i int) int {
	return i + 2
}

func trimCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	// Trailing empty cells are formatting, not headers.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}
