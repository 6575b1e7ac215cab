package sheet

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// memWorkbook is an in-memory Workbook.
type memWorkbook struct {
	mu     sync.Mutex
	sheets map[string]*memSheet
	calls  int
	fail   error
}

func newMemWorkbook() *memWorkbook {
	return &memWorkbook{sheets: map[string]*memSheet{}}
}

func (w *memWorkbook) Worksheet(_ context.Context, title string) (Worksheet, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.fail != nil {
		return nil, w.fail
	}
	s, ok := w.sheets[title]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrWorksheetNotFound, title)
	}
	return s, nil
}

func (w *memWorkbook) AddWorksheet(_ context.Context, title string, _, _ int) (Worksheet, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if _, ok := w.sheets[title]; ok {
		return nil, errors.New("worksheet exists")
	}
	s := &memSheet{wb: w, title: title}
	w.sheets[title] = s
	return s, nil
}

// seed creates a worksheet holding rows verbatim.
func (w *memWorkbook) seed(title string, rows ...[]string) *memSheet {
	s := &memSheet{wb: w, title: title}
	for _, r := range rows {
		s.rows = append(s.rows, slices.Clone(r))
	}
	w.sheets[title] = s
	return s
}

type memSheet struct {
	wb    *memWorkbook
	title string
	rows  [][]string
}

func (s *memSheet) Title() string { return s.title }

func (s *memSheet) Values(context.Context) ([][]string, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	s.wb.calls++
	if s.wb.fail != nil {
		return nil, s.wb.fail
	}
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = slices.Clone(r)
	}
	return out, nil
}

func (s *memSheet) Append(_ context.Context, cells []string) error {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	s.wb.calls++
	if s.wb.fail != nil {
		return s.wb.fail
	}
	s.rows = append(s.rows, slices.Clone(cells))
	return nil
}

func (s *memSheet) Update(_ context.Context, row int, cells []string) error {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	s.wb.calls++
	if s.wb.fail != nil {
		return s.wb.fail
	}
	for len(s.rows) < row {
		s.rows = append(s.rows, nil)
	}
	s.rows[row-1] = slices.Clone(cells)
	return nil
}

func (s *memSheet) DeleteRow(_ context.Context, row int) error {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	s.wb.calls++
	if s.wb.fail != nil {
		return s.wb.fail
	}
	if row < 1 || row > len(s.rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	s.rows = slices.Delete(s.rows, row-1, row)
	return nil
}

func (s *memSheet) Clear(context.Context) error {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	s.wb.calls++
	s.rows = nil
	return nil
}
