// Package sheet stores records and targets as rows of a spreadsheet.
//
// Each table is a worksheet whose first row holds the column headers. Rows
// are located by a linear scan, so the backend suits the few thousand rows
// a store produces in a year.
package sheet

import (
	"context"
	"errors"
)

// ErrWorksheetNotFound is returned by Workbook.Worksheet for a missing tab.
var ErrWorksheetNotFound = errors.New("worksheet not found")

// Workbook is a spreadsheet document.
type Workbook interface {
	Worksheet(ctx context.Context, title string) (Worksheet, error)
	AddWorksheet(ctx context.Context, title string, rows, cols int) (Worksheet, error)
}

// Worksheet is one tab of a workbook. Row numbers are 1-based and include
// the header row.
type Worksheet interface {
	Title() string
	// Values returns every non-empty row, header first.
	Values(ctx context.Context) ([][]string, error)
	// Append adds a row after the last non-empty one.
	Append(ctx context.Context, cells []string) error
	// Update overwrites the cells of row starting at column A.
	Update(ctx context.Context, row int, cells []string) error
	// DeleteRow removes row, shifting later rows up.
	DeleteRow(ctx context.Context, row int) error
	// Clear empties the worksheet.
	Clear(ctx context.Context) error
}
