package sheet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/andst/staffboard/internal/validate"
)

// valueInputOption makes numbers and dates typed into the sheet behave as
// numbers and dates for anyone editing it by hand.
const valueInputOption = "USER_ENTERED"

// ErrNoCredentials is returned when neither a key file nor key JSON is set.
var ErrNoCredentials = errors.New("no service account credentials")

// GoogleOptions configures the Google Sheets client.
type GoogleOptions struct {
	// SpreadsheetID is the document id from the sheet URL.
	SpreadsheetID string
	// CredentialsFile is a service account key file.
	CredentialsFile string
	// CredentialsJSON is a service account key; it wins over CredentialsFile.
	CredentialsJSON string
	// Timeout bounds each API call. Zero means no timeout.
	Timeout time.Duration
	// ClientOptions are appended after the credential options.
	ClientOptions []option.ClientOption
}

// Client is a Workbook backed by the Google Sheets API.
type Client struct {
	svc     *sheets.Service
	id      string
	timeout time.Duration
}

var _ Workbook = (*Client)(nil)

// NewGoogleClient authenticates with a service account and returns a
// workbook for the given spreadsheet.
func NewGoogleClient(ctx context.Context, opts GoogleOptions) (*Client, error) {
	var clientOpts []option.ClientOption
	switch {
	case opts.CredentialsJSON != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
	case opts.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	case len(opts.ClientOptions) == 0:
		return nil, ErrNoCredentials
	}
	clientOpts = append(clientOpts, option.WithScopes(sheets.SpreadsheetsScope))
	clientOpts = append(clientOpts, opts.ClientOptions...)

	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, id: opts.SpreadsheetID, timeout: opts.Timeout}, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Worksheet looks up a tab by title.
func (c *Client) Worksheet(ctx context.Context, title string) (Worksheet, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	ss, err := c.svc.Spreadsheets.Get(c.id).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return &googleSheet{client: c, sheetID: s.Properties.SheetId, title: title}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrWorksheetNotFound, title)
}

// AddWorksheet creates a tab.
func (c *Client) AddWorksheet(ctx context.Context, title string, rows, cols int) (Worksheet, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
			},
		}},
	}
	resp, err := c.svc.Spreadsheets.BatchUpdate(c.id, req).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return nil, fmt.Errorf("add worksheet %q: empty reply", title)
	}
	props := resp.Replies[0].AddSheet.Properties
	return &googleSheet{client: c, sheetID: props.SheetId, title: title}, nil
}

// googleSheet is one tab of a Client.
type googleSheet struct {
	client  *Client
	sheetID int64
	title   string
}

func (s *googleSheet) Title() string {
	return s.title
}

// a1 quotes the title for use in A1 notation.
func (s *googleSheet) a1(rng string) string {
	quoted := "'" + strings.ReplaceAll(s.title, "'", "''") + "'"
	if rng == "" {
		return quoted
	}
	return quoted + "!" + rng
}

func (s *googleSheet) Values(ctx context.Context) ([][]string, error) {
	ctx, cancel := s.client.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.svc.Spreadsheets.Values.Get(s.client.id, s.a1("")).
		ValueRenderOption("FORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		out[i] = cells
	}
	return out, nil
}

func (s *googleSheet) Append(ctx context.Context, cells []string) error {
	ctx, cancel := s.client.withTimeout(ctx)
	defer cancel()

	_, err := s.client.svc.Spreadsheets.Values.Append(s.client.id, s.a1("A1"), valueRange(cells)).
		ValueInputOption(valueInputOption).InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

func (s *googleSheet) Update(ctx context.Context, row int, cells []string) error {
	ctx, cancel := s.client.withTimeout(ctx)
	defer cancel()

	rng := fmt.Sprintf("A%d:%s%d", row, columnName(max(len(cells), 1)), row)
	_, err := s.client.svc.Spreadsheets.Values.Update(s.client.id, s.a1(rng), valueRange(cells)).
		ValueInputOption(valueInputOption).Context(ctx).Do()
	return err
}

func (s *googleSheet) DeleteRow(ctx context.Context, row int) error {
	ctx, cancel := s.client.withTimeout(ctx)
	defer cancel()

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    s.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
					// The first tab has id 0, which is otherwise omitted.
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		}},
	}
	_, err := s.client.svc.Spreadsheets.BatchUpdate(s.client.id, req).Context(ctx).Do()
	return err
}

func (s *googleSheet) Clear(ctx context.Context) error {
	ctx, cancel := s.client.withTimeout(ctx)
	defer cancel()

	_, err := s.client.svc.Spreadsheets.Values.Clear(s.client.id, s.a1(""), &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	return err
}

// valueRange builds a one-row payload. Cells are neutralised so a name like
// "=HYPERLINK(...)" stays text under USER_ENTERED input.
func valueRange(cells []string) *sheets.ValueRange {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = validate.SanitizeCell(c)
	}
	return &sheets.ValueRange{Values: [][]interface{}{row}}
}

// columnName converts a 1-based column number to its A1 letters.
func columnName(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
