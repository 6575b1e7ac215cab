package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/stats"
)

func newTestCLI(format Format) (*CLIFormatter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewCLIFormatter(&Formatter{Writer: &buf, Format: format, ColorMode: ColorNever}), &buf
}

// =============================================================================
// Formatter Tests
// =============================================================================

func TestNewFormatter(t *testing.T) {
	f := NewFormatter()
	assert.NotNil(t, f)
	assert.Equal(t, FormatCLI, f.Format)
	assert.Equal(t, ColorAuto, f.ColorMode)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatCLI, "JSON": FormatJSON, " plain ": FormatPlain, "cli": FormatCLI} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("yaml")
	assert.Error(t, err)
}

func TestParseColorMode(t *testing.T) {
	got, err := ParseColorMode("Always")
	require.NoError(t, err)
	assert.Equal(t, ColorAlways, got)
	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestFormatterIsColorEnabled(t *testing.T) {
	t.Run("color_always", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorAlways}
		assert.True(t, f.IsColorEnabled())
	})

	t.Run("color_never", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorNever}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("plain_never_colors", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorAlways, Format: FormatPlain}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("color_auto_non_terminal", func(t *testing.T) {
		var buf bytes.Buffer
		f := &Formatter{Writer: &buf, ColorMode: ColorAuto}
		assert.False(t, f.IsColorEnabled())
	})
}

func TestFormatterPrint(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf}

	f.Print("hello")
	f.Println(" world")
	f.Printf("%d", 42)
	assert.Equal(t, "hello world\n42", buf.String())
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf}

	require.NoError(t, f.JSON(map[string]string{"key": "value"}))
	assert.Contains(t, buf.String(), `"key": "value"`)
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1,000", FormatCount(1000))
	assert.Equal(t, "1,234,567", FormatCount(1234567))
	assert.Equal(t, "-12,345", FormatCount(-12345))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "66.7%", FormatRate(66.7))
	assert.Equal(t, "100.0%", FormatRate(100))
}

// =============================================================================
// CLI Formatter Tests
// =============================================================================

func TestCLIMessages(t *testing.T) {
	c, buf := newTestCLI(FormatCLI)

	c.Title("Title")
	c.Success("saved")
	c.Warning("careful")
	c.Error("failed")
	c.Muted("quiet")

	assert.Equal(t, "Title\n✓ saved\n⚠ careful\n✗ failed\nquiet\n", buf.String())
	assert.Equal(t, "Alice", c.Name("Alice"))
	assert.Equal(t, "1,200", c.Count(1200))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░", ProgressBar(0, 10))
	assert.Equal(t, "█████░░░░░", ProgressBar(50, 10))
	assert.Equal(t, "██████████", ProgressBar(150, 10))
	assert.Equal(t, "░░░░░░░░░░", ProgressBar(-5, 10))
}

func TestPrintTable(t *testing.T) {
	c, buf := newTestCLI(FormatCLI)
	c.PrintTable([]string{"NAME", "TOTAL"}, []TableRow{
		{Columns: []string{"Alice", "5"}},
		{Columns: []string{"佐藤", "12"}},
	})

	assert.Equal(t,
		"NAME   TOTAL\n"+
			"─────  ─────\n"+
			"Alice  5\n"+
			"佐藤   12\n",
		buf.String())
}

func TestPrintTablePlain(t *testing.T) {
	c, buf := newTestCLI(FormatPlain)
	c.PrintTable([]string{"NAME", "TOTAL"}, []TableRow{{Columns: []string{"Alice", "5"}}})
	assert.Equal(t, "NAME\tTOTAL\nAlice\t5\n", buf.String())
}

func TestPrintTableEmpty(t *testing.T) {
	c, buf := newTestCLI(FormatCLI)
	c.PrintTable([]string{"NAME"}, nil)
	assert.Empty(t, buf.String())
}

func TestPrintRecords(t *testing.T) {
	c, buf := newTestCLI(FormatCLI)
	c.PrintRecords(nil)
	assert.Equal(t, "No records found.\n", buf.String())

	buf.Reset()
	c.PrintRecords([]model.Record{
		{Date: "2025-08-12", Week: "33w", Name: "Alice", Type: model.TypeNew, Count: 3},
		{Date: "2025-08-13", Week: "33w", Name: "Bob", Type: model.TypeSurvey, Count: 1},
	})
	out := buf.String()
	assert.Contains(t, out, "DATE")
	assert.Contains(t, out, "2025-08-12  33w   Alice  new     3")
	assert.Contains(t, out, "2 records, total 4")
}

func TestPrintRecordSaved(t *testing.T) {
	c, buf := newTestCLI(FormatCLI)
	c.PrintRecordSaved(model.Record{Date: "2025-08-12", Week: "33w", Name: "Alice", Type: model.TypeLine, Count: 7}, true)
	assert.Equal(t, "✓ Updated Alice line on 2025-08-12 (33w)\n  Count: 7\n", buf.String())
}

func TestPrintProgress(t *testing.T) {
	c, buf := newTestCLI(FormatCLI)
	c.PrintProgress(stats.Progress{Month: "2025-08", Category: model.CategoryApp, Total: 5, Target: 10, Remaining: 5, Rate: 50})
	out := buf.String()
	assert.Contains(t, out, "app  2025-08")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "Total: 5 / 10  (5 to go)")

	buf.Reset()
	c.PrintProgress(stats.Progress{Month: "2025-08", Category: model.CategorySurvey, Total: 3})
	assert.Contains(t, buf.String(), "No target set.")

	buf.Reset()
	c.PrintProgress(stats.Progress{Month: "2025-08", Category: model.CategorySurvey, Total: 12, Target: 10, Rate: 100, Complete: true})
	assert.Contains(t, buf.String(), "target reached")
}

func TestPrintBars(t *testing.T) {
	c, buf := newTestCLI(FormatCLI)
	c.PrintBars([]string{"1w", "22w"}, []int{2, 4})
	assert.Equal(t,
		"  1w   ████████████░░░░░░░░░░░░  2\n"+
			"  22w  ████████████████████████  4\n",
		buf.String())
}

func TestPrintStaffTotals(t *testing.T) {
	c, buf := newTestCLI(FormatPlain)
	c.PrintStaffTotals([]stats.StaffTotal{{Rank: 1, Name: "A", Total: 5}, {Rank: 2, Name: "B", Total: 3}})
	assert.Equal(t, "#\tNAME\tTOTAL\n1\tA\t5\n2\tB\t3\n", buf.String())
}

func TestPrintComposition(t *testing.T) {
	c, buf := newTestCLI(FormatCLI)
	c.PrintComposition(stats.Composition{})
	assert.Equal(t, "No app records in this period.\n", buf.String())

	buf.Reset()
	c.PrintComposition(stats.Composition{New: 1, Exist: 1, Line: 2})
	out := buf.String()
	assert.Contains(t, out, "25.0%")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "total  4")
}

// =============================================================================
// JSON Formatter Tests
// =============================================================================

func TestJSONRecords(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf})

	require.NoError(t, j.PrintRecords([]model.Record{
		{Date: "2025-08-12", Week: "33w", Name: "Alice", Type: model.TypeNew, Count: 3},
		{Date: "2025-08-12", Week: "33w", Name: "Bob", Type: model.TypeNew, Count: 2},
	}))

	var resp RecordsResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalCount)
	assert.Equal(t, 5, resp.TotalSum)
	assert.Equal(t, "Alice", resp.Records[0].Name)
	assert.Equal(t, "new", resp.Records[0].Type)
}

func TestJSONEmptyRecordsIsArray(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf})
	require.NoError(t, j.PrintRecords(nil))
	assert.Contains(t, buf.String(), `"records": []`)
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf})
	require.NoError(t, j.PrintError("error", "invalid date", "use YYYY-MM-DD"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, ErrorResponse{Status: "error", Error: "invalid date", Message: "use YYYY-MM-DD"}, resp)
}

func TestCompositionResponseFlattens(t *testing.T) {
	comp := stats.Composition{New: 1, Exist: 2, Line: 3}
	data, err := json.Marshal(CompositionResponse{
		Filter:      NewFilterOutput(stats.ForYear(2025, model.CategoryApp)),
		Composition: comp,
		Total:       comp.Total(),
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"filter":{"category":"app","period":"year","year":2025},"new":1,"exist":2,"line":3,"total":6}`,
		string(data))
}

func TestNewFilterOutput(t *testing.T) {
	assert.Equal(t, &FilterOutput{Period: "all"}, NewFilterOutput(stats.Filter{}))
	assert.Equal(t,
		&FilterOutput{Category: "survey", Period: "week", Year: 2025, Week: 33},
		NewFilterOutput(stats.ForWeek(2025, 33, model.CategorySurvey)))
}

func TestNewSeries(t *testing.T) {
	points := NewSeries(stats.Weekdays[:], []int{1, 2, 3, 4, 5, 6, 7})
	require.Len(t, points, 7)
	assert.Equal(t, SeriesPoint{Label: "Sun", Total: 7}, points[6])
}
