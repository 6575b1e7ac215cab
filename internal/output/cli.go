package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/stats"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#10B981") // Green
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorWarning   = lipgloss.Color("#F59E0B") // Yellow
	colorError     = lipgloss.Color("#EF4444") // Red
	colorSuccess   = lipgloss.Color("#10B981") // Green

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleName = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleType = lipgloss.NewStyle().
			Foreground(colorSecondary)

	styleCount = lipgloss.NewStyle().
			Bold(true)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// Name formats a staff name.
func (c *CLIFormatter) Name(name string) string {
	return c.render(styleName, name)
}

// Type formats an activity type or category.
func (c *CLIFormatter) Type(typ string) string {
	return c.render(styleType, typ)
}

// Count formats a count.
func (c *CLIFormatter) Count(n int) string {
	return c.render(styleCount, FormatCount(n))
}

// PrintRecordSaved prints the outcome of a log command.
func (c *CLIFormatter) PrintRecordSaved(rec model.Record, added bool) {
	verb := "Set"
	if added {
		verb = "Updated"
	}
	c.Success(fmt.Sprintf("%s %s %s on %s (%s)", verb, rec.Name, rec.Type, rec.Date, rec.Week))
	c.Printf("  Count: %s\n", c.Count(rec.Count))
}

// PrintRecords prints records as a table.
func (c *CLIFormatter) PrintRecords(records []model.Record) {
	if len(records) == 0 {
		c.Muted("No records found.")
		return
	}
	rows := make([]TableRow, len(records))
	total := 0
	for i, r := range records {
		rows[i] = TableRow{Columns: []string{r.Date, r.Week, r.Name, string(r.Type), FormatCount(r.Count)}}
		total += r.Count
	}
	c.PrintTable([]string{"DATE", "WEEK", "NAME", "TYPE", "COUNT"}, rows)
	c.Println("")
	c.Printf("%d records, total %s\n", len(records), c.Count(total))
}

// PrintProgress prints a progress block for one category.
func (c *CLIFormatter) PrintProgress(p stats.Progress) {
	c.Printf("%s  %s\n", c.Type(string(p.Category)), p.Month)
	if p.Target <= 0 {
		c.Printf("  Total: %s\n", c.Count(p.Total))
		c.Muted("  No target set.")
		return
	}
	c.Printf("  %s  %s\n", ProgressBar(p.Rate, 30), FormatRate(p.Rate))
	c.Printf("  Total: %s / %s", c.Count(p.Total), FormatCount(p.Target))
	if p.Complete {
		c.Println("  " + c.render(styleSuccess, "target reached"))
	} else {
		c.Printf("  (%s to go)\n", FormatCount(p.Remaining))
	}
}

// PrintBars prints labelled totals as horizontal bars scaled to the largest.
func (c *CLIFormatter) PrintBars(labels []string, values []int) {
	peak, width := 0, 0
	for i, v := range values {
		peak = max(peak, v)
		width = max(width, len(labels[i]))
	}
	for i, v := range values {
		pct := 0.0
		if peak > 0 {
			pct = float64(v) * 100 / float64(peak)
		}
		c.Printf("  %-*s  %s  %s\n", width, labels[i], ProgressBar(pct, 24), c.Count(v))
	}
}

// PrintStaffTotals prints the staff ranking.
func (c *CLIFormatter) PrintStaffTotals(totals []stats.StaffTotal) {
	if len(totals) == 0 {
		c.Muted("No records in this period.")
		return
	}
	rows := make([]TableRow, len(totals))
	for i, t := range totals {
		rows[i] = TableRow{Columns: []string{fmt.Sprint(t.Rank), t.Name, FormatCount(t.Total)}}
	}
	c.PrintTable([]string{"#", "NAME", "TOTAL"}, rows)
}

// PrintComposition prints the app composition with shares.
func (c *CLIFormatter) PrintComposition(comp stats.Composition) {
	if comp.Total() == 0 {
		c.Muted("No app records in this period.")
		return
	}
	for _, part := range []struct {
		typ model.ActivityType
		n   int
	}{{model.TypeNew, comp.New}, {model.TypeExist, comp.Exist}, {model.TypeLine, comp.Line}} {
		share := comp.Share(part.typ)
		c.Printf("  %-6s %s  %6s  %s\n", part.typ, ProgressBar(share, 20), FormatRate(share), c.Count(part.n))
	}
	c.Printf("  %-6s %s\n", "total", c.Count(comp.Total()))
}

// ProgressBar creates a simple progress bar.
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	return strings.Repeat("█", filled) + strings.Repeat("░", empty)
}

// TableRow is one row of PrintTable.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table. Plain output is tab separated with no
// header decoration.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	if c.Format == FormatPlain {
		c.Println(strings.Join(headers, "\t"))
		for _, row := range rows {
			c.Println(strings.Join(row.Columns, "\t"))
		}
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(col))
			}
		}
	}

	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(pad(h, widths[i]))
	}
	c.Println(c.render(styleBold, strings.TrimRight(headerLine.String(), " ")))

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var line strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				line.WriteString(pad(col, widths[i]))
			}
		}
		c.Println(strings.TrimRight(line.String(), " "))
	}
}

// pad left-aligns s in a column of width w plus the column gap. Widths are
// measured in terminal cells so multibyte names line up.
func pad(s string, w int) string {
	return s + strings.Repeat(" ", w-lipgloss.Width(s)+2)
}
