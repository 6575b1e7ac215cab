package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andst/staffboard/internal/errors"
	"github.com/andst/staffboard/internal/logging"
	"github.com/andst/staffboard/internal/validate"
)

// Import command flags.
var (
	importFlagDryRun bool
)

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:     "import FILE",
	Aliases: []string{"imp", "restore"},
	Short:   "Import records from CSV or a JSON backup",
	Long: `Import records from a CSV file with the header date,week,name,type,count,
or from a JSON backup written by 'staffboard export'.

Every valid row is upserted; invalid rows are skipped and reported. The week
column is ignored and derived from the date.

Examples:
  staffboard import august.csv
  staffboard import backup.json
  staffboard import august.csv --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importFlagDryRun, "dry-run", false, "Preview import without making changes")

	rootCmd.AddCommand(importCmd)
}

// importRow is one record read from an import file.
type importRow struct {
	Line  int
	Date  string
	Name  string
	Type  string
	Count string
}

// importTarget is one target read from a backup.
type importTarget struct {
	Month    string
	Category string
	Target   int
}

// importSkip records why a row was not imported.
type importSkip struct {
	Line   int    `json:"row,omitempty"`
	Reason string `json:"reason"`
}

// ImportResult summarises an import.
type ImportResult struct {
	Records int          `json:"records"`
	Targets int          `json:"targets"`
	Skipped []importSkip `json:"skipped"`
	DryRun  bool         `json:"dry_run"`
}

func runImport(cmd *cobra.Command, args []string) error {
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var rows []importRow
	var targets []importTarget
	var skipped []importSkip
	if isJSONImport(filename, data) {
		rows, targets, err = readBackup(data)
	} else {
		rows, skipped, err = readRecordsCSV(bytes.NewReader(data))
	}
	if err != nil {
		return err
	}

	result := ImportResult{Skipped: skipped, DryRun: importFlagDryRun}
	c := cmd.Context()
	for _, row := range rows {
		count, err := checkRow(row)
		if err != nil {
			result.Skipped = append(result.Skipped, importSkip{Line: row.Line, Reason: err.Error()})
			continue
		}
		if !importFlagDryRun {
			if _, err := ctx.Cache.Upsert(c, row.Date, row.Name, row.Type, count); err != nil {
				// Backend failures abort the import.
				if errors.IsValidationError(err) {
					result.Skipped = append(result.Skipped, importSkip{Line: row.Line, Reason: err.Error()})
					continue
				}
				return err
			}
		}
		result.Records++
	}
	for _, t := range targets {
		if !importFlagDryRun {
			if _, err := ctx.Cache.SetTarget(c, t.Month, t.Category, t.Target); err != nil {
				if errors.IsValidationError(err) {
					result.Skipped = append(result.Skipped, importSkip{Reason: err.Error()})
					continue
				}
				return err
			}
		}
		result.Targets++
	}
	logging.InfoContext(c, "import finished", "file", filename, "records", result.Records,
		"targets", result.Targets, "skipped", len(result.Skipped))

	if ctx.IsJSON() {
		if result.Skipped == nil {
			result.Skipped = []importSkip{}
		}
		return ctx.Formatter.JSON(result)
	}
	printImportResult(result)
	return nil
}

func printImportResult(result ImportResult) {
	cli := ctx.CLIFormatter()
	if result.DryRun {
		cli.Title("Dry Run - Import Preview")
	}
	verb := "Imported"
	if result.DryRun {
		verb = "Would import"
	}
	cli.Success(fmt.Sprintf("%s %d records, %d targets", verb, result.Records, result.Targets))
	if len(result.Skipped) == 0 {
		return
	}
	cli.Warning(fmt.Sprintf("Skipped %d rows:", len(result.Skipped)))
	for _, s := range result.Skipped {
		if s.Line > 0 {
			cli.Printf("  row %d: %s\n", s.Line, s.Reason)
		} else {
			cli.Printf("  %s\n", s.Reason)
		}
	}
}

// isJSONImport detects a backup by extension or leading brace.
func isJSONImport(filename string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return true
	}
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
}

// checkRow validates a row the way the store will and returns its count.
func checkRow(row importRow) (int, error) {
	if _, err := validate.Date(row.Date); err != nil {
		return 0, err
	}
	if _, err := validate.StaffName(row.Name); err != nil {
		return 0, err
	}
	if _, err := validate.ActivityType(row.Type); err != nil {
		return 0, err
	}
	count, err := parseImportCount(row.Count)
	if err != nil {
		return 0, err
	}
	return count, validate.Count("count", count)
}

// parseImportCount accepts whole numbers written as "3" or "3.0".
func parseImportCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("count: not a whole number '%s'", raw)
	}
	return int(f), nil
}

// readRecordsCSV reads rows by header name, so column order does not matter.
// Rows with the wrong number of cells are skipped.
func readRecordsCSV(r io.Reader) ([]importRow, []importSkip, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("import file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"date", "name", "type", "count"} {
		if _, ok := columns[required]; !ok {
			return nil, nil, fmt.Errorf("CSV header has no %q column (want %s)", required, strings.Join(csvHeader, ","))
		}
	}

	var rows []importRow
	var skipped []importSkip
	for line := 2; ; line++ {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped = append(skipped, importSkip{Line: line, Reason: err.Error()})
			continue
		}
		cell := func(name string) string {
			if i := columns[name]; i < len(cells) {
				return cells[i]
			}
			return ""
		}
		rows = append(rows, importRow{
			Line:  line,
			Date:  cell("date"),
			Name:  cell("name"),
			Type:  cell("type"),
			Count: cell("count"),
		})
	}
	return rows, skipped, nil
}

// readBackup reads a JSON backup written by export.
func readBackup(data []byte) ([]importRow, []importTarget, error) {
	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, nil, fmt.Errorf("failed to parse backup: %w", err)
	}
	if backup.Version == "" {
		return nil, nil, fmt.Errorf("unrecognized file format")
	}

	rows := make([]importRow, 0, len(backup.Records))
	for i, r := range backup.Records {
		if r == nil {
			continue
		}
		rows = append(rows, importRow{
			Line:  i + 1,
			Date:  r.Date,
			Name:  r.Name,
			Type:  r.Type,
			Count: strconv.Itoa(r.Count),
		})
	}
	targets := make([]importTarget, 0, len(backup.Targets))
	for _, t := range backup.Targets {
		if t == nil {
			continue
		}
		targets = append(targets, importTarget{Month: t.Month, Category: t.Category, Target: t.Target})
	}
	return rows, targets, nil
}
