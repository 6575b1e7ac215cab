package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/output"
	"github.com/andst/staffboard/internal/parser"
	"github.com/andst/staffboard/internal/stats"
	"github.com/andst/staffboard/internal/storage"
)

// Export command flags.
var (
	exportFlagAs     string
	exportFlagMonth  string
	exportFlagOutput string
)

// csvHeader is the column layout of exported and imported CSV files.
var csvHeader = []string{"date", "week", "name", "type", "count"}

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"ex", "dump"},
	Short:   "Export records and targets",
	Long: `Export records as CSV, or records and targets as JSON.

The JSON export is a full backup that 'staffboard import' reads back.

Examples:
  staffboard export
  staffboard export --as csv -o august.csv --month 2025-08
  staffboard export -o backup.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFlagAs, "as", "json", "File format: json, csv")
	exportCmd.Flags().StringVarP(&exportFlagMonth, "month", "m", "", "Only records of this month")
	exportCmd.Flags().StringVarP(&exportFlagOutput, "output", "o", "", "Output file (stdout if omitted)")

	exportCmd.RegisterFlagCompletionFunc("as", cobra.FixedCompletions(
		[]string{"json", "csv"}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(exportCmd)
}

// Backup is the JSON export format.
type Backup struct {
	Version    string                 `json:"version"`
	ExportedAt string                 `json:"exported_at"`
	Records    []*output.RecordOutput `json:"records"`
	Targets    []*output.TargetOutput `json:"targets"`
}

func runExport(cmd *cobra.Command, args []string) error {
	month := ""
	if exportFlagMonth != "" {
		var err error
		if month, err = parser.ParseMonth(exportFlagMonth, time.Now()); err != nil {
			return err
		}
	}

	c := cmd.Context()
	records, err := ctx.Cache.Records(c)
	if err != nil {
		return err
	}
	records = stats.Select(records, month, "")

	var buf bytes.Buffer
	switch exportFlagAs {
	case "csv":
		err = writeRecordsCSV(&buf, records)
	case "json":
		var targets []model.Target
		if targets, err = ctx.Cache.Store().ListTargets(c); err == nil {
			err = writeBackup(&buf, records, targets, time.Now())
		}
	default:
		return fmt.Errorf("unknown export format %q (use json or csv)", exportFlagAs)
	}
	if err != nil {
		return err
	}

	if exportFlagOutput == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := storage.SafeWrite(exportFlagOutput, buf.Bytes(), 0o644); err != nil {
		return err
	}
	if !ctx.IsJSON() {
		ctx.CLIFormatter().Success(fmt.Sprintf("Exported %d records to %s", len(records), exportFlagOutput))
	}
	return nil
}

func writeRecordsCSV(w io.Writer, records []model.Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := writer.Write([]string{
			r.Date,
			r.Week,
			r.Name,
			string(r.Type),
			strconv.Itoa(r.Count),
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeBackup(w io.Writer, records []model.Record, targets []model.Target, now time.Time) error {
	backup := Backup{
		Version:    "1",
		ExportedAt: now.Format(time.RFC3339),
		Records:    make([]*output.RecordOutput, len(records)),
		Targets:    make([]*output.TargetOutput, len(targets)),
	}
	for i, r := range records {
		backup.Records[i] = output.NewRecordOutput(r)
	}
	for i, t := range targets {
		backup.Targets[i] = output.NewTargetOutput(t)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}
