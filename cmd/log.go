package cmd

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/andst/staffboard/internal/errors"
	"github.com/andst/staffboard/internal/logging"
	"github.com/andst/staffboard/internal/parser"
)

// Log command flags.
var (
	logFlagName string
	logFlagDate string
	logFlagAdd  bool
)

// logCmd represents the log command.
var logCmd = &cobra.Command{
	Use:     "log TYPE COUNT",
	Aliases: []string{"l", "set"},
	Short:   "Record a staff member's count for a day",
	Long: `Record how many activities of TYPE a staff member did on a day.

TYPE is one of new, exist, line or survey. The count replaces any count
already stored for the same date, name and type; use --add to add to it.

Dates accept YYYY-MM-DD, YYYY/MM/DD or phrases like "yesterday".

Examples:
  staffboard log new 3 --name Sato
  staffboard log line 1 --name Sato --date 2025/08/12
  staffboard log survey 2 --name Kato --date yesterday
  staffboard log exist 1 --name Sato --add`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeTypeArgs,
	RunE:              runLog,
}

func init() {
	logCmd.Flags().StringVarP(&logFlagName, "name", "n", "", "Staff name (required)")
	logCmd.Flags().StringVarP(&logFlagDate, "date", "d", "today", "Date of the activity")
	logCmd.Flags().BoolVarP(&logFlagAdd, "add", "a", false, "Add COUNT to the stored count instead of replacing it")
	logCmd.MarkFlagRequired("name")

	// Dynamic completion for staff names
	logCmd.RegisterFlagCompletionFunc("name", completeNames)

	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	count, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.NewValidationError("count", args[1], "must be a whole number", nil).
			WithSuggestion("Use a number like 3, or a negative one with --add to correct a total")
	}

	c := cmd.Context()
	date, err := parser.ParseDate(logFlagDate, time.Now())
	if err != nil {
		return err
	}
	logging.DebugContext(c, "resolved date", "input", logFlagDate, logging.KeyDate, date)

	if logFlagAdd {
		rec, err := ctx.Cache.Add(c, date, logFlagName, args[0], count)
		if err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.JSONFormatter().PrintRecord("added", rec)
		}
		ctx.CLIFormatter().PrintRecordSaved(rec, true)
		return nil
	}

	rec, err := ctx.Cache.Upsert(c, date, logFlagName, args[0], count)
	if err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintRecord("set", rec)
	}
	ctx.CLIFormatter().PrintRecordSaved(rec, false)
	return nil
}
