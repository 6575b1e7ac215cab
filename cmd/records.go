package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/andst/staffboard/internal/parser"
	"github.com/andst/staffboard/internal/stats"
)

// Records command flags.
var (
	recordsFlagMonth string
	recordsFlagName  string
	recordsFlagLimit int
)

// recordsCmd represents the records command.
var recordsCmd = &cobra.Command{
	Use:     "records",
	Aliases: []string{"ls", "list"},
	Short:   "List records, newest first",
	Long: `List stored records, newest first.

Examples:
  staffboard records
  staffboard records --month 2025-08
  staffboard records --month "last month" --name Sato
  staffboard records --format json`,
	Args: cobra.NoArgs,
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().StringVarP(&recordsFlagMonth, "month", "m", "", "Only records of this month")
	recordsCmd.Flags().StringVarP(&recordsFlagName, "name", "n", "", "Only records of this staff member")
	recordsCmd.Flags().IntVarP(&recordsFlagLimit, "limit", "l", 0, "Show at most this many records")

	recordsCmd.RegisterFlagCompletionFunc("name", completeNames)

	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, args []string) error {
	month := ""
	if recordsFlagMonth != "" {
		var err error
		if month, err = parser.ParseMonth(recordsFlagMonth, time.Now()); err != nil {
			return err
		}
	}

	records, err := ctx.Cache.Records(cmd.Context())
	if err != nil {
		return err
	}
	records = stats.Select(records, month, recordsFlagName)
	if recordsFlagLimit > 0 && len(records) > recordsFlagLimit {
		records = records[:recordsFlagLimit]
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintRecords(records)
	}
	ctx.CLIFormatter().PrintRecords(records)
	return nil
}
