package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/andst/staffboard/internal/output"
	"github.com/andst/staffboard/internal/parser"
	"github.com/andst/staffboard/internal/validate"
)

// Delete command flags.
var (
	deleteFlagDate string
	deleteFlagName string
	deleteFlagType string
	deleteFlagYes  bool
)

// deleteCmd represents the delete command.
var deleteCmd = &cobra.Command{
	Use:     "delete --date DATE --name NAME --type TYPE",
	Aliases: []string{"rm", "remove"},
	Short:   "Delete a mistaken record",
	Long: `Delete the record with the exact date, name and type.

On a terminal you are asked to confirm; --yes skips the prompt.

Examples:
  staffboard delete --date 2025-08-12 --name Sato --type new
  staffboard delete --date yesterday --name Sato --type survey --yes`,
	Args: cobra.NoArgs,
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().StringVarP(&deleteFlagDate, "date", "d", "", "Date of the record (required)")
	deleteCmd.Flags().StringVarP(&deleteFlagName, "name", "n", "", "Staff name (required)")
	deleteCmd.Flags().StringVarP(&deleteFlagType, "type", "t", "", "Activity type (required)")
	deleteCmd.Flags().BoolVarP(&deleteFlagYes, "yes", "y", false, "Do not ask for confirmation")
	deleteCmd.MarkFlagRequired("date")
	deleteCmd.MarkFlagRequired("name")
	deleteCmd.MarkFlagRequired("type")

	deleteCmd.RegisterFlagCompletionFunc("name", completeNames)
	deleteCmd.RegisterFlagCompletionFunc("type", completeTypes)

	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	date, err := parser.ParseDate(deleteFlagDate, time.Now())
	if err != nil {
		return err
	}
	typ, err := validate.ActivityType(deleteFlagType)
	if err != nil {
		return err
	}

	if !deleteFlagYes && isTerminal(os.Stdin) && !ctx.IsJSON() {
		prompt := fmt.Sprintf("Delete %s %s on %s?", deleteFlagName, typ, date)
		if !confirm(os.Stdin, os.Stderr, prompt) {
			ctx.CLIFormatter().Muted("Cancelled.")
			return nil
		}
	}

	deleted, err := ctx.Cache.Delete(cmd.Context(), date, deleteFlagName, string(typ))
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.DeleteResponse{
			Deleted: deleted,
			Date:    date,
			Name:    validate.SanitizeName(deleteFlagName),
			Type:    string(typ),
		})
	}

	cli := ctx.CLIFormatter()
	if !deleted {
		cli.Warning(fmt.Sprintf("No record for %s %s on %s.", deleteFlagName, typ, date))
		return nil
	}
	cli.Success(fmt.Sprintf("Deleted %s %s on %s", cli.Name(deleteFlagName), typ, date))
	return nil
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// confirm asks a yes/no question and reports whether the answer was yes.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
