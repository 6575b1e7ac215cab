package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/andst/staffboard/internal/errors"
	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/output"
	"github.com/andst/staffboard/internal/parser"
)

// targetCmd represents the target command.
var targetCmd = &cobra.Command{
	Use:     "target [MONTH]",
	Aliases: []string{"targets", "goal"},
	Short:   "Show or set monthly targets",
	Long: `Show the app and survey targets of a month, or every stored target
with --all.

Examples:
  staffboard target
  staffboard target 2025-08
  staffboard target --all
  staffboard target set 2025-08 app 120
  staffboard target set "next month" survey 40`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTargetShow,
}

// targetSetCmd sets a target.
var targetSetCmd = &cobra.Command{
	Use:   "set MONTH CATEGORY VALUE",
	Short: "Set the target of a category for a month",
	Long: `Set the target of a category for a month, replacing any previous value.

CATEGORY is app (new, exist and line combined) or survey.

Examples:
  staffboard target set 2025-08 app 120
  staffboard target set 2025/9 survey 30`,
	Args:              cobra.ExactArgs(3),
	ValidArgsFunction: completeTargetSetArgs,
	RunE:              runTargetSet,
}

var targetFlagAll bool

func init() {
	targetCmd.Flags().BoolVar(&targetFlagAll, "all", false, "List every stored target")

	targetCmd.AddCommand(targetSetCmd)
	rootCmd.AddCommand(targetCmd)
}

func runTargetShow(cmd *cobra.Command, args []string) error {
	c := cmd.Context()
	if targetFlagAll {
		targets, err := ctx.Cache.Store().ListTargets(c)
		if err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.JSONFormatter().PrintTargets(targets)
		}
		printTargets(targets)
		return nil
	}

	input := ""
	if len(args) > 0 {
		input = args[0]
	}
	month, err := parser.ParseMonth(input, time.Now())
	if err != nil {
		return err
	}

	targets := make([]model.Target, 0, len(model.Categories))
	for _, category := range model.Categories {
		value, err := ctx.Cache.GetTarget(c, month, string(category))
		if err != nil {
			return err
		}
		targets = append(targets, model.Target{Month: month, Category: category, Target: value})
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintTargets(targets)
	}
	printTargets(targets)
	return nil
}

func printTargets(targets []model.Target) {
	cli := ctx.CLIFormatter()
	if len(targets) == 0 {
		cli.Muted("No targets set.")
		cli.Muted("Use 'staffboard target set MONTH CATEGORY VALUE' to set one.")
		return
	}
	rows := make([]output.TableRow, len(targets))
	for i, t := range targets {
		value := output.FormatCount(t.Target)
		if t.Target == 0 {
			value = "-"
		}
		rows[i] = output.TableRow{Columns: []string{t.Month, string(t.Category), value}}
	}
	cli.PrintTable([]string{"MONTH", "CATEGORY", "TARGET"}, rows)
}

func runTargetSet(cmd *cobra.Command, args []string) error {
	month, err := parser.ParseMonth(args[0], time.Now())
	if err != nil {
		return err
	}
	value, err := strconv.Atoi(args[2])
	if err != nil {
		return errors.NewValidationError("target", args[2], "must be a whole number", nil).
			WithSuggestion("Use a number like 120")
	}

	target, err := ctx.Cache.SetTarget(cmd.Context(), month, args[1], value)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTargetOutput(target))
	}
	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Target for %s %s set to %s", cli.Type(string(target.Category)), target.Month, cli.Count(target.Target)))
	return nil
}
