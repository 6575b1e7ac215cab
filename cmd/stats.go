package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/output"
	"github.com/andst/staffboard/internal/parser"
	"github.com/andst/staffboard/internal/stats"
	"github.com/andst/staffboard/internal/validate"
)

// Stats command flags.
var (
	statsFlagCategory string
	statsFlagPeriod   string
	statsFlagYear     string
	statsFlagMonth    string
	statsFlagWeek     string
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"stat", "st"},
	Short:   "Show aggregated statistics",
	Long: `Show aggregated statistics. Without a subcommand it shows this month's
progress toward the targets.

Filters:
  --category app|survey      app covers new, exist and line
  --period all|year|month|week
  --year, --month, --week    the narrowest one given selects the period

Examples:
  staffboard stats
  staffboard stats weekly --month 2025-08
  staffboard stats staff --period year --category survey
  staffboard stats daily --week 33w
  staffboard stats monthly --year 2025`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

var statsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Monthly progress toward the targets",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var statsWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Totals per ISO week (default: this month)",
	Args:  cobra.NoArgs,
	RunE:  runStatsWeekly,
}

var statsStaffCmd = &cobra.Command{
	Use:     "staff",
	Aliases: []string{"ranking"},
	Short:   "Staff ranking by total (default: this month)",
	Args:    cobra.NoArgs,
	RunE:    runStatsStaff,
}

var statsCompositionCmd = &cobra.Command{
	Use:   "composition",
	Short: "Share of new, exist and line within app (default: this month)",
	Args:  cobra.NoArgs,
	RunE:  runStatsComposition,
}

var statsMonthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Totals per month of a year (default: this year)",
	Args:  cobra.NoArgs,
	RunE:  runStatsMonthly,
}

var statsDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Totals per weekday of an ISO week (default: this week)",
	Args:  cobra.NoArgs,
	RunE:  runStatsDaily,
}

func init() {
	flags := statsCmd.PersistentFlags()
	flags.StringVarP(&statsFlagCategory, "category", "c", "", "Category: app, survey (default: both or app)")
	flags.StringVarP(&statsFlagPeriod, "period", "p", "", "Period: all, year, month, week")
	flags.StringVarP(&statsFlagYear, "year", "y", "", "Calendar year")
	flags.StringVarP(&statsFlagMonth, "month", "m", "", "Month (YYYY-MM or 'last month')")
	flags.StringVarP(&statsFlagWeek, "week", "w", "", "ISO week (33 or 33w)")

	statsCmd.RegisterFlagCompletionFunc("category", completeCategories)
	statsCmd.RegisterFlagCompletionFunc("period", cobra.FixedCompletions(
		[]string{"all", "year", "month", "week"}, cobra.ShellCompDirectiveNoFileComp))

	statsCmd.AddCommand(statsSummaryCmd)
	statsCmd.AddCommand(statsWeeklyCmd)
	statsCmd.AddCommand(statsStaffCmd)
	statsCmd.AddCommand(statsCompositionCmd)
	statsCmd.AddCommand(statsMonthlyCmd)
	statsCmd.AddCommand(statsDailyCmd)
	rootCmd.AddCommand(statsCmd)
}

// statsFilter resolves the filter flags. With no filter flags at all the
// current month is used.
func statsFilter(now time.Time) (stats.Filter, error) {
	q := stats.Query{
		Category: statsFlagCategory,
		Period:   statsFlagPeriod,
		Year:     statsFlagYear,
		Month:    statsFlagMonth,
		Week:     statsFlagWeek,
	}
	if q.Month != "" {
		month, err := parser.ParseMonth(q.Month, now)
		if err != nil {
			return stats.Filter{}, err
		}
		q.Month = month
	}
	if q.Period == "" && q.Year == "" && q.Month == "" && q.Week == "" {
		q.Period = string(stats.PeriodMonth)
	}
	return q.Filter(now)
}

// statsCategory resolves --category for views that show one category.
func statsCategory() (model.Category, error) {
	if statsFlagCategory == "" {
		return model.CategoryApp, nil
	}
	return validate.Category(statsFlagCategory)
}

func runSummary(cmd *cobra.Command, args []string) error {
	now := time.Now()
	month, err := parser.ParseMonth(statsFlagMonth, now)
	if err != nil {
		return err
	}
	categories := model.Categories
	if statsFlagCategory != "" {
		c, err := validate.Category(statsFlagCategory)
		if err != nil {
			return err
		}
		categories = []model.Category{c}
	}

	c := cmd.Context()
	records, err := ctx.Cache.Records(c)
	if err != nil {
		return err
	}
	resp := output.SummaryResponse{Progress: make([]stats.Progress, 0, len(categories))}
	for _, category := range categories {
		target, err := ctx.Cache.GetTarget(c, month, string(category))
		if err != nil {
			return err
		}
		resp.Progress = append(resp.Progress, stats.Summary(records, month, category, target))
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(resp)
	}
	cli := ctx.CLIFormatter()
	cli.Title("Progress " + month)
	for i, p := range resp.Progress {
		if i > 0 {
			cli.Println("")
		}
		cli.PrintProgress(p)
	}
	return nil
}

func runStatsWeekly(cmd *cobra.Command, args []string) error {
	f, err := statsFilter(time.Now())
	if err != nil {
		return err
	}
	records, err := ctx.Cache.Records(cmd.Context())
	if err != nil {
		return err
	}
	weeks := stats.SortedWeeklyTotals(records, f)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.WeeklyResponse{Filter: output.NewFilterOutput(f), Weeks: weeks})
	}
	cli := ctx.CLIFormatter()
	cli.Title("Weekly totals, " + f.String())
	if len(weeks) == 0 {
		cli.Muted("No records in this period.")
		return nil
	}
	labels := make([]string, len(weeks))
	values := make([]int, len(weeks))
	for i, w := range weeks {
		labels[i], values[i] = w.Label, w.Total
	}
	cli.PrintBars(labels, values)
	return nil
}

func runStatsStaff(cmd *cobra.Command, args []string) error {
	f, err := statsFilter(time.Now())
	if err != nil {
		return err
	}
	records, err := ctx.Cache.Records(cmd.Context())
	if err != nil {
		return err
	}
	totals := stats.StaffTotals(records, f)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.StaffResponse{Filter: output.NewFilterOutput(f), Staff: totals})
	}
	cli := ctx.CLIFormatter()
	cli.Title("Staff ranking, " + f.String())
	cli.PrintStaffTotals(totals)
	return nil
}

func runStatsComposition(cmd *cobra.Command, args []string) error {
	f, err := statsFilter(time.Now())
	if err != nil {
		return err
	}
	f.Category = model.CategoryApp
	records, err := ctx.Cache.Records(cmd.Context())
	if err != nil {
		return err
	}
	comp := stats.CompositionTotals(records, f)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.CompositionResponse{
			Filter:      output.NewFilterOutput(f),
			Composition: comp,
			Total:       comp.Total(),
		})
	}
	cli := ctx.CLIFormatter()
	cli.Title("Composition, " + f.String())
	cli.PrintComposition(comp)
	return nil
}

func runStatsMonthly(cmd *cobra.Command, args []string) error {
	category, err := statsCategory()
	if err != nil {
		return err
	}
	year := time.Now().Year()
	if statsFlagYear != "" {
		if year, err = validate.Year(statsFlagYear); err != nil {
			return err
		}
	}
	records, err := ctx.Cache.Records(cmd.Context())
	if err != nil {
		return err
	}
	labels := stats.MonthLabels(year)
	totals := stats.MonthlyTotals(records, year, category)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.SeriesResponse{
			Category: string(category),
			Year:     year,
			Points:   output.NewSeries(labels[:], totals[:]),
		})
	}
	cli := ctx.CLIFormatter()
	cli.Title(fmt.Sprintf("Monthly totals, %s, %d", category, year))
	cli.PrintBars(labels[:], totals[:])
	return nil
}

func runStatsDaily(cmd *cobra.Command, args []string) error {
	category, err := statsCategory()
	if err != nil {
		return err
	}
	f, err := stats.Query{Period: string(stats.PeriodWeek), Year: statsFlagYear, Week: statsFlagWeek}.Filter(time.Now())
	if err != nil {
		return err
	}
	records, err := ctx.Cache.Records(cmd.Context())
	if err != nil {
		return err
	}
	totals := stats.DailyTotals(records, f.Year, f.Week, category)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.SeriesResponse{
			Category: string(category),
			Year:     f.Year,
			Week:     f.Week,
			Points:   output.NewSeries(stats.Weekdays[:], totals[:]),
		})
	}
	cli := ctx.CLIFormatter()
	cli.Title(fmt.Sprintf("Daily totals, %s, %s %s", category, strconv.Itoa(f.Year), model.WeekLabel(f.Week)))
	cli.PrintBars(stats.Weekdays[:], totals[:])
	return nil
}
