package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/andst/staffboard/internal/tui"
)

// Dashboard command flags.
var (
	dashboardFlagStaff int
)

// dashboardCmd represents the dashboard command.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "tui"},
	Short:   "Open the interactive TUI dashboard",
	Long: `Open an interactive terminal dashboard for one month.

The dashboard shows:
  - Progress toward the month's target
  - Totals per ISO week
  - Staff ranking
  - Composition of new, exist and line (app only)

Keyboard Controls:
  tab      - Switch between app and survey
  ←/→, h/l - Previous or next month
  r        - Reload from the backend
  q        - Quit dashboard

Examples:
  staffboard dashboard
  staffboard dash --staff 5`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().IntVar(&dashboardFlagStaff, "staff", 10, "Number of staff in the ranking")

	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	// Configure the dashboard
	config := tui.DashboardConfig{
		Cache:           ctx.Cache,
		Context:         cmd.Context(),
		Now:             time.Now,
		RefreshInterval: time.Second,
		StaffLimit:      dashboardFlagStaff,
	}

	// Run the TUI dashboard
	return tui.Run(config)
}
