package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andst/staffboard/internal/server"
)

// Serve command flags.
var (
	serveFlagAddr      string
	serveFlagAccessLog bool
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server", "api"},
	Short:   "Serve the JSON API over HTTP",
	Long: `Serve records, targets and statistics as a JSON API.

Endpoints:
  GET    /health
  GET    /api/records?month=&name=
  PUT    /api/records                      {date,name,type,count,mode}
  DELETE /api/records?date=&name=&type=
  GET    /api/targets
  GET    /api/targets/{month}/{category}
  PUT    /api/targets/{month}/{category}   {target}
  GET    /api/stats/{summary|weekly|staff|composition|monthly|daily}

Examples:
  staffboard serve
  staffboard serve --addr :8080 --access-log`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlagAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveFlagAccessLog, "access-log", false, "Write an access log to stderr")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := ctx.Config.Server.Addr
	if serveFlagAddr != "" {
		addr = serveFlagAddr
	}

	opts := server.Options{Addr: addr}
	if serveFlagAccessLog {
		opts.AccessLog = os.Stderr
	}
	srv := server.New(ctx.Cache, opts)

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !ctx.IsJSON() {
		ctx.CLIFormatter().Success(fmt.Sprintf("Listening on http://%s (%s backend)", addr, ctx.Store.BackendName()))
	}
	return srv.ListenAndServe(sigCtx, ctx.Config.Server.ShutdownTimeout)
}
