// Package cmd provides the CLI commands for staffboard.
package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andst/staffboard/internal/config"
	"github.com/andst/staffboard/internal/errors"
	"github.com/andst/staffboard/internal/logging"
	"github.com/andst/staffboard/internal/output"
	"github.com/andst/staffboard/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat  string
	flagColor   string
	flagDebug   bool
	flagBackend string
	flagConfig  string
)

// annotationNoBackend marks commands that run without opening a store.
const annotationNoBackend = "no-backend"

// appConfig is the resolved configuration.
var appConfig *config.Config

// ctx is the shared runtime context. It is nil for commands that do not
// open a backend.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "staffboard",
	Short: "Track staff activity counts against monthly targets",
	Long: `staffboard records daily activity counts per staff member, keeps
monthly targets for the app and survey categories and reports progress.

Examples:
  staffboard log new 3 --name Sato
  staffboard log survey 2 --name Sato --date yesterday
  staffboard target set 2025-08 app 120
  staffboard stats weekly --month 2025-08
  staffboard dashboard`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for completion and help commands (but allow __complete for dynamic completions)
		if cmd.Name() == "completion" || cmd.Name() == "help" {
			return nil
		}

		format, err := output.ParseFormat(flagFormat)
		if err != nil {
			return err
		}
		colorMode, err := output.ParseColorMode(flagColor)
		if err != nil {
			return err
		}

		appConfig, err = config.Load(config.LoadOptions{File: flagConfig})
		if err != nil {
			return err
		}
		if flagBackend != "" {
			appConfig.Backend = strings.ToLower(strings.TrimSpace(flagBackend))
		}
		initLogging(appConfig)

		if !needsBackend(cmd) {
			return nil
		}

		opts := runtime.DefaultOptions()
		opts.Config = appConfig
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug

		ctx, err = runtime.New(cmd.Context(), opts)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeContext()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: show this month's progress
		return runSummary(cmd, args)
	},
}

// initLogging configures the logger from cfg and the debug flag.
func initLogging(cfg *config.Config) {
	lc := logging.DefaultConfig()
	if level, ok := logging.ParseLevel(cfg.Log.Level); ok {
		lc.Level = level
	}
	if flagDebug {
		lc = logging.DebugConfig()
		logging.Debug = true
	}
	lc.JSON = cfg.Log.JSON
	logging.Init(lc)
}

// needsBackend reports whether cmd or any parent opts out of the store.
func needsBackend(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationNoBackend]; ok {
			return false
		}
	}
	return true
}

// closeContext closes the backend once.
func closeContext() error {
	if ctx == nil {
		return nil
	}
	err := ctx.Close()
	ctx = nil
	return err
}

// Execute adds all child commands to the root command and sets flags appropriately.
// The backend is closed even when the command fails.
func Execute() error {
	err := rootCmd.ExecuteContext(logging.NewRequestContext(context.Background()))
	if closeErr := closeContext(); err == nil {
		err = closeErr
	}
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "",
		"Storage backend: "+strings.Join(config.Backends, ", "))
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file (default "+config.DefaultFile()+")")

	rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"cli", "json", "plain"}, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.RegisterFlagCompletionFunc("color", cobra.FixedCompletions(
		[]string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.RegisterFlagCompletionFunc("backend", cobra.FixedCompletions(
		config.Backends, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{annotationNoBackend: ""},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("staffboard %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// Die prints an error and exits with the status matching its category.
func Die(err error) {
	if flagFormat == string(output.FormatJSON) {
		f := output.NewFormatter()
		f.Writer = os.Stderr
		f.JSON(output.ErrorResponse{
			Status:     runtime.Status(err),
			Error:      err.Error(),
			Suggestion: errors.GetSuggestion(err),
		})
	} else {
		os.Stderr.WriteString("Error: " + runtime.FormatError(err) + "\n")
	}
	os.Exit(runtime.ExitCode(err))
}
