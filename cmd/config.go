package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/andst/staffboard/internal/config"
	"github.com/andst/staffboard/internal/logging"
	"github.com/andst/staffboard/internal/output"
	"github.com/andst/staffboard/internal/storage"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "settings"},
	Short:   "Show the effective configuration",
	Long: `Show the configuration after defaults, the config file, .env and
environment variables are applied. Credentials are masked.

Examples:
  staffboard config
  staffboard config get backend
  staffboard config check
  staffboard config init`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoBackend: ""},
	RunE:        runConfigShow,
}

// configGetCmd gets one configuration value.
var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get one configuration value",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return sortedKeys(config.Default().Values()), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runConfigGet,
}

// configCheckCmd validates the configuration.
var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the selected backend is fully configured",
	Args:  cobra.NoArgs,
	RunE:  runConfigCheck,
}

// configInitCmd writes a config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Long: `Write the effective configuration to the config file so it can be edited.
An existing file is only replaced with --force.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configInitFlagForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitFlagForce, "force", false, "Replace an existing config file")

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// newFormatter builds a formatter for commands that run without a runtime
// context.
func newFormatter() *output.Formatter {
	f := output.NewFormatter()
	if format, err := output.ParseFormat(flagFormat); err == nil {
		f.Format = format
	}
	if mode, err := output.ParseColorMode(flagColor); err == nil {
		f.ColorMode = mode
	}
	return f
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// maskedValues returns the configuration with secrets hidden.
func maskedValues() map[string]string {
	values := logging.MaskSensitiveData(appConfig.Values())
	values["sheet.url"] = logging.MaskSheetURL(values["sheet.url"])
	return values
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	values := maskedValues()
	f := newFormatter()
	if f.Format == output.FormatJSON {
		return f.JSON(values)
	}

	rows := make([]output.TableRow, 0, len(values))
	for _, key := range sortedKeys(values) {
		rows = append(rows, output.TableRow{Columns: []string{key, values[key]}})
	}
	output.NewCLIFormatter(f).PrintTable([]string{"KEY", "VALUE"}, rows)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	values := maskedValues()
	value, ok := values[args[0]]
	if !ok {
		return fmt.Errorf("unknown config key: %s", args[0])
	}
	f := newFormatter()
	if f.Format == output.FormatJSON {
		return f.JSON(map[string]string{args[0]: value})
	}
	f.Println(value)
	return nil
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	if err := appConfig.Validate(); err != nil {
		return err
	}
	f := newFormatter()
	if f.Format == output.FormatJSON {
		return f.JSON(map[string]string{"status": "ok", "backend": appConfig.Backend})
	}
	output.NewCLIFormatter(f).Success(fmt.Sprintf("Configuration is valid (%s backend)", appConfig.Backend))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if path == "" {
		path = config.DefaultFile()
	}
	if _, err := os.Stat(path); err == nil && !configInitFlagForce {
		return fmt.Errorf("%s already exists (use --force to replace it)", path)
	}

	data, err := appConfig.Marshal()
	if err != nil {
		return err
	}
	if err := storage.EnsureDirectory(filepath.Dir(path)); err != nil {
		return err
	}
	if err := storage.SafeWrite(path, data, 0o600); err != nil {
		return err
	}
	output.NewCLIFormatter(newFormatter()).Success("Wrote " + path)
	return nil
}
