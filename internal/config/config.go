// Package config provides layered configuration for staffboard.
//
// Values are resolved in order: built-in defaults, the YAML file under
// $XDG_CONFIG_HOME/staffboard, a .env file in the working directory, then
// STAFFBOARD_* environment variables. Command-line flags are applied last by
// the cmd package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application name used for config and data directories.
	AppName = "staffboard"

	// MemoryDatabase selects a throwaway in-memory store.
	MemoryDatabase = ":memory:"
)

// Backend names.
const (
	BackendBadger = "badger"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendSheet  = "sheet"
)

// Backends lists every supported backend name.
var Backends = []string{BackendBadger, BackendMemory, BackendSQLite, BackendSheet}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the resolved configuration.
type Config struct {
	// Backend selects the storage backend. Default: badger
	Backend string `yaml:"backend"`

	// DataDir is where the badger database lives.
	// Default: $XDG_DATA_HOME/staffboard/db
	DataDir string `yaml:"data_dir"`

	// Database overrides DataDir; ":memory:" forces the memory backend.
	Database string `yaml:"database"`

	SQLite SQLiteConfig `yaml:"sqlite"`
	Sheet  SheetConfig  `yaml:"sheet"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// SQLiteConfig holds sqlite backend settings.
type SQLiteConfig struct {
	// Path is the database file. Default: $XDG_DATA_HOME/staffboard/staffboard.db
	Path string `yaml:"path"`
}

// SheetConfig holds spreadsheet backend settings.
type SheetConfig struct {
	// URL of the spreadsheet, or its bare id.
	URL string `yaml:"url"`

	// CredentialsFile is a service account key file.
	CredentialsFile string `yaml:"credentials_file"`

	// CredentialsJSON is the service account key itself. Only read from the
	// environment so it never lands in a config file.
	CredentialsJSON string `yaml:"-"`

	// RecordsTab and TargetsTab name the worksheets.
	// Default: records, targets
	RecordsTab string `yaml:"records_tab"`
	TargetsTab string `yaml:"targets_tab"`

	// Timeout bounds each spreadsheet API call. Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: warn
	Level string `yaml:"level"`
	// JSON switches to JSON log lines.
	JSON bool `yaml:"json"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	// Addr is the listen address. Default: 127.0.0.1:8080
	Addr string `yaml:"addr"`

	// ShutdownTimeout bounds graceful shutdown. Default: 5s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendBadger,
		DataDir: filepath.Join(xdg.DataHome, AppName, "db"),
		SQLite: SQLiteConfig{
			Path: filepath.Join(xdg.DataHome, AppName, AppName+".db"),
		},
		Sheet: SheetConfig{
			RecordsTab: "records",
			TargetsTab: "targets",
			Timeout:    30 * time.Second,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// DefaultFile returns the default config file path.
func DefaultFile() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// File is the YAML config file. Empty uses DefaultFile.
	// A missing file is not an error.
	File string

	// EnvFile is the dotenv file. Empty uses ".env".
	// A missing file is not an error.
	EnvFile string
}

// Load resolves the configuration from file, dotenv and environment.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	file := opts.File
	if file == "" {
		file = DefaultFile()
	}
	if err := cfg.loadFile(file); err != nil {
		return nil, err
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables already set in the process.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg.loadFromEnv()
	cfg.normalize()
	return cfg, nil
}

// loadFile overlays a YAML file onto c.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("STAFFBOARD_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("STAFFBOARD_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("STAFFBOARD_DATABASE"); v != "" {
		c.Database = v
	}
	if v := os.Getenv("STAFFBOARD_SQLITE_PATH"); v != "" {
		c.SQLite.Path = v
	}

	// Sheet configuration; GSHEET_URL is the older name.
	if v := os.Getenv("GSHEET_URL"); v != "" {
		c.Sheet.URL = v
	}
	if v := os.Getenv("STAFFBOARD_SHEET_URL"); v != "" {
		c.Sheet.URL = v
	}
	if v := os.Getenv("STAFFBOARD_CREDENTIALS_FILE"); v != "" {
		c.Sheet.CredentialsFile = v
	}
	if v := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"); v != "" {
		c.Sheet.CredentialsJSON = v
	}
	if v := os.Getenv("STAFFBOARD_SHEET_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Sheet.Timeout = d
		}
	}

	// Logging
	if v := os.Getenv("STAFFBOARD_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("STAFFBOARD_LOG_JSON"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Log.JSON = b
		}
	}

	// Server
	if v := os.Getenv("STAFFBOARD_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// normalize folds the database override into the backend selection.
func (c *Config) normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch {
	case c.Database == MemoryDatabase:
		c.Backend = BackendMemory
	case c.Database != "" && c.Backend == BackendBadger:
		c.DataDir = c.Database
	}
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendBadger:
		if c.DataDir == "" {
			return fmt.Errorf("%w: data_dir is empty", ErrInvalidConfig)
		}
	case BackendMemory:
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("%w: sqlite.path is empty", ErrInvalidConfig)
		}
	case BackendSheet:
		if c.Sheet.URL == "" {
			return fmt.Errorf("%w: sheet backend needs STAFFBOARD_SHEET_URL or sheet.url", ErrInvalidConfig)
		}
		if c.Sheet.CredentialsFile == "" && c.Sheet.CredentialsJSON == "" {
			return fmt.Errorf("%w: sheet backend needs STAFFBOARD_CREDENTIALS_FILE or GOOGLE_SERVICE_ACCOUNT_JSON", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q (want one of %s)", ErrInvalidConfig, c.Backend, strings.Join(Backends, ", "))
	}
	return nil
}

// Values flattens the configuration for display. Secrets are included; pass
// the result through logging.MaskSensitiveData before printing.
func (c *Config) Values() map[string]string {
	return map[string]string{
		"backend":                 c.Backend,
		"data_dir":                c.DataDir,
		"database":                c.Database,
		"sqlite.path":             c.SQLite.Path,
		"sheet.url":               c.Sheet.URL,
		"sheet.credentials_file":  c.Sheet.CredentialsFile,
		"sheet.service_account":   c.Sheet.CredentialsJSON,
		"sheet.records_tab":       c.Sheet.RecordsTab,
		"sheet.targets_tab":       c.Sheet.TargetsTab,
		"sheet.timeout":           c.Sheet.Timeout.String(),
		"log.level":               c.Log.Level,
		"log.json":                strconv.FormatBool(c.Log.JSON),
		"server.addr":             c.Server.Addr,
		"server.shutdown_timeout": c.Server.ShutdownTimeout.String(),
	}
}

// Marshal renders c as a YAML config file. CredentialsJSON is never written.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
