package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears every variable Load reads and returns option paths that do
// not exist, so tests never pick up the developer's own setup.
func isolate(t *testing.T) LoadOptions {
	t.Helper()
	for _, name := range []string{
		"STAFFBOARD_BACKEND", "STAFFBOARD_DATA_DIR", "STAFFBOARD_DATABASE",
		"STAFFBOARD_SQLITE_PATH", "STAFFBOARD_SHEET_URL", "GSHEET_URL",
		"STAFFBOARD_CREDENTIALS_FILE", "GOOGLE_SERVICE_ACCOUNT_JSON",
		"STAFFBOARD_SHEET_TIMEOUT", "STAFFBOARD_LOG_LEVEL", "STAFFBOARD_LOG_JSON",
		"STAFFBOARD_ADDR",
	} {
		t.Setenv(name, "")
	}
	dir := t.TempDir()
	return LoadOptions{
		File:    filepath.Join(dir, "missing.yaml"),
		EnvFile: filepath.Join(dir, "missing.env"),
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// =============================================================================
// Defaults
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, BackendBadger, cfg.Backend)
	assert.Equal(t, "records", cfg.Sheet.RecordsTab)
	assert.Equal(t, "targets", cfg.Sheet.TargetsTab)
	assert.Equal(t, 30*time.Second, cfg.Sheet.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFilesUsesDefaults(t *testing.T) {
	opts := isolate(t)
	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

// =============================================================================
// Layering
// =============================================================================

func TestLoadYAMLFile(t *testing.T) {
	opts := isolate(t)
	opts.File = writeFile(t, t.TempDir(), "config.yaml", `
backend: SQLite
sqlite:
  path: /tmp/board.db
log:
  level: debug
  json: true
server:
  shutdown_timeout: 2s
`)
	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "/tmp/board.db", cfg.SQLite.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	// Untouched values keep their defaults.
	assert.Equal(t, "records", cfg.Sheet.RecordsTab)
}

func TestLoadBadYAML(t *testing.T) {
	opts := isolate(t)
	opts.File = writeFile(t, t.TempDir(), "config.yaml", "backend: [unclosed")
	_, err := Load(opts)
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	opts := isolate(t)
	// t.Setenv registers cleanup; unset so godotenv can fill the value.
	require.NoError(t, os.Unsetenv("GSHEET_URL"))
	require.NoError(t, os.Unsetenv("STAFFBOARD_BACKEND"))
	opts.EnvFile = writeFile(t, t.TempDir(), ".env", "STAFFBOARD_BACKEND=sheet\nGSHEET_URL=https://docs.google.com/spreadsheets/d/abc/edit\n")

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, BackendSheet, cfg.Backend)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/edit", cfg.Sheet.URL)
}

func TestEnvOverridesFile(t *testing.T) {
	opts := isolate(t)
	opts.File = writeFile(t, t.TempDir(), "config.yaml", "backend: sqlite\nserver:\n  addr: :9000\n")
	t.Setenv("STAFFBOARD_BACKEND", "badger")
	t.Setenv("STAFFBOARD_ADDR", ":7000")
	t.Setenv("STAFFBOARD_LOG_JSON", "yes-please")

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, BackendBadger, cfg.Backend)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.False(t, cfg.Log.JSON, "unparseable bool is ignored")
}

func TestSheetURLPrecedence(t *testing.T) {
	opts := isolate(t)
	t.Setenv("GSHEET_URL", "legacy")
	t.Setenv("STAFFBOARD_SHEET_URL", "current")
	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "current", cfg.Sheet.URL)
}

func TestDatabaseOverride(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		opts := isolate(t)
		t.Setenv("STAFFBOARD_DATABASE", MemoryDatabase)
		cfg, err := Load(opts)
		require.NoError(t, err)
		assert.Equal(t, BackendMemory, cfg.Backend)
	})

	t.Run("path", func(t *testing.T) {
		opts := isolate(t)
		t.Setenv("STAFFBOARD_DATABASE", "/srv/staffboard")
		cfg, err := Load(opts)
		require.NoError(t, err)
		assert.Equal(t, BackendBadger, cfg.Backend)
		assert.Equal(t, "/srv/staffboard", cfg.DataDir)
	})
}

// =============================================================================
// Validation
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"memory", func(c *Config) { c.Backend = BackendMemory }, false},
		{"unknown", func(c *Config) { c.Backend = "postgres" }, true},
		{"sqlite without path", func(c *Config) { c.Backend = BackendSQLite; c.SQLite.Path = "" }, true},
		{"sheet without url", func(c *Config) { c.Backend = BackendSheet; c.Sheet.CredentialsFile = "sa.json" }, true},
		{"sheet without credentials", func(c *Config) { c.Backend = BackendSheet; c.Sheet.URL = "x" }, true},
		{"sheet with json credentials", func(c *Config) {
			c.Backend = BackendSheet
			c.Sheet.URL = "x"
			c.Sheet.CredentialsJSON = "{}"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValues(t *testing.T) {
	cfg := Default()
	cfg.Sheet.CredentialsJSON = `{"private_key":"x"}`
	values := cfg.Values()
	assert.Equal(t, BackendBadger, values["backend"])
	assert.Equal(t, `{"private_key":"x"}`, values["sheet.service_account"])
	assert.Equal(t, "30s", values["sheet.timeout"])
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Backend = BackendSQLite
	cfg.Sheet.URL = "https://docs.google.com/spreadsheets/d/abc/edit"
	cfg.Sheet.CredentialsJSON = `{"private_key":"x"}`

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "private_key")
	assert.Contains(t, string(data), "timeout: 30s")

	opts := isolate(t)
	opts.File = writeFile(t, t.TempDir(), "config.yaml", string(data))
	loaded, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, loaded.Backend)
	assert.Equal(t, cfg.Sheet.URL, loaded.Sheet.URL)
	assert.Equal(t, cfg.Sheet.Timeout, loaded.Sheet.Timeout)
	assert.Empty(t, loaded.Sheet.CredentialsJSON)
}
