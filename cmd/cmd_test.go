package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andst/staffboard/internal/errors"
	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/output"
)

// =============================================================================
// CSV and backup Tests
// =============================================================================

func TestWriteRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeRecordsCSV(&buf, []model.Record{
		{Date: "2025-08-12", Week: "33w", Name: "Sato, A", Type: model.TypeNew, Count: 3},
		{Date: "2025-08-11", Week: "33w", Name: "Kato", Type: model.TypeSurvey, Count: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, "date,week,name,type,count\n"+
		"2025-08-12,33w,\"Sato, A\",new,3\n"+
		"2025-08-11,33w,Kato,survey,0\n", buf.String())
}

func TestReadRecordsCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRecordsCSV(&buf, []model.Record{
		{Date: "2025-08-12", Week: "33w", Name: "Sato, A", Type: model.TypeNew, Count: 3},
	}))
	rows, skipped, err := readRecordsCSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, []importRow{{Line: 2, Date: "2025-08-12", Name: "Sato, A", Type: "new", Count: "3"}}, rows)
}

func TestReadRecordsCSVColumnOrder(t *testing.T) {
	in := "\ufeffName,Type,Date,Count\nKato,survey,2025/8/1,2\nSato,line\n"
	rows, _, err := readRecordsCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, importRow{Line: 2, Date: "2025/8/1", Name: "Kato", Type: "survey", Count: "2"}, rows[0])
	// Short rows yield empty cells and fail validation later.
	assert.Equal(t, "", rows[1].Date)
}

func TestReadRecordsCSVBadHeader(t *testing.T) {
	_, _, err := readRecordsCSV(strings.NewReader("date,name,count\n"))
	assert.ErrorContains(t, err, `"type"`)

	_, _, err = readRecordsCSV(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty")
}

func TestReadBackup(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2025, time.August, 13, 9, 0, 0, 0, time.UTC)
	require.NoError(t, writeBackup(&buf,
		[]model.Record{{Date: "2025-08-12", Week: "33w", Name: "Sato", Type: model.TypeLine, Count: 4}},
		[]model.Target{{Month: "2025-08", Category: model.CategoryApp, Target: 120}},
		now))
	assert.Contains(t, buf.String(), `"exported_at": "2025-08-13T09:00:00Z"`)

	rows, targets, err := readBackup(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []importRow{{Line: 1, Date: "2025-08-12", Name: "Sato", Type: "line", Count: "4"}}, rows)
	assert.Equal(t, []importTarget{{Month: "2025-08", Category: "app", Target: 120}}, targets)

	_, _, err = readBackup([]byte(`{"records":[]}`))
	assert.ErrorContains(t, err, "unrecognized")
}

func TestIsJSONImport(t *testing.T) {
	assert.True(t, isJSONImport("backup.JSON", nil))
	assert.True(t, isJSONImport("backup.txt", []byte("  {\"version\":\"1\"}")))
	assert.False(t, isJSONImport("august.csv", []byte("date,week,name,type,count")))
}

func TestCheckRow(t *testing.T) {
	count, err := checkRow(importRow{Date: "2025/8/12", Name: "Sato", Type: "new", Count: "3.0"})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	for _, row := range []importRow{
		{Date: "", Name: "Sato", Type: "new", Count: "1"},
		{Date: "2025-08-12", Name: " ", Type: "new", Count: "1"},
		{Date: "2025-08-12", Name: "Sato", Type: "visit", Count: "1"},
		{Date: "2025-08-12", Name: "Sato", Type: "new", Count: "-1"},
	} {
		_, err := checkRow(row)
		assert.True(t, errors.IsValidationError(err), "%+v", row)
	}

	_, err = checkRow(importRow{Date: "2025-08-12", Name: "Sato", Type: "new", Count: "2.5"})
	assert.Error(t, err)
}

// =============================================================================
// Helper Tests
// =============================================================================

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		assert.Equal(t, tt.want, confirm(strings.NewReader(tt.input), &out, "Delete?"), tt.input)
		assert.Equal(t, "Delete? [y/N] ", out.String())
	}
}

func TestNeedsBackend(t *testing.T) {
	assert.True(t, needsBackend(logCmd))
	assert.False(t, needsBackend(versionCmd))
	assert.False(t, needsBackend(configCmd))
	assert.False(t, needsBackend(configGetCmd))
}

// =============================================================================
// Command Tests
// =============================================================================

// run executes the root command with args against a sqlite file in dir and
// returns what it wrote to stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STAFFBOARD_DATABASE", "")
	t.Setenv("STAFFBOARD_SQLITE_PATH", filepath.Join(dir, "staffboard.db"))

	stdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = stdout })

	done := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()

	base := []string{"--backend", "sqlite", "--config", filepath.Join(dir, "none.yaml"), "--color", "never"}
	rootCmd.SetArgs(append(base, args...))
	runErr := Execute()

	w.Close()
	os.Stdout = stdout
	return <-done, runErr
}

func resetFlags(cmds ...*cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	for _, c := range cmds {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}
}

func TestLogAndRecordsCommands(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { resetFlags(logCmd, recordsCmd, rootCmd) })

	_, err := run(t, dir, "log", "new", "3", "--name", "Sato", "--date", "2025/08/12", "--format", "json")
	require.NoError(t, err)
	_, err = run(t, dir, "log", "new", "2", "--name", "Sato", "--date", "2025-08-12", "--add", "--format", "json")
	require.NoError(t, err)

	out, err := run(t, dir, "records", "--month", "2025-08", "--format", "json")
	require.NoError(t, err)

	var resp output.RecordsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, output.RecordOutput{Date: "2025-08-12", Week: "33w", Name: "Sato", Type: "new", Count: 5}, *resp.Records[0])
	assert.Equal(t, 5, resp.TotalSum)
}

func TestLogCommandRejectsBadType(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { resetFlags(logCmd, rootCmd) })

	_, err := run(t, dir, "log", "visit", "3", "--name", "Sato", "--date", "2025-08-12")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryValidation, errors.GetCategory(err))
}
