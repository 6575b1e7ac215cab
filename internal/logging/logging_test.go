package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureJSON points the global logger at a buffer for the rest of the test.
func captureJSON(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(Config{Level: level, JSON: true, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })
	return &buf
}

// =============================================================================
// Config Tests
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelWarn, cfg.Level)
	assert.False(t, cfg.JSON)
}

func TestDebugConfig(t *testing.T) {
	cfg := DebugConfig()
	assert.Equal(t, slog.LevelDebug, cfg.Level)
	assert.True(t, cfg.AddSource)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{" INFO ", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"loud", slog.LevelWarn, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("text_handler", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: slog.LevelInfo, Output: &buf})
		t.Cleanup(func() { Init(DefaultConfig()) })

		Info("record saved", KeyName, "Alice")
		assert.Contains(t, buf.String(), "record saved")
		assert.Contains(t, buf.String(), "Alice")
		assert.False(t, Debug)
	})

	t.Run("json_handler", func(t *testing.T) {
		buf := captureJSON(t, slog.LevelDebug)
		assert.True(t, Debug)

		Warn("slow backend", KeyBackend, "sheet")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "slow backend", entry["msg"])
		assert.Equal(t, "sheet", entry[KeyBackend])
	})

	t.Run("level_filters", func(t *testing.T) {
		buf := captureJSON(t, slog.LevelWarn)
		Info("hidden")
		assert.Empty(t, buf.String())
	})
}

// =============================================================================
// Context Tests
// =============================================================================

func TestGenerateRequestID(t *testing.T) {
	id1 := GenerateRequestID()
	id2 := GenerateRequestID()
	assert.NotEqual(t, id1, id2)

	parsed, err := uuid.Parse(id1)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestRequestIDFromContext(t *testing.T) {
	//nolint:staticcheck // nil context is handled explicitly
	assert.Empty(t, RequestIDFromContext(nil))
	assert.Empty(t, RequestIDFromContext(context.Background()))

	ctx := WithRequestID(context.Background(), "abc123")
	assert.Equal(t, "abc123", RequestIDFromContext(ctx))

	assert.NotEmpty(t, RequestIDFromContext(NewRequestContext(context.Background())))
}

func TestDebugContextCarriesRequestID(t *testing.T) {
	buf := captureJSON(t, slog.LevelDebug)
	ctx := WithRequestID(context.Background(), "req-42")

	DebugContext(ctx, "upsert", KeyDate, "2025-08-12", "credentials_file", "/secret/sa.json")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-42", entry[KeyRequestID])
	assert.Equal(t, "2025-08-12", entry[KeyDate])
	assert.Equal(t, "********", entry["credentials_file"])
}

func TestLogOperation(t *testing.T) {
	buf := captureJSON(t, slog.LevelDebug)
	LogOperation(context.Background(), "load_all", time.Now().Add(-5*time.Millisecond), KeyCount, 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "load_all", entry[KeyOperation])
	assert.GreaterOrEqual(t, entry[KeyDuration].(float64), float64(5))
}

// =============================================================================
// Mask Tests
// =============================================================================

func TestIsSensitiveField(t *testing.T) {
	assert.True(t, IsSensitiveField("credentials_file"))
	assert.True(t, IsSensitiveField("GOOGLE_SERVICE_ACCOUNT_JSON"))
	assert.True(t, IsSensitiveField("api_token"))
	assert.False(t, IsSensitiveField("backend"))
	assert.False(t, IsSensitiveField("name"))
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "", MaskValue(""))
	assert.Equal(t, "***", MaskValue("abc"))
	assert.Equal(t, "********", MaskValue(strings.Repeat("x", 40)))
}

func TestMaskSheetURL(t *testing.T) {
	masked := MaskSheetURL("https://docs.google.com/spreadsheets/d/1AbCdEf/edit#gid=0")
	assert.Equal(t, "https://docs.google.com/***", masked)
	assert.Equal(t, "", MaskSheetURL(""))
	assert.Equal(t, "********", MaskSheetURL("not-a-url-at-all"))
}

func TestMaskArgs(t *testing.T) {
	args := []any{KeyName, "Alice", "token", "abc", "secret", 42}
	masked := MaskArgs(args)
	assert.Equal(t, []any{KeyName, "Alice", "token", "***", "secret", "********"}, masked)
	assert.Equal(t, "abc", args[3], "input slice must not be modified")

	plain := []any{KeyName, "Bob"}
	assert.Equal(t, plain, MaskArgs(plain))
}

func TestMaskSensitiveData(t *testing.T) {
	result := MaskSensitiveData(map[string]string{
		"backend":          "sheet",
		"credentials_file": "/etc/sa.json",
		"service_account":  "",
	})
	assert.Equal(t, "sheet", result["backend"])
	assert.Equal(t, "***", result["credentials_file"])
	assert.Equal(t, "", result["service_account"])
}
