package errors

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// ValidationError Tests
// =============================================================================

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("date", "2025-13-01", "not a calendar date", ErrInvalidDate)
	assert.Equal(t, "date", err.Field)
	assert.Equal(t, "2025-13-01", err.Value)
	assert.Equal(t, "date: not a calendar date '2025-13-01'", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestValidationErrorWithoutValue(t *testing.T) {
	err := NewValidationError("name", "", "is required", ErrNameRequired)
	assert.Equal(t, "name: is required", err.Error())
}

func TestIsValidationError(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		assert.True(t, IsValidationError(NewValidationError("count", "-1", "must not be negative", ErrNegativeCount)))
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("upsert: %w", NewValidationError("type", "visit", "unknown", ErrInvalidType))
		assert.True(t, IsValidationError(err))
		ve, ok := AsValidationError(err)
		assert.True(t, ok)
		assert.Equal(t, "visit", ve.Value)
	})

	t.Run("plain", func(t *testing.T) {
		assert.False(t, IsValidationError(errors.New("plain")))
		assert.False(t, IsValidationError(nil))
	})
}

// =============================================================================
// BackendError Tests
// =============================================================================

func TestBackendErrorMatchesSentinelAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewBackendError("sheet", "load_all", cause)

	assert.True(t, errors.Is(err, ErrBackendUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "sheet backend unavailable during load_all")

	wrapped := Wrap(err, "dashboard")
	assert.True(t, IsBackendError(wrapped))
	be, ok := AsBackendError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "load_all", be.Op)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ctx"))
	assert.Nil(t, Wrapf(nil, "ctx %d", 1))
	assert.EqualError(t, Wrapf(errors.New("boom"), "op %s", "x"), "op x: boom")
}

// =============================================================================
// Classification Tests
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, CategoryUnknown},
		{"validation", NewValidationError("date", "x", "bad", ErrInvalidDate), CategoryValidation},
		{"backend", NewBackendError("kv", "put", errors.New("io")), CategoryBackend},
		{"errno", fmt.Errorf("write: %w", syscall.ENOSPC), CategoryBackend},
		{"deadline", context.DeadlineExceeded, CategoryBackend},
		{"sqlite busy", errors.New("database is locked (5) (SQLITE_BUSY)"), CategoryBackend},
		{"badger lock", errors.New("Cannot acquire directory lock on \"/tmp/x\""), CategoryBackend},
		{"plain", errors.New("something else"), CategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "validation", CategoryValidation.String())
	assert.Equal(t, "backend", CategoryBackend.String())
	assert.Equal(t, "unknown", CategoryUnknown.String())
}

func TestWithCategoryOverrides(t *testing.T) {
	err := WithCategory(errors.New("odd"), CategoryBackend)
	assert.Equal(t, CategoryBackend, GetCategory(err))
	assert.Nil(t, WithCategory(nil, CategoryBackend))
}

// =============================================================================
// Suggestion Tests
// =============================================================================

func TestGetSuggestion(t *testing.T) {
	t.Run("sentinel", func(t *testing.T) {
		err := NewValidationError("type", "visit", "unknown activity type", ErrInvalidType)
		assert.Equal(t, Suggestions[ErrInvalidType], GetSuggestion(err))
	})

	t.Run("explicit wins", func(t *testing.T) {
		err := NewValidationError("type", "visit", "unknown", ErrInvalidType).WithSuggestion("did you mean 'new'?")
		assert.Equal(t, "did you mean 'new'?", GetSuggestion(err))
	})

	t.Run("specific cause before generic backend", func(t *testing.T) {
		err := NewBackendError("kv", "open", ErrLockHeld)
		assert.Equal(t, Suggestions[ErrLockHeld], GetSuggestion(err))
	})

	t.Run("generic backend", func(t *testing.T) {
		err := NewBackendError("sheet", "open", errors.New("tls handshake"))
		assert.Equal(t, Suggestions[ErrBackendUnavailable], GetSuggestion(err))
	})

	t.Run("none", func(t *testing.T) {
		assert.Empty(t, GetSuggestion(errors.New("x")))
		assert.Empty(t, GetSuggestion(nil))
	})
}

func TestFormatByCategory(t *testing.T) {
	ve := NewValidationError("month", "2025", "expected YYYY-MM", ErrInvalidMonth)
	assert.Contains(t, FormatByCategory(ve), "Try: "+Suggestions[ErrInvalidMonth])

	be := NewBackendError("sqlite", "upsert", errors.New("disk"))
	assert.Contains(t, FormatByCategory(be), "Storage error: ")

	assert.Equal(t, "", FormatByCategory(nil))
	assert.Equal(t, "x", FormatByCategory(errors.New("x")))
}
