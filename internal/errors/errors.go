// Package errors provides consistent error types for staffboard.
// It defines two main categories: ValidationError (bad input the caller
// should re-prompt for) and BackendError (the backing table could not be
// reached or written).
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common conditions.
var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidType        = errors.New("invalid activity type")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrNameRequired       = errors.New("staff name is required")
	ErrNegativeCount      = errors.New("count must not be negative")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrUnknownBackend     = errors.New("unknown backend")
	ErrLockHeld           = errors.New("database locked by another process")
	ErrDiskFull           = errors.New("disk full")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNetworkUnavailable = errors.New("network unavailable")
)

// ValidationError represents malformed input to a store operation.
type ValidationError struct {
	Field      string // The input that failed validation
	Value      string // The rejected value (optional)
	Message    string // What is wrong with it
	Suggestion string // How to fix it
	Err        error  // Sentinel for errors.Is matching (optional)
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s '%s'", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, value, message string, sentinel error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     sentinel,
	}
}

// WithSuggestion attaches a suggestion and returns the error.
func (e *ValidationError) WithSuggestion(suggestion string) *ValidationError {
	e.Suggestion = suggestion
	return e
}

// BackendError represents a failure of the storage backend.
// It always matches ErrBackendUnavailable.
type BackendError struct {
	Backend string // Backend name, e.g. "sqlite"
	Op      string // The operation that failed
	Cause   error  // The underlying error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend unavailable during %s: %v", e.Backend, e.Op, e.Cause)
}

// Unwrap exposes both the sentinel and the cause.
func (e *BackendError) Unwrap() []error {
	return []error{ErrBackendUnavailable, e.Cause}
}

// NewBackendError creates a new BackendError.
func NewBackendError(backend, op string, cause error) *BackendError {
	return &BackendError{
		Backend: backend,
		Op:      op,
		Cause:   cause,
	}
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsBackendError checks if an error is a backend failure.
func IsBackendError(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}

// AsValidationError extracts a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// AsBackendError extracts a BackendError from an error chain.
func AsBackendError(err error) (*BackendError, bool) {
	var be *BackendError
	ok := errors.As(err, &be)
	return be, ok
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is is re-exported from the standard errors package for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is re-exported from the standard errors package for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
