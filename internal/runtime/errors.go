package runtime

import (
	"github.com/andst/staffboard/internal/config"
	"github.com/andst/staffboard/internal/errors"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitValidation = 2
	ExitBackend    = 3
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, config.ErrInvalidConfig) {
		return ExitValidation
	}
	switch errors.GetCategory(err) {
	case errors.CategoryValidation:
		return ExitValidation
	case errors.CategoryBackend:
		return ExitBackend
	default:
		return ExitError
	}
}

// FormatError formats an error with its suggestion, if any.
func FormatError(err error) string {
	return errors.FormatByCategory(err)
}

// Status is the JSON status word for an error.
func Status(err error) string {
	switch errors.GetCategory(err) {
	case errors.CategoryValidation:
		return "invalid"
	case errors.CategoryBackend:
		return "unavailable"
	default:
		return "error"
	}
}
