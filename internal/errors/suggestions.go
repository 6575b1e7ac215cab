package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	ErrInvalidDate:        "Use YYYY-MM-DD or YYYY/MM/DD, or words like 'today' and 'yesterday'.",
	ErrInvalidMonth:       "Use YYYY-MM, for example 2025-08.",
	ErrInvalidType:        "Use one of: new, exist, line, survey.",
	ErrInvalidCategory:    "Use one of: app, survey.",
	ErrNameRequired:       "Pass the staff member with --name.",
	ErrNegativeCount:      "Counts start at 0.",
	ErrUnknownBackend:     "Set backend to one of: badger, memory, sqlite, sheet.",
	ErrLockHeld:           "Another staffboard process has the database open. Close it and try again.",
	ErrDiskFull:           "Free up disk space in the data directory and try again.",
	ErrNetworkUnavailable: "Check your network connection and the spreadsheet URL.",
	ErrPermissionDenied:   "Check that the service account can edit the spreadsheet, or the data directory permissions.",
	ErrBackendUnavailable: "Run 'staffboard config' to check which backend is in use.",
}

// GetSuggestion returns a suggestion for an error, if available.
// It walks the error chain to find matching suggestions.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	if ve, ok := AsValidationError(err); ok && ve.Suggestion != "" {
		return ve.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if knownErr == ErrBackendUnavailable {
			continue
		}
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	if errors.Is(err, ErrBackendUnavailable) {
		return Suggestions[ErrBackendUnavailable]
	}
	return ""
}
