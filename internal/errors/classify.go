package errors

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryValidation indicates input the caller should correct.
	CategoryValidation
	// CategoryBackend indicates the backing table could not be used.
	CategoryBackend
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryValidation:
		return "validation"
	case CategoryBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Classify determines the category of an error.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}
	if IsValidationError(err) {
		return CategoryValidation
	}
	if IsBackendError(err) || IsBackendFailure(err) {
		return CategoryBackend
	}
	return CategoryUnknown
}

// IsBackendFailure reports whether a raw driver error means the backend is
// unreachable or unusable: network, permission, lock or I/O failures.
func IsBackendFailure(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrLockHeld) ||
		errors.Is(err, ErrDiskFull) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrNetworkUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC, syscall.EACCES, syscall.EPERM, syscall.EIO, syscall.EROFS,
			syscall.EAGAIN, syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range backendFailurePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// backendFailurePatterns match driver messages that carry no typed error.
var backendFailurePatterns = []string{
	"cannot acquire directory lock", // badger
	"database is locked",            // sqlite busy
	"unable to open database file",  // sqlite
	"oauth2",                        // google credentials
	"googleapi: error 401",
	"googleapi: error 403",
	"googleapi: error 429",
	"googleapi: error 5",
}

// ClassifiedError wraps an error with its classification.
type ClassifiedError struct {
	Err      error
	Category Category
}

func (e *ClassifiedError) Error() string {
	return e.Err.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// WithCategory wraps an error with an explicit category.
func WithCategory(err error, category Category) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{
		Err:      err,
		Category: category,
	}
}

// GetCategory returns the category of an error.
// If the error was wrapped with WithCategory, returns that category.
// Otherwise, uses Classify to determine the category.
func GetCategory(err error) Category {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}
	return Classify(err)
}

// FormatByCategory returns a user-appropriate error message based on category.
func FormatByCategory(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	switch GetCategory(err) {
	case CategoryValidation:
		if suggestion := GetSuggestion(err); suggestion != "" {
			return msg + "\n\nTry: " + suggestion
		}
		return msg

	case CategoryBackend:
		if suggestion := GetSuggestion(err); suggestion != "" {
			return "Storage error: " + msg + "\n\n" + suggestion
		}
		return "Storage error: " + msg

	default:
		return msg
	}
}
