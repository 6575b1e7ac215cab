// Package validate turns raw staffboard input into canonical values,
// reporting problems as ValidationErrors.
package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/andst/staffboard/internal/errors"
	"github.com/andst/staffboard/internal/model"
)

// MaxNameLength is the maximum length of a staff name, in runes.
const MaxNameLength = 64

// Date validates a date and returns it as YYYY-MM-DD.
func Date(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.NewValidationError("date", "", "is required", errors.ErrInvalidDate).
			WithSuggestion("Pass a date like 2025-08-12.")
	}
	date, err := model.CanonicalDate(raw)
	if err != nil {
		return "", errors.NewValidationError("date", raw, "not a valid date", errors.ErrInvalidDate)
	}
	return date, nil
}

// Month validates a month and returns it as YYYY-MM.
func Month(raw string) (string, error) {
	month, err := model.CanonicalMonth(raw)
	if err != nil {
		return "", errors.NewValidationError("month", raw, "not a valid month", errors.ErrInvalidMonth)
	}
	return month, nil
}

// ActivityType validates an activity type name.
func ActivityType(raw string) (model.ActivityType, error) {
	t, ok := model.ParseActivityType(raw)
	if !ok {
		return "", errors.NewValidationError("type", raw, "unknown activity type", errors.ErrInvalidType)
	}
	return t, nil
}

// Category validates a target category name.
func Category(raw string) (model.Category, error) {
	c, ok := model.ParseCategory(raw)
	if !ok {
		return "", errors.NewValidationError("category", raw, "unknown category", errors.ErrInvalidCategory)
	}
	return c, nil
}

// StaffName sanitises a staff name and checks it is usable.
func StaffName(raw string) (string, error) {
	name := SanitizeName(raw)
	if name == "" {
		return "", errors.NewValidationError("name", "", "is required", errors.ErrNameRequired)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", errors.NewValidationError("name", name, "is too long", nil).
			WithSuggestion(fmt.Sprintf("Names must be %d characters or fewer.", MaxNameLength))
	}
	return name, nil
}

// Count checks a record count or target value.
func Count(field string, n int) error {
	if n < 0 {
		return errors.NewValidationError(field, fmt.Sprint(n), "must not be negative", errors.ErrNegativeCount)
	}
	return nil
}

// spreadsheetIDPattern pulls the document id out of a Sheets URL.
var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// bareIDPattern matches an id passed on its own.
var bareIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{20,}$`)

// SpreadsheetID extracts the spreadsheet id from a share URL or a bare id.
func SpreadsheetID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if bareIDPattern.MatchString(raw) {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return "", errors.NewValidationError("sheet.url", raw, "not an https spreadsheet URL", nil).
			WithSuggestion("Copy the URL from the browser, e.g. https://docs.google.com/spreadsheets/d/<id>/edit")
	}
	m := spreadsheetIDPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return "", errors.NewValidationError("sheet.url", raw, "has no spreadsheet id", nil).
			WithSuggestion("The URL must contain /spreadsheets/d/<id>/")
	}
	return m[1], nil
}

// Year validates a four digit calendar year.
func Year(raw string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || year < 1900 || year > 9999 {
		return 0, errors.NewValidationError("year", raw, "not a valid year", nil).
			WithSuggestion("Pass a year like 2025.")
	}
	return year, nil
}

// Week validates an ISO week given as "32", "32w" or "w32".
func Week(raw string) (int, error) {
	week, err := model.ParseWeekLabel(raw)
	if err != nil {
		return 0, errors.NewValidationError("week", raw, "not a valid ISO week", nil).
			WithSuggestion("Weeks run from 1 to 53, e.g. 32 or 32w.")
	}
	return week, nil
}
