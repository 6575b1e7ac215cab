package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical layout of a record date.
	DateLayout = "2006-01-02"
	// MonthLayout is the canonical layout of a target month.
	MonthLayout = "2006-01"
)

var (
	// ErrInvalidDate is returned when a date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidMonth is returned when a month cannot be parsed.
	ErrInvalidMonth = errors.New("invalid month")
)

// dateLayouts accept both separators, with or without zero padding.
var dateLayouts = []string{"2006-1-2", "2006/1/2"}

var monthLayouts = []string{"2006-1", "2006/1"}

// ParseDate parses a calendar date written as YYYY-MM-DD or YYYY/MM/DD.
// A trailing time component (as spreadsheets sometimes emit) is ignored.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " T"); i > 0 {
		s = s[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// CanonicalDate re-emits a date in YYYY-MM-DD form.
func CanonicalDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// ParseMonth parses a month written as YYYY-MM or YYYY/MM.
func ParseMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
}

// CanonicalMonth re-emits a month in YYYY-MM form.
func CanonicalMonth(s string) (string, error) {
	t, err := ParseMonth(s)
	if err != nil {
		return "", err
	}
	return t.Format(MonthLayout), nil
}

// MonthOf returns the YYYY-MM month of a canonical date.
func MonthOf(date string) string {
	if len(date) < len(MonthLayout) {
		return ""
	}
	return date[:len(MonthLayout)]
}

// WeekNumber returns the ISO 8601 week number of t.
// Week 53 is reported as 53; it is not folded into week 1.
func WeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// WeekLabel formats a week number as "<n>w".
func WeekLabel(week int) string {
	return fmt.Sprintf("%dw", week)
}

// ParseWeekLabel parses "32w", "w32" or "32" into a week number.
func ParseWeekLabel(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(strings.TrimPrefix(s, "w"), "w")
	week, err := strconv.Atoi(s)
	if err != nil || week < 1 || week > 53 {
		return 0, fmt.Errorf("invalid week %q", s)
	}
	return week, nil
}
