// Package parser turns loose command-line input into canonical values.
package parser

import (
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/andst/staffboard/internal/errors"
	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/validate"
)

// DateExamples lists accepted date inputs.
var DateExamples = []string{
	"today",
	"yesterday",
	"2025-08-12",
	"2025/8/12",
	"3 days ago",
	"last friday",
}

// ParseDate resolves input to a YYYY-MM-DD date relative to now.
//
// Numeric dates are handled by the model so "2025/8/2" never goes through
// locale guessing. Anything else is handed to go-dateparser. An empty input
// means today.
func ParseDate(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "today") {
		return now.Format(model.DateLayout), nil
	}
	if date, err := model.CanonicalDate(input); err == nil {
		return date, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return "", errors.NewValidationError("date", input, "unrecognised date", errors.ErrInvalidDate).
			WithSuggestion("Use YYYY-MM-DD or a phrase such as " + strings.Join(DateExamples[:3], ", "))
	}
	return result.Time.Format(model.DateLayout), nil
}

// ParseMonth resolves input to a YYYY-MM month. "this month" and "last month"
// are relative to now; an empty input means the current month.
func ParseMonth(input string, now time.Time) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	switch input {
	case "", "this month", "current month":
		return now.Format(model.MonthLayout), nil
	case "last month", "previous month":
		return time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location()).Format(model.MonthLayout), nil
	case "next month":
		return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location()).Format(model.MonthLayout), nil
	}
	return validate.Month(input)
}
