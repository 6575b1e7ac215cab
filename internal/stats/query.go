package stats

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/andst/staffboard/internal/errors"
	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/validate"
)

// Query is the raw form of a Filter as it arrives from flags or a URL.
type Query struct {
	Category string
	Period   string
	Year     string
	Month    string
	Week     string
}

// Filter resolves q. Without an explicit period the narrowest part given
// wins: week, then month, then year. Missing parts default from now.
func (q Query) Filter(now time.Time) (Filter, error) {
	var f Filter

	if c := strings.TrimSpace(q.Category); c != "" && !strings.EqualFold(c, "all") {
		category, err := validate.Category(c)
		if err != nil {
			return Filter{}, err
		}
		f.Category = category
	}

	period, err := ParsePeriod(q.Period)
	if err != nil {
		return Filter{}, errors.NewValidationError("period", q.Period, "unknown period", nil).
			WithSuggestion("Use one of: all, year, month, week.")
	}
	if strings.TrimSpace(q.Period) == "" {
		switch {
		case strings.TrimSpace(q.Week) != "":
			period = PeriodWeek
		case strings.TrimSpace(q.Month) != "":
			period = PeriodMonth
		case strings.TrimSpace(q.Year) != "":
			period = PeriodYear
		}
	}
	f.Period = period

	switch period {
	case PeriodMonth:
		f.Month = now.Format(model.MonthLayout)
		if strings.TrimSpace(q.Month) != "" {
			if f.Month, err = validate.Month(q.Month); err != nil {
				return Filter{}, err
			}
		}
	case PeriodYear, PeriodWeek:
		f.Year = now.Year()
		if strings.TrimSpace(q.Year) != "" {
			if f.Year, err = validate.Year(q.Year); err != nil {
				return Filter{}, err
			}
		}
		if period == PeriodWeek {
			// The default pairs the calendar year with the ISO week, so on
			// 2025-12-29 it is 2025 week 1 and today still matches.
			f.Week = model.WeekNumber(now)
			if strings.TrimSpace(q.Week) != "" {
				if f.Week, err = validate.Week(q.Week); err != nil {
					return Filter{}, err
				}
			}
		}
	}
	return f, nil
}

// Select returns the records of month (YYYY-MM, empty for all) logged by
// name (empty for everyone), newest first.
func Select(records []model.Record, month, name string) []model.Record {
	name = strings.TrimSpace(name)
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if month != "" && r.Month() != month {
			continue
		}
		if name != "" && r.Name != name {
			continue
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b model.Record) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(typeOrder(a.Type), typeOrder(b.Type))
	})
	return out
}

func typeOrder(t model.ActivityType) int {
	return slices.Index(model.ActivityTypes, t)
}
