package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/andst/staffboard/internal/model"
)

// Period selects how much of the record set a Filter keeps.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodYear  Period = "year"
	PeriodMonth Period = "month"
	PeriodWeek  Period = "week"
)

// Periods lists the accepted periods.
var Periods = []Period{PeriodAll, PeriodYear, PeriodMonth, PeriodWeek}

// ParsePeriod parses a period name. An empty string means PeriodAll.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PeriodAll, nil
	}
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q (expected all, year, month or week)", s)
}

// Filter restricts aggregations to a category and a period.
//
// An empty Category keeps every type. Year scopes the year and week periods;
// a week filter keeps dates in calendar year Year whose ISO week is Week, so
// the days of week 1 that fall in the previous December are not included.
type Filter struct {
	Category model.Category
	Period   Period
	Year     int
	Month    string // YYYY-MM, used by PeriodMonth
	Week     int    // ISO week, used by PeriodWeek
}

// ForMonth returns a filter for one month of one category.
func ForMonth(month string, category model.Category) Filter {
	return Filter{Category: category, Period: PeriodMonth, Month: month}
}

// ForYear returns a filter for one calendar year of one category.
func ForYear(year int, category model.Category) Filter {
	return Filter{Category: category, Period: PeriodYear, Year: year}
}

// ForWeek returns a filter for one ISO week of one calendar year.
func ForWeek(year, week int, category model.Category) Filter {
	return Filter{Category: category, Period: PeriodWeek, Year: year, Week: week}
}

// Match reports whether r passes the filter.
func (f Filter) Match(r model.Record) bool {
	if f.Category != "" && !f.Category.Includes(r.Type) {
		return false
	}
	switch f.Period {
	case PeriodMonth:
		return r.Month() == f.Month
	case PeriodYear, PeriodWeek:
		t, ok := dateOf(r)
		if !ok || t.Year() != f.Year {
			return false
		}
		return f.Period == PeriodYear || model.WeekNumber(t) == f.Week
	default:
		return true
	}
}

// String describes the filter for headings.
func (f Filter) String() string {
	var scope string
	switch f.Period {
	case PeriodMonth:
		scope = f.Month
	case PeriodYear:
		scope = fmt.Sprint(f.Year)
	case PeriodWeek:
		scope = fmt.Sprintf("%d %s", f.Year, model.WeekLabel(f.Week))
	default:
		scope = "all time"
	}
	if f.Category == "" {
		return scope
	}
	return fmt.Sprintf("%s, %s", f.Category, scope)
}

func dateOf(r model.Record) (time.Time, bool) {
	t, err := time.Parse(model.DateLayout, r.Date)
	return t, err == nil
}
