package stats

import (
	"fmt"
	"slices"

	"github.com/andst/staffboard/internal/model"
)

// Weekdays labels the entries of DailyTotals.
var Weekdays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DailyTotals sums category per weekday (Monday first) over ISO week of year.
func DailyTotals(records []model.Record, year, week int, category model.Category) [7]int {
	var days [7]int
	f := ForWeek(year, week, category)
	for _, r := range records {
		if !f.Match(r) {
			continue
		}
		t, _ := dateOf(r)
		days[(int(t.Weekday())+6)%7] += r.Count
	}
	return days
}

// MonthlyTotals sums category per calendar month of year, January first.
func MonthlyTotals(records []model.Record, year int, category model.Category) [12]int {
	var months [12]int
	f := ForYear(year, category)
	for _, r := range records {
		if !f.Match(r) {
			continue
		}
		t, _ := dateOf(r)
		months[t.Month()-1] += r.Count
	}
	return months
}

// MonthLabels returns the YYYY-MM labels matching MonthlyTotals for year.
func MonthLabels(year int) [12]string {
	var labels [12]string
	for i := range labels {
		labels[i] = fmt.Sprintf("%04d-%02d", year, i+1)
	}
	return labels
}

// Years returns the distinct calendar years present, ascending.
func Years(records []model.Record) []int {
	var years []int
	for _, r := range records {
		if t, ok := dateOf(r); ok {
			years = append(years, t.Year())
		}
	}
	slices.Sort(years)
	return slices.Compact(years)
}

// Months returns the distinct YYYY-MM months present in year, ascending.
func Months(records []model.Record, year int) []string {
	var months []string
	f := ForYear(year, "")
	for _, r := range records {
		if f.Match(r) {
			months = append(months, r.Month())
		}
	}
	slices.Sort(months)
	return slices.Compact(months)
}

// Weeks returns the distinct ISO weeks of category present in year, ascending.
func Weeks(records []model.Record, year int, category model.Category) []int {
	var weeks []int
	f := ForYear(year, category)
	for _, r := range records {
		if !f.Match(r) {
			continue
		}
		t, _ := dateOf(r)
		weeks = append(weeks, model.WeekNumber(t))
	}
	slices.Sort(weeks)
	return slices.Compact(weeks)
}

// Names returns the distinct staff names, ascending.
func Names(records []model.Record) []string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Progress is the monthly progress of one category toward its target.
type Progress struct {
	Month     string         `json:"month"`
	Category  model.Category `json:"category"`
	Total     int            `json:"total"`
	Target    int            `json:"target"`
	Remaining int            `json:"remaining"`
	Rate      float64        `json:"rate"`
	Complete  bool           `json:"complete"`
}

// Summary computes the progress of category in month against target.
func Summary(records []model.Record, month string, category model.Category, target int) Progress {
	total := MonthlyTotal(records, month, category)
	return Progress{
		Month:     month,
		Category:  category,
		Total:     total,
		Target:    target,
		Remaining: max(target-total, 0),
		Rate:      AchievementRate(total, target),
		Complete:  target > 0 && total >= target,
	}
}
