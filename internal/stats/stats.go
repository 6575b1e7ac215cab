// Package stats computes the read-side aggregations shown by the CLI,
// the dashboard and the HTTP API. Every function is a pure function of the
// records passed in.
package stats

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/andst/staffboard/internal/model"
)

// MonthlyTotal sums the counts of category in month (YYYY-MM).
func MonthlyTotal(records []model.Record, month string, category model.Category) int {
	return Total(records, ForMonth(month, category))
}

// Total sums the counts that pass f.
func Total(records []model.Record, f Filter) int {
	total := 0
	for _, r := range records {
		if f.Match(r) {
			total += r.Count
		}
	}
	return total
}

// WeeklyTotals sums the counts that pass f by ISO week number.
func WeeklyTotals(records []model.Record, f Filter) map[int]int {
	totals := make(map[int]int)
	for _, r := range records {
		if !f.Match(r) {
			continue
		}
		if t, ok := dateOf(r); ok {
			totals[model.WeekNumber(t)] += r.Count
		}
	}
	return totals
}

// WeekTotal is one entry of SortedWeeklyTotals.
type WeekTotal struct {
	Week  int    `json:"week"`
	Label string `json:"label"`
	Total int    `json:"total"`
}

// SortedWeeklyTotals returns WeeklyTotals ordered by week number.
func SortedWeeklyTotals(records []model.Record, f Filter) []WeekTotal {
	totals := WeeklyTotals(records, f)
	out := make([]WeekTotal, 0, len(totals))
	for week, total := range totals {
		out = append(out, WeekTotal{Week: week, Label: model.WeekLabel(week), Total: total})
	}
	slices.SortFunc(out, func(a, b WeekTotal) int { return cmp.Compare(a.Week, b.Week) })
	return out
}

// StaffTotal is one row of the staff ranking.
type StaffTotal struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// StaffTotals sums the counts that pass f per staff member, ordered by
// descending total with ties broken by name. Ranks run 1..n.
func StaffTotals(records []model.Record, f Filter) []StaffTotal {
	sums := make(map[string]int)
	for _, r := range records {
		if f.Match(r) {
			sums[r.Name] += r.Count
		}
	}

	out := make([]StaffTotal, 0, len(sums))
	for name, total := range sums {
		out = append(out, StaffTotal{Name: name, Total: total})
	}
	slices.SortFunc(out, func(a, b StaffTotal) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Composition breaks the app category down by type.
type Composition struct {
	New   int `json:"new"`
	Exist int `json:"exist"`
	Line  int `json:"line"`
}

// Total returns the sum of all parts.
func (c Composition) Total() int {
	return c.New + c.Exist + c.Line
}

// Share returns the percentage of the total taken by typ, to one decimal.
func (c Composition) Share(typ model.ActivityType) float64 {
	var part int
	switch typ {
	case model.TypeNew:
		part = c.New
	case model.TypeExist:
		part = c.Exist
	case model.TypeLine:
		part = c.Line
	}
	return percent(part, c.Total())
}

// CompositionTotals sums the app types that pass f. The filter's category
// is ignored; survey records never contribute.
func CompositionTotals(records []model.Record, f Filter) Composition {
	f.Category = model.CategoryApp
	var c Composition
	for _, r := range records {
		if !f.Match(r) {
			continue
		}
		switch r.Type {
		case model.TypeNew:
			c.New += r.Count
		case model.TypeExist:
			c.Exist += r.Count
		case model.TypeLine:
			c.Line += r.Count
		}
	}
	return c
}

// AchievementRate returns total as a percentage of target, capped at 100
// and rounded half up to one decimal. A target of zero or less yields 0.
func AchievementRate(total, target int) float64 {
	if target <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(total)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(target)))
	rate = decimal.Min(rate, decimal.NewFromInt(100))
	f, _ := rate.Round(1).Float64()
	return f
}

// percent is AchievementRate without the cap.
func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(1).Float64()
	return f
}
