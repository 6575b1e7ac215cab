package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the coarse grouping targets are set against.
type Category string

const (
	// CategoryApp covers new, exist and line recommendations.
	CategoryApp Category = "app"
	// CategorySurvey covers survey completions.
	CategorySurvey Category = "survey"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryApp, CategorySurvey}

// ParseCategory parses a category name, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryApp || c == CategorySurvey
}

// Types returns the activity types that roll up into the category.
func (c Category) Types() []ActivityType {
	switch c {
	case CategoryApp:
		return []ActivityType{TypeNew, TypeExist, TypeLine}
	case CategorySurvey:
		return []ActivityType{TypeSurvey}
	}
	return nil
}

// Includes reports whether records of type t count toward the category.
func (c Category) Includes(t ActivityType) bool {
	for _, ct := range c.Types() {
		if ct == t {
			return true
		}
	}
	return false
}

// TargetKey is the natural key of a target.
type TargetKey struct {
	Month    string
	Category Category
}

// Target is a monthly goal for one category.
type Target struct {
	Month    string   `json:"month"`
	Category Category `json:"category"`
	Target   int      `json:"target"`
}

// Key returns the natural key of the target.
func (t Target) Key() TargetKey {
	return TargetKey{Month: t.Month, Category: t.Category}
}

// Row converts the target to its persisted form.
func (t Target) Row() *TargetRow {
	return &TargetRow{
		Month:  t.Month,
		Type:   string(t.Category),
		Target: strconv.Itoa(t.Target),
	}
}

// TargetRow is a target as persisted, cell for cell.
// The category column is named "type" in storage.
type TargetRow struct {
	Key    string `json:"key,omitempty"`
	Month  string `json:"month"`
	Type   string `json:"type"`
	Target string `json:"target"`
}

// SetKey sets the storage key for this row.
func (r *TargetRow) SetKey(key string) {
	r.Key = key
}

// GetKey returns the storage key for this row.
func (r *TargetRow) GetKey() string {
	return r.Key
}

// Cells returns the row values in TargetHeaders order.
func (r *TargetRow) Cells() []string {
	return []string{r.Month, r.Type, r.Target}
}

// GenerateTargetKey generates a storage key for a target.
func GenerateTargetKey(k TargetKey) string {
	return fmt.Sprintf("%s:%s:%s", PrefixTarget, k.Month, k.Category)
}

// DecodeTarget converts a persisted row into a Target.
// A target value that does not parse decodes as 0.
func DecodeTarget(row *TargetRow) (Target, error) {
	if row == nil {
		return Target{}, ErrMalformedRow
	}
	month, err := CanonicalMonth(row.Month)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	cat, ok := ParseCategory(row.Type)
	if !ok {
		return Target{}, fmt.Errorf("%w: unknown category %q", ErrMalformedRow, row.Type)
	}
	value := parseCount(row.Target)
	if value < 0 {
		value = 0
	}
	return Target{Month: month, Category: cat, Target: value}, nil
}
