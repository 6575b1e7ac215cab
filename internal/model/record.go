package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ActivityType is the kind of activity a record counts.
type ActivityType string

const (
	TypeNew    ActivityType = "new"
	TypeExist  ActivityType = "exist"
	TypeLine   ActivityType = "line"
	TypeSurvey ActivityType = "survey"
)

// ActivityTypes lists every activity type in display order.
var ActivityTypes = []ActivityType{TypeNew, TypeExist, TypeLine, TypeSurvey}

// ParseActivityType parses a type name, case-insensitively.
func ParseActivityType(s string) (ActivityType, bool) {
	t := ActivityType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// Valid reports whether t is one of the known activity types.
func (t ActivityType) Valid() bool {
	switch t {
	case TypeNew, TypeExist, TypeLine, TypeSurvey:
		return true
	}
	return false
}

// Category returns the target category the type rolls up into.
func (t ActivityType) Category() Category {
	if t == TypeSurvey {
		return CategorySurvey
	}
	return CategoryApp
}

// ErrMalformedRow is returned when a persisted row cannot be decoded.
var ErrMalformedRow = errors.New("malformed row")

// RecordKey is the natural key of a record.
type RecordKey struct {
	Date string
	Name string
	Type ActivityType
}

func (k RecordKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Date, k.Name, k.Type)
}

// Record is one (date, name, type) activity count.
type Record struct {
	Date  string       `json:"date"`
	Week  string       `json:"week"`
	Name  string       `json:"name"`
	Type  ActivityType `json:"type"`
	Count int          `json:"count"`
}

// Key returns the natural key of the record.
func (r Record) Key() RecordKey {
	return RecordKey{Date: r.Date, Name: r.Name, Type: r.Type}
}

// Month returns the YYYY-MM month the record falls in.
func (r Record) Month() string {
	return MonthOf(r.Date)
}

// Row converts the record to its persisted form.
func (r Record) Row() *RecordRow {
	return &RecordRow{
		Date:  r.Date,
		Week:  r.Week,
		Name:  r.Name,
		Type:  string(r.Type),
		Count: strconv.Itoa(r.Count),
	}
}

// RecordRow is a record as persisted, cell for cell.
type RecordRow struct {
	Key   string `json:"key,omitempty"`
	Date  string `json:"date"`
	Week  string `json:"week"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Count string `json:"count"`
}

// SetKey sets the storage key for this row.
func (r *RecordRow) SetKey(key string) {
	r.Key = key
}

// GetKey returns the storage key for this row.
func (r *RecordRow) GetKey() string {
	return r.Key
}

// Cells returns the row values in RecordHeaders order.
func (r *RecordRow) Cells() []string {
	return []string{r.Date, r.Week, r.Name, r.Type, r.Count}
}

// GenerateRecordKey generates a storage key for a record.
// The name goes last so that it may contain the separator.
func GenerateRecordKey(k RecordKey) string {
	return fmt.Sprintf("%s:%s:%s:%s", PrefixRecord, k.Date, k.Type, k.Name)
}

// DecodeRecord converts a persisted row into a Record.
//
// Rows missing date, name or type, with an unknown type, or whose date
// does not parse, are malformed. A count that is missing, negative or not
// an integer decodes as 0.
// The week is always derived from the date.
func DecodeRecord(row *RecordRow) (Record, error) {
	if row == nil {
		return Record{}, ErrMalformedRow
	}
	name := CanonicalName(row.Name)
	if strings.TrimSpace(row.Date) == "" || name == "" || strings.TrimSpace(row.Type) == "" {
		return Record{}, fmt.Errorf("%w: missing date, name or type", ErrMalformedRow)
	}
	typ, ok := ParseActivityType(row.Type)
	if !ok {
		return Record{}, fmt.Errorf("%w: unknown type %q", ErrMalformedRow, row.Type)
	}
	t, err := ParseDate(row.Date)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	count := parseCount(row.Count)
	if count < 0 {
		count = 0
	}
	return Record{
		Date:  t.Format(DateLayout),
		Week:  WeekLabel(WeekNumber(t)),
		Name:  name,
		Type:  typ,
		Count: count,
	}, nil
}

// CanonicalName is the stored form of a staff name: surrounding space is
// trimmed, control characters are dropped and inner runs of whitespace
// collapse to one space. Rows edited by hand decode to the same name a
// write would have produced.
func CanonicalName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))

	space := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r):
		default:
			if space && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			space = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// parseCount coerces a stored count to an int.
// Spreadsheets may hand back "3.0" for an integer cell.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
