package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Date Tests
// =============================================================================

func TestCanonicalDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-08-12", "2025-08-12"},
		{"2025/08/12", "2025-08-12"},
		{"2025/8/2", "2025-08-02"},
		{" 2025-8-12 ", "2025-08-12"},
		{"2025-08-12 00:00:00", "2025-08-12"},
		{"2025-08-12T09:30:00Z", "2025-08-12"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CanonicalDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalDateInvalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "12/08/2025", "2025-13-01", "2025-02-30"} {
		_, err := CanonicalDate(in)
		assert.True(t, errors.Is(err, ErrInvalidDate), in)
	}
}

func TestCanonicalMonth(t *testing.T) {
	got, err := CanonicalMonth("2025/8")
	require.NoError(t, err)
	assert.Equal(t, "2025-08", got)

	_, err = CanonicalMonth("2025-08-01")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestWeekNumber(t *testing.T) {
	d, err := ParseDate("2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, 2, WeekNumber(d))

	// 2026-12-31 is a Thursday in ISO week 53; it is not folded.
	d, err = ParseDate("2026-12-31")
	require.NoError(t, err)
	assert.Equal(t, 53, WeekNumber(d))
	assert.Equal(t, "53w", WeekLabel(WeekNumber(d)))

	// 2024-12-30 belongs to ISO week 1 of 2025.
	d, err = ParseDate("2024-12-30")
	require.NoError(t, err)
	assert.Equal(t, 1, WeekNumber(d))
}

func TestParseWeekLabel(t *testing.T) {
	for _, in := range []string{"32w", "w32", "32", " W32 "} {
		w, err := ParseWeekLabel(in)
		require.NoError(t, err, in)
		assert.Equal(t, 32, w)
	}
	for _, in := range []string{"", "0w", "54", "abc"} {
		_, err := ParseWeekLabel(in)
		assert.Error(t, err, in)
	}
}

// =============================================================================
// Record Tests
// =============================================================================

func TestParseActivityType(t *testing.T) {
	typ, ok := ParseActivityType(" Survey ")
	assert.True(t, ok)
	assert.Equal(t, TypeSurvey, typ)

	_, ok = ParseActivityType("visit")
	assert.False(t, ok)
}

func TestActivityTypeCategory(t *testing.T) {
	assert.Equal(t, CategoryApp, TypeNew.Category())
	assert.Equal(t, CategoryApp, TypeExist.Category())
	assert.Equal(t, CategoryApp, TypeLine.Category())
	assert.Equal(t, CategorySurvey, TypeSurvey.Category())
}

func TestGenerateRecordKey(t *testing.T) {
	key := GenerateRecordKey(RecordKey{Date: "2025-08-12", Name: "Sato: A", Type: TypeLine})
	assert.Equal(t, "record:2025-08-12:line:Sato: A", key)
}

func TestDecodeRecord(t *testing.T) {
	rec, err := DecodeRecord(&RecordRow{Date: "2025/08/12", Week: "stale", Name: " Alice ", Type: "new", Count: "4"})
	require.NoError(t, err)
	assert.Equal(t, Record{Date: "2025-08-12", Week: "33w", Name: "Alice", Type: TypeNew, Count: 4}, rec)
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "Sato Taro", CanonicalName("  Sato  \tTaro\x00 "))
	assert.Equal(t, "", CanonicalName(" \x07 "))

	rec, err := DecodeRecord(&RecordRow{Date: "2025-08-12", Name: "Sato  Taro", Type: "new", Count: "2"})
	require.NoError(t, err)
	assert.Equal(t, "Sato Taro", rec.Name)
}

func TestDecodeRecordCountCoercion(t *testing.T) {
	tests := []struct {
		count string
		want  int
	}{
		{"", 0},
		{"abc", 0},
		{"3.0", 3},
		{"-2", 0},
		{" 7 ", 7},
	}
	for _, tt := range tests {
		t.Run(tt.count, func(t *testing.T) {
			rec, err := DecodeRecord(&RecordRow{Date: "2025-08-12", Name: "A", Type: "survey", Count: tt.count})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Count)
		})
	}
}

func TestDecodeRecordMalformed(t *testing.T) {
	rows := []*RecordRow{
		nil,
		{Name: "A", Type: "new", Count: "1"},
		{Date: "2025-08-12", Type: "new", Count: "1"},
		{Date: "2025-08-12", Name: "A", Count: "1"},
		{Date: "not a date", Name: "A", Type: "new", Count: "1"},
		{Date: "2025-08-12", Name: "A", Type: "visit", Count: "1"},
	}
	for _, row := range rows {
		_, err := DecodeRecord(row)
		assert.ErrorIs(t, err, ErrMalformedRow)
	}
}

func TestRecordRowSetGetKey(t *testing.T) {
	row := &RecordRow{}
	row.SetKey("record:abc")
	assert.Equal(t, "record:abc", row.GetKey())
}

// =============================================================================
// Target Tests
// =============================================================================

func TestCategoryTypes(t *testing.T) {
	assert.Equal(t, []ActivityType{TypeNew, TypeExist, TypeLine}, CategoryApp.Types())
	assert.Equal(t, []ActivityType{TypeSurvey}, CategorySurvey.Types())
	assert.True(t, CategoryApp.Includes(TypeLine))
	assert.False(t, CategoryApp.Includes(TypeSurvey))
	assert.Nil(t, Category("other").Types())
}

func TestDecodeTarget(t *testing.T) {
	target, err := DecodeTarget(&TargetRow{Month: "2025/8", Type: "APP", Target: "120"})
	require.NoError(t, err)
	assert.Equal(t, Target{Month: "2025-08", Category: CategoryApp, Target: 120}, target)

	target, err = DecodeTarget(&TargetRow{Month: "2025-08", Type: "survey", Target: "lots"})
	require.NoError(t, err)
	assert.Equal(t, 0, target.Target)

	_, err = DecodeTarget(&TargetRow{Month: "2025-08", Type: "visits", Target: "1"})
	assert.ErrorIs(t, err, ErrMalformedRow)
}

func TestTargetRowRoundTrip(t *testing.T) {
	in := Target{Month: "2025-09", Category: CategorySurvey, Target: 30}
	out, err := DecodeTarget(in.Row())
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, "target:2025-09:survey", GenerateTargetKey(in.Key()))
}
