package output

import (
	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/stats"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// RecordOutput represents a record in JSON output.
type RecordOutput struct {
	Date  string `json:"date"`
	Week  string `json:"week"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// NewRecordOutput creates a RecordOutput from a Record.
func NewRecordOutput(r model.Record) *RecordOutput {
	return &RecordOutput{
		Date:  r.Date,
		Week:  r.Week,
		Name:  r.Name,
		Type:  string(r.Type),
		Count: r.Count,
	}
}

// RecordResponse is the result of a single write.
type RecordResponse struct {
	Status string        `json:"status"`
	Record *RecordOutput `json:"record"`
}

// RecordsResponse represents the records list output in JSON.
type RecordsResponse struct {
	Records    []*RecordOutput `json:"records"`
	TotalCount int             `json:"total_count"`
	TotalSum   int             `json:"total_sum"`
}

// NewRecordsResponse creates a RecordsResponse from records.
func NewRecordsResponse(records []model.Record) *RecordsResponse {
	outputs := make([]*RecordOutput, len(records))
	sum := 0
	for i, r := range records {
		outputs[i] = NewRecordOutput(r)
		sum += r.Count
	}
	return &RecordsResponse{
		Records:    outputs,
		TotalCount: len(records),
		TotalSum:   sum,
	}
}

// DeleteResponse is the result of a delete.
type DeleteResponse struct {
	Deleted bool   `json:"deleted"`
	Date    string `json:"date"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

// TargetOutput represents a target in JSON output.
type TargetOutput struct {
	Month    string `json:"month"`
	Category string `json:"category"`
	Target   int    `json:"target"`
}

// NewTargetOutput creates a TargetOutput from a Target.
func NewTargetOutput(t model.Target) *TargetOutput {
	return &TargetOutput{Month: t.Month, Category: string(t.Category), Target: t.Target}
}

// TargetsResponse represents the targets list output in JSON.
type TargetsResponse struct {
	Targets []*TargetOutput `json:"targets"`
}

// NewTargetsResponse creates a TargetsResponse from targets.
func NewTargetsResponse(targets []model.Target) *TargetsResponse {
	outputs := make([]*TargetOutput, len(targets))
	for i, t := range targets {
		outputs[i] = NewTargetOutput(t)
	}
	return &TargetsResponse{Targets: outputs}
}

// FilterOutput echoes the filter an aggregation ran with.
type FilterOutput struct {
	Category string `json:"category,omitempty"`
	Period   string `json:"period"`
	Year     int    `json:"year,omitempty"`
	Month    string `json:"month,omitempty"`
	Week     int    `json:"week,omitempty"`
}

// NewFilterOutput creates a FilterOutput from a filter.
func NewFilterOutput(f stats.Filter) *FilterOutput {
	out := &FilterOutput{Category: string(f.Category), Period: string(f.Period)}
	if out.Period == "" {
		out.Period = string(stats.PeriodAll)
	}
	switch f.Period {
	case stats.PeriodYear:
		out.Year = f.Year
	case stats.PeriodMonth:
		out.Month = f.Month
	case stats.PeriodWeek:
		out.Year, out.Week = f.Year, f.Week
	}
	return out
}

// WeeklyResponse represents weekly totals in JSON.
type WeeklyResponse struct {
	Filter *FilterOutput     `json:"filter"`
	Weeks  []stats.WeekTotal `json:"weeks"`
}

// StaffResponse represents the staff ranking in JSON.
type StaffResponse struct {
	Filter *FilterOutput      `json:"filter"`
	Staff  []stats.StaffTotal `json:"staff"`
}

// CompositionResponse represents the app composition in JSON.
type CompositionResponse struct {
	Filter *FilterOutput `json:"filter"`
	stats.Composition
	Total int `json:"total"`
}

// SeriesPoint is one labelled value of a daily or monthly series.
type SeriesPoint struct {
	Label string `json:"label"`
	Total int    `json:"total"`
}

// SeriesResponse represents a daily or monthly series in JSON.
type SeriesResponse struct {
	Category string        `json:"category"`
	Year     int           `json:"year"`
	Week     int           `json:"week,omitempty"`
	Points   []SeriesPoint `json:"points"`
}

// NewSeries pairs labels with values.
func NewSeries(labels []string, values []int) []SeriesPoint {
	points := make([]SeriesPoint, len(values))
	for i, v := range values {
		points[i] = SeriesPoint{Label: labels[i], Total: v}
	}
	return points
}

// SummaryResponse represents monthly progress in JSON.
type SummaryResponse struct {
	Progress []stats.Progress `json:"progress"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(status, errMsg, message string) error {
	return j.JSON(ErrorResponse{
		Status:  status,
		Error:   errMsg,
		Message: message,
	})
}

// PrintRecord outputs the result of a write in JSON format.
func (j *JSONFormatter) PrintRecord(status string, rec model.Record) error {
	return j.JSON(RecordResponse{Status: status, Record: NewRecordOutput(rec)})
}

// PrintRecords outputs records in JSON format.
func (j *JSONFormatter) PrintRecords(records []model.Record) error {
	return j.JSON(NewRecordsResponse(records))
}

// PrintTargets outputs targets in JSON format.
func (j *JSONFormatter) PrintTargets(targets []model.Target) error {
	return j.JSON(NewTargetsResponse(targets))
}
