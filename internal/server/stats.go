package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/output"
	"github.com/andst/staffboard/internal/stats"
	"github.com/andst/staffboard/internal/validate"
)

func queryOf(v url.Values) stats.Query {
	return stats.Query{
		Category: v.Get("category"),
		Period:   v.Get("period"),
		Year:     v.Get("year"),
		Month:    v.Get("month"),
		Week:     v.Get("week"),
	}
}

// filtered resolves the request's filter and loads the records.
func (s *Server) filtered(w http.ResponseWriter, r *http.Request) ([]model.Record, stats.Filter, bool) {
	f, err := queryOf(r.URL.Query()).Filter(s.now())
	if err != nil {
		writeError(w, r, err)
		return nil, stats.Filter{}, false
	}
	records, err := s.cache.Records(r.Context())
	if err != nil {
		writeError(w, r, err)
		return nil, stats.Filter{}, false
	}
	return records, f, true
}

// categories returns the requested category, or both when none is given.
func categories(raw string) ([]model.Category, error) {
	if raw = strings.TrimSpace(raw); raw == "" || strings.EqualFold(raw, "all") {
		return model.Categories, nil
	}
	c, err := validate.Category(raw)
	if err != nil {
		return nil, err
	}
	return []model.Category{c}, nil
}

// category returns the requested category, defaulting to app.
func category(raw string) (model.Category, error) {
	if strings.TrimSpace(raw) == "" {
		return model.CategoryApp, nil
	}
	return validate.Category(raw)
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month := s.now().Format(model.MonthLayout)
	if raw := q.Get("month"); raw != "" {
		var err error
		if month, err = validate.Month(raw); err != nil {
			writeError(w, r, err)
			return
		}
	}
	cats, err := categories(q.Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	records, err := s.cache.Records(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := output.SummaryResponse{Progress: make([]stats.Progress, 0, len(cats))}
	for _, c := range cats {
		target, err := s.cache.GetTarget(r.Context(), month, string(c))
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.Progress = append(resp.Progress, stats.Summary(records, month, c, target))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) weekly(w http.ResponseWriter, r *http.Request) {
	records, f, ok := s.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, output.WeeklyResponse{
		Filter: output.NewFilterOutput(f),
		Weeks:  stats.SortedWeeklyTotals(records, f),
	})
}

func (s *Server) staff(w http.ResponseWriter, r *http.Request) {
	records, f, ok := s.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, output.StaffResponse{
		Filter: output.NewFilterOutput(f),
		Staff:  stats.StaffTotals(records, f),
	})
}

func (s *Server) composition(w http.ResponseWriter, r *http.Request) {
	records, f, ok := s.filtered(w, r)
	if !ok {
		return
	}
	f.Category = model.CategoryApp
	comp := stats.CompositionTotals(records, f)
	writeJSON(w, http.StatusOK, output.CompositionResponse{
		Filter:      output.NewFilterOutput(f),
		Composition: comp,
		Total:       comp.Total(),
	})
}

func (s *Server) monthly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := category(q.Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	year := s.now().Year()
	if raw := q.Get("year"); raw != "" {
		if year, err = validate.Year(raw); err != nil {
			writeError(w, r, err)
			return
		}
	}
	records, err := s.cache.Records(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	labels := stats.MonthLabels(year)
	totals := stats.MonthlyTotals(records, year, c)
	writeJSON(w, http.StatusOK, output.SeriesResponse{
		Category: string(c),
		Year:     year,
		Points:   output.NewSeries(labels[:], totals[:]),
	})
}

func (s *Server) daily(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := category(q.Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	f, err := stats.Query{Period: "week", Year: q.Get("year"), Week: q.Get("week")}.Filter(s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	records, err := s.cache.Records(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	totals := stats.DailyTotals(records, f.Year, f.Week, c)
	writeJSON(w, http.StatusOK, output.SeriesResponse{
		Category: string(c),
		Year:     f.Year,
		Week:     f.Week,
		Points:   output.NewSeries(stats.Weekdays[:], totals[:]),
	})
}
