package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/andst/staffboard/internal/errors"
	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/output"
	"github.com/andst/staffboard/internal/stats"
	"github.com/andst/staffboard/internal/validate"
)

var endpoints = []string{
	"GET /health",
	"GET /api/records?month=&name=",
	"PUT /api/records",
	"DELETE /api/records?date=&name=&type=",
	"GET /api/targets",
	"GET|PUT /api/targets/{month}/{category}",
	"GET /api/stats/{summary,weekly,staff,composition,monthly,daily}",
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"endpoints": endpoints})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := s.healthChecker.Check(r.Context())
	code := http.StatusOK
	if status.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// checkBackend reads one target key, which every backend serves cheaply.
func (s *Server) checkBackend(ctx context.Context) error {
	_, err := s.cache.GetTarget(ctx, s.now().Format(model.MonthLayout), string(model.CategoryApp))
	return err
}

// =============================================================================
// Records
// =============================================================================

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month := q.Get("month")
	if month != "" {
		var err error
		if month, err = validate.Month(month); err != nil {
			writeError(w, r, err)
			return
		}
	}

	records, err := s.cache.Records(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, output.NewRecordsResponse(stats.Select(records, month, q.Get("name"))))
}

// recordRequest is the body of PUT /api/records. Mode is "set" (default)
// or "add".
type recordRequest struct {
	Date  string `json:"date"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Count *int   `json:"count"`
	Mode  string `json:"mode"`
}

func (s *Server) putRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, badBody(err))
		return
	}
	if req.Count == nil {
		writeError(w, r, errors.NewValidationError("count", "", "is required", nil))
		return
	}

	var (
		rec model.Record
		err error
	)
	switch strings.ToLower(req.Mode) {
	case "", "set":
		req.Mode = "set"
		rec, err = s.cache.Upsert(r.Context(), req.Date, req.Name, req.Type, *req.Count)
	case "add":
		rec, err = s.cache.Add(r.Context(), req.Date, req.Name, req.Type, *req.Count)
	default:
		err = errors.NewValidationError("mode", req.Mode, "unknown mode", nil).
			WithSuggestion("Use set or add.")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, output.RecordResponse{Status: strings.ToLower(req.Mode), Record: output.NewRecordOutput(rec)})
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	deleted, err := s.cache.Delete(r.Context(), q.Get("date"), q.Get("name"), q.Get("type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	// Delete has validated the key, so these only canonicalise.
	date, _ := model.CanonicalDate(q.Get("date"))
	typ, _ := model.ParseActivityType(q.Get("type"))
	writeJSON(w, http.StatusOK, output.DeleteResponse{
		Deleted: deleted,
		Date:    date,
		Name:    model.CanonicalName(q.Get("name")),
		Type:    string(typ),
	})
}

// =============================================================================
// Targets
// =============================================================================

func (s *Server) listTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := s.cache.Store().ListTargets(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, output.NewTargetsResponse(targets))
}

func (s *Server) getTarget(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	month, err := validate.Month(vars["month"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	category, err := validate.Category(vars["category"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	value, err := s.cache.GetTarget(r.Context(), month, string(category))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, output.TargetOutput{Month: month, Category: string(category), Target: value})
}

func (s *Server) putTarget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target *int `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, badBody(err))
		return
	}
	if req.Target == nil {
		writeError(w, r, errors.NewValidationError("target", "", "is required", nil))
		return
	}
	vars := mux.Vars(r)
	target, err := s.cache.SetTarget(r.Context(), vars["month"], vars["category"], *req.Target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, output.NewTargetOutput(target))
}
