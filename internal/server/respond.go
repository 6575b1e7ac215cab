package server

import (
	"encoding/json"
	"net/http"

	"github.com/andst/staffboard/internal/errors"
	"github.com/andst/staffboard/internal/logging"
	"github.com/andst/staffboard/internal/output"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status code: 400 for input the caller can fix,
// 503 when the backing store is unavailable, 500 otherwise.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, word := http.StatusInternalServerError, "error"
	switch errors.GetCategory(err) {
	case errors.CategoryValidation:
		status, word = http.StatusBadRequest, "invalid"
	case errors.CategoryBackend:
		status, word = http.StatusServiceUnavailable, "unavailable"
	}
	if status >= 500 {
		logging.WarnContext(r.Context(), "request failed",
			logging.KeyStatus, status, logging.KeyError, err, "path", r.URL.Path)
	}
	writeJSON(w, status, output.ErrorResponse{
		Status:     word,
		Error:      err.Error(),
		Suggestion: errors.GetSuggestion(err),
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, output.ErrorResponse{
		Status: "not_found",
		Error:  "no route for " + r.Method + " " + r.URL.Path,
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, output.ErrorResponse{
		Status: "method_not_allowed",
		Error:  r.Method + " is not allowed on " + r.URL.Path,
	})
}

func badBody(err error) error {
	return errors.NewValidationError("body", "", "is not valid JSON: "+err.Error(), nil)
}
