package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// errorResponse is the body of every non-success response. Messages stay
// generic; the underlying cause is only logged server-side.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response body", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeOperationError maps an operation error onto the API taxonomy:
// validation -> 400, not found -> 404, anything else -> 500 with the
// operation's generic message.
func writeOperationError(w http.ResponseWriter, r *http.Request, err error, genericMsg string) {
	switch {
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, "Invalid transaction data")
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "Transaction not found")
	default:
		slog.ErrorContext(r.Context(), "Operation failed",
			"error", err, "method", r.Method, "url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, genericMsg)
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrDescriptionTooLong) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidType)
}

// parseDate accepts a plain calendar date or a full ISO-8601 timestamp
// (the browser sends the latter) and keeps only the date part.
func parseDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return core.Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return core.Date{}, core.ErrInvalidDate
	}
	y, m, d := t.UTC().Date()
	return core.NewDate(y, int(m), d), nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
