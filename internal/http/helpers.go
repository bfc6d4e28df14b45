package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"escolar/internal/core"
	"escolar/internal/log"
	"escolar/internal/store"
)

// respondJSON writes a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// respondError maps domain errors onto HTTP statuses: not-found to 404,
// validation sentinels to 422, everything else to 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.FromContext(r.Context())

	switch {
	case errors.Is(err, store.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case isValidationError(err):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		logger.ErrorContext(r.Context(), "Request failed",
			log.FieldError, err.Error(), log.FieldPath, r.URL.Path)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrEmptyDescription,
		core.ErrEmptyName,
		core.ErrInvalidDate,
		core.ErrInvalidType,
		core.ErrInvalidCategory,
		core.ErrInvalidStatus,
		core.ErrPaymentDateMissing,
		core.ErrPaymentDateSet,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseTransactionFilter reads the list filter from query parameters.
// The quick parameter expands to a date range relative to today.
func parseTransactionFilter(r *http.Request, today core.Date) (core.TransactionFilter, error) {
	var f core.TransactionFilter

	if v := strings.TrimSpace(r.URL.Query().Get("type")); v != "" {
		t := core.TransactionType(v)
		if !t.Valid() {
			return f, fmt.Errorf("%w: %q", core.ErrInvalidType, v)
		}
		f.Type = t
	}

	if v := strings.TrimSpace(r.URL.Query().Get("quick")); v != "" {
		var dr core.DateRange
		switch v {
		case "this_month":
			dr = core.ThisMonth(today)
		case "last_month":
			dr = core.LastMonth(today)
		case "this_year":
			dr = core.ThisYear(today)
		default:
			return f, fmt.Errorf("%w: unknown quick filter %q", core.ErrInvalidDate, v)
		}
		f.Start = dr.Start
		f.End = dr.End
		return f, nil
	}

	start, err := core.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		return f, fmt.Errorf("start: %w", err)
	}
	end, err := core.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		return f, fmt.Errorf("end: %w", err)
	}
	f.Start = start
	f.End = end
	return f, nil
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// today returns the current calendar date.
func today() core.Date {
	return core.DateOf(time.Now())
}
