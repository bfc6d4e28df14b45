package http

import (
	"errors"
	"net/http"
	"strings"

	"escolar/internal/core"
	"escolar/internal/log"
	"escolar/internal/report"
)

func (s *Server) handleGenerateTuition(w http.ResponseWriter, r *http.Request) {
	ref := today()

	if r.ContentLength != 0 {
		var req tuitionGenerateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		if strings.TrimSpace(req.Reference) != "" {
			parsed, err := core.ParseDate(req.Reference)
			if err != nil {
				respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
				return
			}
			ref = parsed
		}
	}

	count, err := s.ledger.GenerateTuition(r.Context(), ref)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()

	log.FromContext(r.Context()).InfoContext(r.Context(), "Tuition batch generated",
		"generated", count, "reference", ref.String())

	respondJSON(w, http.StatusOK, tuitionGenerateResponse{
		Generated: count,
		Reference: ref.String(),
	})
}

// handleGenerateReport asks the report collaborator for a financial summary.
// Degraded outcomes (no API key, generation failure) still answer 200 with
// the fixed fallback text so clients always have something to render.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())

	txs, err := s.ledger.Store().ListTransactions(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	text, err := s.reports.Generate(r.Context(), txs)
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, report.ErrNotConfigured):
		outcome = "not_configured"
		text = report.NotConfiguredMessage
	default:
		outcome = "error"
		logger.ErrorContext(r.Context(), "Report generation failed", log.FieldError, err.Error())
		text = report.UnavailableMessage
	}

	if s.metrics != nil {
		s.metrics.ReportRequests.WithLabelValues(outcome).Inc()
	}

	respondJSON(w, http.StatusOK, reportResponse{Report: text})
}
