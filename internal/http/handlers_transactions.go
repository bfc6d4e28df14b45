package http

import (
	"net/http"

	"escolar/internal/core"
	"escolar/internal/log"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r, today())
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	txs, err := s.ledger.Store().ListTransactions(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	txs = core.FilterTransactions(txs, filter)

	names, err := s.studentNames(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t, names))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	req.Description = sanitizeInput(req.Description)

	tx, err := req.toDomain("")
	if err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	stored, err := s.ledger.CreateTransaction(r.Context(), tx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()

	log.FromContext(r.Context()).InfoContext(r.Context(), "Transaction created",
		log.FieldTransactionID, stored.ID,
		log.FieldAmountCents, stored.Amount.Cents,
		log.FieldTxType, string(stored.Type),
		log.FieldCategory, string(stored.Category))

	respondJSON(w, http.StatusCreated, toTransactionResponse(stored, s.mutationNames(r, stored)))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	req.Description = sanitizeInput(req.Description)

	tx, err := req.toDomain(id)
	if err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	if err := s.ledger.UpdateTransaction(r.Context(), tx); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()

	respondJSON(w, http.StatusOK, toTransactionResponse(tx, s.mutationNames(r, tx)))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTogglePayment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	tx, err := s.ledger.TogglePayment(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()

	log.FromContext(r.Context()).InfoContext(r.Context(), "Payment toggled",
		log.FieldTransactionID, tx.ID, log.FieldPaid, tx.Paid)

	respondJSON(w, http.StatusOK, toTransactionResponse(tx, s.mutationNames(r, tx)))
}

// mutationNames resolves the student name for a single mutated transaction.
// The mutation already committed, so a failed lookup only drops the name
// from the response instead of failing the request.
func (s *Server) mutationNames(r *http.Request, t core.Transaction) map[string]string {
	if t.StudentID == "" {
		return nil
	}
	names, err := s.studentNames(r)
	if err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Student name lookup failed",
			log.FieldTransactionID, t.ID, log.FieldError, err.Error())
		return nil
	}
	return names
}

// studentNames builds the id-to-name lookup used to label tuition rows.
func (s *Server) studentNames(r *http.Request) (map[string]string, error) {
	students, err := s.ledger.Store().ListStudents(r.Context())
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(students))
	for _, st := range students {
		names[st.ID] = st.Name
	}
	return names, nil
}
