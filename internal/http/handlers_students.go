package http

import (
	"net/http"
	"strings"
)

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))

	students, err := s.ledger.Store().SearchStudents(r.Context(), term)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]studentResponse, 0, len(students))
	for _, st := range students {
		out = append(out, toStudentResponse(st))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	req.Name = sanitizeInput(req.Name)

	student, err := req.toDomain("")
	if err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	stored, err := s.ledger.CreateStudent(r.Context(), student)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()

	respondJSON(w, http.StatusCreated, toStudentResponse(stored))
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req studentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	req.Name = sanitizeInput(req.Name)

	student, err := req.toDomain(id)
	if err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	if err := s.ledger.UpdateStudent(r.Context(), student); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()

	respondJSON(w, http.StatusOK, toStudentResponse(student))
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.ledger.DeleteStudent(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()

	w.WriteHeader(http.StatusNoContent)
}
