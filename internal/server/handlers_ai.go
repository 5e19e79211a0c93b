package server

import (
	"net/http"

	"github.com/jonathan/distro-catalog/internal/types"
)

// handleAIQuery answers a free-form installation question.
func (s *Server) handleAIQuery(w http.ResponseWriter, r *http.Request) {
	var req types.AIQueryRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	resp, err := s.deps.Advisor.Query(r.Context(), req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleAIHealth reports whether the assistant's provider is usable.
func (s *Server) handleAIHealth(w http.ResponseWriter, r *http.Request) {
	health := s.deps.Advisor.Health(r.Context())
	status := http.StatusOK
	if !health.Healthy() {
		status = http.StatusServiceUnavailable
	}
	s.jsonResponse(w, status, health)
}
