package server

import (
	"net/http"

	"github.com/jonathan/distro-catalog/internal/types"
)

// handleSubmit queues a proposed distribution for moderation.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req types.DistroSubmission
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	sub, err := s.deps.Submissions.Submit(r.Context(), req, s.extractClientID(r))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Thank you for your submission! It will be reviewed by moderators.",
		"submission_id": sub.ID,
	})
}

// handleListSubmissions returns pending and reviewed submissions, newest first.
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Submissions.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":     true,
		"count":       list.Count,
		"submissions": list.Submissions,
	})
}
