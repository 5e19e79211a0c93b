package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/distro-catalog/internal/guides"
)

// handleListGuides returns the installation guides, optionally for one skill level.
func (s *Server) handleListGuides(w http.ResponseWriter, r *http.Request) {
	var list []guides.Guide
	if skill := strings.TrimSpace(r.URL.Query().Get("skill")); skill != "" {
		list = guides.ForUser(skill)
	} else {
		list = guides.All()
	}
	if list == nil {
		list = []guides.Guide{}
	}
	s.jsonResponse(w, http.StatusOK, list)
}

// handleGetGuide returns a single guide with its steps.
func (s *Server) handleGetGuide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, ok := guides.Get(id)
	if !ok {
		s.handleError(w, r, &ErrGuideNotFound{ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, g)
}
