package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jonathan/distro-catalog/internal/server/middleware"
	"github.com/jonathan/distro-catalog/internal/types"
)

// sessionID returns the caller's session, writing an error when it is missing.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		s.handleError(w, r, err)
		return uuid.Nil, false
	}
	return id, true
}

// requireDistro checks that id names a catalog record.
func (s *Server) requireDistro(r *http.Request, id string) error {
	if _, ok := s.deps.Catalog.LoadOne(r.Context(), id); !ok {
		return &ErrDistroNotFound{ID: id}
	}
	return nil
}

// handleListFavorites returns the caller's favorite distro ids.
func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	favorites, err := s.deps.Prefs.Favorites(r.Context(), session)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"favorites": favorites})
}

// handleToggleFavorite adds or removes a distro from the caller's favorites.
func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	var req types.ToggleFavoriteRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	req.DistroID = strings.TrimSpace(req.DistroID)
	if req.DistroID == "" {
		s.handleError(w, r, &ErrValidation{Field: "distro_id", Message: "is required"})
		return
	}
	if err := s.requireDistro(r, req.DistroID); err != nil {
		s.handleError(w, r, err)
		return
	}

	added, err := s.deps.Prefs.ToggleFavorite(r.Context(), session, req.DistroID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	favorites, err := s.deps.Prefs.Favorites(r.Context(), session)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"distro_id": req.DistroID,
		"favorited": added,
		"favorites": favorites,
	})
}

// handleClearFavorites removes every favorite for the caller.
func (s *Server) handleClearFavorites(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	if err := s.deps.Prefs.ClearFavorites(r.Context(), session); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListReviews returns the reviews and rating summary for one distro.
func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	distroID := strings.TrimSpace(q.Get("distroId"))
	if distroID == "" {
		distroID = strings.TrimSpace(q.Get("distro_id"))
	}
	if distroID == "" {
		s.handleError(w, r, &ErrValidation{Field: "distroId", Message: "is required"})
		return
	}

	list, err := s.deps.Prefs.Reviews(r.Context(), distroID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, list)
}

// handleCreateReview stores a review written by the caller.
func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	var req types.CreateReviewRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if id := strings.TrimSpace(req.DistroID); id != "" {
		if err := s.requireDistro(r, id); err != nil {
			s.handleError(w, r, err)
			return
		}
	}

	review, err := s.deps.Prefs.AddReview(r.Context(), session, req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, review)
}

// handleUpdateReview edits one of the caller's reviews.
func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	reviewID, err := parseReviewID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req types.UpdateReviewRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	review, err := s.deps.Prefs.UpdateReview(r.Context(), session, reviewID, req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, review)
}

// handleDeleteReview removes one of the caller's reviews.
func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	reviewID, err := parseReviewID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if err := s.deps.Prefs.DeleteReview(r.Context(), session, reviewID); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseReviewID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// handleListCompareHistory returns the caller's recent comparisons, newest first.
func (s *Server) handleListCompareHistory(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	history, err := s.deps.Prefs.CompareHistory(r.Context(), session)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"history": history})
}

// handleAddComparison records a side-by-side comparison of two distros.
func (s *Server) handleAddComparison(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	var req types.CompareRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	req.Distro1ID = strings.TrimSpace(req.Distro1ID)
	req.Distro2ID = strings.TrimSpace(req.Distro2ID)
	for _, id := range []string{req.Distro1ID, req.Distro2ID} {
		if id == "" {
			continue
		}
		if err := s.requireDistro(r, id); err != nil {
			s.handleError(w, r, err)
			return
		}
	}

	history, err := s.deps.Prefs.AddComparison(r.Context(), session, req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{"history": history})
}

// handleClearCompareHistory forgets every comparison for the caller.
func (s *Server) handleClearCompareHistory(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	if err := s.deps.Prefs.ClearCompareHistory(r.Context(), session); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
