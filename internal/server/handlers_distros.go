package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/distro-catalog/internal/catalog"
	"github.com/jonathan/distro-catalog/internal/types"
)

// handleListDistros returns the catalog, optionally narrowed by query filters.
func (s *Server) handleListDistros(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	records, err := s.deps.Catalog.Filter(r.Context(), criteria)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, nonNil(records))
}

// parseCriteria reads family, target, tags and min_ram from the query string.
func parseCriteria(r *http.Request) (catalog.Criteria, error) {
	q := r.URL.Query()
	c := catalog.Criteria{
		Family:     types.Family(strings.TrimSpace(q.Get("family"))),
		TargetUser: types.TargetUser(strings.TrimSpace(q.Get("target"))),
	}

	for _, tag := range strings.Split(q.Get("tags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			c.Tags = append(c.Tags, tag)
		}
	}

	if raw := strings.TrimSpace(q.Get("min_ram")); raw != "" {
		ram, err := strconv.Atoi(raw)
		if err != nil || ram < 0 {
			return c, &ErrValidation{Field: "min_ram", Message: "must be a non-negative integer (MB)"}
		}
		c.MinRAMMB = ram
	}
	return c, nil
}

// handleSearchDistros matches q against names, ids, families, tags and desktop environments.
func (s *Server) handleSearchDistros(w http.ResponseWriter, r *http.Request) {
	records, err := s.deps.Catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, nonNil(records))
}

// handleRecommendedDistros lists records aimed at a skill level.
func (s *Server) handleRecommendedDistros(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	skill := types.TargetUser(strings.TrimSpace(q.Get("skill")))
	if skill == "" {
		skill = types.TargetBeginner
	}

	limit := catalog.DefaultRecommendedLimit
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.handleError(w, r, &ErrValidation{Field: "limit", Message: "must be an integer"})
			return
		}
		limit = n
	}

	records, err := s.deps.Catalog.RecommendedFor(r.Context(), skill, limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, nonNil(records))
}

// handleGetDistro returns a single record by id.
func (s *Server) handleGetDistro(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, ok := s.deps.Catalog.LoadOne(r.Context(), id)
	if !ok {
		s.handleError(w, r, &ErrDistroNotFound{ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, d)
}

func nonNil(records []*types.Distro) []*types.Distro {
	if records == nil {
		return []*types.Distro{}
	}
	return records
}
