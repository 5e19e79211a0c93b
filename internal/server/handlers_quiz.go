package server

import (
	"bytes"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/jonathan/distro-catalog/internal/logging"
	"github.com/jonathan/distro-catalog/internal/metrics"
	"github.com/jonathan/distro-catalog/internal/recommend"
	"github.com/jonathan/distro-catalog/internal/types"
)

// ScoreRequest is the body of POST /api/quiz/score.
type ScoreRequest struct {
	Answers json.RawMessage `json:"answers"`
	Explain bool            `json:"explain"`
}

// handleQuiz returns the questionnaire.
func (s *Server) handleQuiz(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.deps.Questions)
}

// handleScoreQuiz ranks the catalog against a set of quiz answers. When
// explain is set and the assistant is enabled, a narrative is attached; its
// failure never fails the request.
func (s *Server) handleScoreQuiz(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	raw := bytes.TrimSpace(req.Answers)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	if err := s.answersSchema.ValidateBytes(raw); err != nil {
		s.handleError(w, r, &ErrValidation{Field: "answers", Message: err.Error()})
		return
	}

	var answers types.AnswerSet
	if err := json.Unmarshal(raw, &answers); err != nil {
		s.handleError(w, r, &ErrValidation{Field: "answers", Message: "must map question ids to option values"})
		return
	}

	records, err := s.deps.Catalog.LoadAll(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	ranked := recommend.ScoreAndRankWith(s.deps.Rules, s.deps.Questions, answers, records)
	metrics.RecordRecommendation(len(ranked))

	result := types.Recommendations{Ranked: ranked}

	if req.Explain && s.deps.Advisor.Enabled() {
		explanation, err := s.deps.Advisor.Explain(r.Context(), answers, ranked)
		if err != nil {
			logging.Warn().Err(err).Msg("recommendation explanation unavailable")
		} else {
			result.Explanation = explanation
		}
	}

	s.jsonResponse(w, http.StatusOK, result)
}
