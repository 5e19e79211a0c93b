// Package advisor answers free-form installation questions and explains quiz
// results using an LLM, grounded on catalog records.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/jonathan/distro-catalog/internal/llm"
	"github.com/jonathan/distro-catalog/internal/logging"
	"github.com/jonathan/distro-catalog/internal/prompts"
	"github.com/jonathan/distro-catalog/internal/types"
)

// DistroLookup resolves catalog records by id.
type DistroLookup interface {
	LoadOne(ctx context.Context, id string) (*types.Distro, bool)
}

// Advisor is the AI assistant. A nil client disables it.
type Advisor struct {
	client  llm.Client
	distros DistroLookup
}

// New creates an Advisor.
func New(client llm.Client, distros DistroLookup) *Advisor {
	return &Advisor{client: client, distros: distros}
}

// Enabled reports whether a provider is configured.
func (a *Advisor) Enabled() bool {
	return a.client != nil
}

// Health reports provider availability.
func (a *Advisor) Health(ctx context.Context) types.AIHealth {
	if a.client == nil {
		return types.AIHealth{Provider: "none", Error: "AI assistant is disabled"}
	}
	return a.client.Health(ctx)
}

type queryContext struct {
	Distro         *types.Distro     `json:"distro"`
	Platform       types.Platform    `json:"platform"`
	UserProfile    types.UserProfile `json:"user_profile"`
	AllowHostedISO bool              `json:"allow_hosted_iso"`
}

// Query answers a question about installing or using a distribution.
func (a *Advisor) Query(ctx context.Context, req types.AIQueryRequest) (*types.AIResponse, error) {
	req.Query = strings.TrimSpace(req.Query)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if a.client == nil {
		return nil, &UnavailableError{Health: a.Health(ctx)}
	}

	if health := a.client.Health(ctx); !health.Healthy() {
		return nil, &UnavailableError{Health: health}
	}

	var distro *types.Distro
	if req.DistroID != "" && a.distros != nil {
		if d, ok := a.distros.LoadOne(ctx, req.DistroID); ok {
			distro = d
		}
	}

	prompt, err := buildQueryPrompt(req, distro)
	if err != nil {
		return nil, err
	}

	text, err := a.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		logging.Error().Err(err).Str("distro_id", req.DistroID).Msg("AI query failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	return ParseResponse(text, distro), nil
}

func buildQueryPrompt(req types.AIQueryRequest, distro *types.Distro) (string, error) {
	system, err := prompts.Get(prompts.AdvisorFile, prompts.KeySystem)
	if err != nil {
		return "", err
	}

	contextJSON, err := json.MarshalIndent(queryContext{
		Distro:         distro,
		Platform:       req.Platform,
		UserProfile:    req.UserProfile,
		AllowHostedISO: req.AllowHostedISO,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode query context: %w", err)
	}

	return prompts.Render(prompts.AdvisorFile, prompts.KeyQuery, map[string]string{
		"System":  system,
		"Context": string(contextJSON),
		"Query":   req.Query,
	})
}

// ParseResponse turns a raw model reply into a structured answer. The first
// JSON object in the reply is used when it forms a valid answer; otherwise the
// whole reply becomes the Markdown answer, citing the distro's docs.
func ParseResponse(text string, distro *types.Distro) *types.AIResponse {
	if obj := llm.ExtractJSONObject(text); obj != "" {
		var resp types.AIResponse
		if err := json.Unmarshal([]byte(obj), &resp); err == nil {
			resp.Normalize()
			verr := resp.Validate()
			if verr == nil {
				return &resp
			}
			logging.Debug().Err(verr).Msg("AI reply failed validation, using text fallback")
		}
	}

	resp := &types.AIResponse{AnswerMD: strings.TrimSpace(text)}
	if distro != nil && distro.OfficialDocsURL != "" {
		resp.Sources = []types.AISource{{Label: distro.Name, URL: distro.OfficialDocsURL}}
	}
	resp.Normalize()
	return resp
}

// Explain writes a short free-text explanation of a ranked recommendation list.
func (a *Advisor) Explain(ctx context.Context, answers types.AnswerSet, ranked []types.ScoredCandidate) (string, error) {
	if a.client == nil {
		return "", &UnavailableError{Health: a.Health(ctx)}
	}
	if len(ranked) == 0 {
		return "", nil
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("failed to encode answers: %w", err)
	}
	prompt, err := prompts.Render(prompts.AdvisorFile, prompts.KeyExplain, map[string]string{
		"Answers":    string(answersJSON),
		"Candidates": summarizeCandidates(ranked),
	})
	if err != nil {
		return "", err
	}

	text, err := a.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return strings.TrimSpace(text), nil
}

func summarizeCandidates(ranked []types.ScoredCandidate) string {
	var sb strings.Builder
	for i, c := range ranked {
		fmt.Fprintf(&sb, "%d. %s (score %d, family %s)", i+1, c.Distro.Name, c.Score, c.Distro.Family)
		if len(c.Breakdown.MatchedTags) > 0 {
			fmt.Fprintf(&sb, "; matched tags: %s", strings.Join(c.Breakdown.MatchedTags, ", "))
		}
		if c.Breakdown.Notes != "" {
			fmt.Fprintf(&sb, "; %s", c.Breakdown.Notes)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
