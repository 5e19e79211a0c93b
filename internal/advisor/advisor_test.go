package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/distro-catalog/internal/llm"
	"github.com/jonathan/distro-catalog/internal/types"
)

type fakeClient struct {
	reply      string
	err        error
	health     types.AIHealth
	lastPrompt string
	lastTier   llm.ModelTier
	calls      int
}

func newFakeClient(reply string) *fakeClient {
	return &fakeClient{
		reply:  reply,
		health: types.AIHealth{Provider: "fake", Model: "fake-model", Running: true, ModelAvailable: true},
	}
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	f.lastTier = tier
	return f.reply, f.err
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateContent(ctx, prompt, tier)
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Health(context.Context) types.AIHealth { return f.health }
func (f *fakeClient) Close() error { return nil }

type lookup map[string]*types.Distro

func (l lookup) LoadOne(_ context.Context, id string) (*types.Distro, bool) {
	d, ok := l[id]
	return d, ok
}

func mint() *types.Distro {
	return &types.Distro{
		ID:              "mint",
		Name:            "Linux Mint",
		Family:          types.FamilyDebian,
		OfficialDocsURL: "https://linuxmint.com/documentation.php",
	}
}

func validRequest() types.AIQueryRequest {
	return types.AIQueryRequest{
		Query:       "How do I make a bootable USB?",
		DistroID:    "mint",
		Platform:    types.PlatformWindows,
		UserProfile: types.UserProfile{SkillLevel: types.TargetBeginner},
	}
}

func TestQuery_StructuredReply(t *testing.T) {
	client := newFakeClient(`Here you go:
{"answer_md": "Use Rufus [source: https://linuxmint.com/documentation.php]",
 "steps": [{"id": "flash", "title": "Flash the ISO", "detail_md": "Open Rufus", "estimated_minutes": 10, "risk": "low"}],
 "commands": [],
 "sources": [{"label": "Linux Mint docs", "url": "https://linuxmint.com/documentation.php"}],
 "followup": null,
 "verification": {"checksum": null, "iso_url": null, "last_verified": null}}
Anything else?`)
	a := New(client, lookup{"mint": mint()})

	resp, err := a.Query(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Contains(t, resp.AnswerMD, "Use Rufus")
	require.Len(t, resp.Steps, 1)
	assert.Equal(t, "flash", resp.Steps[0].ID)
	assert.Empty(t, resp.Commands)
	assert.NotNil(t, resp.Commands)
	assert.Nil(t, resp.Followup)

	assert.Equal(t, llm.TierStandard, client.lastTier)
	assert.Contains(t, client.lastPrompt, "CONTEXT:")
	assert.Contains(t, client.lastPrompt, `"name": "Linux Mint"`)
	assert.Contains(t, client.lastPrompt, `"platform": "windows"`)
	assert.Contains(t, client.lastPrompt, "How do I make a bootable USB?")
	assert.NotContains(t, client.lastPrompt, "{{.")
}

func TestQuery_PlainTextFallsBackWithDocsSource(t *testing.T) {
	client := newFakeClient("Download the ISO and flash it with Etcher.")
	a := New(client, lookup{"mint": mint()})

	resp, err := a.Query(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "Download the ISO and flash it with Etcher.", resp.AnswerMD)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "Linux Mint", resp.Sources[0].Label)
	assert.Equal(t, "https://linuxmint.com/documentation.php", resp.Sources[0].URL)
	assert.NotNil(t, resp.Steps)
}

func TestQuery_UnknownDistroHasNoSources(t *testing.T) {
	client := newFakeClient("Generic advice.")
	a := New(client, lookup{})

	req := validRequest()
	req.DistroID = "nonexistent"
	resp, err := a.Query(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Sources)
	assert.Contains(t, client.lastPrompt, `"distro": null`)
}

func TestQuery_Validation(t *testing.T) {
	a := New(newFakeClient("x"), lookup{})

	tests := []struct {
		name   string
		mutate func(*types.AIQueryRequest)
	}{
		{"empty query", func(r *types.AIQueryRequest) { r.Query = "   " }},
		{"query too long", func(r *types.AIQueryRequest) {
			b := make([]byte, 501)
			for i := range b {
				b[i] = 'a'
			}
			r.Query = string(b)
		}},
		{"bad platform", func(r *types.AIQueryRequest) { r.Platform = "bsd" }},
		{"bad skill", func(r *types.AIQueryRequest) { r.UserProfile.SkillLevel = "guru" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := a.Query(context.Background(), req)
			assert.True(t, errors.Is(err, ErrInvalidRequest), "got %v", err)
		})
	}
}

func TestQuery_UnhealthyProvider(t *testing.T) {
	client := newFakeClient("x")
	client.health = types.AIHealth{Provider: "ollama", Running: true, Error: "Model mistral-small-3 not found"}
	a := New(client, lookup{})

	_, err := a.Query(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProviderUnavailable))

	var ue *UnavailableError
	require.True(t, errors.As(err, &ue))
	assert.Contains(t, ue.Error(), "not found")
	assert.Equal(t, 0, client.calls)
}

func TestQuery_Disabled(t *testing.T) {
	a := New(nil, lookup{})
	assert.False(t, a.Enabled())

	_, err := a.Query(context.Background(), validRequest())
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
	assert.Equal(t, "none", a.Health(context.Background()).Provider)
}

func TestQuery_ProviderErrors(t *testing.T) {
	client := newFakeClient("")
	client.err = errors.New("connection reset")
	a := New(client, lookup{})

	_, err := a.Query(context.Background(), validRequest())
	assert.True(t, errors.Is(err, ErrGenerationFailed))

	client.err = llm.ErrUnavailable
	_, err = a.Query(context.Background(), validRequest())
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
}

func TestParseResponse(t *testing.T) {
	t.Run("invalid object falls back to text", func(t *testing.T) {
		text := `{"answer_md": ""} plus prose`
		resp := ParseResponse(text, nil)
		assert.Equal(t, text, resp.AnswerMD)
	})

	t.Run("missing risk defaults to low", func(t *testing.T) {
		resp := ParseResponse(`{"answer_md": "ok", "steps": [{"id": "a", "title": "A"}]}`, nil)
		require.Len(t, resp.Steps, 1)
		assert.Equal(t, "low", resp.Steps[0].Risk)
	})

	t.Run("malformed json", func(t *testing.T) {
		resp := ParseResponse(`{"answer_md": "ok", "steps": [}`, mint())
		assert.Equal(t, `{"answer_md": "ok", "steps": [}`, resp.AnswerMD)
		assert.Len(t, resp.Sources, 1)
	})
}

func TestExplain(t *testing.T) {
	client := newFakeClient("  Linux Mint fits because it is beginner friendly.  ")
	a := New(client, lookup{})

	ranked := []types.ScoredCandidate{
		{Distro: mint(), Score: 47, Breakdown: types.ScoreBreakdown{MatchedTags: []string{"beginner-friendly", "lightweight"}, Notes: "Matches daily use"}},
	}
	answers := types.AnswerSet{types.QuestionExperience: "beginner"}

	out, err := a.Explain(context.Background(), answers, ranked)
	require.NoError(t, err)
	assert.Equal(t, "Linux Mint fits because it is beginner friendly.", out)
	assert.Equal(t, llm.TierLite, client.lastTier)
	assert.Contains(t, client.lastPrompt, "1. Linux Mint (score 47, family Debian)")
	assert.Contains(t, client.lastPrompt, "beginner-friendly, lightweight")
	assert.Contains(t, client.lastPrompt, `"experience":"beginner"`)
}

func TestExplain_EmptyAndDisabled(t *testing.T) {
	client := newFakeClient("unused")
	out, err := New(client, lookup{}).Explain(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 0, client.calls)

	_, err = New(nil, lookup{}).Explain(context.Background(), nil, nil)
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
}
