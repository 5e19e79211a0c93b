package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/distro-catalog/internal/config"
	"github.com/jonathan/distro-catalog/internal/recommend"
	"github.com/jonathan/distro-catalog/internal/types"
)

func TestCollectAnswers(t *testing.T) {
	file := filepath.Join(t.TempDir(), "answers.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"experience":"advanced","system":"old"}`), 0644))

	got, err := collectAnswers(file, []string{"experience=beginner", " interface = windows-like "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"experience": "beginner",
		"system":     "old",
		"interface":  "windows-like",
	}, got)
}

func TestCollectAnswers_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"experience": 3}`), 0644))

	tests := []struct {
		name   string
		file   string
		pairs  []string
		errMsg string
	}{
		{name: "missing file", file: filepath.Join(dir, "nope.json"), errMsg: "failed to read answers file"},
		{name: "non-string value", file: bad, errMsg: "failed to parse answers file"},
		{name: "no equals", pairs: []string{"experience"}, errMsg: "expected question=option"},
		{name: "empty option", pairs: []string{"experience="}, errMsg: "expected question=option"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collectAnswers(tt.file, tt.pairs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestCheckAnswers(t *testing.T) {
	questions := recommend.DefaultQuestions()

	assert.NoError(t, checkAnswers(questions, types.AnswerSet{"experience": "beginner", "system": "old"}))

	err := checkAnswers(questions, types.AnswerSet{"colour": "blue"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown question "colour"`)

	err = checkAnswers(questions, types.AnswerSet{"experience": "guru"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown option "guru"`)
	assert.Contains(t, err.Error(), "beginner, intermediate, advanced")
}

func TestRecommend_RanksMintFirst(t *testing.T) {
	useCatalog(t, fixtureDir(t))
	recommendAnswers = []string{"experience=beginner", "interface=windows-like"}

	out, err := execute(t, runRecommend)
	require.NoError(t, err)
	assert.Contains(t, out, "#1  Linux Mint")
	assert.Contains(t, out, "windows-like-desktops")

	jsonOutput = true
	out, err = execute(t, runRecommend)
	require.NoError(t, err)

	recs := decodeJSON[types.Recommendations](t, out)
	require.NotEmpty(t, recs.Ranked)
	assert.Equal(t, "mint", recs.Ranked[0].Distro.ID)
	assert.Contains(t, recs.Ranked[0].Breakdown.FiredRules, "windows-like-desktops")
	for i := 1; i < len(recs.Ranked); i++ {
		assert.GreaterOrEqual(t, recs.Ranked[i-1].Score, recs.Ranked[i].Score)
	}
}

func TestRecommend_Errors(t *testing.T) {
	useCatalog(t, fixtureDir(t))

	_, err := execute(t, runRecommend)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no answers given")

	recommendAnswers = []string{"Experience=beginner"}
	_, err = execute(t, runRecommend)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid answers")

	recommendAnswers = []string{"experience=wizard"}
	_, err = execute(t, runRecommend)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown option "wizard"`)
}

func TestRecommend_QuizOverride(t *testing.T) {
	cfg := useCatalog(t, fixtureDir(t))
	quiz := filepath.Join(t.TempDir(), "quiz.yaml")
	require.NoError(t, os.WriteFile(quiz, []byte(`questions:
  - id: vibe
    prompt: Pick a vibe
    options:
      - value: rolling
        label: Always the newest
        weight_tags: [Rolling-Release]
`), 0644))
	cfg.Catalog.QuizFile = quiz
	recommendAnswers = []string{"vibe=rolling"}
	jsonOutput = true

	out, err := execute(t, runRecommend)
	require.NoError(t, err)
	recs := decodeJSON[types.Recommendations](t, out)
	require.Len(t, recs.Ranked, 1)
	assert.Equal(t, "arch", recs.Ranked[0].Distro.ID)
}

func TestRecommend_ExplainWithoutAssistant(t *testing.T) {
	useCatalog(t, fixtureDir(t))
	recommendAnswers = []string{"experience=beginner"}
	recommendExplain = true
	jsonOutput = true

	out, err := execute(t, runRecommend)
	require.NoError(t, err)
	assert.Empty(t, decodeJSON[types.Recommendations](t, out).Explanation)
}

func TestRecommend_ExplainWithAssistant(t *testing.T) {
	cfg := useCatalog(t, fixtureDir(t))
	srv := newOllama(t, "Mint feels like Windows, so the switch is gentle.")
	cfg.LLM.Provider = config.ProviderOllama
	cfg.LLM.OllamaBaseURL = srv.URL

	recommendAnswers = []string{"experience=beginner", "interface=windows-like"}
	recommendExplain = true

	out, err := execute(t, runRecommend)
	require.NoError(t, err)
	assert.Contains(t, out, "Mint feels like Windows")
}
