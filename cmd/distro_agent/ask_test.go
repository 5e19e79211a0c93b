package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/distro-catalog/internal/advisor"
	"github.com/jonathan/distro-catalog/internal/config"
	"github.com/jonathan/distro-catalog/internal/types"
)

// newOllama fakes an Ollama server that has the default model and always replies with reply.
func newOllama(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{{"name": "mistral-small-3:latest"}},
		})
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"response": reply, "done": true})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAsk_PlainTextAnswerCitesDocs(t *testing.T) {
	cfg := useCatalog(t, fixtureDir(t))
	srv := newOllama(t, "Write the ISO to a USB stick with Balena Etcher, then boot from it.")
	cfg.LLM.Provider = config.ProviderOllama
	cfg.LLM.OllamaBaseURL = srv.URL

	askDistro = "mint"
	askPlatform = "Windows"

	out, err := execute(t, runAsk, "how", "do", "I", "install", "it?")
	require.NoError(t, err)
	assert.Contains(t, out, "ASSISTANT")
	assert.Contains(t, out, "Balena Etcher")
	assert.Contains(t, out, "https://example.com/docs/mint")

	jsonOutput = true
	out, err = execute(t, runAsk, "how do I install it?")
	require.NoError(t, err)
	resp := decodeJSON[types.AIResponse](t, out)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "https://example.com/docs/mint", resp.Sources[0].URL)
}

func TestAsk_Disabled(t *testing.T) {
	useCatalog(t, fixtureDir(t))

	_, err := execute(t, runAsk, "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, advisor.ErrProviderUnavailable)
}

func TestAsk_InvalidRequest(t *testing.T) {
	cfg := useCatalog(t, fixtureDir(t))
	srv := newOllama(t, "unused")
	cfg.LLM.Provider = config.ProviderOllama
	cfg.LLM.OllamaBaseURL = srv.URL

	askPlatform = "amiga"
	_, err := execute(t, runAsk, "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, advisor.ErrInvalidRequest)
}
