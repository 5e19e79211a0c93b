package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/distro-catalog/internal/config"
)

func newOllamaServer(t *testing.T, models []string, reply string) (*httptest.Server, *generateRequest) {
	t.Helper()
	captured := &generateRequest{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		type model struct {
			Name string `json:"name"`
		}
		out := struct {
			Models []model `json:"models"`
		}{}
		for _, m := range models {
			out.Models = append(out.Models, model{Name: m})
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, captured); err != nil {
			http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"response": reply, "done": true})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, captured
}

func ollamaConfig(baseURL string) *Config {
	cfg := DefaultOllamaConfig()
	cfg.BaseURL = baseURL
	return cfg
}

func TestOllama_GenerateContent(t *testing.T) {
	srv, captured := newOllamaServer(t, nil, "Use Ventoy to write the ISO.")
	client := NewOllamaClient(ollamaConfig(srv.URL))

	out, err := client.GenerateContent(context.Background(), "how do I flash a usb?", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, "Use Ventoy to write the ISO.", out)

	assert.Equal(t, "mistral-small-3", captured.Model)
	assert.Equal(t, "how do I flash a usb?", captured.Prompt)
	assert.False(t, captured.Stream)
	assert.Empty(t, captured.Format)
	assert.InDelta(t, 0.7, captured.Options.Temperature, 0.001)
	assert.InDelta(t, 0.9, captured.Options.TopP, 0.001)
}

func TestOllama_GenerateJSON(t *testing.T) {
	srv, captured := newOllamaServer(t, nil, "```json\n{\"answer_md\": \"ok\"}\n```")
	client := NewOllamaClient(ollamaConfig(srv.URL + "/"))

	out, err := client.GenerateJSON(context.Background(), "q", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, `{"answer_md": "ok"}`, out)
	assert.Equal(t, "json", captured.Format)
}

func TestOllama_EmptyResponse(t *testing.T) {
	srv, _ := newOllamaServer(t, nil, "  ")
	client := NewOllamaClient(ollamaConfig(srv.URL))

	_, err := client.GenerateContent(context.Background(), "q", TierStandard)
	assert.ErrorContains(t, err, "empty response")
}

func TestOllama_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'mistral-small-3' not found"}`))
	}))
	defer srv.Close()

	client := NewOllamaClient(ollamaConfig(srv.URL))
	_, err := client.GenerateContent(context.Background(), "q", TierStandard)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "/api/generate", apiErr.Endpoint)
	assert.Contains(t, apiErr.Message, "not found")
}

func TestOllama_Health(t *testing.T) {
	t.Run("model available", func(t *testing.T) {
		srv, _ := newOllamaServer(t, []string{"llama3.2:latest", "mistral-small-3:latest"}, "")
		h := NewOllamaClient(ollamaConfig(srv.URL)).Health(context.Background())

		assert.True(t, h.Running)
		assert.True(t, h.ModelAvailable)
		assert.True(t, h.Healthy())
		assert.Empty(t, h.Error)
		assert.Equal(t, "ollama", h.Provider)
		assert.Len(t, h.AvailableModels, 2)
	})

	t.Run("model missing", func(t *testing.T) {
		srv, _ := newOllamaServer(t, []string{"llama3.2:latest"}, "")
		h := NewOllamaClient(ollamaConfig(srv.URL)).Health(context.Background())

		assert.True(t, h.Running)
		assert.False(t, h.ModelAvailable)
		assert.Contains(t, h.Error, "ollama pull mistral-small-3")
	})

	t.Run("not running", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		h := NewOllamaClient(ollamaConfig(url)).Health(context.Background())
		assert.False(t, h.Running)
		assert.False(t, h.Healthy())
		assert.Contains(t, h.Error, "ollama serve")
	})
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(context.Background(), nil, "")
	require.NoError(t, err)
	assert.IsType(t, &OllamaClient{}, c)

	_, err = NewClient(context.Background(), DefaultGeminiConfig(), "")
	assert.True(t, errors.Is(err, ErrAPIKeyRequired))

	_, err = NewClient(context.Background(), &Config{Provider: "openai"}, "")
	assert.ErrorContains(t, err, "unsupported")
}

func TestOpen(t *testing.T) {
	c, err := Open(context.Background(), config.LLMConfig{Provider: config.ProviderNone})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = Open(context.Background(), config.LLMConfig{Provider: config.ProviderOllama, OllamaBaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	assert.IsType(t, &BreakerClient{}, c)
	assert.Equal(t, "mistral-small-3", c.GetModel(TierStandard))

	_, err = Open(context.Background(), config.LLMConfig{Provider: config.ProviderGemini})
	assert.True(t, errors.Is(err, ErrAPIKeyRequired))
}
