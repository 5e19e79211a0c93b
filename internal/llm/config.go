// Package llm provides the language model clients used by the AI assistant.
package llm

import (
	"time"

	"github.com/jonathan/distro-catalog/internal/config"
)

// ModelTier represents the capability level requested for a call.
type ModelTier string

const (
	// TierLite is for short free-text output such as recommendation explanations
	TierLite ModelTier = "lite"
	// TierStandard is for structured assistant answers
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOllama is a local Ollama server
	ProviderOllama Provider = "ollama"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for a client
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	BaseURL     string
	Temperature float32
	TopP        float32
	Timeout     time.Duration
}

// DefaultConfig returns the default configuration (local Ollama)
func DefaultConfig() *Config {
	return DefaultOllamaConfig()
}

// DefaultOllamaConfig returns the default Ollama configuration
func DefaultOllamaConfig() *Config {
	return &Config{
		Provider: ProviderOllama,
		Models: map[ModelTier]string{
			TierStandard: "mistral-small-3",
		},
		BaseURL:     "http://localhost:11434",
		Temperature: 0.7,
		TopP:        0.9,
		Timeout:     60 * time.Second,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature: 0.3,
		TopP:        0.9,
		Timeout:     60 * time.Second,
	}
}

// FromSettings builds a client configuration from application settings.
// A configured model overrides every tier.
func FromSettings(s config.LLMConfig) *Config {
	var cfg *Config
	switch Provider(s.Provider) {
	case ProviderGemini:
		cfg = DefaultGeminiConfig()
	default:
		cfg = DefaultOllamaConfig()
		if s.OllamaBaseURL != "" {
			cfg.BaseURL = s.OllamaBaseURL
		}
	}

	if s.Model != "" {
		for tier := range cfg.Models {
			cfg = cfg.WithModel(tier, s.Model)
		}
	}
	if s.Timeout > 0 {
		cfg.Timeout = s.Timeout
	}
	return cfg
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
