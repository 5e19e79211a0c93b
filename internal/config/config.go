// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/distro-catalog/internal/logging"
)

// Config is the complete application configuration.
// Values are layered: struct defaults, then an optional YAML file, then environment.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	LLM       LLMConfig       `koanf:"llm"`
	Store     StoreConfig     `koanf:"store"`
	Session   SessionConfig   `koanf:"session"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig locates the catalog records and the optional quiz override.
type CatalogConfig struct {
	Dir      string        `koanf:"dir"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
	QuizFile string        `koanf:"quiz_file"`
}

// LLMConfig configures the AI assistant provider.
type LLMConfig struct {
	Provider       string        `koanf:"provider"`
	APIKey         string        `koanf:"api_key"`
	Model          string        `koanf:"model"`
	OllamaBaseURL  string        `koanf:"ollama_base_url"`
	Timeout        time.Duration `koanf:"timeout"`
	BreakerTrips   uint32        `koanf:"breaker_trips"`
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// StoreConfig selects the key-value backend for preferences.
type StoreConfig struct {
	Backend       string `koanf:"backend"`
	KeyPrefix     string `koanf:"key_prefix"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	DatabaseURL   string `koanf:"database_url"`
}

// SessionConfig configures the anonymous session cookie.
type SessionConfig struct {
	Secret     string        `koanf:"secret"`
	CookieName string        `koanf:"cookie_name"`
	TTL        time.Duration `koanf:"ttl"`
	Secure     bool          `koanf:"secure"`
}

// RateLimitConfig configures the token-bucket limiter.
type RateLimitConfig struct {
	Enabled         bool          `koanf:"enabled"`
	DefaultLimit    int           `koanf:"default_limit"`
	DefaultWindow   time.Duration `koanf:"default_window"`
	AIQueryLimit    int           `koanf:"ai_query_limit"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	Whitelist       []string      `koanf:"whitelist"`
	Blacklist       []string      `koanf:"blacklist"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// LLM providers accepted in configuration.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Catalog.Dir == "" {
		return fmt.Errorf("config error: 'catalog.dir' is required")
	}
	if c.Catalog.CacheTTL < 0 {
		return fmt.Errorf("config error: 'catalog.cache_ttl' must be non-negative")
	}

	switch c.LLM.Provider {
	case ProviderOllama:
		if c.LLM.OllamaBaseURL == "" {
			return fmt.Errorf("config error: 'llm.ollama_base_url' is required for the ollama provider")
		}
	case ProviderGemini:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("config error: 'llm.api_key' is required for the gemini provider")
		}
	case ProviderNone:
	default:
		return fmt.Errorf("config error: unknown 'llm.provider' %q (want ollama, gemini or none)", c.LLM.Provider)
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("config error: 'store.redis_addr' is required for the redis backend")
		}
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("config error: 'store.database_url' is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config error: unknown 'store.backend' %q", c.Store.Backend)
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("config error: 'session.cookie_name' is required")
	}
	if c.Session.TTL < time.Hour {
		return fmt.Errorf("config error: 'session.ttl' must be at least 1h, got %s", c.Session.TTL)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.DefaultLimit <= 0 || c.RateLimit.AIQueryLimit <= 0 {
			return fmt.Errorf("config error: rate limits must be positive when rate limiting is enabled")
		}
		if c.RateLimit.DefaultWindow <= 0 {
			return fmt.Errorf("config error: 'rate_limit.default_window' must be positive")
		}
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("config error: unknown 'logging.level' %q", c.Logging.Level)
	}
	if f := strings.ToLower(c.Logging.Format); f != "json" && f != "console" {
		return fmt.Errorf("config error: 'logging.format' must be json or console, got %q", c.Logging.Format)
	}

	return nil
}

// LoggingSettings converts the logging section into a logging.Config.
func (c *Config) LoggingSettings() logging.Config {
	return logging.Config{
		Level:  c.Logging.Level,
		Format: strings.ToLower(c.Logging.Format),
		Caller: c.Logging.Caller,
	}
}
