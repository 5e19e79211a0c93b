package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/distros", cfg.Catalog.Dir)
	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.OllamaBaseURL)
	assert.Equal(t, "distro_session_id", cfg.Session.CookieName)
	assert.Equal(t, 365*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 10, cfg.RateLimit.AIQueryLimit)
}

func TestLoadFrom_NoFile(t *testing.T) {
	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
}

func TestLoadFrom_YAMLFile(t *testing.T) {
	content := `
server:
  port: 9090
  cors_origins:
    - https://distros.example.com
catalog:
  dir: /srv/catalog
  cache_ttl: 30s
llm:
  provider: none
store:
  backend: redis
  redis_addr: cache:6379
logging:
  level: debug
  format: console
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://distros.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "/srv/catalog", cfg.Catalog.Dir)
	assert.Equal(t, 30*time.Second, cfg.Catalog.CacheTTL)
	assert.Equal(t, ProviderNone, cfg.LLM.Provider)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// untouched sections keep defaults
	assert.Equal(t, "distro_session_id", cfg.Session.CookieName)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0644))

	t.Setenv("DISTRO_SERVER__PORT", "7070")
	t.Setenv("DISTRO_RATE_LIMIT__AI_QUERY_LIMIT", "3")
	t.Setenv("DISTRO_SERVER__CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 3, cfg.RateLimit.AIQueryLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoadFrom_LegacyEnv(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")
	t.Setenv("OLLAMA_MODEL", "llama3")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, "http://gpu-box:11434", cfg.LLM.OllamaBaseURL)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, "s3cret", cfg.Session.Secret)
}

func TestLoadFrom_PrefixedWinsOverLegacy(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("DISTRO_SERVER__PORT", "6000")

	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Server.Port)
}

func TestLoadFrom_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config file")
}

func TestLoadFrom_ValidationFailure(t *testing.T) {
	t.Setenv("DISTRO_STORE__BACKEND", "postgres")

	_, err := LoadFrom("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url")
}

func TestFindConfigFile_EnvVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	t.Setenv(ConfigPathEnvVar, path)

	assert.Equal(t, path, findConfigFile())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid defaults", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "missing catalog dir", mutate: func(c *Config) { c.Catalog.Dir = "" }, wantErr: "catalog.dir"},
		{name: "gemini without key", mutate: func(c *Config) { c.LLM.Provider = ProviderGemini }, wantErr: "llm.api_key"},
		{name: "gemini with key", mutate: func(c *Config) { c.LLM.Provider = ProviderGemini; c.LLM.APIKey = "k" }},
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "openai" }, wantErr: "llm.provider"},
		{name: "ollama without url", mutate: func(c *Config) { c.LLM.OllamaBaseURL = "" }, wantErr: "ollama_base_url"},
		{name: "unknown backend", mutate: func(c *Config) { c.Store.Backend = "etcd" }, wantErr: "store.backend"},
		{name: "short session ttl", mutate: func(c *Config) { c.Session.TTL = time.Minute }, wantErr: "session.ttl"},
		{name: "zero ai limit", mutate: func(c *Config) { c.RateLimit.AIQueryLimit = 0 }, wantErr: "rate limits"},
		{name: "zero ai limit when disabled", mutate: func(c *Config) { c.RateLimit.Enabled = false; c.RateLimit.AIQueryLimit = 0 }},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8081}
	assert.Equal(t, "127.0.0.1:8081", s.Addr())
}

func TestLoggingSettings(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "Console"
	ls := cfg.LoggingSettings()
	assert.Equal(t, "console", ls.Format)
	assert.Equal(t, "info", ls.Level)
}
