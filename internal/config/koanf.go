package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/distro-catalog/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// EnvPrefix is the prefix of structured environment overrides.
// DISTRO_SERVER__PORT=9000 sets server.port.
const EnvPrefix = "DISTRO_"

// legacyEnv maps conventional variable names onto config paths.
var legacyEnv = map[string]string{
	"PORT":            "server.port",
	"DISTROS_DIR":     "catalog.dir",
	"OLLAMA_BASE_URL": "llm.ollama_base_url",
	"OLLAMA_MODEL":    "llm.model",
	"GEMINI_API_KEY":  "llm.api_key",
	"DATABASE_URL":    "store.database_url",
	"REDIS_ADDR":      "store.redis_addr",
	"SESSION_SECRET":  "session.secret",
	"JWT_SECRET":      "session.secret",
	"LOG_LEVEL":       "logging.level",
	"LOG_FORMAT":      "logging.format",
}

// sliceConfigPaths are parsed from comma-separated strings when set from the environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"rate_limit.whitelist",
	"rate_limit.blacklist",
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second,
			RequestTimeout:  60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Catalog: CatalogConfig{
			Dir:      "data/distros",
			CacheTTL: 5 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:       ProviderOllama,
			Model:          "mistral-small-3",
			OllamaBaseURL:  "http://localhost:11434",
			Timeout:        60 * time.Second,
			BreakerTrips:   3,
			BreakerTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Backend:   BackendMemory,
			KeyPrefix: "distro:",
			RedisAddr: "localhost:6379",
		},
		Session: SessionConfig{
			CookieName: "distro_session_id",
			TTL:        365 * 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:         true,
			DefaultLimit:    600,
			DefaultWindow:   time.Minute,
			AIQueryLimit:    10,
			CleanupInterval: 5 * time.Minute,
			Whitelist:       []string{},
			Blacklist:       []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the config file and the environment,
// then validates it.
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom is like Load with an explicit config file path. An empty path skips the file layer.
func LoadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", legacyEnvTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envTransform maps DISTRO_LLM__OLLAMA_BASE_URL to llm.ollama_base_url.
func envTransform(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

// legacyEnvTransform keeps only the variables listed in legacyEnv.
func legacyEnvTransform(key string) string {
	return legacyEnv[key]
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
