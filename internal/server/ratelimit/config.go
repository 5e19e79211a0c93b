package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/distro-catalog/internal/config"
)

// AIQueryPath is the assistant endpoint, which gets its own strict limit.
const AIQueryPath = "/api/ai/query"

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (a trailing "/" matches by prefix)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// FromSettings builds the limiter configuration from application settings.
func FromSettings(s config.RateLimitConfig) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		Whitelist:       parseIPList(s.Whitelist),
		Blacklist:       parseIPList(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(s.AIQueryLimit),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific limits. aiQueryLimit
// is the number of assistant queries allowed per client per minute.
func DefaultEndpointConfigs(aiQueryLimit int) []EndpointConfig {
	return []EndpointConfig{
		// LLM-backed calls
		{Path: AIQueryPath, Method: http.MethodPost, Limit: aiQueryLimit, Window: time.Minute},
		{Path: "/api/quiz/score", Method: http.MethodPost, Limit: 60, Window: time.Minute, Burst: 10},

		// Preference writes
		{Path: "/api/reviews", Method: http.MethodPost, Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/api/reviews/", Method: http.MethodPut, Limit: 30, Window: time.Minute, Burst: 10},
		{Path: "/api/reviews/", Method: http.MethodDelete, Limit: 30, Window: time.Minute, Burst: 10},
		{Path: "/api/favorites", Method: http.MethodPost, Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/compare-history", Method: http.MethodPost, Limit: 120, Window: time.Minute, Burst: 20},

		// Catalog submissions
		{Path: "/api/submit", Method: http.MethodPost, Limit: 10, Window: time.Minute},

		// Reads use the default limit; /health and /metrics are unlimited
	}
}

// parseIPList turns a list of addresses into a lookup set.
func parseIPList(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
