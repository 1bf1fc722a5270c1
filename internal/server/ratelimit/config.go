package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig is the limit applied to one route pattern.
type EndpointConfig struct {
	Pattern string        // Route pattern; "*" matches one path segment, a trailing "/" matches any suffix
	Method  string        // HTTP method (GET, POST, etc.)
	Limit   int           // Maximum requests per window
	Window  time.Duration // Time window
	Burst   int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns an enabled configuration allowing defaultPerMinute
// requests per client and route, and renderPerHour certificate renders.
func DefaultConfig(defaultPerMinute, renderPerHour int) *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    defaultPerMinute,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(renderPerHour),
	}
}

// DefaultEndpointConfigs returns the limits of the expensive routes.
func DefaultEndpointConfigs(renderPerHour int) []EndpointConfig {
	burst := max(1, renderPerHour/10)
	return []EndpointConfig{
		// PDF rendering loads templates and stamps every page
		{Pattern: "/api/dossiers/*/documents/*", Method: "POST", Limit: renderPerHour, Window: time.Hour, Burst: burst},
		{Pattern: "/api/dossiers/*/bundle", Method: "POST", Limit: max(1, renderPerHour/10), Window: time.Hour, Burst: 1},

		// Writes
		{Pattern: "/api/dossiers", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Pattern: "/api/dossiers/*/order", Method: "PUT", Limit: 120, Window: time.Minute, Burst: 20},
		{Pattern: "/api/dossiers/*/order", Method: "PATCH", Limit: 120, Window: time.Minute, Burst: 20},
	}
}

// ParseIPList parses a comma-separated list of IP addresses into a set.
func ParseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
