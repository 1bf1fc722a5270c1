package ratelimit

import (
	"strings"
)

// unlimited is returned for probes that must never be throttled.
var unlimited = &EndpointConfig{Pattern: "unlimited"}

// MatchEndpoint returns the first configuration whose method and pattern match
// the request, or nil. Health and metrics probes are unlimited.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && (path == "/health" || path == "/metrics") {
		return unlimited
	}
	for i := range configs {
		config := &configs[i]
		if config.Method == method && matchPattern(config.Pattern, path) {
			return config
		}
	}
	return nil
}

func matchPattern(pattern, path string) bool {
	prefix := strings.HasSuffix(pattern, "/")
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")

	if len(got) < len(want) || (!prefix && len(got) != len(want)) {
		return false
	}
	for i, seg := range want {
		if seg != "*" && seg != got[i] {
			return false
		}
		if seg == "*" && got[i] == "" {
			return false
		}
	}
	return true
}
