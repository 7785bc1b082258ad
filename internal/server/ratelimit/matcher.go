package ratelimit

import (
	"strings"
)

// unlimited paths are never throttled
var unlimited = map[string]bool{
	"/health":         true,
	"/metrics":        true,
	"/api/v1/privacy": true,
}

// MatchEndpoint returns the configuration whose pattern and method match
// the request, or nil. Health, metrics and the privacy notice match an
// unlimited configuration.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && unlimited[path] {
		return &EndpointConfig{Pattern: path, Method: method}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && matchPattern(config.Pattern, path) {
			return config
		}
	}
	return nil
}

// matchPattern compares path segment by segment; {name} matches any
// non-empty segment.
func matchPattern(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return false
	}
	for i, seg := range ps {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if seg != xs[i] {
			return false
		}
	}
	return true
}
