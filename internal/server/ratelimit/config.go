package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit applied to one route pattern.
type EndpointConfig struct {
	// Pattern is a route path; segments written {name} match any value
	Pattern string
	Method  string
	Limit   int           // Maximum requests per window
	Window  time.Duration // Time window
	Burst   int           // Burst capacity (defaults to Limit if 0)
}

// LookupFunc has the signature of os.LookupEnv
type LookupFunc func(key string) (string, bool)

// LoadConfig reads rate limiting settings through lookup:
// RATE_LIMIT_ENABLED, RATE_LIMIT_DEFAULT_LIMIT, RATE_LIMIT_DEFAULT_WINDOW,
// RATE_LIMIT_CLEANUP_INTERVAL, RATE_LIMIT_WHITELIST and RATE_LIMIT_BLACKLIST.
func LoadConfig(lookup LookupFunc) *Config {
	env := envReader(lookup)
	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.integer("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(env.str("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(env.str("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs limits the routes that cost a generation call or a write.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Starting a session writes a record and an audit entry
		{Pattern: "/api/v1/sessions", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		// Each message can trigger question generation or answer evaluation
		{Pattern: "/api/v1/sessions/{id}/messages", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Pattern: "/api/v1/sessions/{id}/ws", Method: "GET", Limit: 10, Window: time.Minute, Burst: 3},
		{Pattern: "/api/v1/sessions/{id}", Method: "DELETE", Limit: 10, Window: time.Minute, Burst: 3},
	}
}

type envReader LookupFunc

func (e envReader) str(key, def string) string {
	if e == nil {
		return def
	}
	if v, ok := e(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (e envReader) integer(key string, def int) int {
	if n, err := strconv.Atoi(e.str(key, "")); err == nil {
		return n
	}
	return def
}

func (e envReader) boolean(key string, def bool) bool {
	if b, err := strconv.ParseBool(e.str(key, "")); err == nil {
		return b
	}
	return def
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(e.str(key, "")); err == nil {
		return d
	}
	return def
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
