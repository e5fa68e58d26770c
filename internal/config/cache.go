package config

import (
	"strings"
	"time"
)

// CacheConfig tunes the Redis response cache in front of GET /api/tours.
// A disabled cache or a nil Redis client turns the middleware into a
// pass-through.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string // route, route_query or method_route_query
	Prefix       string
	MaxBodyBytes int
}

func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      methodSet(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "omys:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func methodSet(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range splitList(strings.ToUpper(s)) {
		m[p] = true
	}
	return m
}
