package config

import (
    "strings"
    "time"
)

// CacheConfig configures the Redis response cache.  Only reference data
// (the route list) goes through it.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    KeyStrategy  string // "route_query" (default), "route" or "method_route_query"
    Prefix       string
    MaxBodyBytes int // larger responses are served but not stored
}

func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      map[string]bool{},
        TTL:          envDur("CACHE_TTL", time.Minute),
        KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:       envStr("CACHE_PREFIX", "bus:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    for _, m := range strings.Split(envStr("CACHE_METHODS", "GET"), ",") {
        if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
            cfg.Methods[m] = true
        }
    }
    if cfg.TTL <= 0 {
        cfg.Enabled = false
    }
    return cfg
}
