package config

import "time"

// CacheConfig controls the Redis cache in front of the public room
// catalog (GET /v1/rooms and GET /v1/rooms/:id).  Entries are keyed on
// the concrete request path, so each room has its own entry.  A nightly
// rate change shows up after at most TTL; occupancy is never cached.
type CacheConfig struct {
    Enabled bool
    TTL     time.Duration
    Prefix  string
    // MaxBodyBytes skips caching responses larger than this; 0 means no
    // limit.
    MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_ENABLED, CACHE_TTL, CACHE_PREFIX and
// CACHE_MAX_BODY_BYTES.
func LoadCacheConfig() CacheConfig {
    c := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", time.Minute),
        Prefix:       getenv("CACHE_PREFIX", "hotel:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    if c.TTL <= 0 {
        c.Enabled = false
    }
    if c.MaxBodyBytes < 0 {
        c.MaxBodyBytes = 0
    }
    return c
}
