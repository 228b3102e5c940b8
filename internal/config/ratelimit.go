package config

import "time"

// RateLimitConfig tunes the Redis token bucket on the booking write
// routes (create, confirm, cancel).  Each key starts with Capacity
// tokens and regains RefillTokens every RefillInterval.  KeyStrategy is
// one of ip, user, route, ip_user, ip_route, user_route or
// ip_user_route.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables.  The defaults allow
// a guest a burst of 10 writes per route and one more every 6 seconds.
func LoadRateLimitConfig() RateLimitConfig {
    c := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 10),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 6*time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 0),
        KeyStrategy:    getenv("RATE_LIMIT_KEY_STRATEGY", "user_route"),
        Prefix:         getenv("RATE_LIMIT_PREFIX", "hotel:rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    c.normalize()
    return c
}

// normalize clamps nonsensical values.  The bucket TTL is at least the
// time a drained bucket takes to refill, so an idle key expires full.
func (c *RateLimitConfig) normalize() {
    if c.Capacity < 1 {
        c.Capacity = 1
    }
    if c.RefillTokens < 1 {
        c.RefillTokens = 1
    }
    if c.RefillInterval <= 0 {
        c.RefillInterval = time.Second
    }
    intervals := (c.Capacity + c.RefillTokens - 1) / c.RefillTokens
    if full := time.Duration(intervals) * c.RefillInterval; c.TTL < full {
        c.TTL = full
    }
}
