package config

import (
    "strings"
    "time"
)

// Lock backends.
const (
    LockMemory = "memory"
    LockRedis  = "redis"
)

// LockConfig controls the room/booking locks taken by the booking engine.
// The memory backend is only safe with a single server instance; use
// redis when several instances share one database.
type LockConfig struct {
    Backend string
    // Wait bounds how long a request waits for a lock before it fails
    // with 503 and a Retry-After header.
    Wait   time.Duration
    TTL    time.Duration // lease length for redis locks
    Retry  time.Duration // initial redis poll interval
    Prefix string
}

// LoadLockConfig reads LOCK_* variables.  Unknown backends fall back to
// memory; a TTL shorter than the wait bound is raised to twice the wait.
func LoadLockConfig() LockConfig {
    c := LockConfig{
        Backend: strings.ToLower(getenv("LOCK_BACKEND", LockMemory)),
        Wait:    envDur("LOCK_WAIT_TIMEOUT", 5*time.Second),
        TTL:     envDur("LOCK_TTL", 30*time.Second),
        Retry:   envDur("LOCK_RETRY_INTERVAL", 10*time.Millisecond),
        Prefix:  getenv("LOCK_PREFIX", "hotel:lock"),
    }
    if c.Backend != LockRedis {
        c.Backend = LockMemory
    }
    if c.Wait <= 0 {
        c.Wait = 5 * time.Second
    }
    if c.TTL < c.Wait {
        c.TTL = 2 * c.Wait
    }
    return c
}
