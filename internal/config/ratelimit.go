package config

import (
    "os"
    "time"
)

// RateLimitConfig tunes the Redis token bucket applied to the public
// availability and waitlist endpoints.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillInterval time.Duration
    TTL            time.Duration
    Prefix         string
}

// LoadRateLimitConfig reads the rate limit knobs from the environment,
// with defaults tuned for a small restaurant deployment: 60 requests
// of burst per client, refilling one token per second.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        os.Getenv("RATE_LIMIT_ENABLED") != "false",
        Capacity:       atoi(os.Getenv("RATE_LIMIT_CAPACITY"), 60),
        RefillInterval: mustDuration("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            mustDuration("RATE_LIMIT_TTL", 10*time.Minute),
        Prefix:         getenvDefault("RATE_LIMIT_PREFIX", "rl"),
    }
    if cfg.Capacity < 1 {
        cfg.Capacity = 1
    }
    if min := 5 * cfg.RefillInterval; cfg.TTL < min {
        cfg.TTL = min
    }
    return cfg
}
