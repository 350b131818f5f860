package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// CacheConfig defines settings for the entity store cache. When Enabled is
// false every read goes straight to the API. TTL bounds how long a list stays
// cached when no mutation invalidates it first. Prefix namespaces Redis keys
// and MaxEntries sizes the in-process fallback used when Redis is absent.
type CacheConfig struct {
	Enabled    bool
	TTL        time.Duration
	Prefix     string
	MaxEntries int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:    getenv("CACHE_ENABLED", "true") == "true",
		TTL:        parseDur(getenv("CACHE_TTL", "30s")),
		Prefix:     getenv("CACHE_PREFIX", "talkmaster"),
		MaxEntries: atoi(getenv("CACHE_MAX_ENTRIES", "1024")),
	}
}

// Helper functions reused from redis.go, ratelimit.go and events.go
func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
