package config

import "time"

// CacheConfig controls the availability cache: computed per-date
// availability maps are kept in Redis for TTL and dropped on every
// write that touches the date.  Disabled (or a nil Redis client)
// means every availability query recomputes from the database.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads the cache settings with sensible defaults.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 30*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "availability"),
	}
}
