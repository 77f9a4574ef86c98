package config

// Redis backs the per-date availability cache and the booking rate
// limiter.  Both features are optional: when no server is reachable
// at startup the constructor returns nil and callers run without
// caching or rate limiting rather than failing.

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from REDIS_ADDR (host:port,
// default localhost:6379), REDIS_PASSWORD and REDIS_DB.  It pings
// the server with a short timeout and returns nil when unreachable.
func NewRedisClient() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     envStr("REDIS_ADDR", "localhost:6379"),
		Password: envStr("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
