// Package cache keeps rendered per-date availability responses in
// Redis.  Availability is a pure aggregation that every booking
// screen polls, so a short-TTL cache keyed by date absorbs most
// reads; every write touching a date drops that date's entry so the
// next read recomputes from the database.  A nil Redis client
// disables the cache entirely and all operations become no-ops.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
)

// Availability caches availability JSON payloads per calendar date.
type Availability struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewAvailability builds the cache.  Pass a nil client or a disabled
// config to run without caching.
func NewAvailability(cfg config.CacheConfig, rdb *redis.Client) *Availability {
	if !cfg.Enabled {
		rdb = nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Availability{rdb: rdb, ttl: ttl, prefix: cfg.Prefix}
}

func (a *Availability) key(date string) string {
	return a.prefix + ":" + date
}

// Get returns the cached payload for a date and whether it was
// present.  Redis failures degrade to a miss.
func (a *Availability) Get(ctx context.Context, date string) ([]byte, bool) {
	if a.rdb == nil {
		return nil, false
	}
	bs, err := a.rdb.Get(ctx, a.key(date)).Bytes()
	if err != nil {
		return nil, false
	}
	return bs, true
}

// Set stores a payload for a date.  Failures are ignored: the cache
// is an optimization and never affects booking correctness.
func (a *Availability) Set(ctx context.Context, date string, payload []byte) {
	if a.rdb == nil {
		return
	}
	_ = a.rdb.SetEx(ctx, a.key(date), payload, a.ttl).Err()
}

// Invalidate drops the cached entry for a date.  Called after every
// create, reschedule and cancel so freed or taken slots show up on
// the next availability query.  A reschedule across days invalidates
// both dates.
func (a *Availability) Invalidate(ctx context.Context, dates ...string) {
	if a.rdb == nil || len(dates) == 0 {
		return
	}
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, a.key(d))
	}
	_ = a.rdb.Del(ctx, keys...).Err()
}
