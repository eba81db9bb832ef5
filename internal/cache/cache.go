// Package cache provides an optional Redis-backed read cache for polls and
// aggregated results. Writers invalidate entries after commit, so a cached
// read is at most one committed write stale — acceptable for results, which
// the engine already serves as point-in-time snapshots.
//
// The cache degrades to a no-op in two ways: a nil *Cache (Redis not
// configured) and any Redis error (logged, then treated as a miss). The
// engine's correctness never depends on the cache.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/pollkit/go-poll-backend/internal/domain"
)

// Cache wraps a Redis client with typed helpers for the entities the engine
// reads most. All methods are safe on a nil receiver.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis at addr and returns a Cache with the given entry
// TTL. An empty addr disables caching and returns nil, which every method
// treats as a no-op.
func New(addr string, ttl time.Duration) *Cache {
	if addr == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

// Ping verifies connectivity; used at startup to log cache availability.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func pollKey(id string) string    { return "poll:" + id }
func resultsKey(id string) string { return "poll_results:" + id }

// GetPoll returns a cached poll and whether the lookup hit.
func (c *Cache) GetPoll(ctx context.Context, pollID string) (*domain.Poll, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, pollKey(pollID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("poll_id", pollID).Msg("poll cache read failed")
		}
		return nil, false
	}
	var p domain.Poll
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	return &p, true
}

// SetPoll stores a poll for the configured TTL. Errors are logged, not returned.
func (c *Cache) SetPoll(ctx context.Context, p *domain.Poll) {
	if c == nil || p == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, pollKey(p.ID), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("poll_id", p.ID).Msg("poll cache write failed")
	}
}

// InvalidatePoll drops a poll's cached representation.
func (c *Cache) InvalidatePoll(ctx context.Context, pollID string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, pollKey(pollID)).Err(); err != nil {
		log.Warn().Err(err).Str("poll_id", pollID).Msg("poll cache invalidation failed")
	}
}

// GetResults returns cached per-option counts and whether the lookup hit.
func (c *Cache) GetResults(ctx context.Context, pollID string) (map[string]int64, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, resultsKey(pollID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("poll_id", pollID).Msg("results cache read failed")
		}
		return nil, false
	}
	var m map[string]int64
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}

// SetResults stores per-option counts for the configured TTL.
func (c *Cache) SetResults(ctx context.Context, pollID string, m map[string]int64) {
	if c == nil || m == nil {
		return
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, resultsKey(pollID), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("poll_id", pollID).Msg("results cache write failed")
	}
}

// InvalidateResults drops a poll's cached counts. Every write that can move
// a count calls this after commit.
func (c *Cache) InvalidateResults(ctx context.Context, pollID string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, resultsKey(pollID)).Err(); err != nil {
		log.Warn().Err(err).Str("poll_id", pollID).Msg("results cache invalidation failed")
	}
}
