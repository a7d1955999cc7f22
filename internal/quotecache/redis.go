package quotecache

import (
	"context"
	"time"

	"github.com/wonny/trendwatch/internal/evaluation"
	"github.com/wonny/trendwatch/pkg/logger"
	"github.com/wonny/trendwatch/pkg/redis"
)

// Redis stores quotes in Redis so several instances share one cache.
// Cache failures are logged and treated as misses.
type Redis struct {
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewRedis creates a Redis-backed quote cache.
func NewRedis(client *redis.Client, ttl time.Duration, log *logger.Logger) *Redis {
	return &Redis{
		cache:  redis.NewCache(client, logger.ServiceName),
		ttl:    ttl,
		logger: log,
	}
}

// Get returns the cached quote for symbol.
func (r *Redis) Get(ctx context.Context, symbol string) (*evaluation.RawQuote, bool) {
	var q evaluation.RawQuote
	found, err := r.cache.Get(ctx, redis.QuoteKey(symbol), &q)
	if err != nil {
		r.logger.WithError(err).WithField("symbol", symbol).Warn("Quote cache read failed")
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &q, true
}

// Set stores q for symbol with the configured TTL.
func (r *Redis) Set(ctx context.Context, symbol string, q *evaluation.RawQuote) {
	if r.ttl <= 0 || q == nil {
		return
	}
	if err := r.cache.Set(ctx, redis.QuoteKey(symbol), q, r.ttl); err != nil {
		r.logger.WithError(err).WithField("symbol", symbol).Warn("Quote cache write failed")
	}
}

// CleanExpired is a no-op: Redis expires keys itself.
func (r *Redis) CleanExpired() int {
	return 0
}

// New picks the Redis store when client is enabled, else an in-memory one.
func New(client *redis.Client, ttl time.Duration, log *logger.Logger) Store {
	if client != nil && client.Enabled() {
		return NewRedis(client, ttl, log)
	}
	return NewMemory(ttl, log)
}
