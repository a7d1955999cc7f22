package quotecache

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/trendwatch/internal/evaluation"
	"github.com/wonny/trendwatch/pkg/logger"
)

// Store caches raw quotes per provider symbol.
type Store interface {
	Get(ctx context.Context, symbol string) (*evaluation.RawQuote, bool)
	Set(ctx context.Context, symbol string, q *evaluation.RawQuote)
	CleanExpired() int
}

type entry struct {
	quote     *evaluation.RawQuote
	expiresAt time.Time
}

// Memory is an in-process quote cache with a fixed TTL.
// ⭐ SSOT: 시세 캐싱은 이 구조체에서만
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	logger  *logger.Logger
	now     func() time.Time
}

// NewMemory creates a new in-memory cache
func NewMemory(ttl time.Duration, log *logger.Logger) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		logger:  log,
		now:     time.Now,
	}
}

// Get returns the cached quote if it has not expired.
func (c *Memory) Get(_ context.Context, symbol string) (*evaluation.RawQuote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[symbol]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.quote, true
}

// Set stores q for symbol. A non-positive TTL disables caching.
func (c *Memory) Set(_ context.Context, symbol string, q *evaluation.RawQuote) {
	if c.ttl <= 0 || q == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[symbol] = entry{quote: q, expiresAt: c.now().Add(c.ttl)}
}

// Delete removes a quote from cache
func (c *Memory) Delete(symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, symbol)
}

// Clear drops every entry.
func (c *Memory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
	c.logger.Info("Cleared quote cache")
}

// Len returns the number of entries, expired ones included.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// CleanExpired removes expired entries and returns how many were removed.
func (c *Memory) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0
	for symbol, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, symbol)
			count++
		}
	}

	if count > 0 {
		c.logger.WithField("count", count).Info("Cleaned expired quotes from cache")
	}

	return count
}

// Stats returns cache statistics
func (c *Memory) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{TotalCount: len(c.entries)}
	now := c.now()
	for _, e := range c.entries {
		if !now.Before(e.expiresAt) {
			stats.ExpiredCount++
		}
	}
	stats.FreshCount = stats.TotalCount - stats.ExpiredCount

	return stats
}

// Stats represents cache statistics
type Stats struct {
	TotalCount   int `json:"total_count"`
	FreshCount   int `json:"fresh_count"`
	ExpiredCount int `json:"expired_count"`
}
