package jobs

import (
	"context"

	"github.com/wonny/trendwatch/pkg/logger"
)

// Cleaner drops expired cache entries.
type Cleaner interface {
	CleanCache() int
}

// CacheCleanupJob removes expired quotes from the in-memory cache
type CacheCleanupJob struct {
	cleaner Cleaner
	logger  *logger.Logger
}

// NewCacheCleanupJob creates a new cache cleanup job
func NewCacheCleanupJob(cleaner Cleaner, log *logger.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		cleaner: cleaner,
		logger:  log,
	}
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Schedule returns the cron schedule
func (j *CacheCleanupJob) Schedule() string {
	return "0 */5 * * * *" // Every 5 minutes
}

// Run executes the cache cleanup
func (j *CacheCleanupJob) Run(ctx context.Context) error {
	count := j.cleaner.CleanCache()

	if count > 0 {
		j.logger.WithField("removed", count).Info("Cache cleanup completed")
	}

	return nil
}
