package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/trendwatch/internal/dashboard"
	"github.com/wonny/trendwatch/pkg/logger"
)

// Refresher rebuilds the watch-list snapshot.
type Refresher interface {
	Refresh(ctx context.Context) (*dashboard.Snapshot, error)
}

// RefreshJob periodically re-evaluates the watch-list
type RefreshJob struct {
	refresher Refresher
	schedule  string
	logger    *logger.Logger
}

// NewRefreshJob creates a new refresh job running on schedule
func NewRefreshJob(refresher Refresher, schedule string, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		refresher: refresher,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "watchlist_refresh"
}

// Schedule returns the cron schedule
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run refreshes the snapshot. A missing watch-list counts as a failure so the
// scheduler retries it.
func (j *RefreshJob) Run(ctx context.Context) error {
	snap, err := j.refresher.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	if snap.Error != "" {
		return errors.New(snap.Error)
	}

	j.logger.WithFields(map[string]interface{}{
		"snapshot": snap.ID,
		"cards":    len(snap.Cards),
	}).Debug("Scheduled refresh finished")

	return nil
}
