package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendwatch/internal/dashboard"
	"github.com/wonny/trendwatch/pkg/logger"
)

type stubRefresher struct {
	snap *dashboard.Snapshot
	err  error
}

func (s stubRefresher) Refresh(ctx context.Context) (*dashboard.Snapshot, error) {
	return s.snap, s.err
}

type stubCleaner struct{ removed int }

func (s stubCleaner) CleanCache() int { return s.removed }

func TestRefreshJob(t *testing.T) {
	tests := []struct {
		name    string
		r       stubRefresher
		wantErr string
	}{
		{"ok", stubRefresher{snap: &dashboard.Snapshot{ID: "x"}}, ""},
		{"refresh error", stubRefresher{err: errors.New("boom")}, "refresh: boom"},
		{"no watch-list", stubRefresher{snap: &dashboard.Snapshot{Error: dashboard.MsgNoTickers}}, dashboard.MsgNoTickers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewRefreshJob(tt.r, "0 */3 * * * *", logger.Nop())
			assert.Equal(t, "watchlist_refresh", job.Name())
			assert.Equal(t, "0 */3 * * * *", job.Schedule())

			err := job.Run(context.Background())
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestCacheCleanupJob(t *testing.T) {
	job := NewCacheCleanupJob(stubCleaner{removed: 3}, logger.Nop())

	assert.Equal(t, "cache_cleanup", job.Name())
	assert.Equal(t, "0 */5 * * * *", job.Schedule())
	assert.NoError(t, job.Run(context.Background()))
}
