package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendwatch/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	failures int32 // runs that fail before the first success
	calls    atomic.Int32
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }

func (j *stubJob) Run(ctx context.Context) error {
	n := j.calls.Add(1)
	if n <= j.failures {
		return errors.New("transient")
	}
	return nil
}

func newTestScheduler(maxRetries int) *Scheduler {
	return New(logger.Nop(), Options{MaxRetries: maxRetries, RetryDelay: time.Millisecond})
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler(0)

	require.NoError(t, s.AddJob(&stubJob{name: "b", schedule: "0 */3 * * * *"}))
	require.NoError(t, s.AddJob(&stubJob{name: "a", schedule: "@every 1m"}))

	err := s.AddJob(&stubJob{name: "a", schedule: "@every 1m"})
	assert.ErrorContains(t, err, "already exists")

	err = s.AddJob(&stubJob{name: "bad", schedule: "not a schedule"})
	assert.ErrorContains(t, err, "failed to schedule job bad")

	assert.Equal(t, []string{"a", "b"}, s.GetAllJobs())
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler(0)
	require.NoError(t, s.AddJob(&stubJob{name: "a", schedule: "@every 1m"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Empty(t, s.cron.Entries())

	assert.Error(t, s.RemoveJob("a"))
}

func TestRunJob_RetriesUntilSuccess(t *testing.T) {
	s := newTestScheduler(3)
	job := &stubJob{name: "flaky", schedule: "@every 1m", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "flaky")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Empty(t, result.Error)
	assert.EqualValues(t, 3, job.calls.Load())
}

func TestRunJob_ExhaustsRetries(t *testing.T) {
	s := newTestScheduler(1)
	job := &stubJob{name: "broken", schedule: "@every 1m", failures: 100}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "broken")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, "transient", result.Error)

	history, err := s.GetJobHistory("broken")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.Len(t, history.GetFailedResults(), 1)
}

func TestRunJob_StopsRetryingWhenCancelled(t *testing.T) {
	s := New(logger.Nop(), Options{MaxRetries: 5, RetryDelay: time.Hour})
	job := &stubJob{name: "slow", schedule: "@every 1m", failures: 100}
	require.NoError(t, s.AddJob(job))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result, err := s.RunJob(ctx, "slow")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
}

func TestRunJob_Unknown(t *testing.T) {
	_, err := newTestScheduler(0).RunJob(context.Background(), "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestGetJobStats(t *testing.T) {
	s := newTestScheduler(0)
	ok := &stubJob{name: "ok", schedule: "@every 1m"}
	bad := &stubJob{name: "bad", schedule: "@every 1m", failures: 1}
	require.NoError(t, s.AddJob(ok))
	require.NoError(t, s.AddJob(bad))

	_, _ = s.RunJob(context.Background(), "ok")
	_, _ = s.RunJob(context.Background(), "ok")
	_, _ = s.RunJob(context.Background(), "bad")
	_, _ = s.RunJob(context.Background(), "bad")

	stats := s.GetJobStats()
	require.Len(t, stats, 2)

	assert.Equal(t, 2, stats["ok"].TotalRuns)
	assert.Equal(t, 1.0, stats["ok"].SuccessRate)
	assert.NotNil(t, stats["ok"].LastSuccess)
	assert.Nil(t, stats["ok"].LastFailure)

	assert.Equal(t, 1, stats["bad"].FailureCount)
	assert.Equal(t, 0.5, stats["bad"].SuccessRate)
	assert.NotNil(t, stats["bad"].LastSuccess, "second run succeeded")
}

func TestScheduledRun(t *testing.T) {
	s := newTestScheduler(0)
	job := &stubJob{name: "tick", schedule: "@every 1s"}
	require.NoError(t, s.AddJob(job))

	s.Start()
	require.Eventually(t, func() bool { return job.calls.Load() > 0 }, 3*time.Second, 20*time.Millisecond)
	s.Stop()

	history, err := s.GetJobHistory("tick")
	require.NoError(t, err)
	assert.NotEmpty(t, history.Results)
}

func TestJobHistory(t *testing.T) {
	var h JobHistory
	assert.Zero(t, h.GetSuccessRate())
	assert.Empty(t, h.GetLatestResults(5))

	for i := 0; i < maxHistory+10; i++ {
		h.AddResult(JobResult{JobName: "x", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.GetLatestResults(3), 3)
	assert.Len(t, h.GetLatestResults(maxHistory+50), maxHistory)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 0.0001)
}
