package job_test

import (
	"testing"
	"time"

	"github.com/MichalMitros/product-sync/internal/audit/audittesting"
	"github.com/MichalMitros/product-sync/internal/job"
	"github.com/MichalMitros/product-sync/internal/platform"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/MichalMitros/product-sync/internal/platform/models/modelstesting"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	startedAt = time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC)
	now       = startedAt.Add(90 * time.Second)
)

type fakeClock struct {
	now *time.Time
}

func (c fakeClock) Now() time.Time {
	return *c.now
}

func newLifecycle(clockNow *time.Time) (*job.Lifecycle, *audittesting.Recorder) {
	recorder := &audittesting.Recorder{}
	return job.NewLifecycle(recorder, job.WithClock(fakeClock{now: clockNow})), recorder
}

func runningJob(ops ...func(j *models.SyncJob)) models.SyncJob {
	return modelstesting.FakeSyncJob(append([]func(j *models.SyncJob){func(j *models.SyncJob) {
		j.Status = models.JobRunning
		j.StartedAt = lo.ToPtr(startedAt)
	}}, ops...)...)
}

func TestUnitNew(t *testing.T) {
	clockNow := now
	lifecycle, _ := newLifecycle(&clockNow)

	got := lifecycle.New(job.Params{
		Type:       models.JobProductSync,
		Name:       "push to shop",
		Target:     models.ShopTarget(1),
		Trigger:    models.TriggerScheduled,
		Timeout:    time.Hour,
		MaxRetries: 3,
		RetryDelay: time.Minute,
	})

	assert.NotEmpty(t, got.ID, "should assign ID")
	assert.Equal(t, models.JobPending, got.Status, "should create pending job")
	assert.Equal(t, 3600, got.TimeoutSeconds, "should convert timeout")
	assert.Equal(t, now, got.CreatedAt, "should stamp creation time")
}

func TestUnitStart(t *testing.T) {
	clockNow := now
	lifecycle, recorder := newLifecycle(&clockNow)
	j := modelstesting.FakeSyncJob(func(j *models.SyncJob) {
		j.ProcessedItems = 5
		j.NextRetryAt = lo.ToPtr(startedAt)
	})

	require.NoError(t, lifecycle.Start(&j), "shouldn't return any error")
	assert.Equal(t, models.JobRunning, j.Status, "should start job")
	assert.Equal(t, &clockNow, j.StartedAt, "should stamp start time")
	assert.Zero(t, j.ProcessedItems, "should reset counters")
	assert.Nil(t, j.NextRetryAt, "should clear retry time")
	assert.Equal(t, []string{"pending->running"}, recorder.Transitions(), "should emit transition")

	require.ErrorIs(t, lifecycle.Start(&j), platform.ErrAlreadyRunning, "shouldn't start running job")
}

func TestUnitUpdateProgress(t *testing.T) {
	clockNow := now
	lifecycle, _ := newLifecycle(&clockNow)
	j := runningJob()
	lifecycle.SetTotal(&j, 8)

	lifecycle.UpdateProgress(&j, job.Progress{Processed: 3, Successful: 2, Failed: 1, Skipped: 1})
	assert.InDelta(t, 50.0, j.ProgressPercentage, 0.001, "should count processed and skipped items")

	avg := 250 * time.Millisecond
	lifecycle.UpdateProgress(&j, job.Progress{Processed: 7, Successful: 6, Failed: 1, Skipped: 1, AvgItemTime: &avg})
	assert.InDelta(t, 100.0, j.ProgressPercentage, 0.001, "should reach full progress")
	assert.InDelta(t, 250.0, j.AvgItemProcessingTime, 0.001, "should store average time in milliseconds")

	lifecycle.UpdateProgress(&j, job.Progress{Processed: 7, Successful: 6, Failed: 1, Skipped: 1})
	assert.InDelta(t, 250.0, j.AvgItemProcessingTime, 0.001, "should keep previous average")
}

func TestUnitUpdatePerformanceMetrics(t *testing.T) {
	clockNow := now
	lifecycle, _ := newLifecycle(&clockNow)
	j := runningJob()

	lifecycle.UpdatePerformanceMetrics(&j, job.Metrics{MemoryPeakMB: 120, CPUTimeSeconds: 1.5, APICallsMade: 10, DBQueries: 20})
	lifecycle.UpdatePerformanceMetrics(&j, job.Metrics{MemoryPeakMB: 80, CPUTimeSeconds: 2.5, APICallsMade: 12, DBQueries: 25})

	assert.Equal(t, 120, j.MemoryPeakMB, "should keep memory peak")
	assert.InDelta(t, 2.5, j.CPUTimeSeconds, 0.001, "should update CPU time")
	assert.Equal(t, 12, j.APICallsMade, "should update API calls")
	assert.Equal(t, 25, j.DBQueries, "should update DB queries")
}

func TestUnitCompleteWithErrors(t *testing.T) {
	clockNow := now
	lifecycle, recorder := newLifecycle(&clockNow)
	j := runningJob()
	lifecycle.SetTotal(&j, 10)
	lifecycle.UpdateProgress(&j, job.Progress{Processed: 10, Successful: 7, Failed: 3})

	summary := models.ResultSummary{Pushed: 7, Failures: []models.RecordFailure{
		{RecordID: 1, Reason: models.ReasonTransientError},
		{RecordID: 2, Reason: models.ReasonTransientError},
		{RecordID: 3, Reason: models.ReasonTransientError},
	}}

	require.NoError(t, lifecycle.Complete(&j, summary), "shouldn't return any error")
	assert.Equal(t, models.JobCompletedWithErrors, j.Status, "should complete with errors")
	assert.Equal(t, 10, j.ProcessedItems, "should keep processed items")
	assert.Equal(t, 7, j.SuccessfulItems, "should keep successful items")
	assert.Equal(t, 3, j.FailedItems, "should keep failed items")
	assert.Equal(t, j.ProcessedItems, j.SuccessfulItems+j.FailedItems, "should account every processed item")
	assert.Equal(t, int64(90), j.DurationSeconds, "should compute duration")
	assert.Equal(t, summary, j.ResultSummary, "should keep per-record failures")
	assert.Equal(t, []string{"running->completed_with_errors"}, recorder.Transitions(), "should emit transition")
}

func TestUnitCompleteSuccessfully(t *testing.T) {
	clockNow := now
	lifecycle, _ := newLifecycle(&clockNow)
	j := runningJob()
	lifecycle.UpdateProgress(&j, job.Progress{Processed: 4, Successful: 4})

	require.NoError(t, lifecycle.Complete(&j, models.ResultSummary{Pushed: 4}), "shouldn't return any error")
	assert.Equal(t, models.JobCompleted, j.Status, "should complete job")

	require.ErrorIs(t, lifecycle.Complete(&j, models.ResultSummary{}), platform.ErrInvalidTransition,
		"shouldn't complete finished job")
}

func TestUnitDurationNonNegative(t *testing.T) {
	tests := map[string]struct {
		completedAt time.Time
		want        int64
	}{
		"regular":       {completedAt: startedAt.Add(30 * time.Second), want: 30},
		"same instant":  {completedAt: startedAt, want: 0},
		"skewed clock":  {completedAt: startedAt.Add(-45 * time.Second), want: 45},
		"sub-second":    {completedAt: startedAt.Add(-500 * time.Millisecond), want: 0},
		"long job":      {completedAt: startedAt.Add(26 * time.Hour), want: 26 * 3600},
		"far past skew": {completedAt: startedAt.AddDate(-1, 0, 0), want: 365 * 24 * 3600},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			clockNow := tt.completedAt
			lifecycle, _ := newLifecycle(&clockNow)
			j := runningJob()

			require.NoError(t, lifecycle.Complete(&j, models.ResultSummary{}), "shouldn't return any error")
			assert.GreaterOrEqual(t, j.DurationSeconds, int64(0), "should never produce negative duration")
			assert.Equal(t, tt.want, j.DurationSeconds, "should use absolute difference")
		})
	}
}

func TestUnitFailSchedulesRetry(t *testing.T) {
	clockNow := now
	lifecycle, recorder := newLifecycle(&clockNow)
	j := runningJob(func(j *models.SyncJob) {
		j.MaxRetries = 1
		j.RetryDelay = time.Minute
	})

	scheduled, err := lifecycle.Fail(&j, "queue unreachable", lo.ToPtr("dial tcp"), nil)

	require.NoError(t, err, "shouldn't return any error")
	assert.True(t, scheduled, "should schedule retry")
	assert.Equal(t, models.JobPending, j.Status, "should return job to pending")
	assert.Equal(t, 1, j.RetryCount, "should count retry")
	assert.Equal(t, lo.ToPtr(now.Add(time.Minute)), j.NextRetryAt, "should wait retry delay")
	assert.Equal(t, lo.ToPtr("queue unreachable"), j.ErrorMessage, "should keep error message")
	assert.Equal(t, lo.ToPtr("dial tcp"), j.ErrorDetails, "should keep error details")
	assert.Equal(t, []string{"running->failed", "failed->pending"}, recorder.Transitions(), "should emit transitions")
	assert.False(t, job.IsDue(j, now), "shouldn't be due before retry time")
	assert.True(t, job.IsDueForRetry(j, now.Add(time.Minute)), "should be due after retry time")

	require.NoError(t, lifecycle.Start(&j), "shouldn't return any error")
	scheduled, err = lifecycle.Fail(&j, "queue unreachable", nil, nil)

	require.NoError(t, err, "shouldn't return any error")
	assert.False(t, scheduled, "shouldn't retry above ceiling")
	assert.Equal(t, models.JobFailed, j.Status, "should stay failed")
}

func TestUnitTimeout(t *testing.T) {
	clockNow := startedAt.Add(2 * time.Hour)
	lifecycle, _ := newLifecycle(&clockNow)
	j := runningJob(func(j *models.SyncJob) {
		j.TimeoutSeconds = 3600
		j.MaxRetries = 0
	})

	assert.True(t, job.HasTimedOut(j, clockNow), "should detect timeout")
	assert.False(t, job.HasTimedOut(j, startedAt.Add(time.Minute)), "shouldn't time out early")

	scheduled, err := lifecycle.Timeout(&j)

	require.NoError(t, err, "shouldn't return any error")
	assert.False(t, scheduled, "shouldn't retry without retries left")
	assert.Equal(t, models.JobTimeout, j.Status, "should mark job as timed out")
	assert.Equal(t, int64(7200), j.DurationSeconds, "should compute duration")
	assert.False(t, job.HasTimedOut(j, clockNow), "shouldn't report finished job")
}

func TestUnitCancelPauseResume(t *testing.T) {
	clockNow := now
	lifecycle, _ := newLifecycle(&clockNow)
	j := runningJob()

	require.NoError(t, lifecycle.Pause(&j), "should pause running job")
	assert.Equal(t, models.JobPaused, j.Status)
	require.ErrorIs(t, lifecycle.Pause(&j), platform.ErrInvalidTransition, "shouldn't pause paused job")

	require.NoError(t, lifecycle.Resume(&j), "should resume paused job")
	assert.Equal(t, models.JobRunning, j.Status)
	require.ErrorIs(t, lifecycle.Resume(&j), platform.ErrInvalidTransition, "shouldn't resume running job")

	require.NoError(t, lifecycle.Cancel(&j), "should cancel running job")
	assert.Equal(t, models.JobCancelled, j.Status)
	assert.Equal(t, &clockNow, j.CompletedAt, "should stamp completion time")
	require.ErrorIs(t, lifecycle.Cancel(&j), platform.ErrInvalidTransition, "shouldn't cancel finished job")
}

func TestUnitWarningsAndValidationErrors(t *testing.T) {
	clockNow := now
	lifecycle, _ := newLifecycle(&clockNow)
	j := runningJob()

	lifecycle.AddWarning(&j, "2 products have unmapped categories")
	lifecycle.AddValidationError(&j, "sku", "is required")

	assert.Equal(t, []models.Warning{{Message: "2 products have unmapped categories", Timestamp: now}}, j.Warnings)
	assert.Equal(t, map[string]string{"sku": "is required"}, j.ValidationErrors)
}

func TestUnitRates(t *testing.T) {
	j := runningJob(func(j *models.SyncJob) {
		j.TotalItems = 20
		j.ProcessedItems = 10
		j.SuccessfulItems = 7
		j.FailedItems = 3
	})

	assert.InDelta(t, 70.0, job.SuccessRate(j), 0.001, "should compute success rate")
	assert.InDelta(t, 30.0, job.FailureRate(j), 0.001, "should compute failure rate")

	remaining, ok := job.EstimatedTimeRemaining(j, now)
	require.True(t, ok, "should estimate remaining time")
	assert.Equal(t, 90*time.Second, remaining, "should extrapolate elapsed time")

	j.AvgItemProcessingTime = 100
	remaining, ok = job.EstimatedTimeRemaining(j, now)
	require.True(t, ok, "should estimate remaining time")
	assert.Equal(t, time.Second, remaining, "should use average item time")

	empty := modelstesting.FakeSyncJob()
	assert.Zero(t, job.SuccessRate(empty), "should handle job without processed items")
	_, ok = job.EstimatedTimeRemaining(empty, now)
	assert.False(t, ok, "shouldn't estimate pending job")
}

func TestUnitIsDue(t *testing.T) {
	future := now.Add(time.Hour)

	assert.True(t, job.IsDue(modelstesting.FakeSyncJob(), now), "should dispatch pending job")
	assert.False(t, job.IsDue(modelstesting.FakeSyncJob(func(j *models.SyncJob) { j.ScheduledAt = &future }), now),
		"shouldn't dispatch job scheduled in future")
	assert.False(t, job.IsDue(runningJob(), now), "shouldn't dispatch running job")
}
