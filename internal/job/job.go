package job

import (
	"fmt"
	"math"
	"time"

	"github.com/MichalMitros/product-sync/internal/audit"
	"github.com/MichalMitros/product-sync/internal/platform"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Params describes job to create.
type Params struct {
	Type        models.JobType
	Name        string
	Source      models.SourceRef
	Target      models.TargetRef
	Trigger     models.TriggerType
	Config      models.JobConfig
	ScheduledAt *time.Time
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	ParentJobID *string
}

// Progress is absolute snapshot of job counters.
type Progress struct {
	Processed  int
	Successful int
	Failed     int
	Skipped    int
	// AvgItemTime is average record processing time, nil keeps previous value.
	AvgItemTime *time.Duration
}

// Metrics is job performance telemetry.
type Metrics struct {
	MemoryPeakMB   int
	CPUTimeSeconds float64
	APICallsMade   int
	DBQueries      int
}

// Option is custom configuration of Lifecycle.
type Option func(l *Lifecycle)

// Lifecycle applies sync job state transitions and publishes them to audit sink.
type Lifecycle struct {
	clock platform.Clock
	sink  audit.Sink
}

// NewLifecycle returns new Lifecycle.
func NewLifecycle(sink audit.Sink, ops ...Option) *Lifecycle {
	l := &Lifecycle{
		clock: platform.SystemClock{},
		sink:  sink,
	}

	for _, op := range ops {
		op(l)
	}

	return l
}

// New returns pending job built from params.
func (l *Lifecycle) New(params Params) models.SyncJob {
	now := l.clock.Now()

	return models.SyncJob{
		ID:             uuid.NewString(),
		Type:           params.Type,
		Name:           params.Name,
		Source:         params.Source,
		Target:         params.Target,
		Status:         models.JobPending,
		Trigger:        params.Trigger,
		Config:         params.Config,
		ScheduledAt:    params.ScheduledAt,
		TimeoutSeconds: int(params.Timeout / time.Second),
		MaxRetries:     params.MaxRetries,
		RetryDelay:     params.RetryDelay,
		ParentJobID:    params.ParentJobID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Start moves pending job to running and resets counters of previous attempt.
func (l *Lifecycle) Start(j *models.SyncJob) error {
	if j.Status != models.JobPending {
		return fmt.Errorf("%w: job %s is %s", platform.ErrAlreadyRunning, j.ID, j.Status)
	}

	now := l.clock.Now()
	j.StartedAt = &now
	j.CompletedAt = nil
	j.DurationSeconds = 0
	j.NextRetryAt = nil
	j.ProcessedItems, j.SuccessfulItems, j.FailedItems, j.SkippedItems = 0, 0, 0, 0
	j.ProgressPercentage = 0
	j.ResultSummary = models.ResultSummary{}

	l.transition(j, models.JobRunning, models.ReasonClaimed, "started")

	return nil
}

// SetTotal sets number of items job is going to process.
func (l *Lifecycle) SetTotal(j *models.SyncJob, total int) {
	j.TotalItems = total
	j.ProgressPercentage = progress(j)
	j.UpdatedAt = l.clock.Now()
}

// UpdateProgress overwrites job counters and recomputes progress percentage.
func (l *Lifecycle) UpdateProgress(j *models.SyncJob, p Progress) {
	j.ProcessedItems = p.Processed
	j.SuccessfulItems = p.Successful
	j.FailedItems = p.Failed
	j.SkippedItems = p.Skipped
	if p.AvgItemTime != nil {
		j.AvgItemProcessingTime = float64(*p.AvgItemTime) / float64(time.Millisecond)
	}
	j.ProgressPercentage = progress(j)
	j.UpdatedAt = l.clock.Now()
}

// UpdatePerformanceMetrics stores telemetry. Memory peak never decreases.
func (l *Lifecycle) UpdatePerformanceMetrics(j *models.SyncJob, m Metrics) {
	j.MemoryPeakMB = max(j.MemoryPeakMB, m.MemoryPeakMB)
	j.CPUTimeSeconds = m.CPUTimeSeconds
	j.APICallsMade = m.APICallsMade
	j.DBQueries = m.DBQueries
	j.UpdatedAt = l.clock.Now()
}

// Complete finishes running job. Job with failed items ends completed with errors.
func (l *Lifecycle) Complete(j *models.SyncJob, summary models.ResultSummary) error {
	if j.Status != models.JobRunning {
		return fmt.Errorf("%w: can't complete %s job %s", platform.ErrInvalidTransition, j.Status, j.ID)
	}

	j.ResultSummary = summary
	l.finish(j)

	status := models.JobCompleted
	if j.FailedItems > 0 {
		status = models.JobCompletedWithErrors
	}
	l.transition(j, status, models.ReasonSynced, fmt.Sprintf("%d/%d items failed", j.FailedItems, j.ProcessedItems))

	return nil
}

// Fail finishes job as failed and schedules its retry when allowed.
// It returns true when retry was scheduled.
func (l *Lifecycle) Fail(j *models.SyncJob, message string, details, trace *string) (bool, error) {
	if j.Status.Finished() {
		return false, fmt.Errorf("%w: can't fail %s job %s", platform.ErrInvalidTransition, j.Status, j.ID)
	}

	j.ErrorMessage = lo.ToPtr(message)
	j.ErrorDetails = details
	j.StackTrace = trace
	l.finish(j)
	l.transition(j, models.JobFailed, models.ReasonTransientError, message)

	return l.ScheduleRetry(j), nil
}

// Timeout finishes running job which exceeded its time limit and schedules its retry when allowed.
func (l *Lifecycle) Timeout(j *models.SyncJob) (bool, error) {
	if j.Status != models.JobRunning {
		return false, fmt.Errorf("%w: can't time out %s job %s", platform.ErrInvalidTransition, j.Status, j.ID)
	}

	message := fmt.Sprintf("job exceeded %ds timeout", j.TimeoutSeconds)
	j.ErrorMessage = lo.ToPtr(message)
	l.finish(j)
	l.transition(j, models.JobTimeout, models.ReasonTimeout, message)

	return l.ScheduleRetry(j), nil
}

// ScheduleRetry returns failed or timed out job to pending if it has retries left.
func (l *Lifecycle) ScheduleRetry(j *models.SyncJob) bool {
	if j.Status != models.JobFailed && j.Status != models.JobTimeout {
		return false
	}
	if j.RetryCount >= j.MaxRetries {
		return false
	}

	j.RetryCount++
	j.NextRetryAt = lo.ToPtr(l.clock.Now().Add(j.RetryDelay))
	l.transition(j, models.JobPending, models.ReasonRetryScheduled, fmt.Sprintf("retry %d of %d", j.RetryCount, j.MaxRetries))

	return true
}

// Cancel stops job. Running job stops claiming new records, in-flight ones finish naturally.
func (l *Lifecycle) Cancel(j *models.SyncJob) error {
	if j.Status.Finished() {
		return fmt.Errorf("%w: can't cancel %s job %s", platform.ErrInvalidTransition, j.Status, j.ID)
	}

	l.finish(j)
	j.NextRetryAt = nil
	l.transition(j, models.JobCancelled, models.ReasonCancelled, "")

	return nil
}

// Pause pauses running job.
func (l *Lifecycle) Pause(j *models.SyncJob) error {
	if j.Status != models.JobRunning {
		return fmt.Errorf("%w: can't pause %s job %s", platform.ErrInvalidTransition, j.Status, j.ID)
	}

	l.transition(j, models.JobPaused, models.ReasonManual, "")

	return nil
}

// Resume resumes paused job.
func (l *Lifecycle) Resume(j *models.SyncJob) error {
	if j.Status != models.JobPaused {
		return fmt.Errorf("%w: can't resume %s job %s", platform.ErrInvalidTransition, j.Status, j.ID)
	}

	l.transition(j, models.JobRunning, models.ReasonManual, "")

	return nil
}

// AddWarning appends non-fatal remark.
func (l *Lifecycle) AddWarning(j *models.SyncJob, message string) {
	j.Warnings = append(j.Warnings, models.Warning{Message: message, Timestamp: l.clock.Now()})
}

// AddValidationError stores validation error of field.
func (l *Lifecycle) AddValidationError(j *models.SyncJob, field, message string) {
	if j.ValidationErrors == nil {
		j.ValidationErrors = make(map[string]string)
	}
	j.ValidationErrors[field] = message
}

// HasTimedOut reports whether running job exceeded its timeout.
func HasTimedOut(j models.SyncJob, now time.Time) bool {
	if j.Status != models.JobRunning || j.StartedAt == nil || j.TimeoutSeconds <= 0 {
		return false
	}

	return now.Sub(*j.StartedAt) > time.Duration(j.TimeoutSeconds)*time.Second
}

// IsDue reports whether pending job can be dispatched: its schedule and retry time passed.
func IsDue(j models.SyncJob, now time.Time) bool {
	if j.Status != models.JobPending {
		return false
	}
	if j.ScheduledAt != nil && j.ScheduledAt.After(now) {
		return false
	}

	return j.NextRetryAt == nil || !j.NextRetryAt.After(now)
}

// IsDueForRetry reports whether job waits for retry and its retry time passed.
func IsDueForRetry(j models.SyncJob, now time.Time) bool {
	return j.Status == models.JobPending && j.RetryCount > 0 && j.NextRetryAt != nil && !j.NextRetryAt.After(now)
}

// SuccessRate returns percentage of processed items which succeeded.
func SuccessRate(j models.SyncJob) float64 {
	if j.ProcessedItems == 0 {
		return 0
	}

	return float64(j.SuccessfulItems) / float64(j.ProcessedItems) * 100
}

// FailureRate returns percentage of processed items which failed.
func FailureRate(j models.SyncJob) float64 {
	if j.ProcessedItems == 0 {
		return 0
	}

	return float64(j.FailedItems) / float64(j.ProcessedItems) * 100
}

// EstimatedTimeRemaining estimates time needed for remaining items of running job.
// It returns false when there is not enough data.
func EstimatedTimeRemaining(j models.SyncJob, now time.Time) (time.Duration, bool) {
	done := j.ProcessedItems + j.SkippedItems
	if j.Status != models.JobRunning || j.StartedAt == nil || done == 0 || j.TotalItems == 0 {
		return 0, false
	}

	remaining := max(j.TotalItems-done, 0)
	perItem := now.Sub(*j.StartedAt) / time.Duration(done)
	if j.AvgItemProcessingTime > 0 {
		perItem = time.Duration(j.AvgItemProcessingTime * float64(time.Millisecond))
	}

	return perItem * time.Duration(remaining), true
}

// WithClock sets Lifecycle's custom clock.
func WithClock(clock platform.Clock) Option {
	return func(l *Lifecycle) {
		l.clock = clock
	}
}

// finish stamps completion time and duration. Duration is absolute difference, so clock skew
// between workers never produces negative values.
func (l *Lifecycle) finish(j *models.SyncJob) {
	now := l.clock.Now()
	j.CompletedAt = &now
	j.ProgressPercentage = progress(j)

	if j.StartedAt == nil {
		j.DurationSeconds = 0
		return
	}

	j.DurationSeconds = int64(math.Abs(now.Sub(*j.StartedAt).Seconds()))
}

func (l *Lifecycle) transition(j *models.SyncJob, to models.JobStatus, reason models.ReasonCode, message string) {
	now := l.clock.Now()
	from := j.Status
	j.Status = to
	j.UpdatedAt = now

	l.sink.Emit(audit.Event{
		SubjectKind: audit.SubjectJob,
		SubjectID:   j.ID,
		From:        string(from),
		To:          string(to),
		Reason:      reason,
		Message:     message,
		Timestamp:   now,
	})
}

func progress(j *models.SyncJob) float64 {
	if j.TotalItems <= 0 {
		return 0
	}

	return min(float64(j.ProcessedItems+j.SkippedItems)/float64(j.TotalItems)*100, 100)
}
