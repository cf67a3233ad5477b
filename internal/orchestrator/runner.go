package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MichalMitros/product-sync/internal/connector"
	"github.com/MichalMitros/product-sync/internal/job"
	"github.com/MichalMitros/product-sync/internal/mapping"
	"github.com/MichalMitros/product-sync/internal/platform"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/MichalMitros/product-sync/internal/syncrecord"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

//go:generate mockery --name Storage --filename storage.go
//go:generate mockery --name Records --filename records.go
//go:generate mockery --name Telemetry --filename telemetry.go

const (
	defaultParallelism   = 4
	defaultProgressEvery = 10
)

// Storage is jobs, records and products storage.
type Storage interface {
	// GetJob returns job by ID.
	GetJob(ctx context.Context, id string) (*models.SyncJob, error)
	// SaveJob writes job only if its stored status still equals expected.
	SaveJob(ctx context.Context, job *models.SyncJob, expected models.JobStatus) error
	// DueRecords returns records of target which should be synced, highest priority first.
	DueRecords(ctx context.Context, target models.TargetRef, now time.Time, limit int) ([]models.SyncRecord, error)
	// ProductSnapshot returns product fields.
	ProductSnapshot(ctx context.Context, productID int64) (*models.ProductSnapshot, error)
	// ApplyProductFields overwrites product fields with values pulled from target.
	ApplyProductFields(ctx context.Context, productID int64, fields models.FieldSet) error
	// Queries returns number of queries executed so far.
	Queries() int64
}

// Records persists sync record transitions.
type Records interface {
	Claim(ctx context.Context, record *models.SyncRecord) (bool, error)
	CompleteSync(ctx context.Context, record *models.SyncRecord, outcome syncrecord.Synced) error
	CompletePull(ctx context.Context, record *models.SyncRecord, outcome syncrecord.Pulled) error
	Fail(ctx context.Context, record *models.SyncRecord, reason models.ReasonCode, message string) error
	Conflict(ctx context.Context, record *models.SyncRecord, fields []models.FieldConflict) error
}

// Telemetry samples worker process resources.
type Telemetry interface {
	// Sample returns resident memory in MB and CPU time consumed so far.
	Sample(ctx context.Context) (memoryMB int, cpuTime time.Duration, err error)
}

// Option is custom configuration of Runner.
type Option func(r *Runner)

// Runner runs sync jobs: it claims due records of job's target and reconciles them
// with target in bounded parallel pool.
type Runner struct {
	storage     Storage
	records     Records
	connectors  *connector.Registry
	resolver    *mapping.Resolver
	lifecycle   *job.Lifecycle
	telemetry   Telemetry
	clock       platform.Clock
	logger      *zerolog.Logger
	parallelism int
}

// NewRunner returns new Runner.
func NewRunner(
	storage Storage,
	records Records,
	connectors *connector.Registry,
	resolver *mapping.Resolver,
	lifecycle *job.Lifecycle,
	logger *zerolog.Logger,
	ops ...Option,
) *Runner {
	r := &Runner{
		storage:     storage,
		records:     records,
		connectors:  connectors,
		resolver:    resolver,
		lifecycle:   lifecycle,
		telemetry:   noTelemetry{},
		clock:       platform.SystemClock{},
		logger:      logger,
		parallelism: defaultParallelism,
	}

	for _, op := range ops {
		op(r)
	}

	return r
}

// Run runs pending job. It returns platform.ErrAlreadyRunning when job was taken by other worker.
// Record-level failures never fail the job, they end it completed with errors.
func (r *Runner) Run(ctx context.Context, jobID string) error {
	j, err := r.storage.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("can't get job: %w", err)
	}

	if err := r.lifecycle.Start(j); err != nil {
		return err
	}
	if err := r.storage.SaveJob(ctx, j, models.JobPending); err != nil {
		if errors.Is(err, platform.ErrStaleWrite) {
			return fmt.Errorf("%w: job %s", platform.ErrAlreadyRunning, jobID)
		}
		return fmt.Errorf("can't start job: %w", err)
	}

	logger := r.logger.With().Str("jobId", j.ID).Str("target", j.Target.String()).Logger()
	logger.Info().Msg("job started")

	conn, err := r.connectors.Get(j.Target)
	if err != nil {
		return r.failJob(ctx, j, err)
	}

	records, err := r.storage.DueRecords(ctx, j.Target, r.clock.Now(), j.Config.Limit)
	if err != nil {
		return r.failJob(ctx, j, fmt.Errorf("can't get due records: %w", err))
	}

	run := newJobRun(r, j, connector.NewCounting(conn), &logger)
	r.lifecycle.SetTotal(j, len(records))
	run.flush(ctx)

	run.process(ctx, records)

	return run.finish(context.WithoutCancel(ctx))
}

func (r *Runner) failJob(ctx context.Context, j *models.SyncJob, cause error) error {
	retried, err := r.lifecycle.Fail(j, cause.Error(), lo.ToPtr(fmt.Sprintf("%+v", cause)), nil)
	if err != nil {
		return errors.Join(cause, err)
	}

	if err := r.storage.SaveJob(ctx, j, models.JobRunning); err != nil {
		return fmt.Errorf("can't save failed job: %w (fail reason: %w)", err, cause)
	}

	r.logger.Error().
		Err(cause).
		Str("jobId", j.ID).
		Bool("retryScheduled", retried).
		Msg("job failed")

	return fmt.Errorf("job %s failed: %w", j.ID, cause)
}

// jobRun is state of single job execution shared by record workers.
type jobRun struct {
	*Runner
	job    *models.SyncJob
	conn   *connector.Counting
	logger *zerolog.Logger

	processed   atomic.Int64
	successful  atomic.Int64
	failed      atomic.Int64
	skipped     atomic.Int64
	done        atomic.Int64
	itemTime    atomic.Int64
	interrupted atomic.Bool

	startQueries int64
	startCPU     time.Duration

	mu      sync.Mutex
	summary models.ResultSummary
}

func newJobRun(r *Runner, j *models.SyncJob, conn *connector.Counting, logger *zerolog.Logger) *jobRun {
	run := &jobRun{
		Runner:       r,
		job:          j,
		conn:         conn,
		logger:       logger,
		startQueries: r.storage.Queries(),
	}

	if _, cpu, err := r.telemetry.Sample(context.Background()); err == nil {
		run.startCPU = cpu
	}

	return run
}

func (run *jobRun) process(ctx context.Context, records []models.SyncRecord) {
	parallelism := run.job.Config.Parallelism
	if parallelism <= 0 {
		parallelism = run.parallelism
	}
	progressEvery := int64(run.job.Config.ProgressEvery)
	if progressEvery <= 0 {
		progressEvery = defaultProgressEvery
	}

	// in-flight records finish even when worker is shutting down
	recordCtx := context.WithoutCancel(ctx)

	errGroup := errgroup.Group{}
	errGroup.SetLimit(parallelism)

	for ix := range records {
		if run.interrupted.Load() || ctx.Err() != nil {
			run.logger.Warn().Int("remaining", len(records)-ix).Msg("job interrupted, remaining records not claimed")
			break
		}

		errGroup.Go(func() error {
			started := time.Now()
			o := run.processRecord(recordCtx, records[ix])
			run.record(o, time.Since(started))

			if run.done.Add(1)%progressEvery == 0 {
				run.flush(recordCtx)
			}

			return nil
		})
	}

	_ = errGroup.Wait()
}

// record aggregates outcome of single record into job counters.
// Counters are atomic for lock-free reads, mu keeps them consistent with summary.
func (run *jobRun) record(o outcome, took time.Duration) {
	run.mu.Lock()
	defer run.mu.Unlock()

	if o.kind == outcomeSkipped {
		run.skipped.Add(1)
	} else {
		run.processed.Add(1)
		run.itemTime.Add(int64(took))
	}

	switch o.kind {
	case outcomePushed:
		run.successful.Add(1)
		run.summary.Pushed++
	case outcomePulled:
		run.successful.Add(1)
		run.summary.Pulled++
	case outcomeUnchanged:
		run.successful.Add(1)
		run.summary.Unchanged++
	case outcomeConflict:
		run.failed.Add(1)
		run.summary.Conflicts++
		run.summary.Failures = append(run.summary.Failures, o.failure)
	case outcomeFailed:
		run.failed.Add(1)
		run.summary.Failures = append(run.summary.Failures, o.failure)
	case outcomeSkipped:
		run.summary.Skipped++
	}

	if o.warning != "" {
		run.lifecycle.AddWarning(run.job, o.warning)
	}
}

// flush stores current progress. Lost compare-and-set means job was cancelled or timed out meanwhile.
func (run *jobRun) flush(ctx context.Context) {
	run.mu.Lock()
	defer run.mu.Unlock()

	if run.interrupted.Load() {
		return
	}

	run.updateCounters()

	err := run.storage.SaveJob(ctx, run.job, models.JobRunning)
	if errors.Is(err, platform.ErrStaleWrite) {
		run.interrupted.Store(true)
		run.logger.Warn().Msg("job status changed by other actor, stopping")
		return
	}
	if err != nil {
		run.logger.Error().Err(err).Msg("can't save job progress")
	}
}

func (run *jobRun) finish(ctx context.Context) error {
	run.mu.Lock()
	defer run.mu.Unlock()

	run.updateCounters()
	summary := run.summary

	if !run.interrupted.Load() {
		if err := run.lifecycle.Complete(run.job, summary); err != nil {
			return err
		}

		err := run.storage.SaveJob(ctx, run.job, models.JobRunning)
		if err == nil {
			run.logger.Info().
				Str("status", string(run.job.Status)).
				Int("processed", run.job.ProcessedItems).
				Int("failed", run.job.FailedItems).
				Int("skipped", run.job.SkippedItems).
				Msg("job finished")
			return nil
		}
		if !errors.Is(err, platform.ErrStaleWrite) {
			return fmt.Errorf("can't save finished job: %w", err)
		}
	}

	return run.finishInterrupted(ctx, summary)
}

// finishInterrupted writes counters of in-flight records onto job which was cancelled
// or timed out by other actor, keeping its status.
func (run *jobRun) finishInterrupted(ctx context.Context, summary models.ResultSummary) error {
	stored, err := run.storage.GetJob(ctx, run.job.ID)
	if err != nil {
		return fmt.Errorf("can't get interrupted job: %w", err)
	}

	stored.TotalItems = run.job.TotalItems
	run.lifecycle.UpdateProgress(stored, run.progress())
	run.lifecycle.UpdatePerformanceMetrics(stored, run.metrics())
	stored.ResultSummary = summary

	if err := run.storage.SaveJob(ctx, stored, stored.Status); err != nil {
		return fmt.Errorf("can't save interrupted job: %w", err)
	}

	run.logger.Warn().
		Str("status", string(stored.Status)).
		Int("processed", stored.ProcessedItems).
		Msg("job interrupted")

	return nil
}

// updateCounters must be called with mu held.
func (run *jobRun) updateCounters() {
	run.lifecycle.UpdateProgress(run.job, run.progress())
	run.lifecycle.UpdatePerformanceMetrics(run.job, run.metrics())
	run.job.ResultSummary = run.summary
}

func (run *jobRun) progress() job.Progress {
	p := job.Progress{
		Processed:  int(run.processed.Load()),
		Successful: int(run.successful.Load()),
		Failed:     int(run.failed.Load()),
		Skipped:    int(run.skipped.Load()),
	}

	if p.Processed > 0 {
		p.AvgItemTime = lo.ToPtr(time.Duration(run.itemTime.Load() / int64(p.Processed)))
	}

	return p
}

func (run *jobRun) metrics() job.Metrics {
	m := job.Metrics{
		APICallsMade: run.conn.Calls(),
		DBQueries:    int(run.storage.Queries() - run.startQueries),
	}

	memoryMB, cpu, err := run.telemetry.Sample(context.Background())
	if err != nil {
		run.logger.Debug().Err(err).Msg("can't sample process telemetry")
		return m
	}

	m.MemoryPeakMB = memoryMB
	m.CPUTimeSeconds = (cpu - run.startCPU).Seconds()

	return m
}

// WithClock sets Runner's custom clock.
func WithClock(clock platform.Clock) Option {
	return func(r *Runner) {
		r.clock = clock
	}
}

// WithTelemetry sets Runner's process telemetry source.
func WithTelemetry(telemetry Telemetry) Option {
	return func(r *Runner) {
		r.telemetry = telemetry
	}
}

// WithParallelism sets number of records processed at once by jobs which don't configure it.
func WithParallelism(parallelism int) Option {
	return func(r *Runner) {
		r.parallelism = parallelism
	}
}

type noTelemetry struct{}

func (noTelemetry) Sample(context.Context) (int, time.Duration, error) {
	return 0, 0, errors.New("telemetry disabled")
}
