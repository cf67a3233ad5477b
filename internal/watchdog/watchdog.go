package watchdog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MichalMitros/product-sync/internal/job"
	"github.com/MichalMitros/product-sync/internal/platform"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

//go:generate mockery --name Storage --filename storage.go
//go:generate mockery --name Reclaimer --filename reclaimer.go
//go:generate mockery --name Dispatcher --filename dispatcher.go

// Storage is jobs and records storage.
type Storage interface {
	RunningJobs(ctx context.Context) ([]models.SyncJob, error)
	DueJobs(ctx context.Context, now time.Time, limit int) ([]models.SyncJob, error)
	JobStatus(ctx context.Context, id string) (models.JobStatus, error)
	SaveJob(ctx context.Context, job *models.SyncJob, expected models.JobStatus) error
	StaleRecords(ctx context.Context, cutoff time.Time, limit int) ([]models.SyncRecord, error)
	RecordStatsByTarget(ctx context.Context, targets []models.TargetRef) (map[models.TargetRef]models.SyncStats, error)
}

// Reclaimer returns records abandoned by crashed workers to pending.
type Reclaimer interface {
	Reclaim(ctx context.Context, record *models.SyncRecord, staleAfter time.Duration) (bool, error)
}

// Dispatcher sends due jobs to workers.
type Dispatcher interface {
	RunJob(ctx context.Context, jobID string) error
}

// Config is Watchdog configuration.
type Config struct {
	// Schedule is cron spec of ticks, e.g. "@every 1m".
	Schedule string
	// StaleAfter is time after which syncing record is considered abandoned.
	// It is never shorter than JobTimeout, so records of running job aren't taken from it.
	StaleAfter time.Duration
	// JobTimeout is default timeout of sync jobs.
	JobTimeout time.Duration
	// BatchLimit caps number of records reclaimed and jobs dispatched by single tick.
	BatchLimit int
	// Targets are targets whose sync health is reported every tick.
	Targets []models.TargetRef
}

// Option is custom configuration of Watchdog.
type Option func(w *Watchdog)

// Watchdog periodically times out hanging jobs, reclaims abandoned records and dispatches due jobs.
type Watchdog struct {
	cron       *cron.Cron
	storage    Storage
	records    Reclaimer
	dispatcher Dispatcher
	lifecycle  *job.Lifecycle
	cfg        Config
	clock      platform.Clock
	logger     *zerolog.Logger
}

// New returns new Watchdog.
func New(
	storage Storage,
	records Reclaimer,
	dispatcher Dispatcher,
	lifecycle *job.Lifecycle,
	cfg Config,
	logger *zerolog.Logger,
	ops ...Option,
) *Watchdog {
	cfg.StaleAfter = max(cfg.StaleAfter, cfg.JobTimeout)

	w := &Watchdog{
		storage:    storage,
		records:    records,
		dispatcher: dispatcher,
		lifecycle:  lifecycle,
		cfg:        cfg,
		clock:      platform.SystemClock{},
		logger:     logger,
	}

	for _, op := range ops {
		op(w)
	}

	cronLog := cronLogger{logger: logger}
	w.cron = cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	return w
}

// Start schedules ticks. They run in background until context is closed.
func (w *Watchdog) Start(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.cfg.Schedule, func() {
		if err := w.Tick(ctx); err != nil {
			w.logger.Error().Err(err).Msg("watchdog tick failed")
		}
	})
	if err != nil {
		return fmt.Errorf("can't schedule watchdog with %q: %w", w.cfg.Schedule, err)
	}

	w.cron.Start()
	w.logger.Info().Str("schedule", w.cfg.Schedule).Msg("watchdog started")

	go func() {
		<-ctx.Done()
		<-w.cron.Stop().Done()
		w.logger.Info().Msg("watchdog stopped")
	}()

	return nil
}

// Tick runs all watchdog duties once. Failure of one duty doesn't stop the others.
func (w *Watchdog) Tick(ctx context.Context) error {
	return errors.Join(
		w.timeoutJobs(ctx),
		w.reclaimRecords(ctx),
		w.dispatchJobs(ctx),
		w.reportHealth(ctx),
	)
}

func (w *Watchdog) timeoutJobs(ctx context.Context) error {
	jobs, err := w.storage.RunningJobs(ctx)
	if err != nil {
		return err
	}

	now := w.clock.Now()
	var errs []error
	for ix := range jobs {
		j := &jobs[ix]
		if !job.HasTimedOut(*j, now) {
			continue
		}

		retried, err := w.lifecycle.Timeout(j)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		err = w.storage.SaveJob(ctx, j, models.JobRunning)
		if errors.Is(err, platform.ErrStaleWrite) {
			// finished meanwhile
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("can't save timed out job %s: %w", j.ID, err))
			continue
		}

		w.logger.Warn().
			Str("jobId", j.ID).
			Int("timeoutSeconds", j.TimeoutSeconds).
			Bool("retryScheduled", retried).
			Msg("job timed out")
	}

	return errors.Join(errs...)
}

func (w *Watchdog) reclaimRecords(ctx context.Context) error {
	cutoff := w.clock.Now().Add(-w.cfg.StaleAfter)
	records, err := w.storage.StaleRecords(ctx, cutoff, w.cfg.BatchLimit)
	if err != nil {
		return err
	}

	reclaimed := 0
	var errs []error
	for ix := range records {
		ok, err := w.records.Reclaim(ctx, &records[ix], w.cfg.StaleAfter)
		if err != nil {
			errs = append(errs, fmt.Errorf("can't reclaim record %d: %w", records[ix].ID, err))
			continue
		}
		if ok {
			reclaimed++
		}
	}

	if reclaimed > 0 {
		w.logger.Warn().Int("count", reclaimed).Msg("stale records reclaimed")
	}

	return errors.Join(errs...)
}

// dispatchJobs sends due jobs to workers. Job with parent waits until parent finishes and is cancelled
// when parent didn't complete.
func (w *Watchdog) dispatchJobs(ctx context.Context) error {
	jobs, err := w.storage.DueJobs(ctx, w.clock.Now(), w.cfg.BatchLimit)
	if err != nil {
		return err
	}

	var errs []error
	for ix := range jobs {
		j := &jobs[ix]

		ready, err := w.parentReady(ctx, j)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ready {
			continue
		}

		if err := w.dispatcher.RunJob(ctx, j.ID); err != nil {
			errs = append(errs, fmt.Errorf("can't dispatch job %s: %w", j.ID, err))
			continue
		}

		w.logger.Debug().Str("jobId", j.ID).Msg("job dispatched")
	}

	return errors.Join(errs...)
}

func (w *Watchdog) parentReady(ctx context.Context, j *models.SyncJob) (bool, error) {
	if j.ParentJobID == nil {
		return true, nil
	}

	status, err := w.storage.JobStatus(ctx, *j.ParentJobID)
	if err != nil {
		return false, fmt.Errorf("can't get parent of job %s: %w", j.ID, err)
	}

	switch {
	case status == models.JobCompleted || status == models.JobCompletedWithErrors:
		return true, nil
	case !status.Finished():
		return false, nil
	}

	if err := w.lifecycle.Cancel(j); err != nil {
		return false, err
	}
	if err := w.storage.SaveJob(ctx, j, models.JobPending); err != nil && !errors.Is(err, platform.ErrStaleWrite) {
		return false, fmt.Errorf("can't cancel job %s: %w", j.ID, err)
	}

	w.logger.Warn().
		Str("jobId", j.ID).
		Str("parentJobId", *j.ParentJobID).
		Str("parentStatus", string(status)).
		Msg("dependent job cancelled")

	return false, nil
}

func (w *Watchdog) reportHealth(ctx context.Context) error {
	if len(w.cfg.Targets) == 0 {
		return nil
	}

	stats, err := w.storage.RecordStatsByTarget(ctx, w.cfg.Targets)
	if err != nil {
		return err
	}

	for target, s := range stats {
		w.logger.Info().
			Str("target", target.String()).
			Int("total", s.Total).
			Int("pending", s.Pending).
			Int("syncing", s.Syncing).
			Int("synced", s.Synced).
			Int("error", s.Error).
			Int("conflict", s.Conflict).
			Int("disabled", s.Disabled).
			Float64("health", s.HealthPercentage()).
			Msg("sync health")
	}

	return nil
}

// WithClock sets Watchdog's custom clock.
func WithClock(clock platform.Clock) Option {
	return func(w *Watchdog) {
		w.clock = clock
	}
}

// cronLogger writes cron logs with zerolog.
type cronLogger struct {
	logger *zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
