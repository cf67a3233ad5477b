package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MichalMitros/product-sync/internal/job"
	"github.com/MichalMitros/product-sync/internal/platform"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/MichalMitros/product-sync/internal/platform/rabbitmq"
	"github.com/MichalMitros/product-sync/pkg/v1/commander"
	"github.com/rs/zerolog"
)

//go:generate mockery --name Runner --filename runner.go
//go:generate mockery --name Storage --filename storage.go
//go:generate mockery --name Records --filename records.go

// Runner runs sync jobs.
type Runner interface {
	Run(ctx context.Context, jobID string) error
}

// Storage is jobs and records storage.
type Storage interface {
	CreateJob(ctx context.Context, job *models.SyncJob) error
	GetJob(ctx context.Context, id string) (*models.SyncJob, error)
	SaveJob(ctx context.Context, job *models.SyncJob, expected models.JobStatus) error
	EnsureRecord(
		ctx context.Context,
		productID int64,
		target models.TargetRef,
		direction models.Direction,
		maxRetries int,
	) (*models.SyncRecord, error)
	RecordIDsByProduct(ctx context.Context, productID int64) ([]int64, error)
}

// Records applies manual and event-driven record transitions.
type Records interface {
	MarkPending(ctx context.Context, id int64, fields ...string) (*models.SyncRecord, error)
	ResolveConflict(
		ctx context.Context,
		id int64,
		resolution models.Resolution,
		resolvedData models.FieldSet,
	) (*models.SyncRecord, error)
	Disable(ctx context.Context, id int64) (*models.SyncRecord, error)
	Enable(ctx context.Context, id int64) (*models.SyncRecord, error)
	ResetRetryCount(ctx context.Context, id int64) (*models.SyncRecord, error)
}

// Defaults are values used for jobs and records created by commands.
type Defaults struct {
	RecordMaxRetries int
	JobTimeout       time.Duration
	JobMaxRetries    int
	JobRetryDelay    time.Duration
}

// RMQHandler handles RMQ messages.
type RMQHandler struct {
	rmq       *rabbitmq.RabbitMQ
	runner    Runner
	storage   Storage
	records   Records
	lifecycle *job.Lifecycle
	defaults  Defaults
	logger    *zerolog.Logger
}

// NewHandler returns new RMQHandler.
func NewHandler(
	rmq *rabbitmq.RabbitMQ,
	runner Runner,
	storage Storage,
	records Records,
	lifecycle *job.Lifecycle,
	defaults Defaults,
	logger *zerolog.Logger,
) *RMQHandler {
	return &RMQHandler{
		rmq:       rmq,
		runner:    runner,
		storage:   storage,
		records:   records,
		lifecycle: lifecycle,
		defaults:  defaults,
		logger:    logger,
	}
}

// Start starts consuming and handling sync commands from RMQ.
func (h *RMQHandler) Start(ctx context.Context, queue string, concurrency int) error {
	errorsChan, err := h.rmq.Consume(ctx, queue, concurrency, h.Handle)
	if err != nil {
		return err
	}

	go func() {
		for err := range errorsChan {
			h.logger.Error().
				Err(err).
				Msg("can't handle message")
		}
	}()

	return nil
}

// Handle handles single command message. Returned error makes message rejected.
func (h *RMQHandler) Handle(ctx context.Context, message []byte) error {
	cmd, err := decodeMessage(message)
	if err != nil {
		return err
	}

	logger := h.logger.With().Str("command", string(cmd.Type)).Logger()
	logger.Debug().Msg("command received")

	switch cmd.Type {
	case commander.CommandCreateJob:
		err = h.createJob(ctx, cmd.Job)
	case commander.CommandRunJob:
		err = h.runJob(ctx, cmd.JobID)
	case commander.CommandCancelJob:
		err = h.cancelJob(ctx, cmd.JobID)
	case commander.CommandTrackProduct:
		err = h.trackProduct(ctx, cmd)
	case commander.CommandProductChanged:
		err = h.productChanged(ctx, cmd.ProductID, cmd.Fields)
	case commander.CommandResolveConflict:
		err = h.resolveConflict(ctx, cmd.RecordID, cmd.Conflict)
	case commander.CommandDisableRecord:
		_, err = h.records.Disable(ctx, cmd.RecordID)
	case commander.CommandEnableRecord:
		_, err = h.records.Enable(ctx, cmd.RecordID)
	case commander.CommandResetRetries:
		_, err = h.records.ResetRetryCount(ctx, cmd.RecordID)
	default:
		err = fmt.Errorf("unknown command type %q", cmd.Type)
	}
	if err != nil {
		return fmt.Errorf("%s command failed: %w", cmd.Type, err)
	}

	logger.Debug().Msg("command handled")

	return nil
}

func (h *RMQHandler) createJob(ctx context.Context, req *commander.JobRequest) error {
	if req == nil {
		return errors.New("missing job request")
	}

	target, err := models.ParseTargetRef(req.Target)
	if err != nil {
		return err
	}

	trigger := models.TriggerType(req.Trigger)
	if trigger == "" {
		trigger = models.TriggerAPI
	}

	j := h.lifecycle.New(job.Params{
		Type:    models.JobType(req.Type),
		Name:    req.Name,
		Source:  models.SourceRef{Kind: "catalog"},
		Target:  target,
		Trigger: trigger,
		Config: models.JobConfig{
			Parallelism:     req.Parallelism,
			Limit:           req.Limit,
			BlockOnUnmapped: req.BlockOnUnmapped,
		},
		ScheduledAt: req.ScheduledAt,
		Timeout:     h.defaults.JobTimeout,
		MaxRetries:  h.defaults.JobMaxRetries,
		RetryDelay:  h.defaults.JobRetryDelay,
		ParentJobID: req.ParentJobID,
	})

	if err := h.storage.CreateJob(ctx, &j); err != nil {
		return err
	}

	h.logger.Info().
		Str("jobId", j.ID).
		Str("target", target.String()).
		Msg("job created")

	return nil
}

// runJob treats job taken by other worker as handled, so redelivered command doesn't run job twice.
func (h *RMQHandler) runJob(ctx context.Context, jobID string) error {
	err := h.runner.Run(ctx, jobID)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		h.logger.Info().Str("jobId", jobID).Msg("job not pending, skipping")
		return nil
	}

	return err
}

func (h *RMQHandler) cancelJob(ctx context.Context, jobID string) error {
	j, err := h.storage.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	status := j.Status
	if err := h.lifecycle.Cancel(j); err != nil {
		return err
	}

	if err := h.storage.SaveJob(ctx, j, status); err != nil {
		return fmt.Errorf("can't save cancelled job: %w", err)
	}

	h.logger.Info().
		Str("jobId", jobID).
		Str("previousStatus", string(status)).
		Msg("job cancelled")

	return nil
}

func (h *RMQHandler) trackProduct(ctx context.Context, cmd *commander.Command) error {
	target, err := models.ParseTargetRef(cmd.Target)
	if err != nil {
		return err
	}

	direction := models.Direction(cmd.Direction)
	if direction == "" {
		direction = models.DirectionToTarget
	}
	if !direction.CanPush() && !direction.CanPull() {
		return fmt.Errorf("unknown direction %q", cmd.Direction)
	}

	record, err := h.storage.EnsureRecord(ctx, cmd.ProductID, target, direction, h.defaults.RecordMaxRetries)
	if err != nil {
		return err
	}

	h.logger.Debug().
		Int64("recordId", record.ID).
		Int64("productId", record.ProductID).
		Str("target", target.String()).
		Msg("product tracked")

	return nil
}

// productChanged marks every record of product as pending. Records which can't take local changes
// (e.g. with unresolved conflict) only collect changed fields or stay untouched.
func (h *RMQHandler) productChanged(ctx context.Context, productID int64, fields []string) error {
	ids, err := h.storage.RecordIDsByProduct(ctx, productID)
	if err != nil {
		return err
	}

	var errs []error
	for _, id := range ids {
		_, err := h.records.MarkPending(ctx, id, fields...)
		if errors.Is(err, platform.ErrConflictUnresolved) || errors.Is(err, platform.ErrNotFound) {
			h.logger.Debug().Err(err).Int64("recordId", id).Msg("record not marked as pending")
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("can't mark record %d as pending: %w", id, err))
		}
	}

	return errors.Join(errs...)
}

func (h *RMQHandler) resolveConflict(ctx context.Context, recordID int64, action *commander.ConflictAction) error {
	if action == nil {
		return errors.New("missing conflict resolution")
	}

	resolution := models.Resolution(action.Resolution)
	if !resolution.Valid() {
		return fmt.Errorf("%w: unknown resolution %q", platform.ErrInvalidTransition, action.Resolution)
	}

	record, err := h.records.ResolveConflict(ctx, recordID, resolution, action.Data)
	if err != nil {
		return err
	}

	h.logger.Info().
		Int64("recordId", record.ID).
		Str("resolution", string(resolution)).
		Msg("conflict resolved")

	return nil
}

func decodeMessage(msg []byte) (*commander.Command, error) {
	var cmd commander.Command
	err := json.Unmarshal(msg, &cmd)
	if err != nil {
		return nil, fmt.Errorf("can't decode command: %w", err)
	}

	return &cmd, err
}
