package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/MichalMitros/product-sync/internal/checksum"
	"github.com/MichalMitros/product-sync/internal/conflict"
	"github.com/MichalMitros/product-sync/internal/connector"
	"github.com/MichalMitros/product-sync/internal/mapping"
	"github.com/MichalMitros/product-sync/internal/platform"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/MichalMitros/product-sync/internal/syncrecord"
	"github.com/samber/lo"
)

type outcomeKind int

const (
	outcomeSkipped outcomeKind = iota
	outcomePushed
	outcomePulled
	outcomeUnchanged
	outcomeConflict
	outcomeFailed
)

type outcome struct {
	kind    outcomeKind
	failure models.RecordFailure
	warning string
}

// processRecord reconciles single record. Every record-level error ends as record transition
// and never leaves this function.
func (run *jobRun) processRecord(ctx context.Context, record models.SyncRecord) outcome {
	logger := run.logger.With().Int64("recordId", record.ID).Int64("productId", record.ProductID).Logger()

	claimed, err := run.records.Claim(ctx, &record)
	if err != nil {
		logger.Debug().Err(err).Msg("record not claimed")
		if isSkippable(err) {
			return outcome{kind: outcomeSkipped}
		}
		return run.failure(record, models.ReasonTransientError, fmt.Sprintf("can't claim record: %s", err))
	}
	if !claimed {
		return outcome{kind: outcomeSkipped}
	}

	o, err := run.reconcile(ctx, &record)
	if err == nil {
		return o
	}

	reason := connector.Classify(err)
	var rerr *recordError
	if errors.As(err, &rerr) {
		reason = rerr.reason
	}

	if failErr := run.records.Fail(ctx, &record, reason, err.Error()); failErr != nil {
		logger.Error().Err(failErr).Msg("can't mark record as failed")
	}
	logger.Debug().Err(err).Str("reason", string(reason)).Msg("record sync failed")

	return run.failure(record, reason, err.Error())
}

func (run *jobRun) reconcile(ctx context.Context, record *models.SyncRecord) (outcome, error) {
	kind := record.Target.Kind
	var warning string

	product, err := run.storage.ProductSnapshot(ctx, record.ProductID)
	if err != nil {
		return outcome{}, fmt.Errorf("can't get product: %w", err)
	}

	if record.CategoryMappings != nil {
		refreshed, err := run.resolver.Refresh(ctx, record.Target, record.CategoryMappings)
		if err != nil {
			return outcome{}, fmt.Errorf("can't refresh category mappings: %w", err)
		}
		record.CategoryMappings = refreshed
	}

	if unmapped := mapping.UnmappedCount(record.CategoryMappings); unmapped > 0 {
		message := fmt.Sprintf("product %d has %d unmapped categories in %s", record.ProductID, unmapped, record.Target)
		if run.job.Config.BlockOnUnmapped {
			return outcome{}, &recordError{reason: models.ReasonMappingIncomplete, message: message}
		}
		warning = message
	}

	if err := validate(record, product); err != nil {
		return outcome{}, err
	}

	local, err := checksum.Project(kind, *product, record.CategoryMappings)
	if err != nil {
		return outcome{}, &recordError{reason: models.ReasonPermanentError, message: err.Error()}
	}
	localSum, err := checksum.Sum(kind, local)
	if err != nil {
		return outcome{}, &recordError{reason: models.ReasonPermanentError, message: err.Error()}
	}

	pulled, externalSum, err := run.fetchExternal(ctx, record)
	if err != nil {
		return outcome{}, err
	}

	decision := conflict.Detect(conflict.Input{
		Direction:          record.Direction,
		LocalChecksum:      localSum,
		LastSyncedChecksum: record.LastSyncedChecksum,
		ExternalChecksum:   externalSum,
		ForcedAction:       record.ForcedAction,
	})

	var o outcome
	switch decision.Action {
	case models.ActionPush:
		o, err = run.push(ctx, record, local, localSum)
	case models.ActionPull:
		o, err = run.pull(ctx, record, pulled)
	case models.ActionConflict:
		o, err = run.conflict(ctx, record, local, pulled, localSum)
	default:
		o, err = run.settle(ctx, record, localSum)
	}
	o.warning = warning

	return o, err
}

// fetchExternal pulls target data when target reports change since last pull.
// Nil checksum means external side is unknown or unchanged.
func (run *jobRun) fetchExternal(ctx context.Context, record *models.SyncRecord) (*models.PullResult, *string, error) {
	if !record.Direction.CanPull() || record.ExternalID == nil {
		return nil, nil, nil
	}

	forcedPull := record.ForcedAction != nil && *record.ForcedAction == models.ActionPull
	if !forcedPull {
		updatedAt, err := run.conn.FetchUpdatedAt(ctx, *record)
		if err != nil {
			return nil, nil, fmt.Errorf("can't fetch target modification time: %w", err)
		}
		if !syncrecord.NeedsRePull(*record, updatedAt) {
			return nil, nil, nil
		}
	}

	pulled, err := run.conn.Pull(ctx, *record)
	if err != nil {
		return nil, nil, fmt.Errorf("can't pull target data: %w", err)
	}

	sum, err := checksum.Sum(record.Target.Kind, pulled.Payload)
	if err != nil {
		return nil, nil, &recordError{reason: models.ReasonPermanentError, message: err.Error()}
	}

	return &pulled, &sum, nil
}

func (run *jobRun) push(ctx context.Context, record *models.SyncRecord, payload models.FieldSet, sum string) (outcome, error) {
	result, err := run.conn.Push(ctx, *record, payload)
	if err != nil {
		return outcome{}, fmt.Errorf("can't push product: %w", err)
	}

	err = run.records.CompleteSync(ctx, record, syncrecord.Synced{
		ExternalID:        lo.EmptyableToPtr(result.ExternalID),
		Checksum:          sum,
		ExternalUpdatedAt: lo.EmptyableToPtr(result.Timestamp),
	})

	return run.completed(outcomePushed, err)
}

func (run *jobRun) pull(ctx context.Context, record *models.SyncRecord, pulled *models.PullResult) (outcome, error) {
	if pulled == nil {
		return outcome{}, &recordError{reason: models.ReasonPermanentError, message: "pull requested but target data is unavailable"}
	}

	if categories, ok := pulled.Payload[checksum.FieldCategories]; ok {
		mappings, err := run.resolver.FromTargetIDs(ctx, record.Target, toIDs(categories))
		if err != nil {
			return outcome{}, fmt.Errorf("can't resolve pulled categories: %w", err)
		}
		record.CategoryMappings = mappings
	}

	if err := run.storage.ApplyProductFields(ctx, record.ProductID, pulled.Payload); err != nil {
		return outcome{}, fmt.Errorf("can't apply pulled data: %w", err)
	}

	sum, err := checksum.Sum(record.Target.Kind, pulled.Payload)
	if err != nil {
		return outcome{}, &recordError{reason: models.ReasonPermanentError, message: err.Error()}
	}

	err = run.records.CompletePull(ctx, record, syncrecord.Pulled{
		Checksum:          sum,
		ExternalUpdatedAt: pulled.Timestamp,
	})

	return run.completed(outcomePulled, err)
}

func (run *jobRun) conflict(
	ctx context.Context,
	record *models.SyncRecord,
	local models.FieldSet,
	pulled *models.PullResult,
	localSum string,
) (outcome, error) {
	var external models.FieldSet
	if pulled != nil {
		external = pulled.Payload
	}

	fields := conflict.Diff(checksum.Fields(record.Target.Kind), local, external, record.PendingFields, run.clock.Now())
	if len(fields) == 0 {
		// both sides hold the same values, only checksum representation differs
		return run.settle(ctx, record, localSum)
	}

	if err := run.records.Conflict(ctx, record, fields); err != nil {
		return run.completed(outcomeConflict, err)
	}

	return outcome{
		kind: outcomeConflict,
		failure: models.RecordFailure{
			RecordID:  record.ID,
			ProductID: record.ProductID,
			Reason:    models.ReasonConflict,
			Message:   fmt.Sprintf("%d fields changed on both sides", len(fields)),
		},
	}, nil
}

// settle marks record as synced without sending anything.
func (run *jobRun) settle(ctx context.Context, record *models.SyncRecord, sum string) (outcome, error) {
	err := run.records.CompleteSync(ctx, record, syncrecord.Synced{
		Checksum:          sum,
		ExternalUpdatedAt: record.ExternalUpdatedAt,
	})

	return run.completed(outcomeUnchanged, err)
}

// completed converts persisting error of finished record. Lost compare-and-set means record was changed
// meanwhile, so its outcome is discarded and it will be picked up by next run.
func (run *jobRun) completed(kind outcomeKind, err error) (outcome, error) {
	if errors.Is(err, platform.ErrStaleWrite) {
		return outcome{kind: outcomeSkipped}, nil
	}
	if err != nil {
		return outcome{}, err
	}

	return outcome{kind: kind}, nil
}

func (run *jobRun) failure(record models.SyncRecord, reason models.ReasonCode, message string) outcome {
	return outcome{
		kind: outcomeFailed,
		failure: models.RecordFailure{
			RecordID:  record.ID,
			ProductID: record.ProductID,
			Reason:    reason,
			Message:   message,
		},
	}
}

// validate rejects products target can't create.
func validate(record *models.SyncRecord, product *models.ProductSnapshot) error {
	if record.ExternalID != nil || !record.Direction.CanPush() {
		return nil
	}

	if product.Name == "" || product.SKU == "" {
		return &recordError{
			reason:  models.ReasonPermanentError,
			message: fmt.Sprintf("product %d can't be created in %s: name and sku are required", product.ProductID, record.Target),
		}
	}

	return nil
}

// recordError is record failure with known reason code.
type recordError struct {
	reason  models.ReasonCode
	message string
}

func (e *recordError) Error() string {
	return e.message
}

func isSkippable(err error) bool {
	return errors.Is(err, platform.ErrNotFound) ||
		errors.Is(err, platform.ErrConflictUnresolved) ||
		errors.Is(err, platform.ErrRecordDisabled) ||
		errors.Is(err, platform.ErrRetriesExhausted) ||
		errors.Is(err, platform.ErrInvalidTransition)
}

func toIDs(value any) []int64 {
	var items []any
	switch v := value.(type) {
	case []int64:
		return v
	case []any:
		items = v
	case []string:
		items = lo.ToAnySlice(v)
	default:
		return nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case float64:
			ids = append(ids, int64(v))
		case int64:
			ids = append(ids, v)
		case int:
			ids = append(ids, int64(v))
		case string:
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
	}

	return ids
}
