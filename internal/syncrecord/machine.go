package syncrecord

import (
	"fmt"
	"slices"
	"time"

	"github.com/MichalMitros/product-sync/internal/platform"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/MichalMitros/product-sync/internal/retry"
	"github.com/samber/lo"
)

// Transition describes applied status change.
type Transition struct {
	From    models.RecordStatus
	To      models.RecordStatus
	Reason  models.ReasonCode
	Message string
}

// Synced is outcome of successful push.
type Synced struct {
	// ExternalID is ID assigned by target, bound only when record has none.
	ExternalID *string
	// Checksum is checksum of data which was pushed.
	Checksum string
	// ExternalUpdatedAt is target modification time reported for pushed data.
	ExternalUpdatedAt *time.Time
}

// Pulled is outcome of successful pull applied locally.
type Pulled struct {
	Checksum          string
	ExternalUpdatedAt time.Time
}

// MachineOption is custom configuration of Machine.
type MachineOption func(m *Machine)

// Machine applies sync record state transitions. It only mutates provided records,
// persisting and publishing them is up to the caller.
type Machine struct {
	clock   platform.Clock
	backoff retry.Backoff
}

// NewMachine returns new Machine.
func NewMachine(ops ...MachineOption) *Machine {
	m := &Machine{
		clock:   platform.SystemClock{},
		backoff: retry.DefaultBackoff(),
	}

	for _, op := range ops {
		op(m)
	}

	return m
}

// MarkSyncing claims record for processing. It returns false without error when record is already syncing.
func (m *Machine) MarkSyncing(r *models.SyncRecord) (bool, Transition, error) {
	switch r.Status {
	case models.RecordSyncing:
		return false, Transition{}, nil
	case models.RecordDisabled:
		return false, Transition{}, platform.ErrRecordDisabled
	case models.RecordConflict:
		return false, Transition{}, platform.ErrConflictUnresolved
	case models.RecordPending, models.RecordError:
	default:
		return false, Transition{}, invalidTransition(r.Status, models.RecordSyncing)
	}

	if retry.Exhausted(r.RetryCount, r.MaxRetries) {
		return false, Transition{}, platform.ErrRetriesExhausted
	}

	now := m.clock.Now()
	from := r.Status
	r.Status = models.RecordSyncing
	r.LastSyncAt = &now

	return true, Transition{From: from, To: models.RecordSyncing, Reason: models.ReasonClaimed}, nil
}

// MarkSynced records successful push. Calling it twice with same outcome leaves record unchanged.
func (m *Machine) MarkSynced(r *models.SyncRecord, outcome Synced) (Transition, error) {
	if err := automatedGuard(r); err != nil {
		return Transition{}, err
	}

	now := m.clock.Now()
	from := r.Status

	if r.ExternalID == nil && outcome.ExternalID != nil && *outcome.ExternalID != "" {
		r.ExternalID = lo.ToPtr(*outcome.ExternalID)
	}
	if outcome.ExternalUpdatedAt != nil {
		r.ExternalUpdatedAt = lo.ToPtr(*outcome.ExternalUpdatedAt)
	}

	r.LastPushAt = &now
	m.settle(r, outcome.Checksum, now)

	return Transition{From: from, To: models.RecordSynced, Reason: models.ReasonSynced}, nil
}

// MarkPulled records successful pull applied to local data.
func (m *Machine) MarkPulled(r *models.SyncRecord, outcome Pulled) (Transition, error) {
	if err := automatedGuard(r); err != nil {
		return Transition{}, err
	}

	now := m.clock.Now()
	from := r.Status

	r.ExternalUpdatedAt = lo.ToPtr(outcome.ExternalUpdatedAt)
	r.LastPullAt = &now
	m.settle(r, outcome.Checksum, now)

	return Transition{From: from, To: models.RecordSynced, Reason: models.ReasonSynced}, nil
}

// settle moves record to synced with agreed checksum.
func (m *Machine) settle(r *models.SyncRecord, checksum string, now time.Time) {
	r.Status = models.RecordSynced
	r.LastSyncedChecksum = lo.ToPtr(checksum)
	r.LocalChecksum = lo.ToPtr(checksum)
	r.LastSyncAt = &now
	r.PendingFields = nil
	r.ErrorMessage = nil
	r.ErrorReason = nil
	r.RetryCount = 0
	r.NextRetryAt = nil
	r.ForcedAction = nil
	r.ConflictDetectedAt = nil
	r.ConflictData = withoutActiveConflict(r.ConflictData)
}

// MarkError records failed attempt and schedules next one with backoff.
// Record failing more than MaxRetries times stays in error without next attempt.
func (m *Machine) MarkError(r *models.SyncRecord, reason models.ReasonCode, message string) (Transition, error) {
	if err := automatedGuard(r); err != nil {
		return Transition{}, err
	}

	now := m.clock.Now()
	from := r.Status

	r.Status = models.RecordError
	r.ErrorMessage = lo.ToPtr(message)
	r.RetryCount++

	if retry.Exhausted(r.RetryCount, r.MaxRetries) {
		r.RetryCount = r.MaxRetries + 1
		r.ErrorReason = lo.ToPtr(models.ReasonRetriesExhausted)
		r.NextRetryAt = nil

		return Transition{From: from, To: models.RecordError, Reason: models.ReasonRetriesExhausted, Message: message}, nil
	}

	r.ErrorReason = lo.ToPtr(reason)
	r.NextRetryAt = lo.ToPtr(m.backoff.Next(now, r.RetryCount))

	return Transition{From: from, To: models.RecordError, Reason: reason, Message: message}, nil
}

// MarkConflict freezes record with diverged fields until explicit resolution.
func (m *Machine) MarkConflict(r *models.SyncRecord, fields []models.FieldConflict) (Transition, error) {
	if err := automatedGuard(r); err != nil {
		return Transition{}, err
	}

	if len(fields) == 0 {
		return Transition{}, platform.ErrEmptyConflict
	}

	now := m.clock.Now()
	from := r.Status

	data := models.ConflictData{SchemaVersion: models.ConflictSchemaVersion}
	if r.ConflictData != nil {
		data.History = slices.Clone(r.ConflictData.History)
	}
	data.DetectedAt = &now
	data.Fields = slices.Clone(fields)

	r.Status = models.RecordConflict
	r.ConflictData = &data
	r.ConflictDetectedAt = &now
	r.NextRetryAt = nil
	r.ErrorReason = lo.ToPtr(models.ReasonConflict)

	return Transition{
		From:    from,
		To:      models.RecordConflict,
		Reason:  models.ReasonConflict,
		Message: fmt.Sprintf("%d conflicting fields", len(fields)),
	}, nil
}

// ResolveConflict closes active conflict with operator decision and schedules immediate re-sync.
func (m *Machine) ResolveConflict(
	r *models.SyncRecord,
	resolution models.Resolution,
	resolvedData models.FieldSet,
) (Transition, error) {
	if r.Status != models.RecordConflict {
		return Transition{}, invalidTransition(r.Status, models.RecordPending)
	}

	action, ok := resolutionActions[resolution]
	if !ok {
		return Transition{}, fmt.Errorf("%w: unknown resolution %q", platform.ErrInvalidTransition, resolution)
	}

	now := m.clock.Now()

	data := models.ConflictData{SchemaVersion: models.ConflictSchemaVersion}
	var original []models.FieldConflict
	if r.ConflictData != nil {
		data.History = slices.Clone(r.ConflictData.History)
		original = slices.Clone(r.ConflictData.Fields)
	}
	data.History = append(data.History, models.ConflictResolution{
		ResolvedAt:       now,
		Resolution:       resolution,
		ResolvedData:     resolvedData,
		OriginalConflict: original,
	})

	r.Status = models.RecordPending
	r.ConflictData = &data
	r.ConflictDetectedAt = nil
	r.ErrorReason = nil
	r.ErrorMessage = nil
	r.RetryCount = 0
	r.NextRetryAt = &now
	r.ForcedAction = lo.ToPtr(action)

	return Transition{
		From:    models.RecordConflict,
		To:      models.RecordPending,
		Reason:  models.ReasonConflictResolved,
		Message: string(resolution),
	}, nil
}

var resolutionActions = map[models.Resolution]models.Action{
	models.ResolutionKeepLocal:    models.ActionPush,
	models.ResolutionKeepExternal: models.ActionPull,
	// merged values are applied locally before resolving, so they need to be pushed
	models.ResolutionMerge: models.ActionPush,
}

// MarkPending adds locally changed fields to pending set and makes record due.
// Disabled record only collects fields. It returns false when status didn't change.
func (m *Machine) MarkPending(r *models.SyncRecord, fields ...string) (bool, Transition, error) {
	if r.Status == models.RecordConflict {
		return false, Transition{}, platform.ErrConflictUnresolved
	}

	r.PendingFields = union(r.PendingFields, fields)

	if r.Status == models.RecordDisabled || r.Status == models.RecordPending {
		return false, Transition{}, nil
	}

	from := r.Status
	r.Status = models.RecordPending
	r.NextRetryAt = lo.ToPtr(m.clock.Now())

	return true, Transition{From: from, To: models.RecordPending, Reason: models.ReasonLocalChange}, nil
}

// Disable closes record sync. Disabled record keeps its history.
func (m *Machine) Disable(r *models.SyncRecord) (bool, Transition, error) {
	if r.Status == models.RecordDisabled {
		return false, Transition{}, nil
	}

	from := r.Status
	r.Status = models.RecordDisabled
	r.NextRetryAt = nil
	r.ForcedAction = nil

	return true, Transition{From: from, To: models.RecordDisabled, Reason: models.ReasonManual}, nil
}

// Enable re-opens disabled record.
func (m *Machine) Enable(r *models.SyncRecord) (Transition, error) {
	if r.Status != models.RecordDisabled {
		return Transition{}, invalidTransition(r.Status, models.RecordPending)
	}

	r.Status = models.RecordPending
	r.NextRetryAt = lo.ToPtr(m.clock.Now())

	return Transition{From: models.RecordDisabled, To: models.RecordPending, Reason: models.ReasonManual}, nil
}

// ResetRetryCount clears failure counter so record becomes due again.
func (m *Machine) ResetRetryCount(r *models.SyncRecord) (Transition, error) {
	switch r.Status {
	case models.RecordConflict:
		return Transition{}, platform.ErrConflictUnresolved
	case models.RecordDisabled:
		return Transition{}, platform.ErrRecordDisabled
	}

	r.RetryCount = 0
	if r.Status == models.RecordError || r.Status == models.RecordPending {
		r.NextRetryAt = lo.ToPtr(m.clock.Now())
	}
	if r.ErrorReason != nil && *r.ErrorReason == models.ReasonRetriesExhausted {
		r.ErrorReason = lo.ToPtr(models.ReasonManual)
	}

	return Transition{From: r.Status, To: r.Status, Reason: models.ReasonManual, Message: "retry count reset"}, nil
}

// Reclaim returns record abandoned in syncing for longer than staleAfter back to pending.
// It returns false when record is not stale.
func (m *Machine) Reclaim(r *models.SyncRecord, staleAfter time.Duration) (bool, Transition, error) {
	if r.Status != models.RecordSyncing {
		return false, Transition{}, nil
	}

	now := m.clock.Now()
	if r.LastSyncAt != nil && now.Sub(*r.LastSyncAt) <= staleAfter {
		return false, Transition{}, nil
	}

	r.Status = models.RecordPending
	r.NextRetryAt = &now

	return true, Transition{From: models.RecordSyncing, To: models.RecordPending, Reason: models.ReasonStaleReclaimed}, nil
}

// NeedsSync reports whether record is pending, failed or has its retry time due.
func NeedsSync(r models.SyncRecord, now time.Time) bool {
	if r.Status == models.RecordPending || r.Status == models.RecordError {
		return true
	}

	return r.NextRetryAt != nil && !r.NextRetryAt.After(now)
}

// IsDue reports whether record should be taken by the next job run.
// Conflicted, disabled and exhausted records are never due.
func IsDue(r models.SyncRecord, now time.Time) bool {
	if retry.Exhausted(r.RetryCount, r.MaxRetries) {
		return false
	}

	switch r.Status {
	case models.RecordPending:
		return r.NextRetryAt == nil || !r.NextRetryAt.After(now)
	case models.RecordError:
		return r.NextRetryAt != nil && !r.NextRetryAt.After(now)
	default:
		return false
	}
}

// CanRetry reports whether failed record will be retried automatically.
func CanRetry(r models.SyncRecord) bool {
	return r.Status == models.RecordError && !retry.Exhausted(r.RetryCount, r.MaxRetries)
}

// HasDataChanged reports whether current checksum differs from last agreed one.
func HasDataChanged(r models.SyncRecord, currentChecksum string) bool {
	return r.LastSyncedChecksum == nil || *r.LastSyncedChecksum != currentChecksum
}

// NeedsRePull reports whether target data changed since last pull.
func NeedsRePull(r models.SyncRecord, externalUpdatedAt time.Time) bool {
	if r.LastPullAt == nil || r.ExternalUpdatedAt == nil {
		return true
	}

	return externalUpdatedAt.After(*r.ExternalUpdatedAt)
}

// WithClock sets Machine's custom clock.
func WithClock(clock platform.Clock) MachineOption {
	return func(m *Machine) {
		m.clock = clock
	}
}

// WithBackoff sets Machine's record retry backoff.
func WithBackoff(backoff retry.Backoff) MachineOption {
	return func(m *Machine) {
		m.backoff = backoff
	}
}

func automatedGuard(r *models.SyncRecord) error {
	switch r.Status {
	case models.RecordDisabled:
		return platform.ErrRecordDisabled
	case models.RecordConflict:
		return platform.ErrConflictUnresolved
	default:
		return nil
	}
}

func invalidTransition(from, to models.RecordStatus) error {
	return fmt.Errorf("%w: %s -> %s", platform.ErrInvalidTransition, from, to)
}

func withoutActiveConflict(data *models.ConflictData) *models.ConflictData {
	if data == nil || len(data.History) == 0 {
		return nil
	}

	return &models.ConflictData{
		SchemaVersion: models.ConflictSchemaVersion,
		History:       slices.Clone(data.History),
	}
}

// union returns sorted set union of both slices.
func union(current, added []string) []string {
	merged := lo.Uniq(append(slices.Clone(current), added...))
	if len(merged) == 0 {
		return nil
	}
	slices.Sort(merged)

	return merged
}
