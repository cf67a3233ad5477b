package syncrecord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MichalMitros/product-sync/internal/audit"
	"github.com/MichalMitros/product-sync/internal/platform"
	"github.com/MichalMitros/product-sync/internal/platform/models"
)

//go:generate mockery --name Store --filename store.go

// Store persists sync records.
type Store interface {
	// SaveRecord writes record only if its stored status still equals expected and its version is unchanged.
	// It returns platform.ErrStaleWrite otherwise.
	SaveRecord(ctx context.Context, record *models.SyncRecord, expected models.RecordStatus) error
	// ModifyRecord loads record under row lock, applies modify and writes it back when modify returns true.
	ModifyRecord(
		ctx context.Context,
		id int64,
		modify func(record *models.SyncRecord) (bool, error),
	) (*models.SyncRecord, error)
	// BindExternalID sets record's external ID if it has none yet.
	BindExternalID(ctx context.Context, id int64, externalID string) error
}

// Service applies state transitions to stored records and publishes them to audit sink.
// Worker-side operations use compare-and-set on status, so outcome of a record
// changed meanwhile (e.g. edited locally) is discarded with platform.ErrStaleWrite.
type Service struct {
	machine *Machine
	store   Store
	sink    audit.Sink
}

// NewService returns new Service.
func NewService(machine *Machine, store Store, sink audit.Sink) *Service {
	return &Service{
		machine: machine,
		store:   store,
		sink:    sink,
	}
}

// Machine returns Service's state machine.
func (s *Service) Machine() *Machine {
	return s.machine
}

// Claim marks record as syncing. Record is re-read under row lock, so claim applies to its current state
// and caller's copy is replaced with it. It returns false when record is taken by someone else.
func (s *Service) Claim(ctx context.Context, record *models.SyncRecord) (bool, error) {
	var claimed bool
	fresh, err := s.modify(ctx, record.ID, func(r *models.SyncRecord) (Transition, bool, error) {
		ok, tr, err := s.machine.MarkSyncing(r)
		claimed = ok
		return tr, ok, err
	})
	if err != nil {
		return false, err
	}
	if claimed {
		*record = *fresh
	}

	return claimed, nil
}

// CompleteSync stores successful push. When record was changed meanwhile, the outcome is discarded
// but external ID assigned by target is still bound to the record.
func (s *Service) CompleteSync(ctx context.Context, record *models.SyncRecord, outcome Synced) error {
	err := s.compareAndSwap(ctx, record, func(r *models.SyncRecord) (Transition, bool, error) {
		tr, err := s.machine.MarkSynced(r, outcome)
		return tr, true, err
	})
	if errors.Is(err, platform.ErrStaleWrite) && record.ExternalID == nil && outcome.ExternalID != nil {
		if bindErr := s.store.BindExternalID(ctx, record.ID, *outcome.ExternalID); bindErr != nil {
			return errors.Join(err, fmt.Errorf("can't bind external ID: %w", bindErr))
		}
	}

	return err
}

// CompletePull stores successful pull.
func (s *Service) CompletePull(ctx context.Context, record *models.SyncRecord, outcome Pulled) error {
	return s.compareAndSwap(ctx, record, func(r *models.SyncRecord) (Transition, bool, error) {
		tr, err := s.machine.MarkPulled(r, outcome)
		return tr, true, err
	})
}

// Fail stores failed attempt.
func (s *Service) Fail(ctx context.Context, record *models.SyncRecord, reason models.ReasonCode, message string) error {
	return s.compareAndSwap(ctx, record, func(r *models.SyncRecord) (Transition, bool, error) {
		tr, err := s.machine.MarkError(r, reason, message)
		return tr, true, err
	})
}

// Conflict stores detected conflict.
func (s *Service) Conflict(ctx context.Context, record *models.SyncRecord, fields []models.FieldConflict) error {
	return s.compareAndSwap(ctx, record, func(r *models.SyncRecord) (Transition, bool, error) {
		tr, err := s.machine.MarkConflict(r, fields)
		return tr, true, err
	})
}

// Reclaim returns stale syncing record to pending. It returns false when record was not stale.
func (s *Service) Reclaim(ctx context.Context, record *models.SyncRecord, staleAfter time.Duration) (bool, error) {
	var reclaimed bool
	err := s.compareAndSwap(ctx, record, func(r *models.SyncRecord) (Transition, bool, error) {
		ok, tr, err := s.machine.Reclaim(r, staleAfter)
		reclaimed = ok
		return tr, ok, err
	})
	if errors.Is(err, platform.ErrStaleWrite) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return reclaimed, nil
}

// MarkPending merges locally changed fields into record's pending set.
func (s *Service) MarkPending(ctx context.Context, id int64, fields ...string) (*models.SyncRecord, error) {
	return s.modify(ctx, id, func(r *models.SyncRecord) (Transition, bool, error) {
		changed, tr, err := s.machine.MarkPending(r, fields...)
		// pending set may grow without status change
		return tr, changed || err == nil, err
	})
}

// ResolveConflict closes record's conflict with operator decision.
func (s *Service) ResolveConflict(
	ctx context.Context,
	id int64,
	resolution models.Resolution,
	resolvedData models.FieldSet,
) (*models.SyncRecord, error) {
	return s.modify(ctx, id, func(r *models.SyncRecord) (Transition, bool, error) {
		tr, err := s.machine.ResolveConflict(r, resolution, resolvedData)
		return tr, true, err
	})
}

// Disable closes record sync.
func (s *Service) Disable(ctx context.Context, id int64) (*models.SyncRecord, error) {
	return s.modify(ctx, id, func(r *models.SyncRecord) (Transition, bool, error) {
		return swapped(s.machine.Disable(r))
	})
}

// Enable re-opens disabled record.
func (s *Service) Enable(ctx context.Context, id int64) (*models.SyncRecord, error) {
	return s.modify(ctx, id, func(r *models.SyncRecord) (Transition, bool, error) {
		tr, err := s.machine.Enable(r)
		return tr, true, err
	})
}

// ResetRetryCount makes exhausted record retryable again.
func (s *Service) ResetRetryCount(ctx context.Context, id int64) (*models.SyncRecord, error) {
	return s.modify(ctx, id, func(r *models.SyncRecord) (Transition, bool, error) {
		tr, err := s.machine.ResetRetryCount(r)
		return tr, true, err
	})
}

type transitionFunc func(r *models.SyncRecord) (tr Transition, write bool, err error)

func (s *Service) compareAndSwap(ctx context.Context, record *models.SyncRecord, apply transitionFunc) error {
	updated := *record
	expected := record.Status

	tr, write, err := apply(&updated)
	if err != nil || !write {
		return err
	}

	if err := s.store.SaveRecord(ctx, &updated, expected); err != nil {
		return fmt.Errorf("can't save record %d: %w", record.ID, err)
	}

	*record = updated
	s.emit(record.ID, tr)

	return nil
}

func (s *Service) modify(ctx context.Context, id int64, apply transitionFunc) (*models.SyncRecord, error) {
	var tr Transition
	var changed bool
	record, err := s.store.ModifyRecord(ctx, id, func(r *models.SyncRecord) (bool, error) {
		var write bool
		var err error
		tr, write, err = apply(r)
		changed = write && tr.To != ""
		return write, err
	})
	if err != nil {
		return nil, fmt.Errorf("can't modify record %d: %w", id, err)
	}

	if changed {
		s.emit(id, tr)
	}

	return record, nil
}

func (s *Service) emit(id int64, tr Transition) {
	s.sink.Emit(audit.Event{
		SubjectKind: audit.SubjectRecord,
		SubjectID:   strconv.FormatInt(id, 10),
		From:        string(tr.From),
		To:          string(tr.To),
		Reason:      tr.Reason,
		Message:     tr.Message,
		Timestamp:   s.machine.clock.Now(),
	})
}

func swapped(changed bool, tr Transition, err error) (Transition, bool, error) {
	return tr, changed, err
}
