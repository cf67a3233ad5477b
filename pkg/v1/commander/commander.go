package commander

import (
	"context"
	"encoding/json"
	"fmt"
)

//go:generate mockery --name Sender --filename sender.go

// Sender sends messages.
type Sender interface {
	Send(context.Context, []byte) error
}

// SyncCommander sends sync worker commands.
type SyncCommander struct {
	sender Sender
}

// NewSyncCommander returns new SyncCommander using provided sender for sending messages.
func NewSyncCommander(sender Sender) SyncCommander {
	return SyncCommander{
		sender: sender,
	}
}

// CreateJob sends command creating job.
func (c SyncCommander) CreateJob(ctx context.Context, job JobRequest) error {
	return c.send(ctx, Command{Type: CommandCreateJob, Job: &job})
}

// RunJob sends command running job with provided ID.
func (c SyncCommander) RunJob(ctx context.Context, jobID string) error {
	return c.send(ctx, Command{Type: CommandRunJob, JobID: jobID})
}

// CancelJob sends command cancelling job with provided ID.
func (c SyncCommander) CancelJob(ctx context.Context, jobID string) error {
	return c.send(ctx, Command{Type: CommandCancelJob, JobID: jobID})
}

// TrackProduct sends command starting product sync with target in provided direction.
func (c SyncCommander) TrackProduct(ctx context.Context, productID int64, target, direction string) error {
	return c.send(ctx, Command{
		Type:      CommandTrackProduct,
		ProductID: productID,
		Target:    target,
		Direction: direction,
	})
}

// ProductChanged sends command marking product as changed locally.
func (c SyncCommander) ProductChanged(ctx context.Context, productID int64, fields ...string) error {
	return c.send(ctx, Command{Type: CommandProductChanged, ProductID: productID, Fields: fields})
}

// ResolveConflict sends command closing record's conflict.
func (c SyncCommander) ResolveConflict(ctx context.Context, recordID int64, action ConflictAction) error {
	return c.send(ctx, Command{Type: CommandResolveConflict, RecordID: recordID, Conflict: &action})
}

// DisableRecord sends command disabling record.
func (c SyncCommander) DisableRecord(ctx context.Context, recordID int64) error {
	return c.send(ctx, Command{Type: CommandDisableRecord, RecordID: recordID})
}

// EnableRecord sends command enabling record.
func (c SyncCommander) EnableRecord(ctx context.Context, recordID int64) error {
	return c.send(ctx, Command{Type: CommandEnableRecord, RecordID: recordID})
}

// ResetRetries sends command resetting record's retry counter.
func (c SyncCommander) ResetRetries(ctx context.Context, recordID int64) error {
	return c.send(ctx, Command{Type: CommandResetRetries, RecordID: recordID})
}

func (c SyncCommander) send(ctx context.Context, cmd Command) error {
	cmdMsg, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("can't marshal %s command: %w", cmd.Type, err)
	}

	return c.sender.Send(ctx, cmdMsg)
}
