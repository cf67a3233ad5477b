package platform

import (
	"errors"
)

var (
	// ErrAlreadyRunning is returned when job can't be started because it is not pending anymore.
	ErrAlreadyRunning = errors.New("job already running or finished")
	// ErrInvalidTransition is returned when requested status change is not allowed from current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrConflictUnresolved is returned when automated operation touches record in conflict.
	ErrConflictUnresolved = errors.New("record has unresolved conflict")
	// ErrRecordDisabled is returned when operation touches disabled record.
	ErrRecordDisabled = errors.New("record sync is disabled")
	// ErrRetriesExhausted is returned when record exceeded its retry ceiling and needs manual reset.
	ErrRetriesExhausted = errors.New("record retries exhausted")
	// ErrEmptyConflict is returned when conflict is recorded without any diverged field.
	ErrEmptyConflict = errors.New("conflict without diverged fields")
	// ErrNotFound is returned when requested record or job doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrStaleWrite is returned when compare-and-set update lost because status changed meanwhile.
	ErrStaleWrite = errors.New("status changed concurrently")
)
