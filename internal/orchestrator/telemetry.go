package orchestrator

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessTelemetry samples resources of current process.
type ProcessTelemetry struct {
	proc   *process.Process
	peakMB atomic.Int64
}

// NewProcessTelemetry returns telemetry of current process.
func NewProcessTelemetry(ctx context.Context) (*ProcessTelemetry, error) {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("can't open current process: %w", err)
	}

	return &ProcessTelemetry{proc: proc}, nil
}

// Sample returns peak resident memory in MB observed so far and CPU time (user and system) consumed by process.
func (t *ProcessTelemetry) Sample(ctx context.Context) (int, time.Duration, error) {
	mem, err := t.proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("can't read process memory: %w", err)
	}

	times, err := t.proc.TimesWithContext(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("can't read process CPU times: %w", err)
	}

	currentMB := int64(mem.RSS / (1 << 20))
	for {
		peak := t.peakMB.Load()
		if currentMB <= peak || t.peakMB.CompareAndSwap(peak, currentMB) {
			break
		}
	}

	cpu := time.Duration((times.User + times.System) * float64(time.Second))

	return int(t.peakMB.Load()), cpu, nil
}
