package conflict

import (
	"slices"
	"time"

	"github.com/MichalMitros/product-sync/internal/checksum"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/samber/lo"
)

// Input is everything needed to classify a record.
type Input struct {
	Direction          models.Direction
	LocalChecksum      string
	LastSyncedChecksum *string
	// ExternalChecksum is checksum of freshly pulled external data.
	// Nil when data wasn't pulled because target reported no change or direction forbids pulling.
	ExternalChecksum *string
	// ForcedAction is action requested by conflict resolution, it wins over checksums.
	ForcedAction *models.Action
}

// Decision is classification result.
type Decision struct {
	Action          models.Action
	LocalChanged    bool
	ExternalChanged bool
	// Converged is set when both sides changed to the same data, record only needs its checksum advanced.
	Converged bool
}

// Detect classifies record into no-op, push, pull or conflict.
// "Changed" means differs from last mutually agreed checksum.
func Detect(in Input) Decision {
	if in.ForcedAction != nil {
		return Decision{Action: *in.ForcedAction}
	}

	localChanged := in.Direction.CanPush() &&
		(in.LastSyncedChecksum == nil || *in.LastSyncedChecksum != in.LocalChecksum)

	externalChanged := in.Direction.CanPull() && in.ExternalChecksum != nil &&
		(in.LastSyncedChecksum == nil || *in.LastSyncedChecksum != *in.ExternalChecksum)

	decision := Decision{
		LocalChanged:    localChanged,
		ExternalChanged: externalChanged,
	}

	switch {
	case in.ExternalChecksum != nil && *in.ExternalChecksum == in.LocalChecksum &&
		(localChanged || externalChanged):
		decision.Action = models.ActionNoOp
		decision.Converged = true
	case localChanged && externalChanged:
		decision.Action = models.ActionConflict
	case localChanged:
		decision.Action = models.ActionPush
	case externalChanged:
		decision.Action = models.ActionPull
	default:
		decision.Action = models.ActionNoOp
	}

	return decision
}

// Diff returns per-field conflicts between local and external projections.
// Only fields listed in fields and holding different values are reported. Field is attributed to local side
// when it is locally dirty, otherwise to external side.
func Diff(fields []string, local, external models.FieldSet, pending []string, at time.Time) []models.FieldConflict {
	dirty := lo.SliceToMap(pending, func(f string) (string, struct{}) { return f, struct{}{} })

	names := slices.Clone(fields)
	slices.Sort(names)

	conflicts := make([]models.FieldConflict, 0)
	for _, name := range names {
		localValue, externalValue := local[name], external[name]
		if checksum.Equal(localValue, externalValue) {
			continue
		}

		side := models.SideExternal
		if _, ok := dirty[name]; ok {
			side = models.SideLocal
		}

		conflicts = append(conflicts, models.FieldConflict{
			Field:      name,
			Local:      checksum.Normalize(localValue),
			External:   checksum.Normalize(externalValue),
			Side:       side,
			DetectedAt: at,
		})
	}

	return conflicts
}
