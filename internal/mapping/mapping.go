package mapping

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/samber/lo"
)

var (
	// ErrPrimaryNotSelected is returned when primary category is not one of selected categories.
	ErrPrimaryNotSelected = errors.New("primary category must be selected")
	// ErrInvalidTargetID is returned when mapping holds negative target ID.
	ErrInvalidTargetID = errors.New("target category ID must be positive or unmapped sentinel")
	// ErrUnknownSource is returned when mapping provenance is not recognised.
	ErrUnknownSource = errors.New("unknown mapping source")
	// ErrNotSelected is returned when mapping references category which is not selected.
	ErrNotSelected = errors.New("mapped category is not selected")
)

// Tree is read-only hierarchical category ID source.
type Tree interface {
	// TargetID returns target category ID mapped to local category. ok is false when category is not mapped yet.
	TargetID(ctx context.Context, target models.TargetRef, localID int64) (targetID int64, ok bool, err error)
	// LocalID returns local category ID mapped to target category. ok is false when there is no such mapping.
	LocalID(ctx context.Context, target models.TargetRef, targetID int64) (localID int64, ok bool, err error)
}

// Option is custom configuration of Resolver.
type Option func(r *Resolver)

// Resolver resolves local category selections to target category IDs.
type Resolver struct {
	tree          Tree
	now           func() time.Time
	ignoredTarget map[int64]struct{}
}

// NewResolver returns new Resolver reading mappings from tree.
func NewResolver(tree Tree, ops ...Option) *Resolver {
	r := &Resolver{
		tree:          tree,
		now:           func() time.Time { return time.Now().UTC() },
		ignoredTarget: map[int64]struct{}{},
	}

	for _, op := range ops {
		op(r)
	}

	return r
}

// FromSelection builds mappings from UI selection. Primary defaults to first selected category.
// Selected categories without target mapping are stored with unmapped sentinel.
func (r *Resolver) FromSelection(
	ctx context.Context,
	target models.TargetRef,
	selected []int64,
	primary *int64,
	source models.MappingSource,
) (*models.CategoryMappings, error) {
	selected = lo.Uniq(lo.Filter(selected, func(id int64, _ int) bool { return id > 0 }))

	if primary == nil && len(selected) > 0 {
		primary = lo.ToPtr(selected[0])
	}

	mappings := make(map[int64]int64, len(selected))
	for _, localID := range selected {
		targetID, ok, err := r.tree.TargetID(ctx, target, localID)
		if err != nil {
			return nil, fmt.Errorf("can't resolve category %d for %s: %w", localID, target, err)
		}
		if !ok {
			targetID = models.UnmappedID
		}
		mappings[localID] = targetID
	}

	result := &models.CategoryMappings{
		SchemaVersion: models.MappingsSchemaVersion,
		Selected:      selected,
		Primary:       primary,
		Mappings:      mappings,
		Metadata: models.MappingsMetadata{
			Source:      source,
			LastUpdated: r.now(),
		},
	}

	if err := Validate(result); err != nil {
		return nil, err
	}

	return result, nil
}

// FromTargetIDs builds mappings from category IDs reported by target.
// Ignored target IDs (e.g. storefront root categories) and IDs without local counterpart are skipped.
func (r *Resolver) FromTargetIDs(ctx context.Context, target models.TargetRef, targetIDs []int64) (*models.CategoryMappings, error) {
	selected := make([]int64, 0, len(targetIDs))
	mappings := make(map[int64]int64, len(targetIDs))

	for _, targetID := range lo.Uniq(targetIDs) {
		if _, ignored := r.ignoredTarget[targetID]; ignored || targetID <= 0 {
			continue
		}

		localID, ok, err := r.tree.LocalID(ctx, target, targetID)
		if err != nil {
			return nil, fmt.Errorf("can't resolve target category %d for %s: %w", targetID, target, err)
		}
		if !ok {
			continue
		}

		if _, seen := mappings[localID]; !seen {
			selected = append(selected, localID)
		}
		mappings[localID] = targetID
	}

	var primary *int64
	if len(selected) > 0 {
		primary = lo.ToPtr(selected[0])
	}

	return &models.CategoryMappings{
		SchemaVersion: models.MappingsSchemaVersion,
		Selected:      selected,
		Primary:       primary,
		Mappings:      mappings,
		Metadata: models.MappingsMetadata{
			Source:      models.SourcePull,
			LastUpdated: r.now(),
		},
	}, nil
}

// Refresh re-resolves every selected category against current tree state.
func (r *Resolver) Refresh(ctx context.Context, target models.TargetRef, current *models.CategoryMappings) (*models.CategoryMappings, error) {
	if current == nil {
		return nil, nil
	}

	refreshed, err := r.FromSelection(ctx, target, current.Selected, current.Primary, models.SourceRefresh)
	if err != nil {
		return nil, fmt.Errorf("can't refresh mappings: %w", err)
	}

	return refreshed, nil
}

// TargetIDs returns sorted resolved target IDs of selected categories, skipping unmapped ones.
func TargetIDs(m *models.CategoryMappings) []int64 {
	if m == nil {
		return nil
	}

	ids := make([]int64, 0, len(m.Selected))
	for _, localID := range m.Selected {
		if targetID := m.Mappings[localID]; targetID > models.UnmappedID {
			ids = append(ids, targetID)
		}
	}

	ids = lo.Uniq(ids)
	slices.Sort(ids)

	return ids
}

// PrimaryTargetID returns target ID of primary category.
// It returns nil when there is no primary or primary is not mapped yet.
func PrimaryTargetID(m *models.CategoryMappings) *int64 {
	if m == nil || m.Primary == nil {
		return nil
	}

	targetID, ok := m.Mappings[*m.Primary]
	if !ok || targetID <= models.UnmappedID {
		return nil
	}

	return &targetID
}

// UnmappedCount returns number of selected categories which are still unmapped.
func UnmappedCount(m *models.CategoryMappings) int {
	if m == nil {
		return 0
	}

	return lo.CountBy(lo.Uniq(m.Selected), func(localID int64) bool {
		return m.Mappings[localID] <= models.UnmappedID
	})
}

// MappedCount returns number of selected categories resolved to target ID.
func MappedCount(m *models.CategoryMappings) int {
	if m == nil {
		return 0
	}

	return len(lo.Uniq(m.Selected)) - UnmappedCount(m)
}

// HasValidMappings reports whether at least one selected category is resolved.
func HasValidMappings(m *models.CategoryMappings) bool {
	return MappedCount(m) > 0
}

// Validate checks mapping invariants.
func Validate(m *models.CategoryMappings) error {
	if m == nil {
		return nil
	}

	if m.Primary != nil && !slices.Contains(m.Selected, *m.Primary) {
		return fmt.Errorf("%w: %d", ErrPrimaryNotSelected, *m.Primary)
	}

	for localID, targetID := range m.Mappings {
		if targetID < models.UnmappedID {
			return fmt.Errorf("%w: %d -> %d", ErrInvalidTargetID, localID, targetID)
		}
		if !slices.Contains(m.Selected, localID) {
			return fmt.Errorf("%w: %d", ErrNotSelected, localID)
		}
	}

	switch m.Metadata.Source {
	case models.SourceManual, models.SourcePull, models.SourceSync, models.SourceMigration, models.SourceRefresh:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, m.Metadata.Source)
	}

	return nil
}

// WithIgnoredTargetIDs sets target category IDs skipped when building mappings from target data.
func WithIgnoredTargetIDs(ids ...int64) Option {
	return func(r *Resolver) {
		for _, id := range ids {
			r.ignoredTarget[id] = struct{}{}
		}
	}
}

// WithNow sets Resolver's custom time source.
func WithNow(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}
