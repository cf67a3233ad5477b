package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/MichalMitros/product-sync/internal/platform/storage/gen/postgres/public/table"
	"github.com/go-jet/jet/v2/qrm"

	pgmodels "github.com/MichalMitros/product-sync/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
)

// TargetID returns target category ID mapped to local category.
// It returns false when local category is not mapped in target.
func (p Postgres) TargetID(ctx context.Context, target models.TargetRef, localID int64) (int64, bool, error) {
	mapping, err := p.categoryMapping(ctx, target, table.CategoryMapping.LocalID.EQ(pg.Int64(localID)))
	if err != nil || mapping == nil {
		return 0, false, err
	}

	return mapping.ExternalID, true, nil
}

// LocalID returns local category ID mapped to target category.
// It returns false when target category is not mapped to any local one.
func (p Postgres) LocalID(ctx context.Context, target models.TargetRef, targetID int64) (int64, bool, error) {
	mapping, err := p.categoryMapping(ctx, target, table.CategoryMapping.ExternalID.EQ(pg.Int64(targetID)))
	if err != nil || mapping == nil {
		return 0, false, err
	}

	return mapping.LocalID, true, nil
}

func (p Postgres) categoryMapping(
	ctx context.Context,
	target models.TargetRef,
	condition pg.BoolExpression,
) (*pgmodels.CategoryMapping, error) {
	var mapping pgmodels.CategoryMapping
	err := table.CategoryMapping.SELECT(table.CategoryMapping.AllColumns).
		WHERE(pg.AND(
			table.CategoryMapping.TargetKind.EQ(pg.String(string(target.Kind))),
			table.CategoryMapping.TargetID.EQ(pg.Int64(target.ID)),
			condition,
		)).
		QueryContext(ctx, p.conn(), &mapping)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't get category mapping in %s: %w", target, err)
	}

	return &mapping, nil
}
