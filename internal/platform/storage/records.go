package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MichalMitros/product-sync/internal/platform"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/MichalMitros/product-sync/internal/platform/storage/gen/postgres/public/table"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	pgmodels "github.com/MichalMitros/product-sync/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
)

// EnsureRecord returns sync record of product in target, creating pending one on first association.
func (p Postgres) EnsureRecord(
	ctx context.Context,
	productID int64,
	target models.TargetRef,
	direction models.Direction,
	maxRetries int,
) (*models.SyncRecord, error) {
	now := time.Now().UTC()
	record := &pgmodels.SyncRecord{
		ProductID:     productID,
		TargetKind:    string(target.Kind),
		TargetID:      target.ID,
		Status:        string(models.RecordPending),
		Direction:     string(direction),
		PendingFields: "[]",
		MaxRetries:    int32(maxRetries),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	columnList := pg.ColumnList{
		table.SyncRecord.ProductID,
		table.SyncRecord.TargetKind,
		table.SyncRecord.TargetID,
		table.SyncRecord.Status,
		table.SyncRecord.Direction,
		table.SyncRecord.PendingFields,
		table.SyncRecord.MaxRetries,
		table.SyncRecord.CreatedAt,
		table.SyncRecord.UpdatedAt,
	}

	// no-op update makes RETURNING work for already existing row
	err := table.SyncRecord.INSERT(columnList).
		MODEL(record).
		ON_CONFLICT(table.SyncRecord.ProductID, table.SyncRecord.TargetKind, table.SyncRecord.TargetID).
		DO_UPDATE(
			pg.SET(
				table.SyncRecord.ProductID.SET(table.SyncRecord.EXCLUDED.ProductID),
			),
		).
		RETURNING(table.SyncRecord.AllColumns).
		QueryContext(ctx, p.conn(), record)
	if err != nil {
		return nil, fmt.Errorf("can't ensure sync record of product %d in %s: %w", productID, target, err)
	}

	return FromDBSyncRecord(record)
}

// GetRecord returns sync record by ID.
func (p Postgres) GetRecord(ctx context.Context, id int64) (*models.SyncRecord, error) {
	record, err := getRecord(ctx, p.conn(), id, false)
	if err != nil {
		return nil, err
	}

	return FromDBSyncRecord(record)
}

// RecordIDsByProduct returns IDs of every sync record of product.
func (p Postgres) RecordIDsByProduct(ctx context.Context, productID int64) ([]int64, error) {
	var records []pgmodels.SyncRecord
	err := table.SyncRecord.SELECT(table.SyncRecord.ID).
		WHERE(table.SyncRecord.ProductID.EQ(pg.Int64(productID))).
		ORDER_BY(table.SyncRecord.ID.ASC()).
		QueryContext(ctx, p.conn(), &records)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("can't get sync records of product %d: %w", productID, err)
	}

	return lo.Map(records, func(r pgmodels.SyncRecord, _ int) int64 {
		return r.ID
	}), nil
}

// SaveRecord writes record only if its stored status still equals expected and nobody wrote it since
// record was read. It returns platform.ErrStaleWrite otherwise. On success record carries new version.
func (p Postgres) SaveRecord(ctx context.Context, record *models.SyncRecord, expected models.RecordStatus) error {
	dbRecord, err := ToDBSyncRecord(record)
	if err != nil {
		return err
	}
	dbRecord.Version = record.Version + 1

	err = updateRecord(ctx, p.conn(), dbRecord, pg.AND(
		table.SyncRecord.ID.EQ(pg.Int64(record.ID)),
		table.SyncRecord.Status.EQ(pg.String(string(expected))),
		table.SyncRecord.Version.EQ(pg.Int64(record.Version)),
	))
	if err != nil {
		return err
	}

	record.Version = dbRecord.Version
	return nil
}

// ModifyRecord loads record under row lock, applies modify and writes it back when modify returns true.
func (p Postgres) ModifyRecord(
	ctx context.Context,
	id int64,
	modify func(record *models.SyncRecord) (bool, error),
) (*models.SyncRecord, error) {
	var result *models.SyncRecord

	err := p.inTransaction(ctx, func(db qrm.DB) error {
		stored, err := getRecord(ctx, db, id, true)
		if err != nil {
			return err
		}

		record, err := FromDBSyncRecord(stored)
		if err != nil {
			return err
		}

		write, err := modify(record)
		if err != nil {
			return err
		}

		result = record
		if !write {
			return nil
		}

		dbRecord, err := ToDBSyncRecord(record)
		if err != nil {
			return err
		}
		dbRecord.Version = stored.Version + 1

		if err := updateRecord(ctx, db, dbRecord, table.SyncRecord.ID.EQ(pg.Int64(id))); err != nil {
			return err
		}

		record.Version = dbRecord.Version
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// BindExternalID sets record's external ID if it has none yet.
func (p Postgres) BindExternalID(ctx context.Context, id int64, externalID string) error {
	_, err := table.SyncRecord.UPDATE().
		SET(
			table.SyncRecord.ExternalID.SET(pg.String(externalID)),
			table.SyncRecord.UpdatedAt.SET(pg.TimestampzT(time.Now().UTC())),
			table.SyncRecord.Version.SET(table.SyncRecord.Version.ADD(pg.Int(1))),
		).
		WHERE(pg.AND(
			table.SyncRecord.ID.EQ(pg.Int64(id)),
			table.SyncRecord.ExternalID.IS_NULL(),
		)).
		ExecContext(ctx, p.conn())
	if err != nil {
		return fmt.Errorf("can't bind external ID of record %d: %w", id, err)
	}

	return nil
}

// DueRecords returns records of target which should be taken by job run, highest priority first.
// Limit lower than 1 means no limit.
func (p Postgres) DueRecords(ctx context.Context, target models.TargetRef, now time.Time, limit int) ([]models.SyncRecord, error) {
	retryPassed := table.SyncRecord.NextRetryAt.LT_EQ(pg.TimestampzT(now))

	stmt := table.SyncRecord.SELECT(table.SyncRecord.AllColumns).
		WHERE(pg.AND(
			table.SyncRecord.TargetKind.EQ(pg.String(string(target.Kind))),
			table.SyncRecord.TargetID.EQ(pg.Int64(target.ID)),
			table.SyncRecord.RetryCount.LT_EQ(table.SyncRecord.MaxRetries),
			pg.OR(
				pg.AND(
					table.SyncRecord.Status.EQ(pg.String(string(models.RecordPending))),
					pg.OR(table.SyncRecord.NextRetryAt.IS_NULL(), retryPassed),
				),
				pg.AND(
					table.SyncRecord.Status.EQ(pg.String(string(models.RecordError))),
					retryPassed,
				),
			),
		)).
		ORDER_BY(
			table.SyncRecord.Priority.DESC(),
			table.SyncRecord.NextRetryAt.ASC().NULLS_FIRST(),
			table.SyncRecord.ID.ASC(),
		)
	if limit > 0 {
		stmt = stmt.LIMIT(int64(limit))
	}

	return p.queryRecords(ctx, stmt)
}

// StaleRecords returns records left in syncing since before cutoff.
func (p Postgres) StaleRecords(ctx context.Context, cutoff time.Time, limit int) ([]models.SyncRecord, error) {
	stmt := table.SyncRecord.SELECT(table.SyncRecord.AllColumns).
		WHERE(pg.AND(
			table.SyncRecord.Status.EQ(pg.String(string(models.RecordSyncing))),
			pg.OR(
				table.SyncRecord.LastSyncAt.IS_NULL(),
				table.SyncRecord.LastSyncAt.LT(pg.TimestampzT(cutoff)),
			),
		)).
		ORDER_BY(table.SyncRecord.ID.ASC())
	if limit > 0 {
		stmt = stmt.LIMIT(int64(limit))
	}

	return p.queryRecords(ctx, stmt)
}

type statusCount struct {
	Status string `alias:"sync_record.status"`
	Count  int64  `alias:"status_count.count"`
}

// RecordStats returns number of target's records per status.
func (p Postgres) RecordStats(ctx context.Context, target models.TargetRef) (models.SyncStats, error) {
	var counts []statusCount
	err := table.SyncRecord.SELECT(
		table.SyncRecord.Status,
		pg.COUNT(table.SyncRecord.ID).AS("status_count.count"),
	).
		WHERE(pg.AND(
			table.SyncRecord.TargetKind.EQ(pg.String(string(target.Kind))),
			table.SyncRecord.TargetID.EQ(pg.Int64(target.ID)),
		)).
		GROUP_BY(table.SyncRecord.Status).
		QueryContext(ctx, p.conn(), &counts)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return models.SyncStats{}, fmt.Errorf("can't count sync records of %s: %w", target, err)
	}

	var stats models.SyncStats
	for _, c := range counts {
		stats.Add(models.RecordStatus(c.Status), int(c.Count))
	}

	return stats, nil
}

// RecordStatsByTarget returns RecordStats of every provided target.
func (p Postgres) RecordStatsByTarget(ctx context.Context, targets []models.TargetRef) (map[models.TargetRef]models.SyncStats, error) {
	result := make(map[models.TargetRef]models.SyncStats, len(targets))
	mu := sync.Mutex{}

	errGroup, egCtx := errgroup.WithContext(ctx)
	errGroup.SetLimit(p.parallelLimit)

	for _, target := range targets {
		errGroup.Go(func() error {
			stats, err := p.RecordStats(egCtx, target)
			if err != nil {
				return err
			}

			mu.Lock()
			result[target] = stats
			mu.Unlock()

			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

func (p Postgres) queryRecords(ctx context.Context, stmt pg.SelectStatement) ([]models.SyncRecord, error) {
	var dbRecords []pgmodels.SyncRecord
	err := stmt.QueryContext(ctx, p.conn(), &dbRecords)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("can't get sync records: %w", err)
	}

	records := make([]models.SyncRecord, 0, len(dbRecords))
	for ix := range dbRecords {
		record, err := FromDBSyncRecord(&dbRecords[ix])
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	return records, nil
}

func getRecord(ctx context.Context, db qrm.DB, id int64, lock bool) (*pgmodels.SyncRecord, error) {
	stmt := table.SyncRecord.SELECT(table.SyncRecord.AllColumns).
		WHERE(table.SyncRecord.ID.EQ(pg.Int64(id)))
	if lock {
		stmt = stmt.FOR(pg.UPDATE())
	}

	var record pgmodels.SyncRecord
	err := stmt.QueryContext(ctx, db, &record)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("%w: sync record %d", platform.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("can't get sync record %d: %w", id, err)
	}

	return &record, nil
}

func updateRecord(ctx context.Context, db qrm.DB, record *pgmodels.SyncRecord, condition pg.BoolExpression) error {
	columnList := table.SyncRecord.AllColumns.Except(
		table.SyncRecord.ID,
		table.SyncRecord.ProductID,
		table.SyncRecord.TargetKind,
		table.SyncRecord.TargetID,
		table.SyncRecord.CreatedAt,
	)

	result, err := table.SyncRecord.UPDATE(columnList).
		MODEL(record).
		WHERE(condition).
		ExecContext(ctx, db)
	if err != nil {
		return fmt.Errorf("can't update sync record %d: %w", record.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't update sync record %d: %w", record.ID, err)
	}
	if rowsAffected == 0 {
		return platform.ErrStaleWrite
	}

	return nil
}
