package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MichalMitros/product-sync/internal/platform"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/MichalMitros/product-sync/internal/platform/storage/gen/postgres/public/table"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"

	pgmodels "github.com/MichalMitros/product-sync/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
)

// CreateJob inserts new job. Job with parent is appended to parent's dependent jobs.
func (p Postgres) CreateJob(ctx context.Context, job *models.SyncJob) error {
	dbJob, err := ToDBSyncJob(job)
	if err != nil {
		return err
	}

	return p.inTransaction(ctx, func(db qrm.DB) error {
		_, err := table.SyncJob.INSERT(table.SyncJob.AllColumns).
			MODEL(dbJob).
			ExecContext(ctx, db)
		if err != nil {
			return fmt.Errorf("can't insert job %s: %w", job.ID, err)
		}

		if dbJob.ParentJobID == nil {
			return nil
		}

		return addDependentJob(ctx, db, *dbJob.ParentJobID, job.ID)
	})
}

// GetJob returns job by ID.
func (p Postgres) GetJob(ctx context.Context, id string) (*models.SyncJob, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: job %q", platform.ErrNotFound, id)
	}

	var job pgmodels.SyncJob
	err = table.SyncJob.SELECT(table.SyncJob.AllColumns).
		WHERE(table.SyncJob.ID.EQ(pg.UUID(jobID))).
		QueryContext(ctx, p.conn(), &job)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("%w: job %s", platform.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("can't get job %s: %w", id, err)
	}

	return FromDBSyncJob(&job)
}

// JobStatus returns current status of job.
func (p Postgres) JobStatus(ctx context.Context, id string) (models.JobStatus, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: job %q", platform.ErrNotFound, id)
	}

	var job pgmodels.SyncJob
	err = table.SyncJob.SELECT(table.SyncJob.Status).
		WHERE(table.SyncJob.ID.EQ(pg.UUID(jobID))).
		QueryContext(ctx, p.conn(), &job)
	if errors.Is(err, qrm.ErrNoRows) {
		return "", fmt.Errorf("%w: job %s", platform.ErrNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("can't get status of job %s: %w", id, err)
	}

	return models.JobStatus(job.Status), nil
}

// SaveJob writes job only if its stored status still equals expected.
// It returns platform.ErrStaleWrite otherwise.
func (p Postgres) SaveJob(ctx context.Context, job *models.SyncJob, expected models.JobStatus) error {
	dbJob, err := ToDBSyncJob(job)
	if err != nil {
		return err
	}

	columnList := table.SyncJob.AllColumns.Except(
		table.SyncJob.ID,
		table.SyncJob.CreatedAt,
		table.SyncJob.ParentJobID,
		table.SyncJob.DependentJobs,
	)

	result, err := table.SyncJob.UPDATE(columnList).
		MODEL(dbJob).
		WHERE(pg.AND(
			table.SyncJob.ID.EQ(pg.UUID(dbJob.ID)),
			table.SyncJob.Status.EQ(pg.String(string(expected))),
		)).
		ExecContext(ctx, p.conn())
	if err != nil {
		return fmt.Errorf("can't update job %s: %w", job.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't update job %s: %w", job.ID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("can't update job %s: %w", job.ID, platform.ErrStaleWrite)
	}

	return nil
}

// DueJobs returns pending jobs whose schedule and retry time passed, oldest first.
func (p Postgres) DueJobs(ctx context.Context, now time.Time, limit int) ([]models.SyncJob, error) {
	stmt := table.SyncJob.SELECT(table.SyncJob.AllColumns).
		WHERE(pg.AND(
			table.SyncJob.Status.EQ(pg.String(string(models.JobPending))),
			pg.OR(
				table.SyncJob.ScheduledAt.IS_NULL(),
				table.SyncJob.ScheduledAt.LT_EQ(pg.TimestampzT(now)),
			),
			pg.OR(
				table.SyncJob.NextRetryAt.IS_NULL(),
				table.SyncJob.NextRetryAt.LT_EQ(pg.TimestampzT(now)),
			),
		)).
		ORDER_BY(table.SyncJob.CreatedAt.ASC())
	if limit > 0 {
		stmt = stmt.LIMIT(int64(limit))
	}

	return p.queryJobs(ctx, stmt)
}

// RunningJobs returns every running job.
func (p Postgres) RunningJobs(ctx context.Context) ([]models.SyncJob, error) {
	stmt := table.SyncJob.SELECT(table.SyncJob.AllColumns).
		WHERE(table.SyncJob.Status.EQ(pg.String(string(models.JobRunning)))).
		ORDER_BY(table.SyncJob.StartedAt.ASC())

	return p.queryJobs(ctx, stmt)
}

func (p Postgres) queryJobs(ctx context.Context, stmt pg.SelectStatement) ([]models.SyncJob, error) {
	var dbJobs []pgmodels.SyncJob
	err := stmt.QueryContext(ctx, p.conn(), &dbJobs)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("can't get jobs: %w", err)
	}

	jobs := make([]models.SyncJob, 0, len(dbJobs))
	for ix := range dbJobs {
		job, err := FromDBSyncJob(&dbJobs[ix])
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}

	return jobs, nil
}

func addDependentJob(ctx context.Context, db qrm.DB, parentID uuid.UUID, childID string) error {
	var parent pgmodels.SyncJob
	err := table.SyncJob.SELECT(table.SyncJob.ID, table.SyncJob.DependentJobs).
		WHERE(table.SyncJob.ID.EQ(pg.UUID(parentID))).
		FOR(pg.UPDATE()).
		QueryContext(ctx, db, &parent)
	if errors.Is(err, qrm.ErrNoRows) {
		return fmt.Errorf("%w: parent job %s", platform.ErrNotFound, parentID)
	}
	if err != nil {
		return fmt.Errorf("can't get parent job %s: %w", parentID, err)
	}

	var dependent []string
	if err := unmarshalJSON(parent.DependentJobs, &dependent); err != nil {
		return fmt.Errorf("can't decode dependent jobs of job %s: %w", parentID, err)
	}

	encoded, err := json.Marshal(append(dependent, childID))
	if err != nil {
		return fmt.Errorf("can't encode dependent jobs of job %s: %w", parentID, err)
	}

	_, err = table.SyncJob.UPDATE().
		SET(table.SyncJob.DependentJobs.SET(pg.String(string(encoded)))).
		WHERE(table.SyncJob.ID.EQ(pg.UUID(parentID))).
		ExecContext(ctx, db)
	if err != nil {
		return fmt.Errorf("can't update dependent jobs of job %s: %w", parentID, err)
	}

	return nil
}
