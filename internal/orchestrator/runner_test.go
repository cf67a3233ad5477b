package orchestrator_test

import (
	"context"
	"maps"
	"sync"
	"testing"
	"time"

	"github.com/MichalMitros/product-sync/internal/audit"
	"github.com/MichalMitros/product-sync/internal/checksum"
	"github.com/MichalMitros/product-sync/internal/connector"
	connmocks "github.com/MichalMitros/product-sync/internal/connector/mocks"
	"github.com/MichalMitros/product-sync/internal/job"
	"github.com/MichalMitros/product-sync/internal/mapping"
	"github.com/MichalMitros/product-sync/internal/orchestrator"
	"github.com/MichalMitros/product-sync/internal/orchestrator/mocks"
	"github.com/MichalMitros/product-sync/internal/platform"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/MichalMitros/product-sync/internal/platform/models/modelstesting"
	"github.com/MichalMitros/product-sync/internal/syncrecord"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	now    = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	target = models.ShopTarget(3)
)

type fixedClock struct{}

func (fixedClock) Now() time.Time {
	return now
}

type noCategories struct{}

func (noCategories) TargetID(context.Context, models.TargetRef, int64) (int64, bool, error) {
	return 0, false, nil
}

func (noCategories) LocalID(context.Context, models.TargetRef, int64) (int64, bool, error) {
	return 0, false, nil
}

type fixture struct {
	runner  *orchestrator.Runner
	storage *mocks.Storage
	records *mocks.Records
	conn    *connmocks.Connector
	job     *models.SyncJob

	mu    sync.Mutex
	saved []models.SyncJob
}

func newFixture(t *testing.T, ops ...func(j *models.SyncJob)) *fixture {
	storage := mocks.NewStorage(t)
	records := mocks.NewRecords(t)
	conn := &connmocks.Connector{}
	conn.Test(t)

	registry := connector.NewRegistry()
	registry.Register(target, conn)

	logger := zerolog.Nop()
	j := modelstesting.FakeSyncJob(append([]func(j *models.SyncJob){func(j *models.SyncJob) {
		j.Target = target
	}}, ops...)...)

	f := &fixture{
		storage: storage,
		records: records,
		conn:    conn,
		job:     &j,
	}
	f.runner = orchestrator.NewRunner(
		storage,
		records,
		registry,
		mapping.NewResolver(noCategories{}),
		job.NewLifecycle(audit.Discard, job.WithClock(fixedClock{})),
		&logger,
		orchestrator.WithClock(fixedClock{}),
	)

	storage.On("Queries").Return(int64(0)).Maybe()

	return f
}

func (f *fixture) expectSaves() {
	f.storage.On("SaveJob", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.saved = append(f.saved, *args.Get(1).(*models.SyncJob))
		}).
		Return(nil)
}

func pushRecords(count int) []models.SyncRecord {
	return lo.Times(count, func(ix int) models.SyncRecord {
		return modelstesting.FakeSyncRecord(func(r *models.SyncRecord) {
			r.ID = int64(ix + 1)
			r.Target = target
			r.Direction = models.DirectionToTarget
		})
	})
}

func TestUnitRunCompletesWithErrors(t *testing.T) {
	f := newFixture(t)
	f.expectSaves()
	records := pushRecords(10)
	failing := map[int64]bool{8: true, 9: true, 10: true}
	product := modelstesting.FakeProductSnapshot()

	f.storage.On("GetJob", mock.Anything, f.job.ID).Return(f.job, nil)
	f.storage.On("DueRecords", mock.Anything, target, now, 0).Return(records, nil)
	f.storage.On("ProductSnapshot", mock.Anything, mock.Anything).Return(&product, nil)
	f.records.On("Claim", mock.Anything, mock.Anything).Return(true, nil)
	f.records.On("CompleteSync", mock.Anything, mock.Anything, mock.MatchedBy(func(s syncrecord.Synced) bool {
		return s.ExternalID != nil && *s.ExternalID == "ext" && s.Checksum != ""
	})).Return(nil).Times(7)
	f.records.On("Fail", mock.Anything, mock.Anything, models.ReasonTransientError, mock.Anything).Return(nil).Times(3)
	f.conn.On("Push", mock.Anything, mock.MatchedBy(func(r models.SyncRecord) bool { return !failing[r.ID] }), mock.Anything).
		Return(models.PushResult{ExternalID: "ext", Timestamp: now}, nil)
	f.conn.On("Push", mock.Anything, mock.MatchedBy(func(r models.SyncRecord) bool { return failing[r.ID] }), mock.Anything).
		Return(models.PushResult{}, assert.AnError)

	err := f.runner.Run(context.TODO(), f.job.ID)

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, models.JobCompletedWithErrors, f.job.Status, "should complete job with errors")
	assert.Equal(t, 10, f.job.TotalItems, "should count all due records")
	assert.Equal(t, 10, f.job.ProcessedItems, "should process all records")
	assert.Equal(t, 7, f.job.SuccessfulItems, "should count pushed records")
	assert.Equal(t, 3, f.job.FailedItems, "should count failed records")
	assert.Equal(t, 7, f.job.ResultSummary.Pushed, "should summarize pushes")
	assert.Equal(t, 10, f.job.APICallsMade, "should count connector calls")
	assert.InDelta(t, 100.0, f.job.ProgressPercentage, 0.001, "should report full progress")
	require.Len(t, f.job.ResultSummary.Failures, 3, "should keep failed records")
	assert.ElementsMatch(
		t,
		[]int64{8, 9, 10},
		lo.Map(f.job.ResultSummary.Failures, func(r models.RecordFailure, _ int) int64 { return r.RecordID }),
		"should keep IDs of failed records",
	)
	for _, failure := range f.job.ResultSummary.Failures {
		assert.Equal(t, models.ReasonTransientError, failure.Reason, "should classify connector error")
	}

	require.NotEmpty(t, f.saved, "should store job")
	assert.Equal(t, models.JobRunning, f.saved[0].Status, "should store job as running first")
	f.storage.AssertCalled(t, "SaveJob", mock.Anything, mock.Anything, models.JobPending)
}

func TestUnitRunSkipsNotClaimedRecords(t *testing.T) {
	f := newFixture(t)
	f.expectSaves()
	records := pushRecords(4)

	f.storage.On("GetJob", mock.Anything, f.job.ID).Return(f.job, nil)
	f.storage.On("DueRecords", mock.Anything, target, now, 0).Return(records, nil)
	f.records.On("Claim", mock.Anything, mock.MatchedBy(func(r *models.SyncRecord) bool { return r.ID == 4 })).
		Return(false, platform.ErrNotFound)
	f.records.On("Claim", mock.Anything, mock.MatchedBy(func(r *models.SyncRecord) bool { return r.ID == 1 })).
		Return(false, nil)
	f.records.On("Claim", mock.Anything, mock.MatchedBy(func(r *models.SyncRecord) bool { return r.ID == 2 })).
		Return(false, platform.ErrConflictUnresolved)
	f.records.On("Claim", mock.Anything, mock.MatchedBy(func(r *models.SyncRecord) bool { return r.ID == 3 })).
		Return(false, assert.AnError)

	err := f.runner.Run(context.TODO(), f.job.ID)

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, models.JobCompletedWithErrors, f.job.Status, "should complete job with errors")
	assert.Equal(t, 3, f.job.SkippedItems, "should skip records taken by others or deleted")
	assert.Equal(t, 1, f.job.FailedItems, "should fail record with claim error")
	assert.Equal(t, 3, f.job.ResultSummary.Skipped, "should summarize skipped records")
}

func TestUnitRunNotStarted(t *testing.T) {
	testCases := map[string]struct {
		status  models.JobStatus
		saveErr error
	}{
		"job already running": {
			status: models.JobRunning,
		},
		"job taken by other worker": {
			status:  models.JobPending,
			saveErr: platform.ErrStaleWrite,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, func(j *models.SyncJob) { j.Status = tc.status })
			f.storage.On("GetJob", mock.Anything, f.job.ID).Return(f.job, nil)
			if tc.saveErr != nil {
				f.storage.On("SaveJob", mock.Anything, f.job, models.JobPending).Return(tc.saveErr)
			}

			err := f.runner.Run(context.TODO(), f.job.ID)

			require.ErrorIs(t, err, platform.ErrAlreadyRunning, "should report running job")
			f.storage.AssertNotCalled(t, "DueRecords", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUnitRunJobNotFound(t *testing.T) {
	f := newFixture(t)
	f.storage.On("GetJob", mock.Anything, "missing").Return(nil, platform.ErrNotFound)

	err := f.runner.Run(context.TODO(), "missing")

	require.ErrorIs(t, err, platform.ErrNotFound, "should return storage error")
}

func TestUnitRunFailsJob(t *testing.T) {
	t.Run("unknown target", func(t *testing.T) {
		f := newFixture(t, func(j *models.SyncJob) { j.Target = models.ERPTarget(99) })
		f.expectSaves()
		f.storage.On("GetJob", mock.Anything, f.job.ID).Return(f.job, nil)

		err := f.runner.Run(context.TODO(), f.job.ID)

		require.ErrorIs(t, err, connector.ErrUnknownTarget, "should return job failure")
		assert.Equal(t, models.JobPending, f.job.Status, "should schedule job retry")
		assert.Equal(t, 1, f.job.RetryCount, "should count retry")
		require.NotNil(t, f.job.ErrorMessage, "should store error message")
		assert.Equal(t, now.Add(f.job.RetryDelay), *f.job.NextRetryAt, "should delay retry")
	})

	t.Run("due records error without retries", func(t *testing.T) {
		f := newFixture(t, func(j *models.SyncJob) { j.MaxRetries = 0 })
		f.expectSaves()
		f.storage.On("GetJob", mock.Anything, f.job.ID).Return(f.job, nil)
		f.storage.On("DueRecords", mock.Anything, target, now, 0).Return(nil, assert.AnError)

		err := f.runner.Run(context.TODO(), f.job.ID)

		require.ErrorIs(t, err, assert.AnError, "should return job failure")
		assert.Equal(t, models.JobFailed, f.job.Status, "should fail job")
		assert.Nil(t, f.job.NextRetryAt, "shouldn't schedule retry")
	})
}

func TestUnitRunReconcilesBidirectionalRecord(t *testing.T) {
	product := modelstesting.FakeProductSnapshot()
	local, err := checksum.Project(models.TargetShop, product, nil)
	require.NoError(t, err, "shouldn't return any error")
	localSum, err := checksum.Sum(models.TargetShop, local)
	require.NoError(t, err, "shouldn't return any error")

	external := maps.Clone(local)
	external[checksum.FieldName] = "renamed in shop"
	externalUpdatedAt := now.Add(-time.Minute)

	bidirectional := func(lastSynced string) models.SyncRecord {
		return modelstesting.FakeSyncRecord(func(r *models.SyncRecord) {
			r.Target = target
			r.ExternalID = lo.ToPtr("ext-1")
			r.LastSyncedChecksum = lo.ToPtr(lastSynced)
		})
	}

	t.Run("pull", func(t *testing.T) {
		f := newFixture(t)
		f.expectSaves()
		record := bidirectional(localSum)

		f.storage.On("GetJob", mock.Anything, f.job.ID).Return(f.job, nil)
		f.storage.On("DueRecords", mock.Anything, target, now, 0).Return([]models.SyncRecord{record}, nil)
		f.storage.On("ProductSnapshot", mock.Anything, record.ProductID).Return(&product, nil)
		f.storage.On("ApplyProductFields", mock.Anything, record.ProductID, external).Return(nil)
		f.records.On("Claim", mock.Anything, mock.Anything).Return(true, nil)
		f.records.On("CompletePull", mock.Anything, mock.Anything, mock.MatchedBy(func(p syncrecord.Pulled) bool {
			return p.Checksum != localSum && p.ExternalUpdatedAt.Equal(externalUpdatedAt)
		})).Return(nil)
		f.conn.On("FetchUpdatedAt", mock.Anything, mock.Anything).Return(externalUpdatedAt, nil)
		f.conn.On("Pull", mock.Anything, mock.Anything).
			Return(models.PullResult{Payload: external, Timestamp: externalUpdatedAt}, nil)

		err := f.runner.Run(context.TODO(), f.job.ID)

		require.NoError(t, err, "shouldn't return any error")
		assert.Equal(t, models.JobCompleted, f.job.Status, "should complete job")
		assert.Equal(t, 1, f.job.ResultSummary.Pulled, "should summarize pull")
		f.conn.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("conflict", func(t *testing.T) {
		f := newFixture(t)
		f.expectSaves()
		record := bidirectional("agreed long ago")

		f.storage.On("GetJob", mock.Anything, f.job.ID).Return(f.job, nil)
		f.storage.On("DueRecords", mock.Anything, target, now, 0).Return([]models.SyncRecord{record}, nil)
		f.storage.On("ProductSnapshot", mock.Anything, record.ProductID).Return(&product, nil)
		f.records.On("Claim", mock.Anything, mock.Anything).Return(true, nil)
		f.records.On("Conflict", mock.Anything, mock.Anything, mock.MatchedBy(func(fields []models.FieldConflict) bool {
			return len(fields) == 1 && fields[0].Field == checksum.FieldName && fields[0].External == "renamed in shop"
		})).Return(nil)
		f.conn.On("FetchUpdatedAt", mock.Anything, mock.Anything).Return(externalUpdatedAt, nil)
		f.conn.On("Pull", mock.Anything, mock.Anything).
			Return(models.PullResult{Payload: external, Timestamp: externalUpdatedAt}, nil)

		err := f.runner.Run(context.TODO(), f.job.ID)

		require.NoError(t, err, "shouldn't return any error")
		assert.Equal(t, models.JobCompletedWithErrors, f.job.Status, "should complete job with errors")
		assert.Equal(t, 1, f.job.ResultSummary.Conflicts, "should summarize conflict")
		require.Len(t, f.job.ResultSummary.Failures, 1, "should keep conflicted record")
		assert.Equal(t, models.ReasonConflict, f.job.ResultSummary.Failures[0].Reason, "should mark conflict reason")
	})

	t.Run("unchanged", func(t *testing.T) {
		f := newFixture(t)
		f.expectSaves()
		record := bidirectional(localSum)
		record.LastPullAt = lo.ToPtr(now.Add(-time.Hour))
		record.ExternalUpdatedAt = lo.ToPtr(externalUpdatedAt)

		f.storage.On("GetJob", mock.Anything, f.job.ID).Return(f.job, nil)
		f.storage.On("DueRecords", mock.Anything, target, now, 0).Return([]models.SyncRecord{record}, nil)
		f.storage.On("ProductSnapshot", mock.Anything, record.ProductID).Return(&product, nil)
		f.records.On("Claim", mock.Anything, mock.Anything).Return(true, nil)
		f.records.On("CompleteSync", mock.Anything, mock.Anything, syncrecord.Synced{
			Checksum:          localSum,
			ExternalUpdatedAt: lo.ToPtr(externalUpdatedAt),
		}).Return(nil)
		f.conn.On("FetchUpdatedAt", mock.Anything, mock.Anything).Return(externalUpdatedAt, nil)

		err := f.runner.Run(context.TODO(), f.job.ID)

		require.NoError(t, err, "shouldn't return any error")
		assert.Equal(t, models.JobCompleted, f.job.Status, "should complete job")
		assert.Equal(t, 1, f.job.ResultSummary.Unchanged, "should summarize unchanged record")
		f.conn.AssertNotCalled(t, "Pull", mock.Anything, mock.Anything)
	})
}

func TestUnitRunRejectsIncompleteProducts(t *testing.T) {
	f := newFixture(t)
	f.expectSaves()
	records := pushRecords(1)
	product := modelstesting.FakeProductSnapshot(func(p *models.ProductSnapshot) { p.SKU = "" })

	f.storage.On("GetJob", mock.Anything, f.job.ID).Return(f.job, nil)
	f.storage.On("DueRecords", mock.Anything, target, now, 0).Return(records, nil)
	f.storage.On("ProductSnapshot", mock.Anything, mock.Anything).Return(&product, nil)
	f.records.On("Claim", mock.Anything, mock.Anything).Return(true, nil)
	f.records.On("Fail", mock.Anything, mock.Anything, models.ReasonPermanentError, mock.Anything).Return(nil)

	err := f.runner.Run(context.TODO(), f.job.ID)

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, 1, f.job.FailedItems, "should fail record")
	f.conn.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
}

func TestUnitRunBlocksUnmappedCategories(t *testing.T) {
	f := newFixture(t, func(j *models.SyncJob) { j.Config.BlockOnUnmapped = true })
	f.expectSaves()
	records := pushRecords(1)
	records[0].CategoryMappings = modelstesting.FakeCategoryMappings()
	product := modelstesting.FakeProductSnapshot()

	f.storage.On("GetJob", mock.Anything, f.job.ID).Return(f.job, nil)
	f.storage.On("DueRecords", mock.Anything, target, now, 0).Return(records, nil)
	f.storage.On("ProductSnapshot", mock.Anything, mock.Anything).Return(&product, nil)
	f.records.On("Claim", mock.Anything, mock.Anything).Return(true, nil)
	f.records.On("Fail", mock.Anything, mock.Anything, models.ReasonMappingIncomplete, mock.Anything).Return(nil)

	err := f.runner.Run(context.TODO(), f.job.ID)

	require.NoError(t, err, "shouldn't return any error")
	require.Len(t, f.job.ResultSummary.Failures, 1, "should keep failed record")
	assert.Equal(t, models.ReasonMappingIncomplete, f.job.ResultSummary.Failures[0].Reason, "should block unmapped record")
}

func TestUnitRunInterrupted(t *testing.T) {
	f := newFixture(t)
	records := pushRecords(3)
	cancelled := *f.job
	cancelled.Status = models.JobCancelled

	f.storage.On("GetJob", mock.Anything, f.job.ID).Return(f.job, nil).Once()
	f.storage.On("GetJob", mock.Anything, f.job.ID).Return(&cancelled, nil).Once()
	f.storage.On("SaveJob", mock.Anything, f.job, models.JobPending).Return(nil).Once()
	f.storage.On("SaveJob", mock.Anything, f.job, models.JobRunning).Return(platform.ErrStaleWrite).Once()
	f.storage.On("SaveJob", mock.Anything, &cancelled, models.JobCancelled).Return(nil).Once()
	f.storage.On("DueRecords", mock.Anything, target, now, 0).Return(records, nil)

	err := f.runner.Run(context.TODO(), f.job.ID)

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, models.JobCancelled, cancelled.Status, "should keep status set by other actor")
	assert.Equal(t, 3, cancelled.TotalItems, "should store total on interrupted job")
	f.records.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything)
}

func TestUnitRunTelemetry(t *testing.T) {
	telemetry := mocks.NewTelemetry(t)
	telemetry.On("Sample", mock.Anything).Return(128, time.Second, nil).Once()
	telemetry.On("Sample", mock.Anything).Return(256, 3*time.Second, nil)

	f := newFixture(t)
	f.expectSaves()
	logger := zerolog.Nop()
	registry := connector.NewRegistry()
	registry.Register(target, f.conn)
	runner := orchestrator.NewRunner(
		f.storage,
		f.records,
		registry,
		mapping.NewResolver(noCategories{}),
		job.NewLifecycle(audit.Discard, job.WithClock(fixedClock{})),
		&logger,
		orchestrator.WithClock(fixedClock{}),
		orchestrator.WithTelemetry(telemetry),
	)

	f.storage.On("GetJob", mock.Anything, f.job.ID).Return(f.job, nil)
	f.storage.On("DueRecords", mock.Anything, target, now, 0).Return([]models.SyncRecord{}, nil)

	err := runner.Run(context.TODO(), f.job.ID)

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, models.JobCompleted, f.job.Status, "should complete empty job")
	assert.Equal(t, 256, f.job.MemoryPeakMB, "should store memory peak")
	assert.InDelta(t, 2.0, f.job.CPUTimeSeconds, 0.001, "should store CPU time consumed by job")
}
