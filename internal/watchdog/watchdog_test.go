package watchdog_test

import (
	"context"
	"testing"
	"time"

	"github.com/MichalMitros/product-sync/internal/audit"
	"github.com/MichalMitros/product-sync/internal/job"
	"github.com/MichalMitros/product-sync/internal/platform"
	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/MichalMitros/product-sync/internal/platform/models/modelstesting"
	"github.com/MichalMitros/product-sync/internal/watchdog"
	"github.com/MichalMitros/product-sync/internal/watchdog/mocks"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time {
	return now
}

var cfg = watchdog.Config{
	Schedule:   "@every 1m",
	StaleAfter: 10 * time.Minute,
	BatchLimit: 20,
}

func newWatchdog(t *testing.T, cfg watchdog.Config) (*watchdog.Watchdog, *mocks.Storage, *mocks.Reclaimer, *mocks.Dispatcher) {
	storage := mocks.NewStorage(t)
	reclaimer := mocks.NewReclaimer(t)
	dispatcher := mocks.NewDispatcher(t)
	logger := zerolog.Nop()

	w := watchdog.New(
		storage,
		reclaimer,
		dispatcher,
		job.NewLifecycle(audit.Discard, job.WithClock(fixedClock{})),
		cfg,
		&logger,
		watchdog.WithClock(fixedClock{}),
	)

	return w, storage, reclaimer, dispatcher
}

func expectIdle(storage *mocks.Storage, except ...string) {
	if !lo.Contains(except, "RunningJobs") {
		storage.On("RunningJobs", mock.Anything).Return([]models.SyncJob{}, nil)
	}
	if !lo.Contains(except, "StaleRecords") {
		storage.On("StaleRecords", mock.Anything, mock.Anything, mock.Anything).Return([]models.SyncRecord{}, nil)
	}
	if !lo.Contains(except, "DueJobs") {
		storage.On("DueJobs", mock.Anything, mock.Anything, mock.Anything).Return([]models.SyncJob{}, nil)
	}
}

func TestUnitTickTimesOutJobs(t *testing.T) {
	w, storage, _, _ := newWatchdog(t, cfg)
	expectIdle(storage, "RunningJobs")

	hanging := modelstesting.FakeSyncJob(func(j *models.SyncJob) {
		j.Status = models.JobRunning
		j.StartedAt = lo.ToPtr(now.Add(-2 * time.Hour))
		j.TimeoutSeconds = 3600
		j.MaxRetries = 0
	})
	healthy := modelstesting.FakeSyncJob(func(j *models.SyncJob) {
		j.Status = models.JobRunning
		j.StartedAt = lo.ToPtr(now.Add(-time.Minute))
	})
	storage.On("RunningJobs", mock.Anything).Return([]models.SyncJob{hanging, healthy}, nil)
	storage.On("SaveJob", mock.Anything, mock.MatchedBy(func(j *models.SyncJob) bool {
		return j.ID == hanging.ID && j.Status == models.JobTimeout && j.ErrorMessage != nil
	}), models.JobRunning).Return(nil)

	err := w.Tick(context.TODO())

	require.NoError(t, err, "shouldn't return any error")
	storage.AssertNumberOfCalls(t, "SaveJob", 1)
}

func TestUnitTickReclaimsRecords(t *testing.T) {
	w, storage, reclaimer, _ := newWatchdog(t, cfg)
	expectIdle(storage, "StaleRecords")

	stale := []models.SyncRecord{
		modelstesting.FakeSyncRecord(func(r *models.SyncRecord) { r.Status = models.RecordSyncing }),
		modelstesting.FakeSyncRecord(func(r *models.SyncRecord) { r.Status = models.RecordSyncing }),
	}
	storage.On("StaleRecords", mock.Anything, now.Add(-cfg.StaleAfter), cfg.BatchLimit).Return(stale, nil)
	reclaimer.On("Reclaim", mock.Anything, mock.MatchedBy(func(r *models.SyncRecord) bool { return r.ID == stale[0].ID }), cfg.StaleAfter).
		Return(true, nil)
	reclaimer.On("Reclaim", mock.Anything, mock.MatchedBy(func(r *models.SyncRecord) bool { return r.ID == stale[1].ID }), cfg.StaleAfter).
		Return(false, assert.AnError)

	err := w.Tick(context.TODO())

	require.ErrorIs(t, err, assert.AnError, "should return reclaim error")
	reclaimer.AssertNumberOfCalls(t, "Reclaim", 2)
}

func TestUnitTickReclaimsAfterJobTimeout(t *testing.T) {
	tests := map[string]struct {
		staleAfter time.Duration
		want       time.Duration
	}{
		"not set": {
			want: time.Hour,
		},
		"shorter than job timeout": {
			staleAfter: 15 * time.Minute,
			want:       time.Hour,
		},
		"longer than job timeout": {
			staleAfter: 2 * time.Hour,
			want:       2 * time.Hour,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w, storage, _, _ := newWatchdog(t, watchdog.Config{
				Schedule:   cfg.Schedule,
				StaleAfter: tt.staleAfter,
				JobTimeout: time.Hour,
				BatchLimit: cfg.BatchLimit,
			})
			expectIdle(storage, "StaleRecords")
			storage.On("StaleRecords", mock.Anything, now.Add(-tt.want), cfg.BatchLimit).Return([]models.SyncRecord{}, nil)

			err := w.Tick(context.TODO())

			require.NoError(t, err, "shouldn't return any error")
		})
	}
}

func TestUnitTickDispatchesJobs(t *testing.T) {
	parentID := "parent"
	tests := map[string]struct {
		parentStatus models.JobStatus
		wantRun      bool
		wantCancel   bool
	}{
		"parent completed": {
			parentStatus: models.JobCompleted,
			wantRun:      true,
		},
		"parent completed with errors": {
			parentStatus: models.JobCompletedWithErrors,
			wantRun:      true,
		},
		"parent running": {
			parentStatus: models.JobRunning,
		},
		"parent waiting for retry": {
			parentStatus: models.JobPending,
		},
		"parent failed": {
			parentStatus: models.JobFailed,
			wantCancel:   true,
		},
		"parent cancelled": {
			parentStatus: models.JobCancelled,
			wantCancel:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w, storage, _, dispatcher := newWatchdog(t, cfg)
			expectIdle(storage, "DueJobs")

			independent := modelstesting.FakeSyncJob()
			dependent := modelstesting.FakeSyncJob(func(j *models.SyncJob) { j.ParentJobID = &parentID })
			storage.On("DueJobs", mock.Anything, now, cfg.BatchLimit).Return([]models.SyncJob{independent, dependent}, nil)
			storage.On("JobStatus", mock.Anything, parentID).Return(tt.parentStatus, nil)
			dispatcher.On("RunJob", mock.Anything, independent.ID).Return(nil)
			if tt.wantRun {
				dispatcher.On("RunJob", mock.Anything, dependent.ID).Return(nil)
			}
			if tt.wantCancel {
				storage.On("SaveJob", mock.Anything, mock.MatchedBy(func(j *models.SyncJob) bool {
					return j.ID == dependent.ID && j.Status == models.JobCancelled
				}), models.JobPending).Return(nil)
			}

			err := w.Tick(context.TODO())

			require.NoError(t, err, "shouldn't return any error")
			if !tt.wantRun {
				dispatcher.AssertNotCalled(t, "RunJob", mock.Anything, dependent.ID)
			}
		})
	}
}

func TestUnitTickKeepsGoingAfterFailure(t *testing.T) {
	w, storage, _, dispatcher := newWatchdog(t, cfg)
	expectIdle(storage, "RunningJobs", "DueJobs")

	due := modelstesting.FakeSyncJob()
	storage.On("RunningJobs", mock.Anything).Return(nil, assert.AnError)
	storage.On("DueJobs", mock.Anything, now, cfg.BatchLimit).Return([]models.SyncJob{due}, nil)
	dispatcher.On("RunJob", mock.Anything, due.ID).Return(nil)

	err := w.Tick(context.TODO())

	require.ErrorIs(t, err, assert.AnError, "should return storage error")
}

func TestUnitTickIgnoresJobsFinishedMeanwhile(t *testing.T) {
	w, storage, _, _ := newWatchdog(t, cfg)
	expectIdle(storage, "RunningJobs")

	hanging := modelstesting.FakeSyncJob(func(j *models.SyncJob) {
		j.Status = models.JobRunning
		j.StartedAt = lo.ToPtr(now.Add(-2 * time.Hour))
		j.TimeoutSeconds = 60
	})
	storage.On("RunningJobs", mock.Anything).Return([]models.SyncJob{hanging}, nil)
	storage.On("SaveJob", mock.Anything, mock.Anything, models.JobRunning).Return(platform.ErrStaleWrite)

	err := w.Tick(context.TODO())

	require.NoError(t, err, "shouldn't return any error")
}

func TestUnitTickReportsHealth(t *testing.T) {
	targets := []models.TargetRef{models.ShopTarget(1), models.ERPTarget(2)}
	w, storage, _, _ := newWatchdog(t, watchdog.Config{
		Schedule:   cfg.Schedule,
		StaleAfter: cfg.StaleAfter,
		BatchLimit: cfg.BatchLimit,
		Targets:    targets,
	})
	expectIdle(storage)
	storage.On("RecordStatsByTarget", mock.Anything, targets).Return(map[models.TargetRef]models.SyncStats{
		targets[0]: {Total: 2, Synced: 2},
		targets[1]: {Total: 1, Error: 1},
	}, nil)

	err := w.Tick(context.TODO())

	require.NoError(t, err, "shouldn't return any error")
}

func TestUnitStartInvalidSchedule(t *testing.T) {
	w, _, _, _ := newWatchdog(t, watchdog.Config{Schedule: "every now and then"})

	err := w.Start(context.TODO())

	require.Error(t, err, "should reject schedule")
}
