package models

import "time"

// JobStatus is sync job status.
type JobStatus string

const (
	JobPending             JobStatus = "pending"
	JobRunning             JobStatus = "running"
	JobPaused              JobStatus = "paused"
	JobCompleted           JobStatus = "completed"
	JobCompletedWithErrors JobStatus = "completed_with_errors"
	JobFailed              JobStatus = "failed"
	JobCancelled           JobStatus = "cancelled"
	JobTimeout             JobStatus = "timeout"
)

// Finished reports whether job reached one of final statuses.
func (s JobStatus) Finished() bool {
	switch s {
	case JobCompleted, JobCompletedWithErrors, JobFailed, JobCancelled, JobTimeout:
		return true
	default:
		return false
	}
}

// JobType is kind of work done by job.
type JobType string

const (
	JobProductSync  JobType = "product_sync"
	JobCategorySync JobType = "category_sync"
	JobPriceSync    JobType = "price_sync"
	JobStockSync    JobType = "stock_sync"
	JobBulkExport   JobType = "bulk_export"
	JobBulkImport   JobType = "bulk_import"
)

// TriggerType tells what created the job.
type TriggerType string

const (
	TriggerManual    TriggerType = "manual"
	TriggerScheduled TriggerType = "scheduled"
	TriggerWebhook   TriggerType = "webhook"
	TriggerEvent     TriggerType = "event"
	TriggerAPI       TriggerType = "api"
)

// SourceRef identifies where job data comes from (e.g. "catalog", "shop:3").
type SourceRef struct {
	Kind string
	ID   string
}

// JobConfig holds job-level resource knobs.
type JobConfig struct {
	// Parallelism is number of records processed at once.
	Parallelism int `json:"parallelism"`
	// Limit is maximum number of records taken by single run, 0 means no limit.
	Limit int `json:"limit,omitempty"`
	// BlockOnUnmapped skips records with unmapped selected categories.
	BlockOnUnmapped bool `json:"blockOnUnmapped,omitempty"`
	// ProgressEvery is number of processed records between progress flushes.
	ProgressEvery int `json:"progressEvery,omitempty"`
}

// RecordFailure is per-record failure kept for inspection and selective re-run.
type RecordFailure struct {
	RecordID  int64      `json:"recordId"`
	ProductID int64      `json:"productId"`
	Reason    ReasonCode `json:"reason"`
	Message   string     `json:"message"`
}

// ResultSummary is structured job outcome.
type ResultSummary struct {
	Pushed    int             `json:"pushed"`
	Pulled    int             `json:"pulled"`
	Unchanged int             `json:"unchanged"`
	Conflicts int             `json:"conflicts"`
	Skipped   int             `json:"skipped"`
	Failures  []RecordFailure `json:"failures,omitempty"`
}

// Warning is non-fatal job remark.
type Warning struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncJob is single orchestrated batch run over many sync records.
type SyncJob struct {
	ID      string
	Type    JobType
	Name    string
	Source  SourceRef
	Target  TargetRef
	Status  JobStatus
	Trigger TriggerType
	Config  JobConfig

	TotalItems         int
	ProcessedItems     int
	SuccessfulItems    int
	FailedItems        int
	SkippedItems       int
	ProgressPercentage float64

	ScheduledAt     *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
	DurationSeconds int64
	TimeoutSeconds  int

	RetryCount  int
	MaxRetries  int
	RetryDelay  time.Duration
	NextRetryAt *time.Time

	ErrorMessage *string
	ErrorDetails *string
	StackTrace   *string

	MemoryPeakMB          int
	CPUTimeSeconds        float64
	APICallsMade          int
	DBQueries             int
	AvgItemProcessingTime float64 // milliseconds

	ParentJobID   *string
	DependentJobs []string

	ResultSummary    ResultSummary
	ValidationErrors map[string]string
	Warnings         []Warning

	CreatedAt time.Time
	UpdatedAt time.Time
}
