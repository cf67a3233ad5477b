package commander

import "time"

// CommandType tells worker what to do with command.
type CommandType string

const (
	// CommandCreateJob creates pending job, it is run by worker once due.
	CommandCreateJob CommandType = "create_job"
	// CommandRunJob runs pending job right away.
	CommandRunJob CommandType = "run_job"
	// CommandCancelJob cancels job. Running job stops claiming records.
	CommandCancelJob CommandType = "cancel_job"
	// CommandTrackProduct starts product sync with target.
	CommandTrackProduct CommandType = "track_product"
	// CommandProductChanged marks product records as pending.
	CommandProductChanged CommandType = "product_changed"
	// CommandResolveConflict closes record's conflict.
	CommandResolveConflict CommandType = "resolve_conflict"
	// CommandDisableRecord stops record sync.
	CommandDisableRecord CommandType = "disable_record"
	// CommandEnableRecord re-opens disabled record.
	CommandEnableRecord CommandType = "enable_record"
	// CommandResetRetries makes record with exhausted retries retryable again.
	CommandResetRetries CommandType = "reset_retries"
)

// Command is message consumed by sync worker. Only fields relevant for Type are set.
type Command struct {
	Type CommandType `json:"type"`

	JobID     string          `json:"jobId,omitempty"`
	Job       *JobRequest     `json:"job,omitempty"`
	ProductID int64           `json:"productId,omitempty"`
	RecordID  int64           `json:"recordId,omitempty"`
	Target    string          `json:"target,omitempty"`
	Direction string          `json:"direction,omitempty"`
	Fields    []string        `json:"fields,omitempty"`
	Conflict  *ConflictAction `json:"conflict,omitempty"`
}

// JobRequest describes job to create.
type JobRequest struct {
	// Type is job type, e.g. "product_sync".
	Type string `json:"type"`
	Name string `json:"name"`
	// Target is "kind:id" reference, e.g. "shop:3".
	Target      string     `json:"target"`
	Trigger     string     `json:"trigger,omitempty"`
	Parallelism int        `json:"parallelism,omitempty"`
	Limit       int        `json:"limit,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	ParentJobID *string    `json:"parentJobId,omitempty"`
	// BlockOnUnmapped fails records with unmapped categories instead of pushing them.
	BlockOnUnmapped bool `json:"blockOnUnmapped,omitempty"`
}

// ConflictAction is operator decision closing record's conflict.
type ConflictAction struct {
	// Resolution is one of "keep_local", "keep_external", "merge".
	Resolution string         `json:"resolution"`
	Data       map[string]any `json:"data,omitempty"`
}
