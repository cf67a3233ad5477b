package models

import "time"

// MappingsSchemaVersion is current version of CategoryMappings layout.
const MappingsSchemaVersion = 2

// UnmappedID is sentinel stored for local entity not yet mapped to target entity.
const UnmappedID int64 = 0

// MappingSource tells where mapping set came from. Used for audit only.
type MappingSource string

const (
	SourceManual    MappingSource = "manual"
	SourcePull      MappingSource = "pull"
	SourceSync      MappingSource = "sync"
	SourceMigration MappingSource = "migration"
	SourceRefresh   MappingSource = "refresh"
)

// MappingsMetadata is provenance of mapping set.
type MappingsMetadata struct {
	Source      MappingSource `json:"source"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

// CategoryMappings couples UI-facing category selection with resolved target IDs.
type CategoryMappings struct {
	SchemaVersion int              `json:"schemaVersion"`
	Selected      []int64          `json:"selected"`
	Primary       *int64           `json:"primary,omitempty"`
	Mappings      map[int64]int64  `json:"mappings"`
	Metadata      MappingsMetadata `json:"metadata"`
}
