package models

import "time"

// ConflictSchemaVersion is current version of ConflictData layout.
const ConflictSchemaVersion = 1

// ConflictSide tells which side changed conflicting field since last agreed state.
type ConflictSide string

const (
	SideLocal    ConflictSide = "local"
	SideExternal ConflictSide = "external"
)

// Resolution is operator decision closing a conflict.
type Resolution string

const (
	ResolutionKeepLocal    Resolution = "keep_local"
	ResolutionKeepExternal Resolution = "keep_external"
	ResolutionMerge        Resolution = "merge"
)

// Valid reports whether resolution is one of known resolutions.
func (r Resolution) Valid() bool {
	return r == ResolutionKeepLocal || r == ResolutionKeepExternal || r == ResolutionMerge
}

// FieldConflict is single diverged field with both values.
type FieldConflict struct {
	Field      string       `json:"field"`
	Local      any          `json:"local"`
	External   any          `json:"external"`
	Side       ConflictSide `json:"side"`
	DetectedAt time.Time    `json:"detectedAt"`
}

// ConflictResolution is audit entry appended when conflict gets resolved.
type ConflictResolution struct {
	ResolvedAt       time.Time       `json:"resolvedAt"`
	Resolution       Resolution      `json:"resolution"`
	ResolvedData     FieldSet        `json:"resolvedData,omitempty"`
	OriginalConflict []FieldConflict `json:"originalConflict"`
}

// ConflictData holds active conflict (if any) and history of resolved ones.
type ConflictData struct {
	SchemaVersion int                  `json:"schemaVersion"`
	DetectedAt    *time.Time           `json:"detectedAt,omitempty"`
	Fields        []FieldConflict      `json:"fields,omitempty"`
	History       []ConflictResolution `json:"history,omitempty"`
}

// Active reports whether conflict data describes unresolved conflict.
func (c *ConflictData) Active() bool {
	return c != nil && len(c.Fields) > 0
}
