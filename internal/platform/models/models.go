package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TargetKind is kind of external system products are propagated to.
type TargetKind string

const (
	// TargetShop is storefront target (e.g. PrestaShop instance).
	TargetShop TargetKind = "shop"
	// TargetERP is ERP connection target (e.g. Baselinker, Subiekt GT, Dynamics).
	TargetERP TargetKind = "erp"
)

// Valid reports whether kind is one of known target kinds.
func (k TargetKind) Valid() bool {
	return k == TargetShop || k == TargetERP
}

// TargetRef identifies single target instance.
// Use ShopTarget or ERPTarget to build it.
type TargetRef struct {
	Kind TargetKind
	ID   int64
}

// ShopTarget returns reference to shop with provided id.
func ShopTarget(id int64) TargetRef {
	return TargetRef{Kind: TargetShop, ID: id}
}

// ERPTarget returns reference to ERP connection with provided id.
func ERPTarget(id int64) TargetRef {
	return TargetRef{Kind: TargetERP, ID: id}
}

// String returns target in "kind:id" form.
func (t TargetRef) String() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}

// ParseTargetRef parses target in "kind:id" form.
func ParseTargetRef(s string) (TargetRef, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok {
		return TargetRef{}, fmt.Errorf("invalid target %q: missing separator", s)
	}

	if !TargetKind(kind).Valid() {
		return TargetRef{}, fmt.Errorf("invalid target %q: unknown kind", s)
	}

	parsedID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || parsedID <= 0 {
		return TargetRef{}, fmt.Errorf("invalid target %q: bad id", s)
	}

	return TargetRef{Kind: TargetKind(kind), ID: parsedID}, nil
}

// RecordStatus is sync record status.
type RecordStatus string

const (
	RecordPending  RecordStatus = "pending"
	RecordSyncing  RecordStatus = "syncing"
	RecordSynced   RecordStatus = "synced"
	RecordError    RecordStatus = "error"
	RecordConflict RecordStatus = "conflict"
	RecordDisabled RecordStatus = "disabled"
)

// Direction is allowed flow of data between catalog and target.
type Direction string

const (
	DirectionToTarget      Direction = "to_target"
	DirectionFromTarget    Direction = "from_target"
	DirectionBidirectional Direction = "bidirectional"
)

// CanPush reports whether local changes may be sent to target.
func (d Direction) CanPush() bool {
	return d == DirectionToTarget || d == DirectionBidirectional
}

// CanPull reports whether target changes may be fetched.
func (d Direction) CanPull() bool {
	return d == DirectionFromTarget || d == DirectionBidirectional
}

// Action is what should be done with a record to reconcile it.
type Action string

const (
	ActionNoOp     Action = "noop"
	ActionPush     Action = "push"
	ActionPull     Action = "pull"
	ActionConflict Action = "conflict"
)

// ReasonCode is machine-readable reason of state transition.
type ReasonCode string

const (
	ReasonTransientError    ReasonCode = "transient_error"
	ReasonPermanentError    ReasonCode = "permanent_error"
	ReasonConflict          ReasonCode = "conflict"
	ReasonRetriesExhausted  ReasonCode = "retries_exhausted"
	ReasonMappingIncomplete ReasonCode = "mapping_incomplete"
	ReasonStaleReclaimed    ReasonCode = "stale_reclaimed"
	ReasonTimeout           ReasonCode = "timeout"
	ReasonCancelled         ReasonCode = "cancelled"
	ReasonConflictResolved  ReasonCode = "conflict_resolved"
	ReasonManual            ReasonCode = "manual"
	ReasonSynced            ReasonCode = "synced"
	ReasonLocalChange       ReasonCode = "local_change"
	ReasonClaimed           ReasonCode = "claimed"
	ReasonRetryScheduled    ReasonCode = "retry_scheduled"
)

// FieldSet is target-relevant projection of product fields keyed by canonical field name.
type FieldSet map[string]any

// SyncRecord is synchronization state of single product in single target.
type SyncRecord struct {
	ID        int64
	ProductID int64
	Target    TargetRef
	Status    RecordStatus
	Direction Direction
	Priority  int

	ExternalID         *string
	LocalChecksum      *string
	LastSyncedChecksum *string
	ExternalUpdatedAt  *time.Time

	LastSyncAt *time.Time
	LastPushAt *time.Time
	LastPullAt *time.Time

	PendingFields []string

	ErrorMessage *string
	ErrorReason  *ReasonCode
	RetryCount   int
	MaxRetries   int
	NextRetryAt  *time.Time

	ConflictData       *ConflictData
	ConflictDetectedAt *time.Time
	ForcedAction       *Action

	CategoryMappings *CategoryMappings

	CreatedAt time.Time
	UpdatedAt time.Time

	// Version is bumped by every write, so stale copy can't overwrite newer state.
	Version int64
}

// ProductSnapshot is read-only view of product fields consumed by the sync engine.
type ProductSnapshot struct {
	ProductID        int64             `json:"-"`
	SKU              string            `json:"sku"`
	Name             string            `json:"name"`
	Slug             string            `json:"slug,omitempty"`
	EAN              *string           `json:"ean,omitempty"`
	Manufacturer     *string           `json:"manufacturer,omitempty"`
	SupplierCode     *string           `json:"supplierCode,omitempty"`
	ShortDescription string            `json:"shortDescription,omitempty"`
	LongDescription  string            `json:"longDescription,omitempty"`
	MetaTitle        string            `json:"metaTitle,omitempty"`
	MetaDescription  string            `json:"metaDescription,omitempty"`
	ProductTypeID    *int64            `json:"productTypeId,omitempty"`
	Weight           *float64          `json:"weight,omitempty"`
	Height           *float64          `json:"height,omitempty"`
	Width            *float64          `json:"width,omitempty"`
	Length           *float64          `json:"length,omitempty"`
	TaxRate          *float64          `json:"taxRate,omitempty"`
	Price            *float64          `json:"price,omitempty"`
	Stock            *int64            `json:"stock,omitempty"`
	IsActive         bool              `json:"isActive"`
	IsPublished      bool              `json:"isPublished"`
	SortOrder        int               `json:"sortOrder,omitempty"`
	Attributes       map[string]string `json:"attributes,omitempty"`
	Warehouses       map[string]int64  `json:"warehouses,omitempty"`
	UpdatedAt        time.Time         `json:"-"`
}

// PushResult is target response for pushed product.
type PushResult struct {
	ExternalID string
	Timestamp  time.Time
}

// PullResult is product data fetched from target.
type PullResult struct {
	Payload   FieldSet
	Timestamp time.Time
}

// SyncStats is number of records per status in single target.
type SyncStats struct {
	Total    int
	Pending  int
	Syncing  int
	Synced   int
	Error    int
	Conflict int
	Disabled int
}

// Add counts n records with status.
func (s *SyncStats) Add(status RecordStatus, n int) {
	s.Total += n
	switch status {
	case RecordPending:
		s.Pending += n
	case RecordSyncing:
		s.Syncing += n
	case RecordSynced:
		s.Synced += n
	case RecordError:
		s.Error += n
	case RecordConflict:
		s.Conflict += n
	case RecordDisabled:
		s.Disabled += n
	}
}

// HealthPercentage returns percentage of enabled records which are in sync.
func (s SyncStats) HealthPercentage() float64 {
	enabled := s.Total - s.Disabled
	if enabled <= 0 {
		return 100
	}

	return float64(s.Synced) / float64(enabled) * 100
}
