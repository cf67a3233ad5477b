package connector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MichalMitros/product-sync/internal/platform/models"
)

//go:generate mockery --name Connector --filename connector.go

var (
	// ErrTransient is returned for failures which may disappear on retry (network, timeouts, 5xx).
	ErrTransient = errors.New("transient target error")
	// ErrPermanent is returned for failures which retry won't fix (rejected payload, missing entity).
	ErrPermanent = errors.New("permanent target error")
	// ErrUnknownTarget is returned when there is no connector registered for target.
	ErrUnknownTarget = errors.New("no connector for target")
)

// Connector exchanges product data with single target.
type Connector interface {
	// Push sends payload to target. Record without external ID is created in target.
	Push(ctx context.Context, record models.SyncRecord, payload models.FieldSet) (models.PushResult, error)
	// Pull fetches current target data of record.
	Pull(ctx context.Context, record models.SyncRecord) (models.PullResult, error)
	// FetchUpdatedAt returns target modification time of entity without fetching its data.
	FetchUpdatedAt(ctx context.Context, record models.SyncRecord) (time.Time, error)
}

// Classify maps connector error to reason code. Unknown errors are treated as transient.
func Classify(err error) models.ReasonCode {
	if errors.Is(err, ErrPermanent) {
		return models.ReasonPermanentError
	}

	return models.ReasonTransientError
}

// Registry holds connectors of configured targets.
type Registry struct {
	mu         sync.RWMutex
	connectors map[models.TargetRef]Connector
}

// NewRegistry returns empty Registry.
func NewRegistry() *Registry {
	return &Registry{connectors: make(map[models.TargetRef]Connector)}
}

// Register sets connector of target.
func (r *Registry) Register(target models.TargetRef, c Connector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connectors[target] = c
}

// Get returns connector of target.
func (r *Registry) Get(target models.TargetRef) (Connector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.connectors[target]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, target)
	}

	return c, nil
}

// Counting is Connector counting calls made to wrapped connector.
type Counting struct {
	next  Connector
	calls atomic.Int64
}

// NewCounting returns new Counting wrapping next.
func NewCounting(next Connector) *Counting {
	return &Counting{next: next}
}

// Push counts call and passes it to wrapped connector.
func (c *Counting) Push(ctx context.Context, record models.SyncRecord, payload models.FieldSet) (models.PushResult, error) {
	c.calls.Add(1)
	return c.next.Push(ctx, record, payload)
}

// Pull counts call and passes it to wrapped connector.
func (c *Counting) Pull(ctx context.Context, record models.SyncRecord) (models.PullResult, error) {
	c.calls.Add(1)
	return c.next.Pull(ctx, record)
}

// FetchUpdatedAt counts call and passes it to wrapped connector.
func (c *Counting) FetchUpdatedAt(ctx context.Context, record models.SyncRecord) (time.Time, error) {
	c.calls.Add(1)
	return c.next.FetchUpdatedAt(ctx, record)
}

// Calls returns number of calls made so far.
func (c *Counting) Calls() int {
	return int(c.calls.Load())
}
