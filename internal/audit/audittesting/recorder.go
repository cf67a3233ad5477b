package audittesting

import (
	"sync"

	"github.com/MichalMitros/product-sync/internal/audit"
	"github.com/samber/lo"
)

// Recorder is audit.Sink keeping emitted events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

// Emit stores event.
func (r *Recorder) Emit(event audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns copy of stored events.
func (r *Recorder) Events() []audit.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Event(nil), r.events...)
}

// Transitions returns "from->to" pairs of stored events.
func (r *Recorder) Transitions() []string {
	return lo.Map(r.Events(), func(e audit.Event, _ int) string { return e.From + "->" + e.To })
}

// Last returns last stored event. ok is false if nothing was emitted.
func (r *Recorder) Last() (audit.Event, bool) {
	events := r.Events()
	if len(events) == 0 {
		return audit.Event{}, false
	}
	return events[len(events)-1], true
}
