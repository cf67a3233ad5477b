package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MichalMitros/product-sync/internal/platform/models"
	"github.com/rs/zerolog"
)

//go:generate mockery --name Publisher --filename publisher.go

// SubjectKind is kind of entity which changed its state.
type SubjectKind string

const (
	SubjectRecord SubjectKind = "sync_record"
	SubjectJob    SubjectKind = "sync_job"
)

// Event is structured state transition notice.
type Event struct {
	SubjectKind SubjectKind       `json:"subjectKind"`
	SubjectID   string            `json:"subjectId"`
	From        string            `json:"fromState"`
	To          string            `json:"toState"`
	Reason      models.ReasonCode `json:"reason"`
	Message     string            `json:"message,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Sink receives state transition events.
// Emit must never block the caller for long nor fail the transition.
type Sink interface {
	Emit(event Event)
}

// Discard is Sink dropping every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(Event) {}

// LogSink writes events to logger.
type LogSink struct {
	logger *zerolog.Logger
}

// NewLogSink returns new LogSink.
func NewLogSink(logger *zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit logs event on info level.
func (s *LogSink) Emit(event Event) {
	s.logger.Info().
		Str("subjectKind", string(event.SubjectKind)).
		Str("subjectId", event.SubjectID).
		Str("from", event.From).
		Str("to", event.To).
		Str("reason", string(event.Reason)).
		Str("message", event.Message).
		Time("at", event.Timestamp).
		Msg("state changed")
}

// Publisher is RabbitMQ messages publisher.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message []byte) error
}

// PublisherSink publishes events to message broker in background.
// Events are dropped when buffer is full.
type PublisherSink struct {
	publisher  Publisher
	routingKey string
	logger     *zerolog.Logger
	events     chan Event
	done       chan struct{}
}

// NewPublisherSink returns new PublisherSink buffering up to bufferSize events.
func NewPublisherSink(publisher Publisher, routingKey string, bufferSize int, logger *zerolog.Logger) *PublisherSink {
	return &PublisherSink{
		publisher:  publisher,
		routingKey: routingKey,
		logger:     logger,
		events:     make(chan Event, bufferSize),
		done:       make(chan struct{}),
	}
}

// Emit enqueues event for publishing without blocking.
func (s *PublisherSink) Emit(event Event) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn().
			Str("subjectId", event.SubjectID).
			Str("to", event.To).
			Msg("audit buffer full, event dropped")
	}
}

// Start publishes buffered events until context is closed. Remaining buffered events are dropped.
func (s *PublisherSink) Start(ctx context.Context) {
	go func() {
		defer close(s.done)
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-s.events:
				s.publish(ctx, event)
			}
		}
	}()
}

// Done returns channel which will be closed when publishing will be finished.
func (s *PublisherSink) Done() <-chan struct{} {
	return s.done
}

func (s *PublisherSink) publish(ctx context.Context, event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Msg("can't marshal audit event")
		return
	}

	if err := s.publisher.Publish(ctx, s.routingKey, msg); err != nil {
		s.logger.Error().
			Err(err).
			Str("subjectId", event.SubjectID).
			Msg("can't publish audit event")
	}
}

// Multi fans event out to every sink.
type Multi []Sink

// Emit passes event to every sink.
func (m Multi) Emit(event Event) {
	for _, sink := range m {
		sink.Emit(event)
	}
}
