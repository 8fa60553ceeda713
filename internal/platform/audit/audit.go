// Package audit publishes ledger events for after-the-fact review.
// Events are emitted fire-and-forget; a failure to publish never blocks or
// fails the business operation that produced it.
package audit

import (
	"log/slog"
	"time"
)

// Event is a single auditable occurrence in the ledger.
type Event struct {
	Action     string
	EntityType string
	EntityID   string
	ActorID    string
	OccurredAt time.Time
	Details    map[string]any
}

// Publisher records audit events.
type Publisher interface {
	Notify(event Event)
	Close()
}

type logPublisher struct {
	logger *slog.Logger
	events chan Event
	done   chan struct{}
}

// NewLogPublisher returns a Publisher that writes events to the structured
// log on a background goroutine.
func NewLogPublisher(logger *slog.Logger) Publisher {
	p := &logPublisher{
		logger: logger.With(slog.String("component", "audit")),
		events: make(chan Event, 256),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *logPublisher) run() {
	defer close(p.done)
	for event := range p.events {
		p.logger.Info("audit event",
			slog.String("action", event.Action),
			slog.String("entity_type", event.EntityType),
			slog.String("entity_id", event.EntityID),
			slog.String("actor_id", event.ActorID),
			slog.Time("occurred_at", event.OccurredAt),
			slog.Any("details", event.Details),
		)
	}
}

// Notify enqueues an event. If the buffer is full the event is dropped rather
// than blocking the caller.
func (p *logPublisher) Notify(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	select {
	case p.events <- event:
	default:
		p.logger.Warn("audit buffer full, dropping event", slog.String("action", event.Action))
	}
}

// Close stops the publisher after draining buffered events.
func (p *logPublisher) Close() {
	close(p.events)
	<-p.done
}

// NopPublisher discards all events. Useful in tests.
type NopPublisher struct{}

func (NopPublisher) Notify(Event) {}
func (NopPublisher) Close()       {}
