package testhelpers

import (
	"sync"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/events"
)

// RecordingPublisher captures events synchronously.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *RecordingPublisher) PublishAsync(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns the captured events in publish order.
func (r *RecordingPublisher) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

// Types returns the captured event types in publish order.
func (r *RecordingPublisher) Types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType
	}
	return out
}
