// Package stream implements the broadcast status channel: every
// store-confirmed message mutation is republished to all subscribers.
// There is no replay for late subscribers and no backpressure.
package stream

import (
	"sync"

	"github.com/wb-go/wbf/zlog"

	"github.com/CelestialBrain/sms-scheduler/internal/model"
)

// EventKind names the mutation that produced an event.
type EventKind string

const (
	EventScheduled     EventKind = "scheduled"
	EventStatusChanged EventKind = "status_changed"
	EventUpdated       EventKind = "updated"
	EventEnabled       EventKind = "enabled"
	EventDisabled      EventKind = "disabled"
	EventCancelled     EventKind = "cancelled"
)

// Event carries the full current record alongside the mutation kind.
type Event struct {
	Kind    EventKind              `json:"kind"`
	Message model.ScheduledMessage `json:"message"`
}

// Handler receives published events. A panicking handler is isolated and
// never stops propagation to the remaining subscribers.
type Handler func(Event)

// StatusStream is a broadcast publisher with unlimited subscribers.
// Safe for concurrent use.
type StatusStream struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
}

// New creates an empty status stream.
func New() *StatusStream {
	return &StatusStream{handlers: make(map[int]Handler)}
}

// Subscribe registers a handler and returns a function that removes it.
func (s *StatusStream) Subscribe(h Handler) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.handlers[id] = h

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers, id)
	}
}

// Publish delivers the event to every subscriber in turn. Each handler runs
// under its own recover so a misbehaving one cannot break the publisher or
// starve the others.
func (s *StatusStream) Publish(event Event) {
	s.mu.RLock()
	handlers := make([]Handler, 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.mu.RUnlock()

	for _, h := range handlers {
		s.dispatch(h, event)
	}
}

func (s *StatusStream) dispatch(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			zlog.Logger.Error().
				Interface("panic", r).
				Str("id", event.Message.ID.String()).
				Msg("status stream subscriber panicked")
		}
	}()

	h(event)
}
