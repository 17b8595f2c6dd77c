// Package events provides the application event sink. Services emit
// lightweight events (message exchanges, command executions, pipeline
// results) and sinks decide where they go: an in-memory ring buffer
// backs the monitor endpoint, a Kafka sink fans them out to external
// consumers.
package events

import (
	"context"
	"sync"
	"time"
)

// Event types emitted by the application.
const (
	TypeMessageExchange = "message_exchange"
	TypeCommandExecuted = "command_executed"
	TypeStreamCancelled = "stream_cancelled"
	TypeScanSubmitted   = "scan_submitted"
	TypeScanProcessed   = "scan_processed"
	TypeScanFailed      = "scan_failed"
	TypeTitleGenerated  = "title_generated"
	TypeUpstreamFailure = "upstream_failure"
)

// Event is a single application event.
type Event struct {
	Type           string                 `json:"type"`
	UserID         uint                   `json:"user_id,omitempty"`
	ConversationID uint                   `json:"conversation_id,omitempty"`
	Payload        map[string]interface{} `json:"payload,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
}

// Emitter receives application events. Implementations must be safe for
// concurrent use and must never block the caller for long.
type Emitter interface {
	Emit(ctx context.Context, ev Event)
}

// Noop discards all events.
type Noop struct{}

// Emit implements Emitter.
func (Noop) Emit(context.Context, Event) {}

// Multi fans an event out to several emitters.
type Multi []Emitter

// Emit implements Emitter.
func (m Multi) Emit(ctx context.Context, ev Event) {
	for _, e := range m {
		e.Emit(ctx, ev)
	}
}

// RingSink keeps the most recent events in a fixed-size ring buffer.
// It backs the monitor endpoint.
type RingSink struct {
	mu     sync.Mutex
	buf    []Event
	next   int
	filled bool
}

// NewRingSink creates a ring sink holding at most size events.
func NewRingSink(size int) *RingSink {
	if size <= 0 {
		size = 100
	}
	return &RingSink{buf: make([]Event, size)}
}

// Emit implements Emitter.
func (s *RingSink) Emit(_ context.Context, ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf[s.next] = ev
	s.next++
	if s.next == len(s.buf) {
		s.next = 0
		s.filled = true
	}
}

// Clear drops all buffered events.
func (s *RingSink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = 0
	s.filled = false
	for i := range s.buf {
		s.buf[i] = Event{}
	}
}

// Recent returns the buffered events, oldest first.
func (s *RingSink) Recent() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.filled {
		out := make([]Event, s.next)
		copy(out, s.buf[:s.next])
		return out
	}
	out := make([]Event, 0, len(s.buf))
	out = append(out, s.buf[s.next:]...)
	out = append(out, s.buf[:s.next]...)
	return out
}
