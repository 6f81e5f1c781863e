// Package tt provides test helpers shared across tagstream tests.
package tt

import (
	"strings"

	"github.com/okanwa/tagstream"
)

// EventSink records events for assertions. Its Collect method matches
// tagstream.EventFunc.
type EventSink struct {
	Events []tagstream.Event
}

// Collect appends one event.
func (s *EventSink) Collect(e tagstream.Event) {
	s.Events = append(s.Events, e)
}

// Errors returns the recorded error events in order.
func (s *EventSink) Errors() []*tagstream.ErrorEvent {
	var out []*tagstream.ErrorEvent
	for _, e := range s.Events {
		if ev, ok := e.(*tagstream.ErrorEvent); ok {
			out = append(out, ev)
		}
	}
	return out
}

// Validated returns field names from FieldValidatedEvents in order.
func (s *EventSink) Validated() []string {
	var out []string
	for _, e := range s.Events {
		if ev, ok := e.(*tagstream.FieldValidatedEvent); ok {
			out = append(out, ev.Field)
		}
	}
	return out
}

// RetryStarts returns the recorded retry-start events in order.
func (s *EventSink) RetryStarts() []*tagstream.RetryStartEvent {
	var out []*tagstream.RetryStartEvent
	for _, e := range s.Events {
		if ev, ok := e.(*tagstream.RetryStartEvent); ok {
			out = append(out, ev)
		}
	}
	return out
}

// RetryContexts returns the recorded retry-context events in order.
func (s *EventSink) RetryContexts() []*tagstream.RetryContextEvent {
	var out []*tagstream.RetryContextEvent
	for _, e := range s.Events {
		if ev, ok := e.(*tagstream.RetryContextEvent); ok {
			out = append(out, ev)
		}
	}
	return out
}

// Completes counts the recorded CompleteEvents.
func (s *EventSink) Completes() int {
	n := 0
	for _, e := range s.Events {
		if _, ok := e.(*tagstream.CompleteEvent); ok {
			n++
		}
	}
	return n
}

// Reset clears the sink.
func (s *EventSink) Reset() {
	s.Events = nil
}

// RecordedChunk is one OnChunk emission.
type RecordedChunk struct {
	Content string
	Field   string
}

// ChunkRecorder records OnChunk emissions. Its Collect method matches
// tagstream.ChunkFunc.
type ChunkRecorder struct {
	Chunks []RecordedChunk
}

// Collect appends one emission.
func (r *ChunkRecorder) Collect(content, field string) {
	r.Chunks = append(r.Chunks, RecordedChunk{Content: content, Field: field})
}

// Text concatenates everything recorded, separators included.
func (r *ChunkRecorder) Text() string {
	var sb strings.Builder
	for _, c := range r.Chunks {
		sb.WriteString(c.Content)
	}
	return sb.String()
}

// FieldText concatenates everything recorded for one field.
func (r *ChunkRecorder) FieldText(field string) string {
	var sb strings.Builder
	for _, c := range r.Chunks {
		if c.Field == field {
			sb.WriteString(c.Content)
		}
	}
	return sb.String()
}

// Reset clears the recorder.
func (r *ChunkRecorder) Reset() {
	r.Chunks = nil
}
