package tagstream

// Event is the marker interface implemented by all extraction events.
// Rich consumers receive events through the validating extractor's
// OnEvent callback and dispatch on the concrete type:
//
//	func onEvent(e tagstream.Event) {
//	    switch ev := e.(type) {
//	    case *tagstream.FieldValidatedEvent:
//	        markFieldGood(ev.Field)
//	    case *tagstream.ErrorEvent:
//	        showFieldError(ev.Field, ev.Message)
//	    }
//	}
type Event interface {
	streamEvent()
}

// FieldValidatedEvent is emitted once when a field's validation codes
// both match the expected value.
type FieldValidatedEvent struct {
	// Field is the validated field's name.
	Field string
}

func (*FieldValidatedEvent) streamEvent() {}

// ErrorEvent reports a validation failure, cancellation, or terminal
// error. Field is empty for errors not scoped to a single field.
type ErrorEvent struct {
	Field   string
	Message string
}

func (*ErrorEvent) streamEvent() {}

// RetryStartEvent tells rich consumers a retry is beginning, so they
// can discard stale output themselves instead of receiving a synthetic
// separator in the text stream.
type RetryStartEvent struct {
	// RetryCount is the caller-supplied attempt number.
	RetryCount int

	// ValidatedFields names the fields that have already validated.
	ValidatedFields []string
}

func (*RetryStartEvent) streamEvent() {}

// RetryContextEvent carries already-validated content. Callers can feed
// it back into the retry prompt so the producer does not regenerate
// fields that are known good.
type RetryContextEvent struct {
	ValidatedFields []string
	Content         map[string]string
}

func (*RetryContextEvent) streamEvent() {}

// ChunkEvent mirrors each emission for rich consumers, tagged with the
// field the content belongs to.
type ChunkEvent struct {
	Content string
	Field   string
}

func (*ChunkEvent) streamEvent() {}

// CompleteEvent is emitted once when the stream flushes gracefully.
type CompleteEvent struct{}

func (*CompleteEvent) streamEvent() {}
