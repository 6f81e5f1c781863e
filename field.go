package tagstream

// Field declares one schema entry of the structured output.
type Field struct {
	// Name is the tag name, matched literally as <name>...</name>.
	Name string

	// Description documents what the producer should put in the
	// field. The engine does not use it; it is carried for prompt
	// construction by the caller.
	Description string

	// Validate overrides the level default for whether this field
	// requires validation codes. nil keeps the default.
	Validate *bool

	// Stream marks the field for surfacing to the consumer, in
	// addition to the config's StreamFields list.
	Stream bool

	// Required marks the field as mandatory in a complete response.
	Required bool
}

// FieldStatus tracks a field's progress through a single attempt.
type FieldStatus int

const (
	// FieldPending means neither marker has been observed.
	FieldPending FieldStatus = iota

	// FieldPartial means the open marker has been seen but not the
	// close marker.
	FieldPartial

	// FieldComplete means both markers have been seen and the
	// content is captured.
	FieldComplete

	// FieldInvalid means a validation code mismatched. Terminal for
	// the attempt: later scans never overwrite it.
	FieldInvalid
)

func (s FieldStatus) String() string {
	switch s {
	case FieldPartial:
		return "partial"
	case FieldComplete:
		return "complete"
	case FieldInvalid:
		return "invalid"
	default:
		return "pending"
	}
}

// State is the validating extractor's lifecycle state.
type State int

const (
	// StateStreaming accepts chunks.
	StateStreaming State = iota

	// StateValidating is entered transiently while a buffered-level
	// flush releases captured content.
	StateValidating

	// StateRetrying means SignalRetry was called; the caller resets
	// the instance before pushing the retried response.
	StateRetrying

	// StateComplete is terminal: the stream flushed gracefully.
	StateComplete

	// StateFailed is terminal: cancelled or retries exhausted.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateRetrying:
		return "retrying"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "streaming"
	}
}
