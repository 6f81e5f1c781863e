package tagstream

import (
	"fmt"
	"strings"
)

// Strategy is the action-aware extractor's resolved decision on whether
// to stream its designated field.
type Strategy int

const (
	// StrategyPending means the control field has not resolved yet.
	StrategyPending Strategy = iota

	// StrategyDirect streams the designated field to the consumer.
	StrategyDirect

	// StrategyDelegated skips the designated field entirely: another
	// process is responsible for producing the visible reply.
	StrategyDelegated
)

func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyDelegated:
		return "delegated"
	default:
		return "pending"
	}
}

// DefaultDirectValue is the control-field value that resolves the
// strategy to direct streaming.
const DefaultDirectValue = "REPLY"

// ActionAware streams a designated field only when a separate control
// field, seen earlier in the same response, resolves to the direct
// value. The control field must contain exactly one value (compared
// case-insensitively after trimming); anything else, including multiple
// comma-separated values or none, delegates the reply elsewhere and the
// designated field is consumed without being emitted.
//
// Detection re-runs on every Push until the control field closes; after
// that the decision is sticky until Reset.
//
// Known quirk, kept as observed: an occurrence of the designated field
// whose open marker appears before the strategy resolves is discarded
// in full, even when the strategy later resolves to direct.
type ActionAware struct {
	controlOpen  string
	controlClose string
	fieldOpen    string
	fieldClose   string
	directValue  string

	strategy Strategy
	buf      string
	inside   bool
	suppress bool // current occurrence opened before resolving direct
	done     bool
}

// NewActionAware creates an extractor that streams streamField when
// controlField resolves to DefaultDirectValue.
func NewActionAware(controlField, streamField string) *ActionAware {
	return &ActionAware{
		controlOpen:  fmt.Sprintf("<%s>", controlField),
		controlClose: fmt.Sprintf("</%s>", controlField),
		fieldOpen:    fmt.Sprintf("<%s>", streamField),
		fieldClose:   fmt.Sprintf("</%s>", streamField),
		directValue:  DefaultDirectValue,
	}
}

// WithDirectValue overrides the control-field value that selects direct
// streaming.
func (a *ActionAware) WithDirectValue(value string) *ActionAware {
	a.directValue = value
	return a
}

// Strategy returns the current resolution.
func (a *ActionAware) Strategy() Strategy { return a.strategy }

// Push consumes one chunk and returns designated-field content, which
// is non-empty only once the strategy has resolved to direct.
func (a *ActionAware) Push(chunk string) (string, error) {
	if err := validateChunkSize(chunk); err != nil {
		return "", err
	}
	if a.done {
		return "", nil
	}

	a.buf += chunk
	if a.strategy == StrategyPending {
		a.resolve()
	}
	out := a.consume()
	if !a.inside {
		a.buf = trimBuffer(a.buf)
	}
	return out, nil
}

// resolve re-runs strategy detection against the buffered transcript.
// It stays pending until the control field closes.
func (a *ActionAware) resolve() {
	start := strings.Index(a.buf, a.controlOpen)
	if start < 0 {
		return
	}
	rest := a.buf[start+len(a.controlOpen):]
	end := strings.Index(rest, a.controlClose)
	if end < 0 {
		return
	}

	values := strings.Split(rest[:end], ",")
	if len(values) == 1 && strings.EqualFold(strings.TrimSpace(values[0]), a.directValue) {
		a.strategy = StrategyDirect
	} else {
		a.strategy = StrategyDelegated
	}
}

// consume advances through designated-field occurrences in the buffer.
// Occurrences are always consumed so their markup never leaks; whether
// their content is emitted depends on the strategy at open time.
func (a *ActionAware) consume() string {
	var out strings.Builder
	for {
		wasInside := a.inside
		res := scanTag(a.buf, a.fieldOpen, a.fieldClose, a.inside)
		a.buf = res.remaining
		a.inside = res.inside

		opened := !wasInside && (res.inside || res.closed)
		if opened && a.strategy != StrategyDirect {
			a.suppress = true
		}

		emit := a.strategy == StrategyDirect && !a.suppress
		if emit {
			out.WriteString(res.emit)
		}

		if !res.closed {
			break
		}
		a.suppress = false
		if emit {
			a.done = true
			break
		}
		// A skipped occurrence closed; keep scanning the rest of
		// the buffer for further occurrences.
	}
	return out.String()
}

// Flush releases margin-withheld content of a direct occurrence when
// the stream ends mid-field.
func (a *ActionAware) Flush() string {
	if !a.inside || a.strategy != StrategyDirect || a.suppress {
		return ""
	}
	out := a.buf
	a.buf = ""
	a.inside = false
	return out
}

// Done reports whether a directly streamed occurrence has closed.
func (a *ActionAware) Done() bool { return a.done }

// Reset clears buffers and makes the strategy pending again.
func (a *ActionAware) Reset() {
	a.strategy = StrategyPending
	a.buf = ""
	a.inside = false
	a.suppress = false
	a.done = false
}

var _ Extractor = (*ActionAware)(nil)
