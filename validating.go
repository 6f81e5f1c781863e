package tagstream

import (
	"context"
	"fmt"
	"strings"
)

// ValidationLevel controls when content is released and whether fields
// default to requiring validation codes.
//
//	Level 0: stream immediately; codes are opt-in per field.
//	Level 1: stream immediately; codes are opt-out per field.
//	Level 2, 3: withhold everything until Flush.
//
// Levels 2 and 3 behave identically inside the engine; the distinction
// is how much code discipline the caller's prompt demands from the
// producer.
type ValidationLevel int

// DefaultRetrySeparator is injected into a simple consumer's stream on
// retry, so stale or invalid text is visually distinguished from the
// retried response instead of being silently concatenated.
const DefaultRetrySeparator = "\nthat's not right, let me start again:\n"

// ChunkFunc receives emitted content. field names the field the content
// belongs to; it is empty for synthetic text such as the retry
// separator.
type ChunkFunc func(content, field string)

// EventFunc receives typed events for rich consumers.
type EventFunc func(Event)

// ValidatingConfig configures a ValidatingExtractor. The config is
// treated as immutable once the extractor is constructed.
type ValidatingConfig struct {
	// Level selects emission timing and the code-requirement default.
	Level ValidationLevel

	// Fields is the ordered schema of expected output fields.
	Fields []Field

	// StreamFields names the fields surfaced to the consumer, in
	// addition to fields with Stream set.
	StreamFields []string

	// Codes maps field name to the validation code the producer is
	// expected to echo around that field. A field with no entry
	// here cannot require codes: there is nothing to compare
	// against.
	Codes map[string]string

	// OnChunk receives every emission.
	OnChunk ChunkFunc

	// OnEvent receives typed events. Optional; leave nil for simple
	// consumers.
	OnEvent EventFunc

	// Ctx is polled at the top of each Push for cooperative
	// cancellation. Optional.
	Ctx context.Context

	// RichConsumer suppresses the synthetic retry separator in
	// favor of RetryStartEvent/RetryContextEvent.
	RichConsumer bool

	// RetrySeparator overrides DefaultRetrySeparator.
	RetrySeparator string
}

// fieldTrack is the per-attempt state of one declared field.
type fieldTrack struct {
	field   Field
	status  FieldStatus
	content string
	emitted int // length of content already surfaced
}

// ValidatingExtractor is the multi-field incremental extractor with
// per-field validation-code checking, delta emission, and retry
// support. One instance serves one logical exchange, across retries:
// the caller resets it in place between attempts rather than building
// a new one, so cross-retry bookkeeping survives.
//
// Unlike the simpler extractors, the transcript buffer is never
// trimmed. Every declared field is re-scanned against the full
// transcript on each Push, trading unbounded memory for re-scan
// correctness over a single exchange.
type ValidatingExtractor struct {
	cfg      ValidatingConfig
	state    State
	buf      string
	tracks   []*fieldTrack
	byName   map[string]*fieldTrack
	streamed map[string]bool

	// validated survives Reset: a field proven intact in an earlier
	// attempt is not emitted again on retry.
	validated      map[string]string
	validatedOrder []string

	emittedAny bool // any content surfaced during this attempt
}

// NewValidating creates a ValidatingExtractor in StateStreaming.
func NewValidating(cfg ValidatingConfig) *ValidatingExtractor {
	if cfg.RetrySeparator == "" {
		cfg.RetrySeparator = DefaultRetrySeparator
	}

	e := &ValidatingExtractor{
		cfg:       cfg,
		validated: make(map[string]string),
		streamed:  make(map[string]bool, len(cfg.StreamFields)),
	}
	for _, name := range cfg.StreamFields {
		e.streamed[name] = true
	}
	for _, f := range cfg.Fields {
		if f.Stream {
			e.streamed[f.Name] = true
		}
	}
	e.initTracks()
	return e
}

func (e *ValidatingExtractor) initTracks() {
	e.tracks = e.tracks[:0]
	e.byName = make(map[string]*fieldTrack, len(e.cfg.Fields))
	for _, f := range e.cfg.Fields {
		t := &fieldTrack{field: f}
		e.tracks = append(e.tracks, t)
		e.byName[f.Name] = t
	}
}

// State returns the current lifecycle state.
func (e *ValidatingExtractor) State() State { return e.state }

// Done reports whether the extractor reached a terminal state.
func (e *ValidatingExtractor) Done() bool {
	return e.state == StateComplete || e.state == StateFailed
}

// Push consumes one chunk. The returned string is the concatenation of
// everything handed to OnChunk during this call, synthetic separator
// text excluded. Pushes outside StateStreaming are no-ops.
func (e *ValidatingExtractor) Push(chunk string) (string, error) {
	if e.state != StateStreaming {
		return "", nil
	}
	if e.cfg.Ctx != nil && e.cfg.Ctx.Err() != nil {
		e.state = StateFailed
		e.event(&ErrorEvent{Message: "Cancelled by user"})
		return "", nil
	}
	if err := validateChunkSize(chunk); err != nil {
		return "", err
	}

	// The transcript is never trimmed: every declared field is
	// re-scanned against the full buffer on each push.
	e.buf += chunk
	e.scanFields()

	if e.cfg.Level <= 1 {
		return e.emitFields(), nil
	}
	return "", nil
}

// scanFields re-derives every field's status and captured content from
// the full transcript. Literal substring search only; an invalid field
// is never overwritten by later scans.
func (e *ValidatingExtractor) scanFields() {
	for _, t := range e.tracks {
		if t.status == FieldInvalid {
			continue
		}

		openTag := "<" + t.field.Name + ">"
		closeTag := "</" + t.field.Name + ">"

		start := strings.Index(e.buf, openTag)
		if start < 0 {
			continue
		}
		rest := e.buf[start+len(openTag):]
		if end := strings.Index(rest, closeTag); end >= 0 {
			t.status = FieldComplete
			t.content = rest[:end]
		} else {
			t.status = FieldPartial
			t.content = rest
		}
	}
}

// emitFields runs per-field emission for levels 0-1.
func (e *ValidatingExtractor) emitFields() string {
	var out strings.Builder
	for _, t := range e.tracks {
		name := t.field.Name
		if !e.streamed[name] {
			continue
		}
		if _, ok := e.validated[name]; ok {
			continue // proven in an earlier pass, already emitted
		}
		if t.status == FieldPending || t.status == FieldInvalid {
			continue
		}

		if e.requiresCodes(t.field) {
			out.WriteString(e.checkCodes(t))
		} else {
			out.WriteString(e.emitDelta(t))
		}
	}
	return out.String()
}

// requiresCodes resolves whether the field must echo validation codes.
// The per-field override wins; otherwise level 0 is opt-in and level 1
// is opt-out.
func (e *ValidatingExtractor) requiresCodes(f Field) bool {
	if _, ok := e.cfg.Codes[f.Name]; !ok {
		return false
	}
	if f.Validate != nil {
		return *f.Validate
	}
	return e.cfg.Level >= 1
}

// codeValue extracts the echoed value of one code marker pair, e.g.
// <code_text_start>abc123</code_text_start>. found is false while the
// pair has not fully appeared in the transcript.
func (e *ValidatingExtractor) codeValue(marker string) (value string, found bool) {
	openTag := "<" + marker + ">"
	closeTag := "</" + marker + ">"

	start := strings.Index(e.buf, openTag)
	if start < 0 {
		return "", false
	}
	rest := e.buf[start+len(openTag):]
	end := strings.Index(rest, closeTag)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// checkCodes validates the field's echoed start/end codes against the
// expected value. A mismatch on either side invalidates the field
// permanently and reports exactly one error event. While either code
// pair is still in flight the field keeps waiting, without emission
// and without error.
func (e *ValidatingExtractor) checkCodes(t *fieldTrack) string {
	name := t.field.Name
	expected := e.cfg.Codes[name]

	startVal, startFound := e.codeValue("code_" + name + "_start")
	if startFound && startVal != expected {
		e.invalidate(t, fmt.Sprintf("Invalid start code for %s", name))
		return ""
	}

	endVal, endFound := e.codeValue("code_" + name + "_end")
	if endFound && endVal != expected {
		e.invalidate(t, fmt.Sprintf("Invalid end code for %s", name))
		return ""
	}

	if !startFound || !endFound || t.status != FieldComplete {
		return ""
	}

	e.validated[name] = t.content
	e.validatedOrder = append(e.validatedOrder, name)
	e.event(&FieldValidatedEvent{Field: name})
	return e.emitDelta(t)
}

func (e *ValidatingExtractor) invalidate(t *fieldTrack, msg string) {
	t.status = FieldInvalid
	e.event(&ErrorEvent{Field: t.field.Name, Message: msg})
}

// emitDelta surfaces only the suffix of the captured content beyond
// what was already emitted, guaranteeing exactly-once reconstruction no
// matter how often the transcript is re-scanned. While the field is
// still open a trailing margin sized to the field's close marker is
// withheld so a marker split across chunks never leaks into the
// emission.
func (e *ValidatingExtractor) emitDelta(t *fieldTrack) string {
	content := t.content
	if t.status == FieldPartial {
		margin := withholdMargin("</" + t.field.Name + ">")
		if len(content) <= margin {
			return ""
		}
		content = content[:len(content)-margin]
	}
	if len(content) <= t.emitted {
		return ""
	}

	delta := content[t.emitted:]
	t.emitted = len(content)
	e.emit(delta, t.field.Name)
	return delta
}

func (e *ValidatingExtractor) emit(content, field string) {
	e.emittedAny = true
	if e.cfg.OnChunk != nil {
		e.cfg.OnChunk(content, field)
	}
	e.event(&ChunkEvent{Content: content, Field: field})
}

func (e *ValidatingExtractor) event(ev Event) {
	if e.cfg.OnEvent != nil {
		e.cfg.OnEvent(ev)
	}
}

// Flush signals graceful end-of-stream. Levels 2-3 release the captured
// content of every streamed field in full; levels 0-1 have already
// emitted incrementally. Either way the extractor transitions to
// StateComplete and emits a CompleteEvent. Flush receives no new input,
// so chunk size is not re-validated.
func (e *ValidatingExtractor) Flush() string {
	if e.state != StateStreaming {
		return ""
	}

	var out strings.Builder
	if e.cfg.Level >= 2 {
		e.state = StateValidating
		for _, t := range e.tracks {
			name := t.field.Name
			if !e.streamed[name] || t.status == FieldInvalid {
				continue
			}
			if _, ok := e.validated[name]; ok {
				continue
			}
			// Release in full: the stream is over, so no safe
			// margin is withheld here.
			if len(t.content) > t.emitted {
				delta := t.content[t.emitted:]
				t.emitted = len(t.content)
				e.emit(delta, name)
				out.WriteString(delta)
			}
		}
	}

	e.state = StateComplete
	e.event(&CompleteEvent{})
	return out.String()
}

// SignalRetry transitions to StateRetrying before the caller rebuilds
// the prompt and calls Reset. It reports whether any content already
// reached the consumer during this attempt, and which fields have
// validated so far, for the caller's retry-prompt construction.
//
// Simple consumers that already received output get the configured
// retry separator injected into their text stream. Rich consumers never
// receive synthetic text; they get a RetryStartEvent, plus a
// RetryContextEvent when fields have validated, suggesting their
// content be reused to shorten the retry prompt.
func (e *ValidatingExtractor) SignalRetry(retryCount int) (emitted bool, validated []string) {
	e.state = StateRetrying
	emitted = e.emittedAny
	validated = append([]string(nil), e.validatedOrder...)

	if e.cfg.RichConsumer {
		e.event(&RetryStartEvent{
			RetryCount:      retryCount,
			ValidatedFields: validated,
		})
		if len(validated) > 0 {
			content := make(map[string]string, len(validated))
			for _, name := range validated {
				content[name] = e.validated[name]
			}
			e.event(&RetryContextEvent{
				ValidatedFields: validated,
				Content:         content,
			})
		}
		return emitted, validated
	}

	if emitted && e.cfg.OnChunk != nil {
		e.cfg.OnChunk(e.cfg.RetrySeparator, "")
	}
	return emitted, validated
}

// SignalError unconditionally fails the extractor with one error event.
// Callers use it once retries are exhausted.
func (e *ValidatingExtractor) SignalError(message string) {
	e.state = StateFailed
	e.event(&ErrorEvent{Message: message})
}

// Diagnosis partitions non-complete fields into three disjoint lists so
// the caller can tell whether the response was truncated and what a
// retry should focus on. Completed fields are excluded.
type Diagnosis struct {
	// Missing fields were never observed in the transcript.
	Missing []string

	// Invalid fields failed validation-code checking.
	Invalid []string

	// Incomplete fields opened but never closed.
	Incomplete []string
}

// Diagnose is a pure function over the current field states.
func (e *ValidatingExtractor) Diagnose() Diagnosis {
	var d Diagnosis
	for _, t := range e.tracks {
		switch t.status {
		case FieldPending:
			d.Missing = append(d.Missing, t.field.Name)
		case FieldInvalid:
			d.Invalid = append(d.Invalid, t.field.Name)
		case FieldPartial:
			d.Incomplete = append(d.Incomplete, t.field.Name)
		}
	}
	return d
}

// ValidatedFields returns name to content for every field whose codes
// have matched, across retries, for seeding smarter retry prompts.
func (e *ValidatingExtractor) ValidatedFields() map[string]string {
	out := make(map[string]string, len(e.validated))
	for name, content := range e.validated {
		out[name] = content
	}
	return out
}

// Reset clears the transcript and per-attempt field state so the same
// instance can consume a retried response. Validated content survives:
// a field proven intact in an earlier attempt is skipped, not emitted
// twice.
func (e *ValidatingExtractor) Reset() {
	e.buf = ""
	e.emittedAny = false
	e.state = StateStreaming
	e.initTracks()
}

var _ Extractor = (*ValidatingExtractor)(nil)
