package tagstream

import (
	"strings"
	"sync"
)

// Accumulator collects emitted chunks into the consumer-visible text,
// overall and per field. Simple consumers use it together with Done to
// judge completion.
//
// Usage:
//
//	acc := tagstream.NewAccumulator()
//	ex := tagstream.NewValidating(tagstream.ValidatingConfig{
//	    // ...
//	    OnChunk: acc.Collect,
//	})
//
// The extractor itself is single-threaded, but consumers often read the
// accumulated text from another goroutine, so access is guarded.
type Accumulator struct {
	mu     sync.Mutex
	text   strings.Builder
	fields map[string]*strings.Builder
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{fields: make(map[string]*strings.Builder)}
}

// Collect appends one emission. It matches ChunkFunc so it can be used
// directly as a ValidatingConfig.OnChunk callback.
func (a *Accumulator) Collect(content, field string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.text.WriteString(content)
	if field == "" {
		return
	}
	b, ok := a.fields[field]
	if !ok {
		b = &strings.Builder{}
		a.fields[field] = b
	}
	b.WriteString(content)
}

// Text returns everything collected so far, synthetic separators
// included.
func (a *Accumulator) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.text.String()
}

// FieldText returns the text collected for one field.
func (a *Accumulator) FieldText(field string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if b, ok := a.fields[field]; ok {
		return b.String()
	}
	return ""
}

// Reset clears the accumulator for reuse.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.text.Reset()
	a.fields = make(map[string]*strings.Builder)
}
