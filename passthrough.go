package tagstream

// Passthrough forwards every chunk verbatim and never reports done. Use
// it when the model output needs no filtering at all.
type Passthrough struct{}

// NewPassthrough creates a passthrough extractor.
func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

// Push returns the chunk unchanged.
func (p *Passthrough) Push(chunk string) (string, error) {
	if err := validateChunkSize(chunk); err != nil {
		return "", err
	}
	return chunk, nil
}

// Flush has nothing withheld to release.
func (p *Passthrough) Flush() string { return "" }

// Done always reports false: a passthrough has no notion of completion.
func (p *Passthrough) Done() bool { return false }

// Reset is a no-op; a passthrough holds no state.
func (p *Passthrough) Reset() {}

// Markable forwards every chunk verbatim, like Passthrough, except that
// completion is signalled by an outside process via MarkComplete rather
// than by tag closure.
type Markable struct {
	done bool
}

// NewMarkable creates a markable passthrough extractor.
func NewMarkable() *Markable {
	return &Markable{}
}

// Push returns the chunk unchanged until MarkComplete has been called.
func (m *Markable) Push(chunk string) (string, error) {
	if err := validateChunkSize(chunk); err != nil {
		return "", err
	}
	if m.done {
		return "", nil
	}
	return chunk, nil
}

// Flush has nothing withheld to release.
func (m *Markable) Flush() string { return "" }

// MarkComplete flips Done. Chunks pushed afterwards are dropped.
func (m *Markable) MarkComplete() {
	m.done = true
}

// Done reports whether MarkComplete has been called.
func (m *Markable) Done() bool { return m.done }

// Reset clears the completion mark.
func (m *Markable) Reset() {
	m.done = false
}

var (
	_ Extractor = (*Passthrough)(nil)
	_ Extractor = (*Markable)(nil)
)
