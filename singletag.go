package tagstream

import "fmt"

// SingleTag extracts the content of one field delimited by
// <name>...</name> markers. Content streams out as it arrives, with a
// trailing safe margin withheld so a close marker split across chunk
// boundaries is never partially emitted. Done becomes true exactly when
// the close marker is found.
type SingleTag struct {
	openTag  string
	closeTag string
	buf      string
	inside   bool
	done     bool
}

// NewSingleTag creates an extractor for the named field.
func NewSingleTag(field string) *SingleTag {
	return &SingleTag{
		openTag:  fmt.Sprintf("<%s>", field),
		closeTag: fmt.Sprintf("</%s>", field),
	}
}

// Push consumes one chunk and returns the field content that is safe to
// emit now. Chunks pushed after the field has closed are dropped.
func (s *SingleTag) Push(chunk string) (string, error) {
	if err := validateChunkSize(chunk); err != nil {
		return "", err
	}
	if s.done {
		return "", nil
	}

	s.buf += chunk
	res := scanTag(s.buf, s.openTag, s.closeTag, s.inside)
	s.buf = res.remaining
	s.inside = res.inside
	if res.closed {
		s.done = true
	}
	if !s.inside {
		s.buf = trimBuffer(s.buf)
	}
	return res.emit, nil
}

// Flush releases margin-withheld content when the stream ends while the
// field is still open. Truncation mid-field is recovered best-effort,
// it is not an error.
func (s *SingleTag) Flush() string {
	if !s.inside {
		return ""
	}
	out := s.buf
	s.buf = ""
	s.inside = false
	return out
}

// Done reports whether the close marker has been seen.
func (s *SingleTag) Done() bool { return s.done }

// Reset clears the buffer and completion state for a fresh stream.
func (s *SingleTag) Reset() {
	s.buf = ""
	s.inside = false
	s.done = false
}

var _ Extractor = (*SingleTag)(nil)
