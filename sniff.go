package tagstream

import (
	"strings"
	"unicode"
)

// ContentKind classifies a stream by its first non-whitespace character.
type ContentKind int

const (
	// KindUnknown means no non-whitespace character has arrived yet.
	KindUnknown ContentKind = iota

	// KindStructured marks payloads opening with '{' or '['. The
	// whole payload is withheld for programmatic parsing and never
	// streamed to the consumer.
	KindStructured

	// KindTagged marks tag-delimited output opening with '<'. The
	// configured field is extracted via single-tag scanning.
	KindTagged

	// KindFreeText is everything else, streamed verbatim.
	KindFreeText
)

func (k ContentKind) String() string {
	switch k {
	case KindStructured:
		return "structured"
	case KindTagged:
		return "tagged"
	case KindFreeText:
		return "free-text"
	default:
		return "unknown"
	}
}

// Sniffer routes a stream to one of three handling modes based on its
// first non-whitespace character. Pure whitespace never classifies; the
// classification, once made, holds until Reset.
type Sniffer struct {
	kind ContentKind
	buf  string // pre-classification text, or the structured payload
	tag  *SingleTag
}

// NewSniffer creates a sniffer that extracts the named field when the
// stream turns out to be tagged.
func NewSniffer(field string) *Sniffer {
	return &Sniffer{tag: NewSingleTag(field)}
}

// Kind returns the current classification.
func (s *Sniffer) Kind() ContentKind { return s.kind }

// Raw returns the withheld payload of a structured stream, for handing
// to a programmatic parser once the stream ends.
func (s *Sniffer) Raw() string {
	if s.kind != KindStructured {
		return ""
	}
	return s.buf
}

// Push consumes one chunk and returns whatever the resolved mode lets
// through. Before classification everything is buffered.
func (s *Sniffer) Push(chunk string) (string, error) {
	if err := validateChunkSize(chunk); err != nil {
		return "", err
	}

	if s.kind == KindUnknown {
		s.buf += chunk
		idx := strings.IndexFunc(s.buf, func(r rune) bool {
			return !unicode.IsSpace(r)
		})
		if idx < 0 {
			return "", nil
		}
		return s.classify(idx)
	}

	switch s.kind {
	case KindStructured:
		s.buf += chunk
		return "", nil
	case KindTagged:
		return s.tag.Push(chunk)
	default:
		return chunk, nil
	}
}

// classify fixes the kind from the first non-whitespace character and
// replays the buffered prefix through the chosen mode.
func (s *Sniffer) classify(idx int) (string, error) {
	switch s.buf[idx] {
	case '{', '[':
		s.kind = KindStructured
		return "", nil
	case '<':
		s.kind = KindTagged
		buffered := s.buf
		s.buf = ""
		return s.tag.Push(buffered)
	default:
		s.kind = KindFreeText
		// Free text streams verbatim, the buffered leading
		// whitespace included.
		buffered := s.buf
		s.buf = ""
		return buffered, nil
	}
}

// Flush releases whatever the resolved mode still withholds. Structured
// payloads stay withheld; read them via Raw.
func (s *Sniffer) Flush() string {
	if s.kind == KindTagged {
		return s.tag.Flush()
	}
	return ""
}

// Done reports completion for tagged streams; the other kinds have no
// tag closure to observe.
func (s *Sniffer) Done() bool {
	if s.kind == KindTagged {
		return s.tag.Done()
	}
	return false
}

// Reset clears the classification and all buffered text.
func (s *Sniffer) Reset() {
	s.kind = KindUnknown
	s.buf = ""
	s.tag.Reset()
}

var _ Extractor = (*Sniffer)(nil)
