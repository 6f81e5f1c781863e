package tagstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanTag(t *testing.T) {
	type input struct {
		buf    string
		inside bool
	}

	type expected struct {
		emit      string
		remaining string
		inside    bool
		closed    bool
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:  "no open marker leaves buffer untouched",
			input: input{buf: "plain text without markers"},
			expected: expected{
				remaining: "plain text without markers",
			},
		},
		{
			name:  "open and close in one pass",
			input: input{buf: "pre<t>hello</t>post"},
			expected: expected{
				emit:      "hello",
				remaining: "post",
				closed:    true,
			},
		},
		{
			name:  "open marker only, content beyond margin",
			input: input{buf: "<t>abcdefghijklmno"},
			expected: expected{
				emit:      "abcde",
				remaining: "fghijklmno",
				inside:    true,
			},
		},
		{
			name:  "open marker only, content within margin",
			input: input{buf: "<t>abc"},
			expected: expected{
				remaining: "abc",
				inside:    true,
			},
		},
		{
			name:  "continuation closes the field",
			input: input{buf: "more</t>rest", inside: true},
			expected: expected{
				emit:      "more",
				remaining: "rest",
				closed:    true,
			},
		},
		{
			name:  "partial close marker stays withheld",
			input: input{buf: "abc</", inside: true},
			expected: expected{
				remaining: "abc</",
				inside:    true,
			},
		},
		{
			name:  "content before open marker is discarded",
			input: input{buf: "discard me<t>kept"},
			expected: expected{
				remaining: "kept",
				inside:    true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := scanTag(tt.input.buf, "<t>", "</t>", tt.input.inside)

			assert.Equal(t, tt.expected.emit, res.emit)
			assert.Equal(t, tt.expected.remaining, res.remaining)
			assert.Equal(t, tt.expected.inside, res.inside)
			assert.Equal(t, tt.expected.closed, res.closed)
		})
	}
}

// Splitting the input at any offset must never cause partial emission
// of the close marker, and the concatenated emissions plus the withheld
// remainder must reconstruct the content exactly. Field names longer
// than the base margin widen the withheld margin, so they are covered
// alongside short ones.
func TestScanTag_SplitAtEveryOffset(t *testing.T) {
	const content = "Hello, streaming world!"

	for _, field := range []string{"t", "text", "paragraphs"} {
		openTag := "<" + field + ">"
		closeTag := "</" + field + ">"
		full := openTag + content + closeTag

		for cut := 1; cut < len(full); cut++ {
			var out string
			buf := ""
			inside := false
			closed := false

			for _, part := range []string{full[:cut], full[cut:]} {
				buf += part
				res := scanTag(buf, openTag, closeTag, inside)
				out += res.emit
				buf = res.remaining
				inside = res.inside
				closed = closed || res.closed
			}

			assert.True(t, closed, "field %s cut at %d: close marker not found", field, cut)
			assert.Equal(t, content, out, "field %s cut at %d", field, cut)
			assert.NotContains(t, out, "</", "field %s cut at %d leaked marker", field, cut)
		}
	}
}

// A close marker longer than the base margin must stay fully withheld
// while it arrives split across chunks.
func TestScanTag_LongCloseMarkerWithheld(t *testing.T) {
	res := scanTag("abc</paragrap", "<paragraphs>", "</paragraphs>", true)

	assert.Equal(t, "a", res.emit)
	assert.Equal(t, "bc</paragrap", res.remaining)
	assert.True(t, res.inside)
	assert.False(t, res.closed)
}
