package tagstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleTag_BasicExtraction(t *testing.T) {
	type input struct {
		chunks []string
	}

	type expected struct {
		text string
		done bool
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "single chunk with both markers",
			input:    input{chunks: []string{"<text>Hello world!</text>"}},
			expected: expected{text: "Hello world!", done: true},
		},
		{
			name:     "markers split across chunks",
			input:    input{chunks: []string{"<te", "xt>Hello", " world!</te", "xt>"}},
			expected: expected{text: "Hello world!", done: true},
		},
		{
			name:     "surrounding text is discarded",
			input:    input{chunks: []string{"ignored <text>Hi</text> also ignored"}},
			expected: expected{text: "Hi", done: true},
		},
		{
			name:     "open marker never arrives",
			input:    input{chunks: []string{"no markers here at all"}},
			expected: expected{text: "", done: false},
		},
		{
			name:     "field never closes",
			input:    input{chunks: []string{"<text>Hello"}},
			expected: expected{text: "", done: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := NewSingleTag("text")

			var out strings.Builder
			for _, chunk := range tt.input.chunks {
				emitted, err := ex.Push(chunk)
				require.NoError(t, err)
				out.WriteString(emitted)
			}

			assert.Equal(t, tt.expected.text, out.String())
			assert.Equal(t, tt.expected.done, ex.Done())
		})
	}
}

// For any chunking of an input containing a complete field, the
// concatenated emissions must equal the content exactly once, even when
// the input is split at every character.
func TestSingleTag_PerCharacterChunking(t *testing.T) {
	const content = "Hello, streaming world!"
	full := "pre <text>" + content + "</text> post"

	ex := NewSingleTag("text")
	var out strings.Builder
	for _, r := range full {
		emitted, err := ex.Push(string(r))
		require.NoError(t, err)
		out.WriteString(emitted)
	}

	assert.True(t, ex.Done())
	assert.Equal(t, content, out.String())
}

// Field names longer than the base margin need the full close marker
// withheld; per-character pushes split the marker at every offset.
func TestSingleTag_PerCharacterChunkingLongFieldName(t *testing.T) {
	const content = "Hello, streaming world!"
	full := "<paragraphs>" + content + "</paragraphs>"

	ex := NewSingleTag("paragraphs")
	var out strings.Builder
	for _, r := range full {
		emitted, err := ex.Push(string(r))
		require.NoError(t, err)
		out.WriteString(emitted)
	}

	assert.True(t, ex.Done())
	assert.Equal(t, content, out.String())
	assert.NotContains(t, out.String(), "</")
}

func TestSingleTag_FlushReleasesWithheldMargin(t *testing.T) {
	ex := NewSingleTag("text")

	out, err := ex.Push("<text>Hello world")
	require.NoError(t, err)

	// Everything but the trailing safe margin streams immediately;
	// flush returns exactly the withheld remainder.
	flushed := ex.Flush()
	assert.Equal(t, "Hello world", out+flushed)
	assert.Len(t, flushed, safeMargin)
	assert.False(t, ex.Done(), "flush is best-effort recovery, not closure")
}

func TestSingleTag_FlushWithoutOpenField(t *testing.T) {
	ex := NewSingleTag("text")

	_, err := ex.Push("nothing structured yet")
	require.NoError(t, err)
	assert.Equal(t, "", ex.Flush())
}

func TestSingleTag_PushAfterDoneIsDropped(t *testing.T) {
	ex := NewSingleTag("text")

	out, err := ex.Push("<text>Hi</text>")
	require.NoError(t, err)
	assert.Equal(t, "Hi", out)
	require.True(t, ex.Done())

	out, err = ex.Push("<text>again</text>")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestSingleTag_BufferTrimmedOutsideField(t *testing.T) {
	ex := NewSingleTag("text")

	// Junk without markers far beyond the buffer cap must not
	// accumulate while no field is open.
	junk := strings.Repeat("j", maxBufferSize+4096)
	_, err := ex.Push(junk)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(ex.buf), trimKeep)

	out, err := ex.Push("<text>still works</text>")
	require.NoError(t, err)
	assert.Equal(t, "still works", out)
}

func TestSingleTag_Reset(t *testing.T) {
	ex := NewSingleTag("text")

	_, err := ex.Push("<text>first</text>")
	require.NoError(t, err)
	require.True(t, ex.Done())

	ex.Reset()
	assert.False(t, ex.Done())

	out, err := ex.Push("<text>second</text>")
	require.NoError(t, err)
	assert.Equal(t, "second", out)
}
