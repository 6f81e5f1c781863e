package tagstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniffer_Classification(t *testing.T) {
	type input struct {
		chunks []string
	}

	type expected struct {
		kind ContentKind
		text string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "object payload is structured",
			input:    input{chunks: []string{`{"action":"search"}`}},
			expected: expected{kind: KindStructured},
		},
		{
			name:     "array payload is structured",
			input:    input{chunks: []string{`[1, 2, 3]`}},
			expected: expected{kind: KindStructured},
		},
		{
			name:     "angle bracket is tagged",
			input:    input{chunks: []string{"<text>Hi</text>"}},
			expected: expected{kind: KindTagged, text: "Hi"},
		},
		{
			name:     "letter is free text",
			input:    input{chunks: []string{"Hello there"}},
			expected: expected{kind: KindFreeText, text: "Hello there"},
		},
		{
			name:     "leading whitespace is kept for free text",
			input:    input{chunks: []string{"  \n ", "Hello"}},
			expected: expected{kind: KindFreeText, text: "  \n Hello"},
		},
		{
			name:     "pure whitespace never classifies",
			input:    input{chunks: []string{"   ", "\n\t"}},
			expected: expected{kind: KindUnknown},
		},
		{
			name:     "whitespace before tag still classifies as tagged",
			input:    input{chunks: []string{"  <text>Hi</text>"}},
			expected: expected{kind: KindTagged, text: "Hi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSniffer("text")

			var out strings.Builder
			for _, chunk := range tt.input.chunks {
				emitted, err := s.Push(chunk)
				require.NoError(t, err)
				out.WriteString(emitted)
			}

			assert.Equal(t, tt.expected.kind, s.Kind())
			assert.Equal(t, tt.expected.text, out.String())
		})
	}
}

func TestSniffer_StructuredPayloadWithheld(t *testing.T) {
	s := NewSniffer("text")

	var out strings.Builder
	for _, chunk := range []string{`{"action":`, `"search",`, `"query":"weather"}`} {
		emitted, err := s.Push(chunk)
		require.NoError(t, err)
		out.WriteString(emitted)
	}

	assert.Equal(t, "", out.String(), "structured payloads never stream")
	assert.Equal(t, "", s.Flush())
	assert.Equal(t, `{"action":"search","query":"weather"}`, s.Raw())
}

func TestSniffer_ClassificationIsPermanent(t *testing.T) {
	s := NewSniffer("text")

	out, err := s.Push("plain prose first")
	require.NoError(t, err)
	require.Equal(t, KindFreeText, s.Kind())
	require.Equal(t, "plain prose first", out)

	// Markup arriving later in a free-text stream is just text.
	out, err = s.Push(" <text>not special</text>")
	require.NoError(t, err)
	assert.Equal(t, " <text>not special</text>", out)
	assert.Equal(t, KindFreeText, s.Kind())
}

func TestSniffer_TaggedDelegatesToSingleTag(t *testing.T) {
	s := NewSniffer("text")

	var out strings.Builder
	for _, chunk := range []string{"<response><te", "xt>Hello world!</text>", "</response>"} {
		emitted, err := s.Push(chunk)
		require.NoError(t, err)
		out.WriteString(emitted)
	}
	out.WriteString(s.Flush())

	assert.Equal(t, KindTagged, s.Kind())
	assert.Equal(t, "Hello world!", out.String())
	assert.True(t, s.Done())
}

func TestSniffer_Reset(t *testing.T) {
	s := NewSniffer("text")

	_, err := s.Push(`{"withheld": true}`)
	require.NoError(t, err)
	require.Equal(t, KindStructured, s.Kind())

	s.Reset()
	assert.Equal(t, KindUnknown, s.Kind())
	assert.Equal(t, "", s.Raw())

	out, err := s.Push("free text now")
	require.NoError(t, err)
	assert.Equal(t, "free text now", out)
}
