package tagstream

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func applyCallOption(t *testing.T, opt llms.CallOption) func(context.Context, []byte) error {
	t.Helper()
	opts := llms.CallOptions{}
	opt(&opts)
	require.NotNil(t, opts.StreamingFunc)
	return opts.StreamingFunc
}

func TestStreamingCallback(t *testing.T) {
	ex := NewSingleTag("text")

	var got strings.Builder
	fn := applyCallOption(t, StreamingCallback(ex, func(s string) {
		got.WriteString(s)
	}))

	for _, chunk := range []string{"<text>Hello", " world!</text>"} {
		require.NoError(t, fn(context.Background(), []byte(chunk)))
	}
	got.WriteString(ex.Flush())

	assert.Equal(t, "Hello world!", got.String())
}

func TestStreamingText_ChannelConsumption(t *testing.T) {
	ex := NewSingleTag("text")

	opt, stream := StreamingText(ex)
	fn := applyCallOption(t, opt)

	go func() {
		defer stream.Close()
		for _, chunk := range []string{"<text>Hello", " world", "!</text>"} {
			if err := fn(context.Background(), []byte(chunk)); err != nil {
				return
			}
		}
		stream.Emit(ex.Flush())
	}()

	var got strings.Builder
	for text := range stream.Chunks() {
		got.WriteString(text)
	}
	assert.Equal(t, "Hello world!", got.String())
}

func TestTextStream_EmitNeverBlocksWithoutListener(t *testing.T) {
	stream := NewTextStream()

	// Queue far more than the channel buffer before anyone reads.
	for i := 0; i < 1000; i++ {
		stream.Emit("x")
	}
	stream.Close()

	n := 0
	for range stream.Chunks() {
		n++
	}
	assert.Equal(t, 1000, n)
}

func TestTextStream_EmitAfterCloseIsIgnored(t *testing.T) {
	stream := NewTextStream()
	stream.Close()
	stream.Emit("late")

	_, ok := <-stream.Chunks()
	assert.False(t, ok)
}

func TestStreamingCallback_PushErrorAbortsStream(t *testing.T) {
	ex := NewSingleTag("text")

	fn := applyCallOption(t, StreamingCallback(ex, nil))

	err := fn(context.Background(), []byte(strings.Repeat("a", MaxChunkSize+1)))
	assert.ErrorIs(t, err, ErrChunkTooLarge)
}
