package tagstream

import (
	"context"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// StreamingCallback adapts an Extractor to LangChainGo's streaming
// callback, so a model call can be filtered while it generates:
//
//	ex := tagstream.NewSingleTag("text")
//	opt := tagstream.StreamingCallback(ex, func(s string) { fmt.Print(s) })
//	resp, err := llm.GenerateContent(ctx, messages, opt)
//	// ...
//	fmt.Print(ex.Flush())
//
// emit receives whatever each Push lets through; it is skipped for
// empty emissions. A Push error aborts the model stream. Call Flush on
// the extractor once the model call returns to release margin-withheld
// content.
func StreamingCallback(e Extractor, emit func(string)) llms.CallOption {
	return llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
		out, err := e.Push(string(chunk))
		if err != nil {
			return err
		}
		if out != "" && emit != nil {
			emit(out)
		}
		return nil
	})
}

// StreamingText wires an extractor into a model call and returns the
// emissions as a TextStream, for consumers that prefer ranging over a
// channel to registering a callback:
//
//	ex := tagstream.NewSingleTag("text")
//	opt, stream := tagstream.StreamingText(ex)
//	go func() {
//	    defer stream.Close()
//	    if _, err := llm.GenerateContent(ctx, messages, opt); err == nil {
//	        stream.Emit(ex.Flush())
//	    }
//	}()
//	for text := range stream.Chunks() {
//	    fmt.Print(text)
//	}
func StreamingText(e Extractor) (llms.CallOption, *TextStream) {
	stream := NewTextStream()
	return StreamingCallback(e, stream.Emit), stream
}

// TextStream carries extractor emissions to a consumer goroutine.
// Emit never blocks, even when there is no listener or the listener is
// slow: emissions queue internally and a background goroutine drains
// the queue to the output channel.
type TextStream struct {
	mu     sync.Mutex
	queue  []string
	cond   *sync.Cond
	closed bool
	out    chan string
}

// NewTextStream creates a TextStream ready to receive emissions.
func NewTextStream() *TextStream {
	s := &TextStream{
		queue: make([]string, 0, 64),
		out:   make(chan string, 1),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.drainLoop()
	return s
}

// drainLoop moves queued emissions to the output channel until the
// stream is closed and the queue is empty.
func (s *TextStream) drainLoop() {
	for {
		text, ok := s.dequeue()
		if !ok {
			close(s.out)
			return
		}
		s.out <- text
	}
}

// dequeue blocks until an emission is queued or the stream is closed.
func (s *TextStream) dequeue() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.queue) == 0 && !s.closed {
		s.cond.Wait()
	}
	if len(s.queue) == 0 {
		return "", false
	}

	text := s.queue[0]
	s.queue = s.queue[1:]
	return text, true
}

// Emit queues text for the consumer. It never blocks and is safe to
// call from any goroutine. Empty strings and emissions after Close are
// ignored.
func (s *TextStream) Emit(text string) {
	if text == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.queue = append(s.queue, text)
	s.cond.Signal()
}

// Chunks returns the channel of emissions. It is closed after Close
// once all queued emissions have been delivered.
func (s *TextStream) Chunks() <-chan string {
	return s.out
}

// Close marks the stream complete. Safe to call more than once.
func (s *TextStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cond.Signal()
}
