package tagstream

// Extractor consumes incrementally produced text and decides, chunk by
// chunk, what portion is safe to surface to a consumer.
//
// The upstream transport calls Push as chunks arrive and Flush once the
// stream ends gracefully. Push must not be called after Done reports
// true. Extractors are single-threaded: all work is synchronous string
// scanning and no internal locking is performed.
type Extractor interface {
	// Push consumes one chunk and returns the text that is safe to
	// emit now. It returns ErrChunkTooLarge when the chunk exceeds
	// MaxChunkSize.
	Push(chunk string) (string, error)

	// Flush signals graceful end-of-stream and returns any withheld
	// text.
	Flush() string

	// Done reports whether the extractor has seen the end of the
	// content it extracts.
	Done() bool

	// Reset clears transient state so the same instance can process
	// a fresh stream.
	Reset()
}
