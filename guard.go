package tagstream

import "errors"

const (
	// MaxChunkSize is the largest chunk a single Push accepts.
	MaxChunkSize = 1 << 20 // 1 MiB

	// maxBufferSize bounds the internal buffer of non-validating
	// extractors while no field is open.
	maxBufferSize = 100 * 1024

	// trimKeep is how much trailing buffer survives a trim.
	trimKeep = 1024
)

// ErrChunkTooLarge is returned by Push when a single chunk exceeds
// MaxChunkSize. This is a caller error: oversized chunks must be split
// upstream, the extractor never retries them.
var ErrChunkTooLarge = errors.New("tagstream: chunk exceeds maximum size")

func validateChunkSize(chunk string) error {
	if len(chunk) > MaxChunkSize {
		return ErrChunkTooLarge
	}
	return nil
}

// trimBuffer bounds buffer growth while no field is open. When the
// buffer exceeds maxBufferSize only the trailing trimKeep bytes are
// kept, enough to still catch an open marker split across chunks.
func trimBuffer(buf string) string {
	if len(buf) > maxBufferSize {
		return buf[len(buf)-trimKeep:]
	}
	return buf
}
