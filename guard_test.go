package tagstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateChunkSize(t *testing.T) {
	assert.NoError(t, validateChunkSize(""))
	assert.NoError(t, validateChunkSize(strings.Repeat("a", MaxChunkSize)))

	err := validateChunkSize(strings.Repeat("a", MaxChunkSize+1))
	assert.ErrorIs(t, err, ErrChunkTooLarge)
}

func TestTrimBuffer(t *testing.T) {
	small := strings.Repeat("x", maxBufferSize)
	assert.Equal(t, small, trimBuffer(small), "buffer at the cap stays untouched")

	big := strings.Repeat("x", maxBufferSize) + strings.Repeat("y", 100)
	trimmed := trimBuffer(big)
	assert.Len(t, trimmed, trimKeep)
	assert.Equal(t, big[len(big)-trimKeep:], trimmed, "only the trailing portion survives")
}
