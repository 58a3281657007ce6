// Package chunk maps absolute millisecond offsets onto the fixed-size chain
// of pre-split audio chunk files belonging to a source track.
package chunk

import (
	"errors"
	"fmt"
)

// ErrBadOffset indicates a negative offset or non-positive chunk duration.
var ErrBadOffset = errors.New("invalid chunk offset")

// Locator addresses a position inside the chunk chain of a source.
// It is derived arithmetic, never persisted; recompute on demand.
type Locator struct {
	Chunk    int // zero-based chunk file number
	OffsetMS int // offset within that chunk, in [0, chunkDurationMS)
}

// Locate maps an absolute millisecond offset to its chunk file and
// intra-chunk offset for the given chunk duration.
func Locate(offsetMS, chunkDurationMS int) (Locator, error) {
	if chunkDurationMS <= 0 {
		return Locator{}, fmt.Errorf("%w: chunk duration %dms must be positive", ErrBadOffset, chunkDurationMS)
	}
	if offsetMS < 0 {
		return Locator{}, fmt.Errorf("%w: offset %dms is negative", ErrBadOffset, offsetMS)
	}
	return Locator{
		Chunk:    offsetMS / chunkDurationMS,
		OffsetMS: offsetMS % chunkDurationMS,
	}, nil
}

// FileName returns the chunk file name produced by the offline splitting
// pass: {source_id}_{chunk_index}_{chunk_duration_ms}.mp3. Chunks are
// contiguous and zero-indexed; only the final chunk of a source may be
// shorter than chunkDurationMS.
func FileName(sourceID string, index, chunkDurationMS int) string {
	return fmt.Sprintf("%s_%d_%d.mp3", sourceID, index, chunkDurationMS)
}
