package audio

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"clipcut/internal/chunk"
	"clipcut/internal/timestamp"
)

// defaultMaxParallel bounds concurrent chunk decodes. Chunks are small
// (tens of seconds) so a handful of FFmpeg processes is plenty.
const defaultMaxParallel = 4

// chunkDecoder decodes one chunk file into a Buffer.
type chunkDecoder interface {
	Decode(ctx context.Context, path string) (*Buffer, error)
}

// Extractor loads the chunk files covering a timestamp range and produces a
// single concatenated Buffer.
//
// End-boundary conventions, preserved for output parity with previously
// exported clips:
//   - a range inside one chunk yields [startOff, endOff+1) — one extra
//     millisecond at the end (inclusive-end convention);
//   - a range spanning chunks ends at endOff *exclusive* in the final chunk.
type Extractor struct {
	dir             string
	chunkDurationMS int
	dec             chunkDecoder
	statter         fileStatter
	maxParallel     int
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithFileStatter sets the file statter (for testing).
func WithFileStatter(s fileStatter) ExtractorOption {
	return func(x *Extractor) { x.statter = s }
}

// WithMaxParallel bounds concurrent chunk decodes.
func WithMaxParallel(n int) ExtractorOption {
	return func(x *Extractor) { x.maxParallel = n }
}

// NewExtractor creates an Extractor reading chunk files from dir.
func NewExtractor(dir string, chunkDurationMS int, dec chunkDecoder, opts ...ExtractorOption) (*Extractor, error) {
	if dir == "" {
		return nil, fmt.Errorf("chunk directory cannot be empty")
	}
	if chunkDurationMS <= 0 {
		return nil, fmt.Errorf("chunk duration must be positive, got %dms", chunkDurationMS)
	}
	if dec == nil {
		return nil, fmt.Errorf("decoder cannot be nil")
	}

	x := &Extractor{
		dir:             dir,
		chunkDurationMS: chunkDurationMS,
		dec:             dec,
		statter:         osFileStatter{},
		maxParallel:     defaultMaxParallel,
	}
	for _, opt := range opts {
		opt(x)
	}
	if x.maxParallel < 1 {
		x.maxParallel = 1
	}
	return x, nil
}

// Extract produces the concatenated audio for r from sourceID's chunk chain.
// Any missing or undecodable chunk fails the whole attempt with ErrExtraction.
func (x *Extractor) Extract(ctx context.Context, sourceID string, r timestamp.Range) (*Buffer, error) {
	startLoc, err := chunk.Locate(r.StartMS, x.chunkDurationMS)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	endLoc, err := chunk.Locate(r.EndMS, x.chunkDurationMS)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	buffers, err := x.decodeRange(ctx, sourceID, startLoc.Chunk, endLoc.Chunk)
	if err != nil {
		return nil, err
	}

	// Single-chunk case: inclusive end, one extra millisecond.
	if startLoc.Chunk == endLoc.Chunk {
		return buffers[0].Slice(startLoc.OffsetMS, endLoc.OffsetMS+1), nil
	}

	// Spanning case: tail of the start chunk, full intervening chunks in
	// ascending order, then the prefix of the final chunk (exclusive end).
	out := buffers[0].Slice(startLoc.OffsetMS, buffers[0].DurationMS())
	for i := 1; i < len(buffers)-1; i++ {
		if err := out.Append(buffers[i]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
		}
	}
	last := buffers[len(buffers)-1].Slice(0, endLoc.OffsetMS)
	if err := out.Append(last); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return out, nil
}

// decodeRange decodes chunks first..last (inclusive) and returns them in
// chunk order. Decodes run in a bounded worker pool; results keep their slot.
func (x *Extractor) decodeRange(ctx context.Context, sourceID string, first, last int) ([]*Buffer, error) {
	paths := make([]string, 0, last-first+1)
	for i := first; i <= last; i++ {
		p := filepath.Join(x.dir, chunk.FileName(sourceID, i, x.chunkDurationMS))
		if _, err := x.statter.Stat(p); err != nil {
			return nil, fmt.Errorf("%w: chunk file %s: %v", ErrExtraction, filepath.Base(p), err)
		}
		paths = append(paths, p)
	}

	buffers := make([]*Buffer, len(paths))
	sem := make(chan struct{}, x.maxParallel)

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			buf, err := x.dec.Decode(ctx, p)
			if err != nil {
				return fmt.Errorf("%w: chunk file %s: %v", ErrExtraction, filepath.Base(p), err)
			}
			buffers[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrExtraction) {
			return nil, err
		}
		// Context cancellation still surfaces as an extraction failure.
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return buffers, nil
}
