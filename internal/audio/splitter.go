package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"clipcut/internal/ffmpeg"
)

// Splitter is the offline pre-splitting pass: it cuts a full source track
// into fixed-duration chunk files named {source_id}_{index}_{duration}.mp3.
// Chunks are contiguous and zero-indexed; the final chunk may be shorter.
type Splitter struct {
	ffmpegPath      string
	chunkDurationMS int
	bitRate         string
	exec            runner
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithSplitterRunner sets the FFmpeg runner (for testing).
func WithSplitterRunner(r runner) SplitterOption {
	return func(s *Splitter) { s.exec = r }
}

// NewSplitter creates a Splitter producing chunkDurationMS-long MP3 chunks.
func NewSplitter(ffmpegPath string, chunkDurationMS int, bitRate string, opts ...SplitterOption) (*Splitter, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}
	if chunkDurationMS <= 0 {
		return nil, fmt.Errorf("chunk duration must be positive, got %dms", chunkDurationMS)
	}
	if bitRate == "" {
		bitRate = DefaultBitRate
	}

	s := &Splitter{
		ffmpegPath:      ffmpegPath,
		chunkDurationMS: chunkDurationMS,
		bitRate:         bitRate,
		exec:            ffmpeg.NewExecutor(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Split cuts sourcePath into chunk files under outDir using the FFmpeg
// segment muxer. Existing chunk files for the same source are overwritten.
func (s *Splitter) Split(ctx context.Context, sourcePath, sourceID, outDir string) error {
	pattern := filepath.Join(outDir, fmt.Sprintf("%s_%%d_%d.mp3", sourceID, s.chunkDurationMS))

	args := []string{
		"-y",
		"-hide_banner",
		"-i", sourcePath,
		"-map", "0:a",
		"-f", "segment",
		"-segment_time", formatSeconds(s.chunkDurationMS),
		"-reset_timestamps", "1",
		"-c:a", "libmp3lame",
		"-b:a", s.bitRate,
		pattern,
	}

	if err := s.exec.Run(ctx, s.ffmpegPath, args, nil, nil); err != nil {
		return fmt.Errorf("%w: source %s: %v", ErrSplitFailed, sourceID, err)
	}
	return nil
}

// formatSeconds renders a millisecond count as fractional seconds for
// FFmpeg arguments.
func formatSeconds(ms int) string {
	return strconv.FormatFloat(float64(ms)/1000, 'f', 3, 64)
}
