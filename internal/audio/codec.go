package audio

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"clipcut/internal/ffmpeg"
)

// Default decode parameters. All chunk files of a deployment are decoded to
// the same PCM shape so buffers concatenate without resampling.
const (
	DefaultSampleRate = 44100
	DefaultChannels   = 2

	// DefaultBitRate is the lossy export bit rate for clip MP3s.
	DefaultBitRate = "192k"
)

// Decoder turns a compressed audio file into a PCM Buffer via FFmpeg.
type Decoder struct {
	ffmpegPath string
	sampleRate int
	channels   int
	exec       runner
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithDecoderRunner sets the FFmpeg runner (for testing).
func WithDecoderRunner(r runner) DecoderOption {
	return func(d *Decoder) { d.exec = r }
}

// NewDecoder creates a Decoder producing sampleRate/channels s16le PCM.
func NewDecoder(ffmpegPath string, sampleRate, channels int, opts ...DecoderOption) (*Decoder, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if channels <= 0 {
		channels = DefaultChannels
	}

	d := &Decoder{
		ffmpegPath: ffmpegPath,
		sampleRate: sampleRate,
		channels:   channels,
		exec:       ffmpeg.NewExecutor(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Decode reads path and returns its samples as a Buffer.
func (d *Decoder) Decode(ctx context.Context, path string) (*Buffer, error) {
	args := []string{
		"-hide_banner",
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(d.sampleRate),
		"-ac", strconv.Itoa(d.channels),
		"pipe:1",
	}

	var out bytes.Buffer
	if err := d.exec.Run(ctx, d.ffmpegPath, args, nil, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return &Buffer{
		SampleRate: d.sampleRate,
		Channels:   d.channels,
		Data:       out.Bytes(),
	}, nil
}

// Encoder exports a PCM Buffer to an MP3 file via FFmpeg.
type Encoder struct {
	ffmpegPath string
	bitRate    string
	exec       runner
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithEncoderRunner sets the FFmpeg runner (for testing).
func WithEncoderRunner(r runner) EncoderOption {
	return func(e *Encoder) { e.exec = r }
}

// NewEncoder creates an Encoder with the given MP3 bit rate ("192k" form).
func NewEncoder(ffmpegPath, bitRate string, opts ...EncoderOption) (*Encoder, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}
	if bitRate == "" {
		bitRate = DefaultBitRate
	}

	e := &Encoder{
		ffmpegPath: ffmpegPath,
		bitRate:    bitRate,
		exec:       ffmpeg.NewExecutor(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Export writes buf to outPath as MP3. Export failure aborts the whole
// extraction attempt and wraps ErrExtraction.
func (e *Encoder) Export(ctx context.Context, buf *Buffer, outPath string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-f", "s16le",
		"-ar", strconv.Itoa(buf.SampleRate),
		"-ac", strconv.Itoa(buf.Channels),
		"-i", "pipe:0",
		"-c:a", "libmp3lame",
		"-b:a", e.bitRate,
		outPath,
	}

	if err := e.exec.Run(ctx, e.ffmpegPath, args, bytes.NewReader(buf.Data), nil); err != nil {
		return fmt.Errorf("%w: export to %s: %v", ErrExtraction, outPath, err)
	}
	return nil
}
