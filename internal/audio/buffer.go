// Package audio holds the decoded-sample model and the segmented-audio
// extraction subsystem: decoding pre-split chunk files, slicing them by
// millisecond offsets, concatenating across chunk boundaries, and exporting
// the result to MP3.
package audio

import "fmt"

// Buffer is decoded audio: interleaved signed 16-bit little-endian samples.
// Slicing operates in milliseconds, like the preview player addresses audio.
type Buffer struct {
	SampleRate int
	Channels   int
	Data       []byte
}

// frameWidth is the byte width of one sample frame (all channels).
func (b *Buffer) frameWidth() int {
	return b.Channels * 2
}

// Frames returns the number of sample frames held.
func (b *Buffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Data) / b.frameWidth()
}

// DurationMS returns the buffer duration in milliseconds.
func (b *Buffer) DurationMS() int {
	if b.SampleRate == 0 {
		return 0
	}
	return int(int64(b.Frames()) * 1000 / int64(b.SampleRate))
}

// byteOffset converts a millisecond position to a frame-aligned byte
// offset, clamped to the data bounds.
func (b *Buffer) byteOffset(ms int) int {
	if ms < 0 {
		return 0
	}
	frames := int(int64(ms) * int64(b.SampleRate) / 1000)
	off := frames * b.frameWidth()
	if off > len(b.Data) {
		off = len(b.Data)
	}
	return off
}

// Slice returns the samples in [fromMS, toMS) as a new Buffer.
// Bounds are clamped; an inverted range yields an empty buffer.
func (b *Buffer) Slice(fromMS, toMS int) *Buffer {
	from := b.byteOffset(fromMS)
	to := b.byteOffset(toMS)
	if to < from {
		to = from
	}
	out := &Buffer{SampleRate: b.SampleRate, Channels: b.Channels}
	out.Data = append(out.Data, b.Data[from:to]...)
	return out
}

// Append concatenates other onto b. Both buffers must share the same
// sample rate and channel count.
func (b *Buffer) Append(other *Buffer) error {
	if other.SampleRate != b.SampleRate || other.Channels != b.Channels {
		return fmt.Errorf("%w: %dHz/%dch vs %dHz/%dch",
			ErrSampleFormat, b.SampleRate, b.Channels, other.SampleRate, other.Channels)
	}
	b.Data = append(b.Data, other.Data...)
	return nil
}
