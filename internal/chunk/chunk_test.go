package chunk_test

import (
	"errors"
	"testing"

	"clipcut/internal/chunk"
)

func TestLocate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		offsetMS   int
		durationMS int
		want       chunk.Locator
	}{
		{name: "zero offset", offsetMS: 0, durationMS: 20000, want: chunk.Locator{Chunk: 0, OffsetMS: 0}},
		{name: "inside first chunk", offsetMS: 19999, durationMS: 20000, want: chunk.Locator{Chunk: 0, OffsetMS: 19999}},
		{name: "exact boundary", offsetMS: 20000, durationMS: 20000, want: chunk.Locator{Chunk: 1, OffsetMS: 0}},
		{name: "start of clip at 90s", offsetMS: 90000, durationMS: 20000, want: chunk.Locator{Chunk: 4, OffsetMS: 10000}},
		{name: "end of clip at 94s", offsetMS: 94000, durationMS: 20000, want: chunk.Locator{Chunk: 4, OffsetMS: 14000}},
		{name: "small duration", offsetMS: 7, durationMS: 3, want: chunk.Locator{Chunk: 2, OffsetMS: 1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := chunk.Locate(tt.offsetMS, tt.durationMS)
			if err != nil {
				t.Fatalf("Locate(%d, %d) error: %v", tt.offsetMS, tt.durationMS, err)
			}
			if got != tt.want {
				t.Errorf("Locate(%d, %d) = %+v, want %+v", tt.offsetMS, tt.durationMS, got, tt.want)
			}
		})
	}
}

// Locate satisfies offset == chunk*D + intra and 0 <= intra < D.
func TestLocate_Reconstruction(t *testing.T) {
	t.Parallel()

	const d = 20000
	for offset := 0; offset < 10*d; offset += 1357 {
		loc, err := chunk.Locate(offset, d)
		if err != nil {
			t.Fatalf("Locate(%d, %d) error: %v", offset, d, err)
		}
		if loc.Chunk*d+loc.OffsetMS != offset {
			t.Errorf("Locate(%d): %d*%d+%d != offset", offset, loc.Chunk, d, loc.OffsetMS)
		}
		if loc.OffsetMS < 0 || loc.OffsetMS >= d {
			t.Errorf("Locate(%d): intra offset %d out of [0, %d)", offset, loc.OffsetMS, d)
		}
	}
}

func TestLocate_Rejects(t *testing.T) {
	t.Parallel()

	if _, err := chunk.Locate(-1, 20000); !errors.Is(err, chunk.ErrBadOffset) {
		t.Errorf("negative offset: error = %v, want ErrBadOffset", err)
	}
	if _, err := chunk.Locate(0, 0); !errors.Is(err, chunk.ErrBadOffset) {
		t.Errorf("zero duration: error = %v, want ErrBadOffset", err)
	}
	if _, err := chunk.Locate(0, -5); !errors.Is(err, chunk.ErrBadOffset) {
		t.Errorf("negative duration: error = %v, want ErrBadOffset", err)
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	if got, want := chunk.FileName("2012", 4, 20000), "2012_4_20000.mp3"; got != want {
		t.Errorf("FileName = %q, want %q", got, want)
	}
}
