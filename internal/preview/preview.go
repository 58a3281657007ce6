// Package preview derives waveform figure data from decoded audio.
package preview

import (
	"encoding/binary"

	"clipcut/internal/audio"
)

// Figure is the renderable summary of a clip: peak amplitudes per bucket,
// normalized to [0, 1], plus the clip duration for the time axis.
type Figure struct {
	Peaks      []float64
	DurationMS int
}

// Peaks folds an s16le buffer into n amplitude buckets. Each bucket holds
// the maximum absolute sample across its span, so short transients stay
// visible at any zoom level. A silent buffer yields all-zero peaks.
func Peaks(buf *audio.Buffer, n int) Figure {
	fig := Figure{DurationMS: buf.DurationMS()}
	if n <= 0 {
		return fig
	}
	fig.Peaks = make([]float64, n)

	frameSize := 2 * buf.Channels
	frames := len(buf.Data) / frameSize
	if frames == 0 {
		return fig
	}

	var maxAmp float64
	for bucket := 0; bucket < n; bucket++ {
		lo := bucket * frames / n
		hi := (bucket + 1) * frames / n
		if hi <= lo {
			hi = lo + 1
		}
		if hi > frames {
			hi = frames
		}

		var peak int
		for f := lo; f < hi; f++ {
			base := f * frameSize
			for c := 0; c < buf.Channels; c++ {
				s := int(int16(binary.LittleEndian.Uint16(buf.Data[base+2*c:])))
				if s < 0 {
					s = -s
				}
				if s > peak {
					peak = s
				}
			}
		}
		fig.Peaks[bucket] = float64(peak)
		if fig.Peaks[bucket] > maxAmp {
			maxAmp = fig.Peaks[bucket]
		}
	}

	if maxAmp > 0 {
		for i := range fig.Peaks {
			fig.Peaks[i] /= maxAmp
		}
	}
	return fig
}
