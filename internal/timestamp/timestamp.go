// Package timestamp parses human "start-end" timestamp ranges into
// millisecond offsets and canonical display strings.
package timestamp

import (
	"fmt"
	"strconv"
	"strings"
)

// maxInputLen guards against pathological input.
const maxInputLen = 50

// Range is a validated, immutable timestamp range.
// Display is the lossy MM:SS-MM:SS form used for filenames and the record
// table; milliseconds are dropped from it regardless of input precision.
type Range struct {
	StartMS int
	EndMS   int
	Display string
}

// DurationMS returns the length of the range in milliseconds.
func (r Range) DurationMS() int {
	return r.EndMS - r.StartMS
}

// LengthSeconds renders the range duration as the fixed-width decimal
// string stored in the Length column, e.g. "      4.00s".
func (r Range) LengthSeconds() string {
	return fmt.Sprintf("%10.2f", float64(r.DurationMS())/1000) + "s"
}

// Parse validates raw and converts it to a Range.
// Accepted segment granularities are S, M:S and M:S:ms; the two segments
// are separated by exactly one '-'. Spaces are stripped before parsing.
// The end offset must be strictly greater than the start offset.
// All failures wrap ErrFormat.
func Parse(raw string) (Range, error) {
	s := strings.ReplaceAll(raw, " ", "")
	if len(s) > maxInputLen {
		return Range{}, fmt.Errorf("%w: input exceeds %d characters", ErrFormat, maxInputLen)
	}

	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: expected exactly one '-' separator in %q", ErrFormat, raw)
	}

	startMS, startStr, err := parseSegment(parts[0])
	if err != nil {
		return Range{}, err
	}
	endMS, endStr, err := parseSegment(parts[1])
	if err != nil {
		return Range{}, err
	}

	if endMS <= startMS {
		return Range{}, fmt.Errorf("%w: end %q is not after start %q", ErrFormat, parts[1], parts[0])
	}

	return Range{
		StartMS: startMS,
		EndMS:   endMS,
		Display: startStr + "-" + endStr,
	}, nil
}

// parseSegment converts a single timestamp segment into an absolute
// millisecond count and its MM:SS display form. The display drops
// milliseconds and does not normalize seconds >= 60 ("90" renders "00:90");
// this mirrors the file naming of previously committed clips.
func parseSegment(seg string) (int, string, error) {
	fields := strings.Split(seg, ":")

	vals := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return 0, "", fmt.Errorf("%w: bad field %q in segment %q", ErrFormat, f, seg)
		}
		vals[i] = n
	}

	switch len(fields) {
	case 3: // M:S:ms
		ms := vals[0]*60000 + vals[1]*1000 + vals[2]
		return ms, fmt.Sprintf("%02d:%02d", vals[0], vals[1]), nil
	case 2: // M:S
		ms := vals[0]*60000 + vals[1]*1000
		return ms, fmt.Sprintf("%02d:%02d", vals[0], vals[1]), nil
	case 1: // S
		return vals[0] * 1000, fmt.Sprintf("00:%02d", vals[0]), nil
	default:
		return 0, "", fmt.Errorf("%w: segment %q has %d fields, want 1-3", ErrFormat, seg, len(fields))
	}
}
