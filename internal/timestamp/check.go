package timestamp

import "fmt"

// CheckOrder is the pre-flight sanity check run by callers before Parse.
// It validates that (startMin, startSec, startMS) < (endMin, endSec, endMS)
// lexicographically. A fully zero start and end is not an order error;
// callers detect the "nothing entered" case separately.
func CheckOrder(startMin, startSec, startMS, endMin, endSec, endMS int) error {
	if startMin == 0 && startSec == 0 && startMS == 0 &&
		endMin == 0 && endSec == 0 && endMS == 0 {
		return nil
	}

	switch {
	case startMin < endMin:
		return nil
	case startMin == endMin && startSec < endSec:
		return nil
	case startMin == endMin && startSec == endSec && startMS < endMS:
		return nil
	}

	return fmt.Errorf("%w: start timestamp is larger than or equal to end timestamp", ErrFormat)
}
