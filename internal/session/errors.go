package session

import "errors"

// ErrNoPendingEntry indicates submit was called with nothing staged.
// Reported to the caller as a no-op, never a crash; the record table is
// left untouched.
var ErrNoPendingEntry = errors.New("no pending entry to submit")
