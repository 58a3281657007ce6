package store

import "errors"

// ErrCorruptStore indicates the persisted record table cannot be trusted.
// Fatal at startup: the process must refuse to proceed rather than
// overwrite the data.
var ErrCorruptStore = errors.New("record store is corrupt")

// ErrEntryNotFound indicates no record matches the requested index.
var ErrEntryNotFound = errors.New("record not found")
