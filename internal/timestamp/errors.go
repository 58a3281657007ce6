package timestamp

import "errors"

// ErrFormat indicates a timestamp range string that cannot be parsed.
// Always caller-correctable; never fatal.
var ErrFormat = errors.New("invalid timestamp format")
