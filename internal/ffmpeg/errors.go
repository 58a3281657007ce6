package ffmpeg

import "errors"

// ErrNotFound indicates the FFmpeg binary could not be located.
var ErrNotFound = errors.New("ffmpeg not found")

// ErrExec indicates FFmpeg exited with a failure.
var ErrExec = errors.New("ffmpeg execution failed")
