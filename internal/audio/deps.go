package audio

import (
	"context"
	"io"
	"os"
)

// runner executes an FFmpeg process with piped stdin/stdout.
// Satisfied by *ffmpeg.Executor.
type runner interface {
	Run(ctx context.Context, path string, args []string, stdin io.Reader, stdout io.Writer) error
}

// fileStatter retrieves file information.
type fileStatter interface {
	Stat(name string) (os.FileInfo, error)
}

// osFileStatter implements fileStatter using os.Stat.
type osFileStatter struct{}

func (osFileStatter) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}
