package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
)

// stderrTailLimit caps how much FFmpeg stderr is carried into error messages.
const stderrTailLimit = 2048

// runFn is the function type for running FFmpeg with piped stdin/stdout.
type runFn func(ctx context.Context, path string, args []string, stdin io.Reader, stdout io.Writer) error

// Executor runs FFmpeg commands with injectable execution (for testing).
// FFmpeg writes diagnostics to stderr; stdout and stdin are reserved for
// raw sample data when piping.
type Executor struct {
	run runFn
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRun sets a custom run function (for testing).
func WithRun(fn runFn) ExecutorOption {
	return func(e *Executor) { e.run = fn }
}

// NewExecutor creates an Executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{run: defaultRun}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes FFmpeg at path with args, wiring stdin and stdout to the
// given reader/writer (either may be nil). On failure the error wraps
// ErrExec and carries the tail of FFmpeg's stderr.
func (e *Executor) Run(ctx context.Context, path string, args []string, stdin io.Reader, stdout io.Writer) error {
	return e.run(ctx, path, args, stdin, stdout)
}

// defaultRun is the production implementation.
func defaultRun(ctx context.Context, path string, args []string, stdin io.Reader, stdout io.Writer) error {
	// #nosec G204 -- path and args are built internally, not from raw user input
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v: %s", ErrExec, err, stderrTail(stderr.Bytes()))
	}
	return nil
}

// stderrTail returns the last portion of FFmpeg stderr output.
// The useful failure reason is at the end; the head is banner noise.
func stderrTail(b []byte) string {
	if len(b) > stderrTailLimit {
		b = b[len(b)-stderrTailLimit:]
	}
	return string(b)
}
