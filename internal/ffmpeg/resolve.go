// Package ffmpeg locates and executes the FFmpeg binary used for decoding,
// encoding and splitting audio.
package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
)

// EnvFFmpegPath overrides FFmpeg resolution when set.
const EnvFFmpegPath = "CLIPCUT_FFMPEG_PATH"

// envProvider abstracts environment and path lookup operations.
type envProvider interface {
	Getenv(key string) string
	LookPath(file string) (string, error)
}

// osEnvProvider implements envProvider using os and exec packages.
type osEnvProvider struct{}

func (osEnvProvider) Getenv(key string) string { return os.Getenv(key) }

func (osEnvProvider) LookPath(file string) (string, error) { return exec.LookPath(file) }

// Compile-time interface verification.
var _ envProvider = osEnvProvider{}

// Resolver finds the FFmpeg binary.
type Resolver struct {
	env envProvider
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithEnvProvider sets a custom environment provider (for testing).
func WithEnvProvider(env envProvider) ResolverOption {
	return func(r *Resolver) { r.env = env }
}

// NewResolver creates a Resolver with production defaults.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{env: osEnvProvider{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds ffmpeg using the following precedence:
//  1. CLIPCUT_FFMPEG_PATH environment variable (error if set but invalid)
//  2. System PATH
func (r *Resolver) Resolve() (string, error) {
	if envPath := r.env.Getenv(EnvFFmpegPath); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%w: %s is set to %q but binary not found",
				ErrNotFound, EnvFFmpegPath, envPath)
		}
		return envPath, nil
	}

	path, err := r.env.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("%w: install ffmpeg or set %s", ErrNotFound, EnvFFmpegPath)
	}
	return path, nil
}
