package cli

import (
	"io"
	"os"
	"time"

	"clipcut/internal/catalog"
	"clipcut/internal/config"
	"clipcut/internal/ffmpeg"
	"clipcut/internal/store"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing commands in isolation.
//
// All fields have production defaults via DefaultEnv(). Tests override
// specific fields using the With* options.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	ConfigLoader   ConfigLoader
	StoreOpener    StoreOpener
	CatalogLoader  CatalogLoader
	FFmpegResolver FFmpegResolver
}

// ConfigLoader loads the TOML configuration.
type ConfigLoader interface {
	Load(path string) (*config.Config, error)
}

// StoreOpener opens the durable record table.
type StoreOpener interface {
	Open(dir string) (*store.Store, error)
}

// CatalogLoader loads the YAML source catalog.
type CatalogLoader interface {
	Load(path string) (*catalog.Catalog, error)
}

// FFmpegResolver locates the ffmpeg binary.
type FFmpegResolver interface {
	Resolve() (string, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) { e.Stdout = w }
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) { e.Stderr = w }
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) { e.Getenv = fn }
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) { e.Now = fn }
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) { e.ConfigLoader = l }
}

// WithStoreOpener sets the store opener.
func WithStoreOpener(o StoreOpener) EnvOption {
	return func(e *Env) { e.StoreOpener = o }
}

// WithCatalogLoader sets the catalog loader.
func WithCatalogLoader(l CatalogLoader) EnvOption {
	return func(e *Env) { e.CatalogLoader = l }
}

// WithFFmpegResolver sets the ffmpeg resolver.
func WithFFmpegResolver(r FFmpegResolver) EnvOption {
	return func(e *Env) { e.FFmpegResolver = r }
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		Getenv:         os.Getenv,
		Now:            time.Now,
		ConfigLoader:   defaultConfigLoader{},
		StoreOpener:    defaultStoreOpener{},
		CatalogLoader:  defaultCatalogLoader{},
		FFmpegResolver: ffmpeg.NewResolver(),
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

type defaultConfigLoader struct{}

func (defaultConfigLoader) Load(path string) (*config.Config, error) {
	return config.Load(path)
}

type defaultStoreOpener struct{}

func (defaultStoreOpener) Open(dir string) (*store.Store, error) {
	return store.Open(dir)
}

type defaultCatalogLoader struct{}

func (defaultCatalogLoader) Load(path string) (*catalog.Catalog, error) {
	return catalog.Load(path)
}

// Compile-time interface verification.
var (
	_ ConfigLoader   = defaultConfigLoader{}
	_ StoreOpener    = defaultStoreOpener{}
	_ CatalogLoader  = defaultCatalogLoader{}
	_ FFmpegResolver = (*ffmpeg.Resolver)(nil)
)
