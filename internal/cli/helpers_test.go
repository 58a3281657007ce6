package cli_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"clipcut/internal/catalog"
	"clipcut/internal/cli"
	"clipcut/internal/config"
	"clipcut/internal/store"
)

var errTest = errors.New("test failure")

// stubConfigLoader returns a canned config regardless of path.
type stubConfigLoader struct {
	cfg *config.Config
	err error
}

func (s stubConfigLoader) Load(string) (*config.Config, error) { return s.cfg, s.err }

// stubStoreOpener returns a canned store.
type stubStoreOpener struct {
	st  *store.Store
	err error
}

func (s stubStoreOpener) Open(string) (*store.Store, error) { return s.st, s.err }

// stubCatalogLoader returns a canned catalog.
type stubCatalogLoader struct {
	cat *catalog.Catalog
	err error
}

func (s stubCatalogLoader) Load(string) (*catalog.Catalog, error) { return s.cat, s.err }

// stubResolver returns a canned ffmpeg path.
type stubResolver struct {
	path string
	err  error
}

func (s stubResolver) Resolve() (string, error) { return s.path, s.err }

// testConfig returns a valid config rooted in a per-test directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ChunksDir = filepath.Join(base, "chunks")
	cfg.Paths.TempDir = filepath.Join(base, "tmp")
	cfg.Paths.ExportsDir = filepath.Join(base, "exports")
	cfg.Paths.Catalog = filepath.Join(base, "sources.yaml")
	return &cfg
}

// testStore opens a real store in a per-test directory.
func testStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "records"))
	if err != nil {
		t.Fatal(err)
	}
	return st
}

// newEnv builds a test Env with captured stdout/stderr.
func newEnv(t *testing.T, opts ...cli.EnvOption) (*cli.Env, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	base := []cli.EnvOption{
		cli.WithStdout(&stdout),
		cli.WithStderr(&bytes.Buffer{}),
		cli.WithFFmpegResolver(stubResolver{path: "/usr/bin/ffmpeg"}),
	}
	return cli.NewEnv(append(base, opts...)...), &stdout
}
