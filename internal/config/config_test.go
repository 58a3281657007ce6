package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipcut/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Audio.ChunkDurationMS != 20000 {
		t.Errorf("ChunkDurationMS = %d, want 20000", cfg.Audio.ChunkDurationMS)
	}
	if cfg.Audio.SampleRate != 44100 || cfg.Audio.Channels != 2 {
		t.Errorf("audio defaults = %+v", cfg.Audio)
	}
	if cfg.Server.Bind != "127.0.0.1:8080" {
		t.Errorf("Bind = %q", cfg.Server.Bind)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
}

func TestLoad_OverridesMergeWithDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[audio]
chunk_duration_ms = 5000

[logging]
level = "DEBUG"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Audio.ChunkDurationMS != 5000 {
		t.Errorf("ChunkDurationMS = %d, want 5000", cfg.Audio.ChunkDurationMS)
	}
	// Untouched fields keep their defaults.
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want default 44100", cfg.Audio.SampleRate)
	}
	// Level is normalized to lower case.
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoad_ExpandsPaths(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[paths]
data_dir = "~/clips/data"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in test environment")
	}
	if want := filepath.Join(home, "clips", "data"); cfg.Paths.DataDir != want {
		t.Errorf("DataDir = %q, want %q", cfg.Paths.DataDir, want)
	}
	if !filepath.IsAbs(cfg.Paths.ExportsDir) {
		t.Errorf("ExportsDir %q not absolute", cfg.Paths.ExportsDir)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "zero chunk duration",
			body:    "[audio]\nchunk_duration_ms = 0\n",
			wantErr: "chunk_duration_ms",
		},
		{
			name:    "bad channel count",
			body:    "[audio]\nchannels = 6\n",
			wantErr: "channels",
		},
		{
			name:    "empty bind",
			body:    "[server]\nbind = \"\"\n",
			wantErr: "bind",
		},
		{
			name:    "unknown log level",
			body:    "[logging]\nlevel = \"trace\"\n",
			wantErr: "logging.level",
		},
		{
			name:    "unknown log format",
			body:    "[logging]\nformat = \"xml\"\n",
			wantErr: "logging.format",
		},
		{
			name:    "malformed toml",
			body:    "[audio\n",
			wantErr: "parse config",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ChunksDir = filepath.Join(base, "chunks")
	cfg.Paths.TempDir = filepath.Join(base, "tmp")
	cfg.Paths.ExportsDir = filepath.Join(base, "exports")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.ChunksDir, cfg.Paths.TempDir, cfg.Paths.ExportsDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %q not created: %v", dir, err)
		}
	}
}

func TestCreateSample(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample() error: %v", err)
	}

	// The sample must itself load cleanly.
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(sample) error: %v", err)
	}
	if cfg.Audio.ChunkDurationMS != 20000 {
		t.Errorf("sample ChunkDurationMS = %d, want 20000", cfg.Audio.ChunkDurationMS)
	}
}
