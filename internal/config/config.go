// Package config loads and validates the TOML configuration file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations.
type Paths struct {
	DataDir    string `toml:"data_dir"`    // record table + counter
	ChunksDir  string `toml:"chunks_dir"`  // pre-split per-source chunk files
	TempDir    string `toml:"temp_dir"`    // preview scratch space
	ExportsDir string `toml:"exports_dir"` // committed clips
	Catalog    string `toml:"catalog"`     // YAML source catalog
}

// Audio contains extraction and encoding parameters.
type Audio struct {
	ChunkDurationMS int    `toml:"chunk_duration_ms"`
	SampleRate      int    `toml:"sample_rate"`
	Channels        int    `toml:"channels"`
	BitRate         string `toml:"bit_rate"`
	FFmpegPath      string `toml:"ffmpeg_path"` // empty = $PATH lookup
}

// Server contains HTTP listener settings.
type Server struct {
	Bind            string   `toml:"bind"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	ReadTimeoutSec  int      `toml:"read_timeout_sec"`
	WriteTimeoutSec int      `toml:"write_timeout_sec"`
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

// Config encapsulates all configuration values.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Audio   Audio   `toml:"audio"`
	Server  Server  `toml:"server"`
	Logging Logging `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    "~/.local/share/clipcut",
			ChunksDir:  "~/.local/share/clipcut/chunks",
			TempDir:    "~/.local/share/clipcut/tmp",
			ExportsDir: "~/.local/share/clipcut/exports",
			Catalog:    "~/.config/clipcut/sources.yaml",
		},
		Audio: Audio{
			ChunkDurationMS: 20000,
			SampleRate:      44100,
			Channels:        2,
			BitRate:         "192k",
		},
		Server: Server{
			Bind:            "127.0.0.1:8080",
			ReadTimeoutSec:  15,
			WriteTimeoutSec: 60,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/clipcut/config.toml")
}

// Load parses and validates a configuration file. An empty path falls back
// to the default location; a missing file yields the defaults. Path fields
// come back expanded and absolute.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = defaultPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return expanded, true, nil
}

func (c *Config) normalize() error {
	for _, p := range []*string{
		&c.Paths.DataDir,
		&c.Paths.ChunksDir,
		&c.Paths.TempDir,
		&c.Paths.ExportsDir,
		&c.Paths.Catalog,
	} {
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}

	c.Logging.Level = strings.TrimSpace(strings.ToLower(c.Logging.Level))
	c.Logging.Format = strings.TrimSpace(strings.ToLower(c.Logging.Format))
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Audio.ChunkDurationMS <= 0 {
		return errors.New("audio.chunk_duration_ms must be positive")
	}
	if c.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be positive")
	}
	if c.Audio.Channels != 1 && c.Audio.Channels != 2 {
		return errors.New("audio.channels must be 1 or 2")
	}
	if strings.TrimSpace(c.Audio.BitRate) == "" {
		return errors.New("audio.bit_rate must be set")
	}
	if strings.TrimSpace(c.Server.Bind) == "" {
		return errors.New("server.bind must be set")
	}
	if c.Server.ReadTimeoutSec <= 0 || c.Server.WriteTimeoutSec <= 0 {
		return errors.New("server timeouts must be positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q not one of text, json", c.Logging.Format)
	}
	return nil
}

// EnsureDirectories creates the writable directories the daemon needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ChunksDir, c.Paths.TempDir, c.Paths.ExportsDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CreateSample writes a commented sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && pathValue[1] == '/' {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
