package cli

import (
	"fmt"
	"log/slog"

	"clipcut/internal/audio"
	"clipcut/internal/catalog"
	"clipcut/internal/config"
	"clipcut/internal/session"
	"clipcut/internal/store"
)

// pipeline is the fully wired clip-cutting stack shared by the serve and
// cut commands.
type pipeline struct {
	cfg  *config.Config
	log  *slog.Logger
	st   *store.Store
	cat  *catalog.Catalog
	sess *session.Manager
}

func buildPipeline(env *Env, configPath string) (*pipeline, error) {
	cfg, err := env.ConfigLoader.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	log := newLogger(cfg.Logging, env.Stderr)

	ffmpegPath := cfg.Audio.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath, err = env.FFmpegResolver.Resolve()
		if err != nil {
			return nil, err
		}
	}

	dec, err := audio.NewDecoder(ffmpegPath, cfg.Audio.SampleRate, cfg.Audio.Channels)
	if err != nil {
		return nil, err
	}
	enc, err := audio.NewEncoder(ffmpegPath, cfg.Audio.BitRate)
	if err != nil {
		return nil, err
	}
	ext, err := audio.NewExtractor(cfg.Paths.ChunksDir, cfg.Audio.ChunkDurationMS, dec)
	if err != nil {
		return nil, err
	}

	st, err := env.StoreOpener.Open(cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}
	cat, err := env.CatalogLoader.Load(cfg.Paths.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	sess, err := session.New(ext, enc, dec, st,
		cfg.Paths.TempDir, cfg.Paths.ExportsDir, session.WithLogger(log))
	if err != nil {
		return nil, err
	}

	return &pipeline{cfg: cfg, log: log, st: st, cat: cat, sess: sess}, nil
}
