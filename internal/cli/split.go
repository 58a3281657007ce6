package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clipcut/internal/audio"
)

// SplitCmd creates the split command: offline preparation of chunk files.
func SplitCmd(env *Env) *cobra.Command {
	var (
		configPath string
		input      string
	)

	cmd := &cobra.Command{
		Use:   "split <source-id>",
		Short: "Split a source track into fixed-length chunks",
		Long: `Split a full-length source track into the fixed-length chunk files the
extractor reads, named {source}_{index}_{duration}.mp3. The final chunk may
be shorter than the rest.

The input track comes from the catalog's audio field, or from --input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, env, configPath, args[0], input)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ~/.config/clipcut/config.toml)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Source track path (default: catalog audio field)")

	return cmd
}

func runSplit(cmd *cobra.Command, env *Env, configPath, sourceID, input string) error {
	ctx := cmd.Context()

	cfg, err := env.ConfigLoader.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	if input == "" {
		cat, err := env.CatalogLoader.Load(cfg.Paths.Catalog)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		src, err := cat.Lookup(sourceID)
		if err != nil {
			return err
		}
		if src.Audio == "" {
			return fmt.Errorf("%w: catalog source %q has no audio field and --input not given", ErrMissingField, sourceID)
		}
		input = src.Audio
	}
	if _, err := os.Stat(input); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, input)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}

	ffmpegPath := cfg.Audio.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath, err = env.FFmpegResolver.Resolve()
		if err != nil {
			return err
		}
	}

	splitter, err := audio.NewSplitter(ffmpegPath, cfg.Audio.ChunkDurationMS, cfg.Audio.BitRate)
	if err != nil {
		return err
	}
	if err := splitter.Split(ctx, input, sourceID, cfg.Paths.ChunksDir); err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "Split %s into %s\n", input, cfg.Paths.ChunksDir)
	return nil
}
