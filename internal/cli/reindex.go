package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ReindexCmd creates the reindex command.
func ReindexCmd(env *Env) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Renumber the record table from 1 and reset edit counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReindex(env, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ~/.config/clipcut/config.toml)")

	return cmd
}

func runReindex(env *Env, configPath string) error {
	cfg, err := env.ConfigLoader.Load(configPath)
	if err != nil {
		return err
	}
	st, err := env.StoreOpener.Open(cfg.Paths.DataDir)
	if err != nil {
		return err
	}
	if err := st.Reindex(); err != nil {
		return err
	}
	fmt.Fprintf(env.Stdout, "Reindexed %d records.\n", len(st.Records()))
	return nil
}
