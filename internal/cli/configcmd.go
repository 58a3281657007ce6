package cli

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"clipcut/internal/config"
)

// ConfigCmd creates the config command group.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or initialize configuration",
	}
	cmd.AddCommand(configInitCmd(env), configShowCmd(env))
	return cmd
}

func configInitCmd(env *Env) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a commented sample config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
				}
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintf(env.Stdout, "Wrote sample config to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func configShowCmd(env *Env) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := env.ConfigLoader.Load(configPath)
			if err != nil {
				return err
			}
			out, err := toml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = env.Stdout.Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ~/.config/clipcut/config.toml)")
	return cmd
}
