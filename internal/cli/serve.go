package cli

import (
	"github.com/spf13/cobra"

	"clipcut/internal/server"
)

// ServeCmd creates the serve command.
// The env parameter provides injectable dependencies for testing.
func ServeCmd(env *Env) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the quote-cutting HTTP service",
		Long: `Run the HTTP service backing the quote editor.

Exposes the source catalog, the record table, and the cut/submit/discard/load
clip lifecycle under /api/v1, plus static preview and export files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, env, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ~/.config/clipcut/config.toml)")

	return cmd
}

func runServe(cmd *cobra.Command, env *Env, configPath string) error {
	p, err := buildPipeline(env, configPath)
	if err != nil {
		return err
	}

	srv := server.New(p.sess, p.st, p.cat, p.cfg.Server,
		p.cfg.Paths.TempDir, p.cfg.Paths.ExportsDir, server.WithLogger(p.log))

	p.log.Info("starting service",
		"bind", p.cfg.Server.Bind,
		"sources", p.cat.Len(),
		"records", len(p.st.Records()))
	return srv.Run(cmd.Context())
}
