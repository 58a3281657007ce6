package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipcut/internal/session"
)

// CutCmd creates the cut command: a one-shot cut-and-submit for scripted use.
func CutCmd(env *Env) *cobra.Command {
	var (
		configPath string
		quote      string
		title      string
		noSubmit   bool
	)

	cmd := &cobra.Command{
		Use:   "cut <source-id> <timestamps>",
		Short: "Cut a quote clip and record it",
		Long: `Cut a clip from a source and append it to the record table.

Timestamps take the form start-end, where each side is seconds, MM:SS, or
MM:SS:ms. With --no-submit the clip is extracted and exported but nothing
is recorded.`,
		Example: `  clipcut cut 2012 01:30:000-01:34:000 --quote "Example" --title t1
  clipcut cut 2015 90-94 -q "Short form" -t intro --no-submit`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCut(cmd, env, configPath, args[0], args[1], quote, title, noSubmit)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ~/.config/clipcut/config.toml)")
	cmd.Flags().StringVarP(&quote, "quote", "q", "", "Quote text (single line)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Clip title")
	cmd.Flags().BoolVar(&noSubmit, "no-submit", false, "Preview only, do not record")

	return cmd
}

func runCut(cmd *cobra.Command, env *Env, configPath, sourceID, timestamps, quote, title string, noSubmit bool) error {
	ctx := cmd.Context()

	if strings.TrimSpace(quote) == "" {
		return fmt.Errorf("%w: --quote", ErrMissingField)
	}
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: --title", ErrMissingField)
	}

	p, err := buildPipeline(env, configPath)
	if err != nil {
		return err
	}
	if _, err := p.cat.Lookup(sourceID); err != nil {
		return err
	}

	res, err := p.sess.Cut(ctx, session.CutRequest{
		SourceID:   sourceID,
		Timestamps: timestamps,
		Quote:      quote,
		Title:      title,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stdout, "Cut %s (%s)\n", res.Display, strings.TrimSpace(res.Length))

	if noSubmit {
		fmt.Fprintf(env.Stdout, "Preview: %s\n", res.TempPath)
		return nil
	}

	rec, err := p.sess.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stdout, "Recorded entry %d: %s_%s.mp3\n", rec.Index, rec.Title, rec.SourceID)
	return nil
}
