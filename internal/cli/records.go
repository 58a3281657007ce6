package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// RecordsCmd creates the records command listing the record table.
func RecordsCmd(env *Env) *cobra.Command {
	var (
		configPath string
		plain      bool
	)

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List recorded clips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecords(env, configPath, plain)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ~/.config/clipcut/config.toml)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Tab-separated output, no table borders")

	return cmd
}

func runRecords(env *Env, configPath string, plain bool) error {
	cfg, err := env.ConfigLoader.Load(configPath)
	if err != nil {
		return err
	}
	st, err := env.StoreOpener.Open(cfg.Paths.DataDir)
	if err != nil {
		return err
	}

	rows := st.Records()
	if len(rows) == 0 {
		fmt.Fprintln(env.Stdout, "No records.")
		return nil
	}

	headers := []string{"Index", "Title", "Quote", "Source", "Length", "Edits", "Time", "Submitted"}
	cells := make([][]string, 0, len(rows))
	for _, rec := range rows {
		cells = append(cells, []string{
			strconv.Itoa(rec.Index),
			rec.Title,
			rec.Quote,
			rec.SourceID,
			strings.TrimSpace(rec.Length),
			strconv.Itoa(rec.Edits),
			rec.TimeRange,
			rec.SubmittedAt,
		})
	}

	if plain || !stdoutIsTerminal() {
		for _, row := range cells {
			fmt.Fprintln(env.Stdout, strings.Join(row, "\t"))
		}
		return nil
	}

	fmt.Fprintln(env.Stdout, renderTable(headers, cells))
	return nil
}

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	// Index, Length, and Edits read better right-aligned.
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
