package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"clipcut/internal/audio"
	"clipcut/internal/catalog"
	"clipcut/internal/cli"
	"clipcut/internal/ffmpeg"
	"clipcut/internal/session"
	"clipcut/internal/store"
	"clipcut/internal/timestamp"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitData       = 5
	ExitAudio      = 6
	ExitInterrupt  = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env := cli.DefaultEnv()

	rootCmd := &cobra.Command{
		Use:     "clipcut",
		Short:   "Cut, preview, and catalog quote clips from segmented audio",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.ServeCmd(env))
	rootCmd.AddCommand(cli.CutCmd(env))
	rootCmd.AddCommand(cli.RecordsCmd(env))
	rootCmd.AddCommand(cli.SplitCmd(env))
	rootCmd.AddCommand(cli.ReindexCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Setup errors: the environment is not ready to run.
	if errors.Is(err, ffmpeg.ErrNotFound) {
		return ExitSetup
	}

	// Validation errors: the request itself is wrong.
	if errors.Is(err, timestamp.ErrFormat) || errors.Is(err, catalog.ErrUnknownSource) ||
		errors.Is(err, cli.ErrFileNotFound) || errors.Is(err, cli.ErrMissingField) ||
		errors.Is(err, session.ErrNoPendingEntry) {
		return ExitValidation
	}

	// Data errors: the record table is missing entries or unreadable.
	if errors.Is(err, store.ErrEntryNotFound) || errors.Is(err, store.ErrCorruptStore) {
		return ExitData
	}

	// Audio errors: extraction, encoding, or splitting failed.
	if errors.Is(err, audio.ErrExtraction) || errors.Is(err, audio.ErrSplitFailed) ||
		errors.Is(err, audio.ErrSampleFormat) || errors.Is(err, ffmpeg.ErrExec) {
		return ExitAudio
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",
	"unknown flag",
	"unknown shorthand",
	"unknown command",
	"flag needs an argument",
	"invalid argument",
	"accepts ",
	"requires at least",
	"requires at most",
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
