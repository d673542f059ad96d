package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/grabbiel/grabbieldb/config"
	"github.com/grabbiel/grabbieldb/filesystem"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove stale files from the upload spool",
	Long: `Remove files left in the upload spool by interrupted uploads.

Every upload is removed from the spool once it reached object storage, so
anything older than --older-than is garbage. serve runs the same pass at
startup using spool.max_age.`,
	Args: cobra.NoArgs,
	RunE: runCleanup,
}

var cleanupOlderThan time.Duration

func init() {
	cleanupCmd.Flags().DurationVar(&cleanupOlderThan, "older-than", time.Hour, "minimum age of removed files")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	spool, err := filesystem.Open(cfg.Spool.Path, slog.Default())
	if err != nil {
		return fmt.Errorf("open spool: %w", err)
	}
	defer func() { _ = spool.Close() }()

	slog.Info("starting cleanup", "path", spool.Dir(), "older_than", cleanupOlderThan)

	removed, err := spool.Prune(cmd.Context(), time.Now().Add(-cleanupOlderThan))
	if err != nil {
		return fmt.Errorf("prune spool: %w", err)
	}

	slog.Info("cleanup complete", "files_removed", removed)
	return nil
}
