package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/grabbiel/grabbieldb/config"
	"github.com/grabbiel/grabbieldb/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the images and videos tables",
	Long: `Create the media tables (and their content_id indexes) when missing, then
validate that existing tables carry the expected columns.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	db, err := database.Open(cmd.Context(), cfg.Database.Config, true)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _ = db.Close() }()

	slog.Info("database migration complete",
		"type", cfg.Database.Type,
		"images", cfg.Database.Tables.Images,
		"videos", cfg.Database.Tables.Videos,
	)
	return nil
}
