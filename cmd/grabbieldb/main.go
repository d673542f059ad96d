package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grabbiel/grabbieldb/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "grabbieldb",
	Short:   "Content database admin and media manager",
	Long: `grabbieldb serves two small web applications over one content database:
a table browser (admin, default 127.0.0.1:8888) and a media manager that
uploads images and videos to Google Cloud Storage (default 127.0.0.1:8889).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		files, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(files, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file(s), merged left to right (default: ./grabbieldb.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (env: GRABBIELDB_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (env: GRABBIELDB_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("spool-path", "", "upload spool directory (env: GRABBIELDB_SPOOL_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: GRABBIELDB_LOG_LEVEL)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
