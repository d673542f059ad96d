package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/grabbiel/grabbieldb"
	"github.com/grabbiel/grabbieldb/config"
)

var exportCmd = &cobra.Command{
	Use:   "export <table>",
	Short: "Export a table as CSV or YAML",
	Example: `  grabbieldb export images > images.csv
  grabbieldb export videos --format yaml -o videos.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format: csv, yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()

	format, err := grabbieldb.ParseExportFormat(exportFormat)
	if err != nil {
		return err
	}

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
		w = f
	}

	browser := grabbieldb.NewTableBrowser(db.SchemaRepo(), cfg.Admin.PageSize)
	if err := browser.Export(ctx, args[0], format, w); err != nil {
		return err
	}

	if exportOutput != "" {
		slog.Info("export complete", "table", args[0], "format", format, "file", exportOutput)
	}
	return nil
}
