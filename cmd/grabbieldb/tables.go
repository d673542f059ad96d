package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/grabbiel/grabbieldb"
	"github.com/grabbiel/grabbieldb/config"
)

var tablesCmd = &cobra.Command{
	Use:   "tables [table]",
	Short: "List tables, or the columns of one table",
	Example: `  grabbieldb tables
  grabbieldb tables images`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTables,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	browser := grabbieldb.NewTableBrowser(db.SchemaRepo(), cfg.Admin.PageSize)
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		tables, err := browser.Tables(ctx)
		if err != nil {
			return err
		}

		for _, t := range tables {
			_, _ = fmt.Fprintln(out, t)
		}
		return nil
	}

	cols, err := browser.Columns(ctx, args[0])
	if err != nil {
		return err
	}

	writeColumns(out, cols)
	return nil
}

func writeColumns(w io.Writer, cols []grabbieldb.Column) {
	table := newTable(w, []string{"NAME", "TYPE", "NOT NULL", "KEY"})
	for _, c := range cols {
		key := ""
		if c.PrimaryKey {
			key = "PK"
		}
		table.Append([]string{c.Name, c.Type, strconv.FormatBool(c.NotNull), key})
	}
	table.Render()
}

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}
