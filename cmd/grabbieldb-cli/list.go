package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/grabbiel/grabbieldb/clientcli"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list <images|videos>",
	Short: "List recent media",
	Long: `List the most recent images or videos, newest first.

The server caps the limit at 100.

Examples:
  grabbieldb-cli list images
  grabbieldb-cli list videos -n 50 --json`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"images", "videos"},
	RunE:      runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", clientcli.DefaultListLimit, "maximum rows to list")
}

func runList(cmd *cobra.Command, args []string) error {
	kind, err := clientcli.ParseKind(args[0])
	if err != nil {
		return err
	}

	client, _, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.List(cmd.Context(), clientcli.ListOptions{Kind: kind, Limit: listLimit})
	if err != nil {
		return err
	}

	return getFormatter().FormatList(os.Stdout, result)
}
