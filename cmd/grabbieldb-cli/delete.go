package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/grabbiel/grabbieldb/clientcli"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <image|video> <id> [id...]",
	Short: "Delete media rows",
	Long: `Delete images or videos by id.

The stored objects stay in the bucket; only the rows are removed.

Examples:
  grabbieldb-cli delete image 42
  grabbieldb-cli delete video 3 4 5 --yes`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	kind, err := clientcli.ParseKind(args[0])
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}

	client, _, err := getClient()
	if err != nil {
		return err
	}

	if !deleteYes {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete %d %s row(s) on %s", len(ids), kind, client.Endpoint()),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			return handlePromptError(promptErr)
		}
	}

	results, err := client.Delete(cmd.Context(), kind, ids)
	if err != nil {
		return err
	}

	if err := getFormatter().FormatDelete(os.Stdout, results); err != nil {
		return err
	}

	if clientcli.HasDeleteErrors(results) {
		return &exitError{code: 1}
	}
	return nil
}
