package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/grabbiel/grabbieldb/clientcli"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage media server profiles",
	Long: `Manage server profiles in the configuration file.

Select a profile with --profile or GRABBIELDB_PROFILE.

Configuration is stored in ~/.grabbieldb/config.yaml`,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured profiles",
	Long: `List all profiles configured in the config file.

The default profile is marked with an asterisk (*).`,
	RunE: runConfigureList,
}

var configureAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or update a profile",
	Long: `Add a profile interactively.

You will be prompted for the endpoint URL, the default storage type and
whether to make it the default profile. The endpoint is probed before
saving.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureAdd,
}

var configureRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureRemove,
}

var configureSetDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigureSetDefault,
}

var configureShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile details",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigureShow,
}

func init() {
	configureCmd.AddCommand(configureListCmd)
	configureCmd.AddCommand(configureAddCmd)
	configureCmd.AddCommand(configureRemoveCmd)
	configureCmd.AddCommand(configureSetDefaultCmd)
	configureCmd.AddCommand(configureShowCmd)
}

func loadProfiles() (*clientcli.ConfigFile, error) {
	cf, err := clientcli.LoadConfigFile(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cf, nil
}

func runConfigureList(_ *cobra.Command, _ []string) error {
	cf, err := clientcli.LoadConfigFile(getConfigPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load config: %w", err)
	}

	if cf == nil || len(cf.Profiles) == 0 {
		fmt.Println("No profiles configured.")
		fmt.Println("Run 'grabbieldb-cli configure add <name>' to create one.")
		return nil
	}

	def, err := cf.GetDefaultProfile()
	if err != nil {
		return err
	}

	return getFormatter().FormatProfileList(os.Stdout, cf.Profiles, def.Name)
}

func runConfigureAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	configPath := getConfigPath()

	cf, err := clientcli.LoadConfigFile(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cf = &clientcli.ConfigFile{}
	}

	existing, _ := cf.GetProfile(name)
	if existing != nil {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Profile '%s' already exists. Update it", name),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			return handlePromptError(promptErr)
		}
	}

	endpointDefault := clientcli.DefaultEndpoint
	if existing != nil {
		endpointDefault = existing.Endpoint
	}

	endpointPrompt := promptui.Prompt{
		Label:   "Endpoint URL",
		Default: endpointDefault,
		Validate: func(input string) error {
			return (&clientcli.Config{Endpoint: input}).Validate()
		},
	}
	endpointURL, err := endpointPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	storageSelect := promptui.Select{
		Label: "Default storage",
		Items: []string{"public", "private"},
	}
	_, storageVal, err := storageSelect.Run()
	if err != nil {
		return handlePromptError(err)
	}

	setAsDefault := len(cf.Profiles) == 0 || (existing != nil && existing.Default)
	if !setAsDefault {
		defaultPrompt := promptui.Prompt{
			Label:     "Set as default profile",
			IsConfirm: true,
		}
		if _, promptErr := defaultPrompt.Run(); promptErr == nil {
			setAsDefault = true
		}
	}

	fmt.Print("Testing connection... ")
	if connErr := testServerConnection(cmd.Context(), endpointURL); connErr != nil {
		fmt.Println("FAILED")
		fmt.Printf("Warning: could not reach server: %v\n", connErr)

		continuePrompt := promptui.Prompt{
			Label:     "Save profile anyway",
			IsConfirm: true,
		}
		if _, promptErr := continuePrompt.Run(); promptErr != nil {
			return handlePromptError(promptErr)
		}
	} else {
		fmt.Println("OK")
	}

	p := clientcli.Profile{
		Name:     name,
		Endpoint: strings.TrimSuffix(endpointURL, "/"),
		Storage:  storageVal,
	}

	if existing != nil {
		err = cf.UpdateProfile(p)
	} else {
		err = cf.AddProfile(p)
	}
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	if setAsDefault {
		if err := cf.SetDefault(name); err != nil {
			return err
		}
	}

	if err := cf.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	if existing != nil {
		fmt.Printf("Profile '%s' updated.\n", name)
	} else {
		fmt.Printf("Profile '%s' added.\n", name)
	}
	if setAsDefault {
		fmt.Println("Set as default profile.")
	}

	return nil
}

func runConfigureRemove(_ *cobra.Command, args []string) error {
	name := args[0]

	cf, err := loadProfiles()
	if err != nil {
		return err
	}

	if _, err = cf.GetProfile(name); err != nil {
		return err
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Remove profile '%s'", name),
		IsConfirm: true,
	}
	if _, promptErr := prompt.Run(); promptErr != nil {
		return handlePromptError(promptErr)
	}

	if err := cf.RemoveProfile(name); err != nil {
		return fmt.Errorf("remove profile: %w", err)
	}

	if err := cf.Save(getConfigPath()); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Profile '%s' removed.\n", name)
	return nil
}

func runConfigureSetDefault(_ *cobra.Command, args []string) error {
	name := args[0]

	cf, err := loadProfiles()
	if err != nil {
		return err
	}

	if err := cf.SetDefault(name); err != nil {
		return err
	}

	if err := cf.Save(getConfigPath()); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Default profile set to '%s'.\n", name)
	return nil
}

func runConfigureShow(_ *cobra.Command, args []string) error {
	cf, err := loadProfiles()
	if err != nil {
		return err
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	p, err := cf.GetProfile(name)
	if err != nil {
		return err
	}

	def, err := cf.GetDefaultProfile()
	if err != nil {
		return err
	}

	return getFormatter().FormatProfileShow(os.Stdout, *p, def.Name == p.Name)
}

// testServerConnection treats any HTTP response from the endpoint as reachable.
func testServerConnection(ctx context.Context, endpointURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	_ = resp.Body.Close()

	return nil
}

// handlePromptError turns a declined or interrupted prompt into a clean exit.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrEOF) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
