package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grabbiel/grabbieldb/clientcli"
)

var (
	version = "dev"

	cfgFile    string
	profile    string
	endpoint   string
	storage    string
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:           "grabbieldb-cli",
	Version:       version,
	Short:         "Client for the grabbieldb media server",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `grabbieldb-cli uploads, lists and deletes images and videos through the
media manager (default http://127.0.0.1:8889).

Connection settings come from, lowest precedence first:
  - the selected profile in ~/.grabbieldb/config.yaml
  - GRABBIELDB_ENDPOINT and GRABBIELDB_STORAGE
  - the --endpoint and --storage flags`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.grabbieldb/config.yaml, env: GRABBIELDB_CLI_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile name (env: GRABBIELDB_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "media server URL (env: GRABBIELDB_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&storage, "storage", "", "storage type for uploads: public or private (env: GRABBIELDB_STORAGE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(uploadImageCmd)
	rootCmd.AddCommand(uploadVideoCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exitErr *exitError
		if !errors.As(err, &exitErr) {
			_ = getFormatter().FormatError(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

// getConfigPath returns the flag value, then GRABBIELDB_CLI_CONFIG, then the
// default path.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := clientcli.ConfigPathFromEnv(); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges config from the profile, env vars, and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	name := profile
	if name == "" {
		name = clientcli.ProfileFromEnv()
	}

	cf, err := clientcli.LoadConfigFile(getConfigPath())
	switch {
	case err == nil:
		p, perr := cf.GetProfile(name)
		if perr != nil && (name != "" || !errors.Is(perr, clientcli.ErrNoProfiles)) {
			return nil, perr
		}
		configs = append(configs, clientcli.ConfigFromProfile(p))
	case errors.Is(err, os.ErrNotExist) && name == "" && cfgFile == "":
		// no config file is fine without an explicit profile
	default:
		return nil, fmt.Errorf("load config: %w", err)
	}

	configs = append(configs,
		clientcli.ConfigFromEnv(),
		&clientcli.Config{Endpoint: endpoint, Storage: storage},
	)

	return clientcli.MergeConfig(configs...), nil
}

func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

func getClient() (*clientcli.Client, *clientcli.Config, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, nil, err
	}

	client, err := clientcli.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

// exitError is returned when we want to exit with a specific code
// but don't want to print an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
