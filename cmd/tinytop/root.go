package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/tinytop/internal/config"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "tinytop",
	Short:         "tinytop is a small game launcher for a tabletop display",
	Long:          `tinytop discovers games in a directory, shows a menu to pick one and runs it on the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var envErr *domain.EnvironmentError
	if errors.As(err, &envErr) {
		return envErr.ExitCode()
	}
	return 1
}

// loadConfig layers the --games flag over the config file and environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags().Changed("config"))
	if err != nil {
		return cfg, &domain.EnvironmentError{Cause: domain.CauseConfig, Err: err}
	}
	if cmd.Flags().Changed("games") {
		cfg.GamesDir, _ = cmd.Flags().GetString("games")
	}
	return cfg, nil
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "Path to the configuration file")
	rootCmd.PersistentFlags().String("games", "games", "Directory containing the games")
}
