package main

import (
	"fmt"
	"os"

	"github.com/frontandrew/fleetflow/internal/pkg/config"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"
	rootCmd = &cobra.Command{
		Use:   "fleetctl",
		Short: "FleetFlow operations tool",
		Long: `fleetctl manages a FleetFlow deployment: applies the PostgreSQL schema,
loads the demo dataset into an empty store, prints the access policy and
checks storage and cache connectivity.

Connection settings are read from the same environment variables as the API server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(checkCmd)
}

// loadConfig читает конфигурацию и создает logger для команды
func loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logger.New(cfg.Logger.Level, "console", "stderr"), nil
}
