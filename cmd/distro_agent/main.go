// Package main provides the distro_agent CLI: the catalog HTTP API server plus
// offline commands for browsing the catalog, taking the quiz and asking the assistant.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/distro-catalog/internal/config"
	"github.com/jonathan/distro-catalog/internal/logging"
)

var (
	configPath string
	catalogDir string
	jsonOutput bool
	logLevel   string

	// appConfig is set by loadConfig before any subcommand runs.
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "distro_agent",
	Short: "Linux distribution catalog and recommendation service",
	Long: `distro_agent serves a catalog of Linux distributions over HTTP, scores
quiz answers against it to recommend a distribution, and answers installation
questions through an optional AI assistant.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: $CONFIG_PATH or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogDir, "catalog-dir", "", "Directory of <id>.json catalog records (overrides catalog.dir)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print machine-readable JSON instead of formatted text")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, disabled")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if catalogDir != "" {
		cfg.Catalog.Dir = catalogDir
	}
	if logLevel != "" {
		if !logging.ValidLevel(logLevel) {
			return fmt.Errorf("unknown log level %q", logLevel)
		}
		cfg.Logging.Level = logLevel
	}

	logging.Init(cfg.LoggingSettings())
	appConfig = cfg
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
