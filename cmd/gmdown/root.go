package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gmdown/pkg/auth"
	"gmdown/pkg/cache"
	"gmdown/pkg/config"
	"gmdown/pkg/logger"
	"gmdown/pkg/ui"
)

var (
	version = "1.0.0"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gmdown",
	Short: "Bulk-download media attachments from GroupMe group chats",
	Long: `gmdown downloads the images and videos posted in a GroupMe group chat
over a chosen date range into a local directory.

Run 'gmdown set-config' once to store your API token and download
directory, then 'gmdown download' to pick a group and a date range.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Any propagated error aborts the process
// with a non-zero status.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "optional YAML config file with overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// loadSavedConfig reads the persisted configuration record and applies
// the optional YAML file, environment and flag overrides on top of it.
func loadSavedConfig(c *cache.Cache) (*config.Config, error) {
	cfg, ok, err := c.ReadConfig()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("user configuration not found, run 'gmdown set-config' first")
	}

	// Records written by older versions may miss newer fields.
	defaults := config.DefaultConfig()
	if cfg.ImageDir == "" {
		cfg.ImageDir = defaults.ImageDir
	}
	if cfg.RateLimit.FetchInterval == 0 {
		cfg.RateLimit.FetchInterval = defaults.RateLimit.FetchInterval
	}
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = defaults.HTTP.Timeout
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}

	// File and environment overrides win over the record; the flag wins
	// over everything.
	if err := cfg.ApplyOverrides(configFile); err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveToken finds the API token: secure stores first, then the
// persisted configuration record.
func resolveToken(c *cache.Cache, cfg *config.Config) (string, error) {
	mgr, err := auth.NewManager(c.ConfigDir())
	if err == nil {
		if token, err := mgr.Retrieve(); err == nil {
			return token, nil
		}
	}
	if cfg.APIToken != "" {
		return cfg.APIToken, nil
	}
	return "", fmt.Errorf("no API token configured, run 'gmdown set-config' first")
}

// setupLogger initializes the process logger from config.
func setupLogger(cfg *config.Config) (logger.Logger, error) {
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, err
	}
	return logger.GetLogger(), nil
}
