package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gmdown/pkg/auth"
	"gmdown/pkg/cache"
	"gmdown/pkg/config"
	"gmdown/pkg/ui"
)

// setConfigCmd represents the set-config command
var setConfigCmd = &cobra.Command{
	Use:   "set-config",
	Short: "Set your API token and preferred download directory",
	Long: `Store your GroupMe API token and the directory images are downloaded
into.

The token is kept in the system keychain when one is available, falling
back to an encrypted file; the rest of the configuration is saved as an
owner-only JSON record. Get your token from https://dev.groupme.com
after signing in.`,
	RunE: runSetConfig,
}

func init() {
	rootCmd.AddCommand(setConfigCmd)
}

func runSetConfig(cmd *cobra.Command, args []string) error {
	c, err := cache.New()
	if err != nil {
		return err
	}

	token, err := promptToken()
	if err != nil {
		return err
	}

	cfg, ok, err := c.ReadConfig()
	if err != nil {
		return err
	}
	if !ok {
		cfg = config.DefaultConfig()
	}

	imageDir, err := ui.PromptLine("Image download directory", cfg.ImageDir)
	if err != nil {
		return err
	}
	cfg.ImageDir = imageDir

	// Prefer the secure stores; the config record is the fallback.
	cfg.APIToken = ""
	mgr, err := auth.NewManager(c.ConfigDir())
	if err != nil || mgr.Store(token) != nil {
		ui.PrintWarning("Secure token storage unavailable, keeping the token in the config record")
		cfg.APIToken = token
	}

	if err := c.WriteConfig(cfg); err != nil {
		return err
	}

	ui.PrintSuccess("Your configuration has been saved, you can now download images.")
	return nil
}

func promptToken() (string, error) {
	fmt.Printf("%s: ", ui.Cyan("Type or paste your API token here"))
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("API token must not be empty")
	}
	return token, nil
}
