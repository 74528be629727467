package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gmdown/pkg/cache"
	"gmdown/pkg/groupme"
	"gmdown/pkg/ui"
)

// groupsCmd represents the groups command
var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the groups visible to your account",
	Long: `List the groups your account belongs to.

Only the first hundred or so groups are shown.`,
	RunE: runGroups,
}

func init() {
	rootCmd.AddCommand(groupsCmd)
}

func runGroups(cmd *cobra.Command, args []string) error {
	c, err := cache.New()
	if err != nil {
		return err
	}
	cfg, err := loadSavedConfig(c)
	if err != nil {
		return err
	}
	log, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	token, err := resolveToken(c, cfg)
	if err != nil {
		return err
	}

	client := groupme.NewClient(token, cfg.HTTP.Timeout.Std(), log)
	groups, err := client.ListGroups(cmd.Context())
	if err != nil {
		return err
	}

	for _, group := range groups {
		ui.PrintInfo(group.Name, fmt.Sprintf("group id #%s, %d members", group.ID, len(group.Members)))
	}
	return nil
}
