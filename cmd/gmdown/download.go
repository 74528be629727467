package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"gmdown/pkg/cache"
	"gmdown/pkg/downloader"
	"gmdown/pkg/groupme"
	"gmdown/pkg/history"
	"gmdown/pkg/storage"
	"gmdown/pkg/ui"
	"gmdown/pkg/ui/picker"
)

const dateLayout = "2006-01-02"

var (
	// Download command flags
	startDate string
	endDate   string
	groupID   string
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download images from a group over a date range",
	Long: `Download every image and video posted in a group between a start and
an end date.

Dates not given on the command line are prompted for, defaulting to the
first day of the previous month and the first day of the current month.
Files are named after the message timestamp, the attachment index and
the sender's nickname; files already present are skipped.`,
	Example: `  # Pick a group interactively, prompted date range
  gmdown download

  # Explicit group and dates
  gmdown download --group 12345678 --start 2024-06-01 --end 2024-07-01`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&startDate, "start", "s", "", "start date for the download (YYYY-MM-DD)")
	downloadCmd.Flags().StringVarP(&endDate, "end", "e", "", "end date for the download (YYYY-MM-DD)")
	downloadCmd.Flags().StringVarP(&groupID, "group", "g", "", "group id to download from (skips the picker)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

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

	groups, err := client.ListGroups(ctx)
	if err != nil {
		return err
	}

	group, err := chooseGroup(groups)
	if err != nil {
		return err
	}
	ui.PrintInfo("Group", fmt.Sprintf("%s (group id #%s)", group.Name, group.ID))

	start, end, err := resolveDates()
	if err != nil {
		return err
	}

	window, err := history.NewWindow(start.UTC(), end.UTC())
	if err != nil {
		return err
	}

	store, err := storage.NewManager(cfg.ImageDir)
	if err != nil {
		return err
	}

	fetcher := history.NewFetcherWithInterval(client, cfg.RateLimit.FetchInterval.Std(), log)
	results, err := fetcher.Messages(ctx, group.ID, window)
	if err != nil {
		return err
	}

	stats, err := downloader.New(client, store, log).Run(ctx, results, group.Nicknames())
	if err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Done: %d files saved, %d skipped, %d messages in range",
		stats.Saved, stats.Skipped, stats.Messages))
	return nil
}

// chooseGroup resolves the --group flag or runs the interactive picker.
func chooseGroup(groups []groupme.Group) (groupme.Group, error) {
	if groupID == "" {
		return picker.Choose(groups)
	}
	for _, g := range groups {
		if g.ID == groupID {
			return g, nil
		}
	}
	return groupme.Group{}, fmt.Errorf("group %s not found in your group list", groupID)
}

// resolveDates reads the start and end dates from flags, prompting for
// whichever is missing. Prompt defaults are the first day of the previous
// month and the first day of the current month.
func resolveDates() (start, end time.Time, err error) {
	now := time.Now()

	if startDate != "" {
		start, err = parseDay(startDate)
	} else {
		start, err = promptDate("Enter a start date", monthStart(now, -1))
	}
	if err != nil {
		return
	}

	if endDate != "" {
		end, err = parseDay(endDate)
	} else {
		end, err = promptDate("Enter an end date", monthStart(now, 0))
	}
	return
}

// parseDay parses YYYY-MM-DD as local midnight.
func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected format YYYY-MM-DD", s)
	}
	return t, nil
}

func promptDate(prompt string, defaultValue time.Time) (time.Time, error) {
	for {
		line, err := ui.PromptLine(prompt+" (format YYYY-MM-DD)", defaultValue.Format(dateLayout))
		if err != nil {
			return time.Time{}, err
		}
		t, err := parseDay(line)
		if err != nil {
			ui.PrintWarning("Invalid date format.")
			continue
		}
		return t, nil
	}
}

// monthStart returns local midnight on the first day of the month,
// offset by the given number of months.
func monthStart(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
	return first.AddDate(0, months, 0)
}
