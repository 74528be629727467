package downloader

import (
	"context"
	"time"

	"gmdown/pkg/groupme"
	"gmdown/pkg/history"
	"gmdown/pkg/logger"
	"gmdown/pkg/storage"
)

// unknownSender is used when a message's author is not in the roster.
const unknownSender = "unknown"

// Stats summarizes one download run.
type Stats struct {
	Messages int
	Saved    int
	Skipped  int
}

// Downloader consumes a message stream and saves each media attachment
// into the image directory, one at a time, in stream order.
type Downloader struct {
	client *groupme.Client
	store  *storage.Manager
	logger logger.Logger
}

// New creates a Downloader.
func New(client *groupme.Client, store *storage.Manager, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Downloader{
		client: client,
		store:  store,
		logger: log,
	}
}

// Run drains the stream, saving every downloadable attachment. nicknames
// maps user ids to display names for filenames. The first error, whether
// from the stream or from a download, aborts the run.
func (d *Downloader) Run(ctx context.Context, results <-chan history.Result, nicknames map[string]string) (Stats, error) {
	var stats Stats

	for result := range results {
		if result.Err != nil {
			return stats, result.Err
		}

		msg := result.Message
		stats.Messages++

		sender := nicknames[msg.UserID]
		if sender == "" {
			sender = unknownSender
		}
		sentAt := msg.CreatedAt.Time().In(time.Local)

		for index, attachment := range msg.Attachments {
			url, ext, ok := attachment.DownloadURL()
			if !ok {
				continue
			}

			name := d.store.Filename(sentAt, index, sender, ext)
			if d.store.Exists(name) {
				d.logger.InfoWithFields("file already exists, skipping", map[string]interface{}{
					"file": name,
				})
				stats.Skipped++
				continue
			}

			d.logger.InfoWithFields("downloading file", map[string]interface{}{
				"file": name,
			})

			if err := d.save(ctx, url, name); err != nil {
				return stats, err
			}
			stats.Saved++
		}
	}

	return stats, nil
}

func (d *Downloader) save(ctx context.Context, url, name string) error {
	body, err := d.client.Download(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	return d.store.Save(name, body)
}
