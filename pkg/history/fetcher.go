package history

import (
	"context"
	"time"

	"gmdown/pkg/errors"
	"gmdown/pkg/groupme"
	"gmdown/pkg/logger"
	"gmdown/pkg/ratelimit"
)

// defaultFetchInterval is the minimum delay between page fetches.
const defaultFetchInterval = time.Second

// PageFetcher returns one page of messages for a group, newest first.
// beforeID is the pagination cursor; "" starts from the newest message. An
// empty page signals exhausted history.
type PageFetcher interface {
	MessagePage(ctx context.Context, groupID, beforeID string) (groupme.MessagePage, error)
}

// Result is one element of a message stream: either a message or the
// terminal error. After a Result with Err set, the channel is closed.
type Result struct {
	Message groupme.Message
	Err     error
}

// Fetcher streams a group's message history backward through time,
// restricted to a date window.
type Fetcher struct {
	pages    PageFetcher
	interval time.Duration
	logger   logger.Logger
}

// NewFetcher creates a Fetcher over the given page source.
func NewFetcher(pages PageFetcher, log logger.Logger) *Fetcher {
	return NewFetcherWithInterval(pages, defaultFetchInterval, log)
}

// NewFetcherWithInterval creates a Fetcher with a custom delay between
// page fetches. Used by tests.
func NewFetcherWithInterval(pages PageFetcher, interval time.Duration, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Fetcher{
		pages:    pages,
		interval: interval,
		logger:   log,
	}
}

// Messages produces the group's messages with oldest <= created_at <=
// newest, newest first, as a lazily produced stream. The returned channel
// is unbuffered: no page fetch or rate-limit sleep starts unless the
// consumer keeps receiving, and cancelling ctx releases the producer.
//
// An invalid window fails immediately with a validation error and no
// fetch is issued. A transport or decode failure ends the stream with a
// final Result carrying the error; there is no retry.
func (f *Fetcher) Messages(ctx context.Context, groupID string, window Window) (<-chan Result, error) {
	if !window.valid() {
		return nil, errors.Validation(
			"newest date %s must be later than oldest date %s", window.newest, window.oldest)
	}

	out := make(chan Result)
	go f.produce(ctx, groupID, window, out)
	return out, nil
}

// produce runs the backward pagination loop. It owns the cursor for the
// whole retrieval and closes out on any terminal condition: exhausted
// history, a message older than the window, a fetch error, or ctx done.
func (f *Fetcher) produce(ctx context.Context, groupID string, window Window, out chan<- Result) {
	defer close(out)

	// Fresh limiter per retrieval; the first fetch is not delayed.
	limiter := ratelimit.NewInterval(f.interval)

	beforeID := ""
	pages := 0
	emitted := 0

	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		page, err := f.pages.MessagePage(ctx, groupID, beforeID)
		if err != nil {
			f.logger.WithError(err).WithField("group_id", groupID).Error("message page fetch failed")
			select {
			case out <- Result{Err: err}:
			case <-ctx.Done():
			}
			return
		}
		pages++

		if len(page.Messages) == 0 {
			f.logger.DebugWithFields("message history exhausted", map[string]interface{}{
				"group_id": groupID,
				"pages":    pages,
				"emitted":  emitted,
			})
			return
		}

		// Advance the cursor before filtering, so a page whose messages
		// are all outside the window still moves pagination forward.
		beforeID = page.NextBeforeID()

		for _, msg := range page.Messages {
			switch window.Classify(msg.CreatedAt.Time()) {
			case Before:
				// Pages strictly decrease in time, so nothing after this
				// point can be inside the window.
				f.logger.DebugWithFields("passed the oldest window bound", map[string]interface{}{
					"group_id": groupID,
					"pages":    pages,
					"emitted":  emitted,
				})
				return
			case After:
				continue
			}

			select {
			case out <- Result{Message: msg}:
				emitted++
			case <-ctx.Done():
				return
			}
		}
	}
}
