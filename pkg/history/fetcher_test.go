package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmdown/pkg/errors"
	"gmdown/pkg/groupme"
	"gmdown/pkg/logger"
)

// fakePages is a scripted PageFetcher that records every call.
type fakePages struct {
	mu         sync.Mutex
	pages      [][]groupme.Message
	errAt      int // call index that fails, -1 for never
	err        error
	cursors    []string
	fetchTimes []time.Time
}

func newFakePages(pages ...[]groupme.Message) *fakePages {
	return &fakePages{pages: pages, errAt: -1}
}

func (f *fakePages) MessagePage(ctx context.Context, groupID, beforeID string) (groupme.MessagePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := len(f.cursors)
	f.cursors = append(f.cursors, beforeID)
	f.fetchTimes = append(f.fetchTimes, time.Now())

	if f.errAt >= 0 && call == f.errAt {
		return groupme.MessagePage{}, f.err
	}
	if call >= len(f.pages) {
		return groupme.MessagePage{}, nil
	}
	return groupme.MessagePage{Messages: f.pages[call]}, nil
}

func (f *fakePages) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cursors)
}

func (f *fakePages) cursorAt(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursors[i]
}

func msg(id string, at time.Time) groupme.Message {
	return groupme.Message{ID: id, CreatedAt: groupme.Timestamp(at)}
}

func window(t *testing.T, oldest, newest time.Time) Window {
	t.Helper()
	w, err := NewWindow(oldest, newest)
	require.NoError(t, err)
	return w
}

// collect drains the stream into messages plus the terminal error, if any.
func collect(t *testing.T, results <-chan Result) ([]groupme.Message, error) {
	t.Helper()
	var messages []groupme.Message
	for result := range results {
		if result.Err != nil {
			return messages, result.Err
		}
		messages = append(messages, result.Message)
	}
	return messages, nil
}

func testFetcher(pages PageFetcher) *Fetcher {
	return NewFetcherWithInterval(pages, time.Millisecond, logger.Nop())
}

func TestMessagesInvalidWindow(t *testing.T) {
	pages := newFakePages()
	f := testFetcher(pages)

	_, err := f.Messages(context.Background(), "g1", Window{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeValidation))
	assert.Equal(t, 0, pages.calls(), "validation failure must issue zero fetches")
}

func TestMessagesEmptyFirstPage(t *testing.T) {
	pages := newFakePages()
	f := testFetcher(pages)

	results, err := f.Messages(context.Background(), "g1", window(t, day(2024, 6, 1), day(2024, 6, 8)))
	require.NoError(t, err)

	messages, streamErr := collect(t, results)
	require.NoError(t, streamErr)
	assert.Empty(t, messages)
	assert.Equal(t, 1, pages.calls())
}

func TestMessagesFiltersWindow(t *testing.T) {
	// Page holds one message after the window and one inside it; the
	// inside one is emitted and pagination continues with its id.
	pages := newFakePages(
		[]groupme.Message{
			msg("5", day(2024, 6, 10)),
			msg("4", day(2024, 6, 5)),
		},
	)
	f := testFetcher(pages)

	results, err := f.Messages(context.Background(), "g1", window(t, day(2024, 6, 1), day(2024, 6, 8)))
	require.NoError(t, err)

	messages, streamErr := collect(t, results)
	require.NoError(t, streamErr)

	require.Len(t, messages, 1)
	assert.Equal(t, "4", messages[0].ID)

	require.Equal(t, 2, pages.calls())
	assert.Equal(t, "", pages.cursorAt(0))
	assert.Equal(t, "4", pages.cursorAt(1), "next cursor must be the page's last message id")
}

func TestMessagesTerminatesBeforeWindow(t *testing.T) {
	// 2024-06-03 is older than the window's oldest bound: the stream
	// terminates immediately and the message is not emitted.
	pages := newFakePages(
		[]groupme.Message{msg("9", day(2024, 6, 3))},
	)
	f := testFetcher(pages)

	results, err := f.Messages(context.Background(), "g1", window(t, day(2024, 6, 5), day(2024, 6, 9)))
	require.NoError(t, err)

	messages, streamErr := collect(t, results)
	require.NoError(t, streamErr)
	assert.Empty(t, messages)
	assert.Equal(t, 1, pages.calls(), "no page may be fetched after termination")
}

func TestMessagesStopsMidPage(t *testing.T) {
	pages := newFakePages(
		[]groupme.Message{
			msg("3", day(2024, 6, 7)),
			msg("2", day(2024, 5, 30)),
			msg("1", day(2024, 5, 29)),
		},
	)
	f := testFetcher(pages)

	results, err := f.Messages(context.Background(), "g1", window(t, day(2024, 6, 1), day(2024, 6, 8)))
	require.NoError(t, err)

	messages, streamErr := collect(t, results)
	require.NoError(t, streamErr)

	require.Len(t, messages, 1)
	assert.Equal(t, "3", messages[0].ID)
	assert.Equal(t, 1, pages.calls())
}

func TestMessagesOldestBoundInclusive(t *testing.T) {
	oldest := day(2024, 6, 1)
	pages := newFakePages(
		[]groupme.Message{
			msg("2", oldest),                   // exactly on the bound: emitted
			msg("1", oldest.Add(-time.Second)), // strictly below: terminates
		},
	)
	f := testFetcher(pages)

	results, err := f.Messages(context.Background(), "g1", window(t, oldest, day(2024, 6, 8)))
	require.NoError(t, err)

	messages, streamErr := collect(t, results)
	require.NoError(t, streamErr)

	require.Len(t, messages, 1)
	assert.Equal(t, "2", messages[0].ID)
	assert.Equal(t, 1, pages.calls())
}

func TestMessagesCursorAdvancesWhenPageFullyFiltered(t *testing.T) {
	// Every message of the first page is newer than the window; the
	// cursor must still advance so the second page can be fetched.
	pages := newFakePages(
		[]groupme.Message{
			msg("30", day(2024, 7, 3)),
			msg("29", day(2024, 7, 2)),
		},
		[]groupme.Message{
			msg("28", day(2024, 6, 6)),
		},
	)
	f := testFetcher(pages)

	results, err := f.Messages(context.Background(), "g1", window(t, day(2024, 6, 1), day(2024, 6, 8)))
	require.NoError(t, err)

	messages, streamErr := collect(t, results)
	require.NoError(t, streamErr)

	require.Len(t, messages, 1)
	assert.Equal(t, "28", messages[0].ID)

	require.Equal(t, 3, pages.calls())
	assert.Equal(t, "", pages.cursorAt(0))
	assert.Equal(t, "29", pages.cursorAt(1))
	assert.Equal(t, "28", pages.cursorAt(2))
}

func TestMessagesDescendingOrderPreserved(t *testing.T) {
	pages := newFakePages(
		[]groupme.Message{
			msg("7", day(2024, 6, 7)),
			msg("6", day(2024, 6, 6)),
		},
		[]groupme.Message{
			msg("5", day(2024, 6, 5)),
			msg("4", day(2024, 6, 4)),
		},
	)
	f := testFetcher(pages)

	results, err := f.Messages(context.Background(), "g1", window(t, day(2024, 6, 1), day(2024, 6, 8)))
	require.NoError(t, err)

	messages, streamErr := collect(t, results)
	require.NoError(t, streamErr)

	var ids []string
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"7", "6", "5", "4"}, ids)
}

func TestMessagesFetchErrorEndsStream(t *testing.T) {
	pages := newFakePages(
		[]groupme.Message{msg("5", day(2024, 6, 5))},
	)
	pages.errAt = 1
	pages.err = errors.Transport(nil, "connection reset")

	f := testFetcher(pages)

	results, err := f.Messages(context.Background(), "g1", window(t, day(2024, 6, 1), day(2024, 6, 8)))
	require.NoError(t, err)

	messages, streamErr := collect(t, results)
	require.Error(t, streamErr)
	assert.True(t, errors.IsType(streamErr, errors.TypeTransport))

	// The partial page before the failure is not lost.
	require.Len(t, messages, 1)
	assert.Equal(t, "5", messages[0].ID)
	assert.Equal(t, 2, pages.calls(), "no further page may be attempted after a failure")
}

func TestMessagesConsumerCancellation(t *testing.T) {
	// Endless supply of in-window pages.
	var endless [][]groupme.Message
	for i := 0; i < 1000; i++ {
		endless = append(endless, []groupme.Message{
			msg("a", day(2024, 6, 5)),
			msg("b", day(2024, 6, 4)),
		})
	}
	pages := newFakePages(endless...)
	f := testFetcher(pages)

	ctx, cancel := context.WithCancel(context.Background())
	results, err := f.Messages(ctx, "g1", window(t, day(2024, 6, 1), day(2024, 6, 8)))
	require.NoError(t, err)

	// Pull one element, then walk away.
	<-results
	cancel()

	// The producer must wind down and close the channel without
	// starting new fetches.
	drained := make(chan struct{})
	go func() {
		for range results {
		}
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("stream not closed after cancellation")
	}

	callsAfterCancel := pages.calls()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, callsAfterCancel, pages.calls(), "no new fetch may start after cancellation")
}

func TestMessagesRateLimiting(t *testing.T) {
	const interval = 50 * time.Millisecond

	pages := newFakePages(
		[]groupme.Message{msg("3", day(2024, 6, 7))},
		[]groupme.Message{msg("2", day(2024, 6, 6))},
		[]groupme.Message{msg("1", day(2024, 6, 5))},
	)
	f := NewFetcherWithInterval(pages, interval, logger.Nop())

	start := time.Now()
	results, err := f.Messages(context.Background(), "g1", window(t, day(2024, 6, 1), day(2024, 6, 8)))
	require.NoError(t, err)

	_, streamErr := collect(t, results)
	require.NoError(t, streamErr)
	require.Equal(t, 4, pages.calls())

	pages.mu.Lock()
	times := append([]time.Time(nil), pages.fetchTimes...)
	pages.mu.Unlock()

	// The first fetch has no lower bound, every later gap does.
	assert.Less(t, times[0].Sub(start), interval)
	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		assert.GreaterOrEqual(t, gap, interval-5*time.Millisecond,
			"fetch %d started %v after fetch %d", i+1, gap, i)
	}
}
