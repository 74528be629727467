package history

import (
	"time"

	"gmdown/pkg/errors"
)

// Position classifies a timestamp against a Window.
type Position int

const (
	// Before means older than the window's oldest bound. During backward
	// pagination this is terminal: every later message is older still.
	Before Position = iota

	// Inside means within the closed interval; the message qualifies.
	Inside

	// After means newer than the window's newest bound; skipped while
	// pagination works backward toward the window.
	After
)

// Window is a closed [oldest, newest] interval of UTC instants.
type Window struct {
	oldest time.Time
	newest time.Time
}

// NewWindow builds a Window. newest must be strictly later than oldest;
// violations are rejected before any network activity.
func NewWindow(oldest, newest time.Time) (Window, error) {
	if !newest.After(oldest) {
		return Window{}, errors.Validation(
			"newest date %s must be later than oldest date %s", newest, oldest)
	}
	return Window{oldest: oldest, newest: newest}, nil
}

// Classify places t relative to the window. Both bounds are inclusive.
func (w Window) Classify(t time.Time) Position {
	if t.Before(w.oldest) {
		return Before
	}
	if t.After(w.newest) {
		return After
	}
	return Inside
}

// Oldest returns the inclusive lower bound.
func (w Window) Oldest() time.Time { return w.oldest }

// Newest returns the inclusive upper bound.
func (w Window) Newest() time.Time { return w.newest }

// valid reports whether the window invariant holds. A zero Window fails
// this, so a Fetcher never trusts a Window it did not see constructed.
func (w Window) valid() bool {
	return w.newest.After(w.oldest)
}
