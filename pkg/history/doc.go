// Package history retrieves a group's message history incrementally.
//
// Retrieval paginates backward through time with an opaque cursor, rate
// limited between pages, and filters messages against a closed date
// window. The window's bounds are both inclusive, and the two sides are
// handled asymmetrically on purpose: a message newer than the window is
// skipped while pagination approaches the window from the future side,
// but the first message older than the window terminates the whole
// stream, because every subsequent page is older still.
package history
