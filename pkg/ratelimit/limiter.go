package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces successive operations.
type Limiter interface {
	// Wait blocks until the limiter allows the next operation, or until
	// ctx is done.
	Wait(ctx context.Context) error
}

// Interval enforces a minimum delay between successive operations. The
// first Wait of a fresh Interval returns immediately; each later Wait
// blocks until at least the configured interval has passed since the
// previous one was admitted.
type Interval struct {
	limiter *rate.Limiter
}

// NewInterval creates an Interval with the given minimum delay.
func NewInterval(d time.Duration) *Interval {
	// Burst of one with a full bucket: the first request is free, the
	// refill rate spaces out everything after it.
	return &Interval{
		limiter: rate.NewLimiter(rate.Every(d), 1),
	}
}

func (i *Interval) Wait(ctx context.Context) error {
	return i.limiter.Wait(ctx)
}
