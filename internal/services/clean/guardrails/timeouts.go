// Package guardrails holds cross cutting safety helpers for cleaning runs
package guardrails

import (
	"context"
	"time"
)

// Timeouts is an optional budget bundle for one source.
// Zero values mean no extra timeout at that level
type Timeouts struct {
	// Source caps streaming and cleaning one source blob, spooling included
	Source time.Duration

	// Write caps each bucket write and the registry persist
	Write time.Duration

	// DB caps each ledger statement
	DB time.Duration
}

// ForSource returns a sub context for the read phase bounded by Source and any remaining parent budget
func ForSource(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Source)
}

// ForWrite returns a sub context for one object store write
func ForWrite(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Write)
}

// ForDB returns a sub context for one ledger call
func ForDB(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.DB)
}

// Remaining returns the time until the deadline on ctx or zero when none is set or already expired
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return 0
}

// withChildTimeout picks the tighter of d and the parent remainder; it never extends the parent deadline.
// d <= 0 yields a plain cancelable child
func withChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
