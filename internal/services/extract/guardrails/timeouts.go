// Package guardrails holds time budget helpers for a scan
package guardrails

import (
	"context"
	"time"
)

// Timeouts is an optional budget bundle for one extraction
// Zero values mean no extra timeout at that level
type Timeouts struct {
	// Scan caps open + read + collect
	Scan time.Duration

	// Write caps rendering and publishing the output
	Write time.Duration
}

// ForScan returns a sub context bounded by Scan and any remaining parent budget
func ForScan(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Scan)
}

// ForWrite returns a sub context bounded by Write and any remaining parent budget
func ForWrite(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Write)
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

// withChildTimeout picks the tighter of d and the parent remainder; it never extends the parent
func withChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
