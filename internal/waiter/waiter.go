// Package waiter blocks a stage until its upstream artifacts appear.
//
// There is no backoff and no deadline: the producer (ultimately the
// sequencer) sets the pace, and absence only means "not yet". The only way
// out besides the condition holding is cancellation of the context.
package waiter

import (
	"context"
	"time"
)

// MinInterval is the shortest poll interval Await will use. Shared and
// network filesystems are the norm here, so faster polling is refused.
var MinInterval = time.Second

// Check reports whether the awaited artifacts are ready.
type Check func() bool

// Await evaluates check immediately and then once per interval until it
// returns true or ctx is done.
func Await(ctx context.Context, check Check, interval time.Duration) error {
	if interval < MinInterval {
		interval = MinInterval
	}
	if check() {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if check() {
				return nil
			}
		}
	}
}
