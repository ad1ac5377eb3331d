package scenario

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Sleep blocks the calling goroutine for d. Cancellation is not observed.
func Sleep(d time.Duration) {
	time.Sleep(d)
}

// Delay waits for d without holding anything but a timer. It returns
// ctx.Err() if the context ends first.
func Delay(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FanOut starts n tasks immediately, each in its own goroutine, and waits for
// all of them. If any task fails, FanOut returns the first error after every
// task has finished; the other tasks' results are not reported.
func FanOut(ctx context.Context, n int, task func(ctx context.Context, i int) error) error {
	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			return task(ctx, i)
		})
	}
	return g.Wait()
}
