package nosleep

import (
	"context"
	"time"
)

func pause() {
	time.Sleep(time.Second) // want "time.Sleep ignores context cancellation"
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
