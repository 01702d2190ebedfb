package imu

import (
	"context"
	"time"
)

// Delayer blocks for a duration using a platform monotonic clock.
type Delayer interface {
	Delay(ctx context.Context, d time.Duration) error
}

type DelayFunc func(ctx context.Context, d time.Duration) error

func (f DelayFunc) Delay(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerDelay waits on a runtime timer and gives up early when ctx is done.
var TimerDelay Delayer = DelayFunc(func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
})
