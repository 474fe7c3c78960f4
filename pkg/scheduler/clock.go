package scheduler

import (
	"context"
	"time"
)

// Clock abstracts wall-clock time for pacing.
type Clock interface {
	Now() time.Time
	// SleepUntil blocks until t or until ctx is done, whichever is first.
	// It returns ctx.Err() when interrupted.
	SleepUntil(ctx context.Context, t time.Time) error
}

// RealClock is the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) SleepUntil(ctx context.Context, t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
