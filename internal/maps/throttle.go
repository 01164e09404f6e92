package maps

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultThrottleInterval is the pause taken before every provider call.
const DefaultThrottleInterval = 2 * time.Second

// Clock is the time source used by Throttle.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Throttle is a fixed-delay gate shared by every outbound provider call in
// the process. Each Wait sleeps at least interval from the moment it is
// called, and wake times are handed out at least interval apart, so callers
// arriving concurrently are spaced instead of released together.
type Throttle struct {
	interval time.Duration
	clock    Clock

	mu       sync.Mutex
	lastWake time.Time
}

func NewThrottle(interval time.Duration, clock Clock) *Throttle {
	if clock == nil {
		clock = SystemClock
	}
	return &Throttle{interval: interval, clock: clock}
}

// Interval returns the configured delay.
func (t *Throttle) Interval() time.Duration { return t.interval }

// Wait blocks until the caller's slot. It returns an error wrapping
// ErrCanceled and ctx.Err() when ctx ends first.
func (t *Throttle) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	t.mu.Lock()
	now := t.clock.Now()
	wake := now.Add(t.interval)
	if floor := t.lastWake.Add(t.interval); wake.Before(floor) {
		wake = floor
	}
	t.lastWake = wake
	t.mu.Unlock()

	select {
	case <-t.clock.After(wake.Sub(now)):
		return nil
	case <-ctx.Done():
		t.release(wake)
		return fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
	}
}

// release hands back an abandoned slot if no later caller has booked after it.
func (t *Throttle) release(wake time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastWake.Equal(wake) {
		t.lastWake = wake.Add(-t.interval)
	}
}
