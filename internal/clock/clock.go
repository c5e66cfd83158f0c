// Package clock supplies wall-clock time to the scheduler.
package clock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotSynced is returned when the clock never reached a plausible time.
var ErrNotSynced = errors.New("clock not synchronized")

// minValidUnix is 2001-09-09; anything earlier means no time source yet.
const minValidUnix = 1_000_000_000

// Clock reports the current time. Returned values must keep Go's monotonic
// reading so elapsed-time checks survive wall-clock steps.
type Clock interface {
	Now() time.Time
}

// System is the host clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Synced reports whether t looks like a real calendar time.
func Synced(t time.Time) bool {
	return t.Unix() > minValidUnix
}

// WaitForSync polls c until it reports a synced time, up to attempts tries
// spaced by interval.
func WaitForSync(ctx context.Context, c Clock, attempts int, interval time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if Synced(c.Now()) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("%w after %d attempts", ErrNotSynced, attempts)
}
