package handle

import (
	"context"
	"math"
	"time"
)

/*
Handle represents "wait exactly this long".

A Handle is built once and never changes afterwards:
- seconds and duration are fixed by the constructor
- the clock reference is fixed by the constructor

Because nothing inside it is mutated, the cache can hand the same
*Handle to any number of goroutines. Callers that compare handles by
pointer (for example to suspend on a shared timer) always see the
same instance for the same key.
*/
type Handle struct {
	seconds  float64
	duration time.Duration
	clock    Clock
}

// New builds a handle for the given number of seconds on the given clock.
// No validation happens here. Negative values produce a handle that fires at once.
func New(seconds float64, clock Clock) *Handle {
	if clock == nil {
		clock = RealClock{}
	}
	return &Handle{
		seconds:  seconds,
		duration: toDuration(seconds),
		clock:    clock,
	}
}

// Seconds returns the duration this handle was built for.
func (h *Handle) Seconds() float64 { return h.seconds }

// Duration returns the same value as a time.Duration.
func (h *Handle) Duration() time.Duration { return h.duration }

// After arms a fresh timer on the handle's clock.
// Each call returns a new channel; the handle itself holds no timer state.
func (h *Handle) After() <-chan time.Time {
	return h.clock.After(h.duration)
}

/*
Wait blocks until the handle's duration has elapsed or ctx is done.

It returns nil when the timer fired and ctx.Err() when the context
was cancelled first.
*/
func (h *Handle) Wait(ctx context.Context) error {
	if h.duration <= 0 {
		return nil
	}

	select {
	case <-h.After():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// toDuration converts seconds to a time.Duration, saturating on overflow.
// NaN maps to zero.
func toDuration(seconds float64) time.Duration {
	ns := seconds * float64(time.Second)
	switch {
	case math.IsNaN(ns):
		return 0
	case ns >= math.MaxInt64:
		return time.Duration(math.MaxInt64)
	case ns <= math.MinInt64:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(math.Round(ns))
}
