package handle

import "time"

/*
Clock is the timer primitive a Handle waits on.

The cache never waits itself. It only hands out handles, and the handle
asks its Clock for a channel that fires once the duration has passed.
Swapping the Clock lets a game loop run on paused or simulated time and
lets tests drive time forward by hand.
*/
type Clock interface {

	// Now returns the current time on this clock.
	Now() time.Time

	// After returns a channel that receives the clock's time once d has elapsed.
	// A zero or negative d fires immediately.
	After(d time.Duration) <-chan time.Time
}

// RealClock is the wall clock backed by the time package.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
