package handle

import (
	"sync"
	"time"
)

// manualTimer is one pending After call on a ManualClock.
type manualTimer struct {
	deadline time.Time
	ch       chan time.Time
}

// ManualClock is a Clock that only moves when Advance or Set is called.
// Timers armed through After fire as soon as the clock reaches their deadline.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*manualTimer
}

// NewManualClock creates a manual clock starting at the given time.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (m *ManualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// After arms a timer relative to the current manual time.
// The channel is buffered so firing never blocks Advance.
func (m *ManualClock) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- m.now
		return ch
	}

	m.pending = append(m.pending, &manualTimer{deadline: m.now.Add(d), ch: ch})
	return ch
}

// Advance moves the clock forward by d and fires every timer that is now due.
func (m *ManualClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(m.now.Add(d))
}

// Set moves the clock to t. Moving backwards never un-fires a timer.
func (m *ManualClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(t)
}

// Pending returns how many timers have not fired yet.
func (m *ManualClock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *ManualClock) setLocked(t time.Time) {
	m.now = t

	kept := m.pending[:0]
	for _, tm := range m.pending {
		if !tm.deadline.After(t) {
			tm.ch <- t
			continue
		}
		kept = append(kept, tm)
	}
	m.pending = kept
}
