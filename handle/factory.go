package handle

import "context"

/*
Factory is the contract between the cache and whatever builds handles.

The cache calls New only on a miss, exactly once per key while the
key is resident. Implementations may fail, and the cache passes the
error back to the caller without storing anything.
*/
type Factory interface {
	New(ctx context.Context, seconds float64) (*Handle, error)
}

// ClockFactory builds plain handles bound to one clock.
type ClockFactory struct {
	Clock Clock
}

// NewClockFactory returns a factory for the given clock. A nil clock means RealClock.
func NewClockFactory(clock Clock) *ClockFactory {
	if clock == nil {
		clock = RealClock{}
	}
	return &ClockFactory{Clock: clock}
}

func (f *ClockFactory) New(_ context.Context, seconds float64) (*Handle, error) {
	return New(seconds, f.Clock), nil
}

// FactoryFunc adapts a plain function to the Factory interface.
type FactoryFunc func(ctx context.Context, seconds float64) (*Handle, error)

func (f FactoryFunc) New(ctx context.Context, seconds float64) (*Handle, error) {
	return f(ctx, seconds)
}
