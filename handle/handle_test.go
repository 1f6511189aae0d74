package handle_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/waitcache/handle"
)

func TestNewConvertsSeconds(t *testing.T) {
	h := handle.New(1.5, nil)
	assert.Equal(t, 1.5, h.Seconds())
	assert.Equal(t, 1500*time.Millisecond, h.Duration())
}

func TestNewSaturatesAndHandlesNaN(t *testing.T) {
	assert.Equal(t, time.Duration(math.MaxInt64), handle.New(math.Inf(1), nil).Duration())
	assert.Equal(t, time.Duration(math.MinInt64), handle.New(math.Inf(-1), nil).Duration())
	assert.Equal(t, time.Duration(0), handle.New(math.NaN(), nil).Duration())
}

func TestWaitFiresOnManualClock(t *testing.T) {
	clock := handle.NewManualClock(time.Unix(0, 0))
	h := handle.New(2, clock)

	done := make(chan error, 1)
	go func() { done <- h.Wait(context.Background()) }()

	require.Eventually(t, func() bool { return clock.Pending() == 1 }, time.Second, time.Millisecond)

	clock.Advance(time.Second)
	select {
	case <-done:
		t.Fatal("wait returned before the deadline")
	default:
	}

	clock.Advance(time.Second)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("wait did not return after the deadline")
	}
}

func TestWaitCancelled(t *testing.T) {
	clock := handle.NewManualClock(time.Unix(0, 0))
	h := handle.New(10, clock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitZeroAndNegativeReturnImmediately(t *testing.T) {
	clock := handle.NewManualClock(time.Unix(0, 0))

	assert.NoError(t, handle.New(0, clock).Wait(context.Background()))
	assert.NoError(t, handle.New(-3, clock).Wait(context.Background()))
	assert.Equal(t, 0, clock.Pending())
}

func TestAfterArmsFreshTimerEachCall(t *testing.T) {
	clock := handle.NewManualClock(time.Unix(0, 0))
	h := handle.New(1, clock)

	a := h.After()
	b := h.After()
	assert.Equal(t, 2, clock.Pending())

	clock.Advance(time.Second)
	assert.Equal(t, time.Unix(1, 0), <-a)
	assert.Equal(t, time.Unix(1, 0), <-b)
}

func TestManualClockAfterNonPositive(t *testing.T) {
	clock := handle.NewManualClock(time.Unix(5, 0))
	assert.Equal(t, time.Unix(5, 0), <-clock.After(0))
	assert.Equal(t, time.Unix(5, 0), <-clock.After(-time.Second))
}

func TestClockFactory(t *testing.T) {
	clock := handle.NewManualClock(time.Unix(0, 0))
	f := handle.NewClockFactory(clock)

	h, err := f.New(context.Background(), 0.25)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, h.Duration())

	// Two builds are two handles; deduplication is the cache's job.
	h2, err := f.New(context.Background(), 0.25)
	require.NoError(t, err)
	assert.NotSame(t, h, h2)
}

func TestRealClockWait(t *testing.T) {
	h := handle.New(0.001, handle.RealClock{})
	start := time.Now()
	require.NoError(t, h.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)
}
