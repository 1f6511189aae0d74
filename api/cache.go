package api

import (
	"context"

	"github.com/krisalay/waitcache/handle"
)

/*
Cache defines the PUBLIC API of the wait-handle cache.
All of the details (quantization, sharding, miss coalescing, journaling)
are hidden behind this interface.
*/
type Cache interface {

	/*
		Get returns the shared handle for a duration in seconds.

		BEHAVIOR:
		---------
		1. If a handle exists for the duration's key:
		   - Return that exact *Handle (same pointer as every earlier call)

		2. If not:
		   - Build one from the canonical duration
		   - Store it for the lifetime of the cache
		   - Return it

		Concurrent first requests for one key build ONE handle.
	*/
	Get(ctx context.Context, seconds float64) (*handle.Handle, error)

	// Contains reports whether a handle for the duration is resident, without creating one.
	Contains(seconds float64) bool

	// Len returns how many handles are cached.
	Len() int

	// Keys returns the canonical durations of all cached handles in ascending order.
	Keys() []float64

	// Preload creates handles for every duration in order and stops at the first error.
	Preload(ctx context.Context, seconds ...float64) error

	/*
		Close shuts the cache down.

		- Flushes a write-back journal
		- Closes the journal sink

		Handles already handed out keep working.
	*/
	Close()
}
