package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the handle cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when an existing handle is returned.
	Hit()

	// Miss is called when no handle exists yet for the key.
	Miss()

	// Create is called when a new handle was built and stored.
	// Under concurrency several misses on one key still produce a single Create.
	Create()

	// Eviction is called when a bounded cache drops a handle to make room.
	Eviction()

	// Reject is called when a duration fails validation.
	Reject()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

Callers that do not care about metrics get a working cache without
nil checks on every event.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()      {}
func (NoopMetrics) Miss()     {}
func (NoopMetrics) Create()   {}
func (NoopMetrics) Eviction() {}
func (NoopMetrics) Reject()   {}
