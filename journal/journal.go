package journal

import "context"

/*
This file defines what a "journal" is.

A journal is told about every handle the cache creates. The point is
warm starts: a long-running program records which durations it really
used, and the next run preloads them so the first frames do not pay
for handle construction.

- Some callers want every record on disk before Get returns (write-through)
- Some callers want Get never to wait on disk (write-back)
*/

/*
Journal is the contract the cache engine talks to.
The engine does not care which journal is used. It simply calls these methods.
*/
type Journal interface {

	// OnCreate is called once per newly created handle with its canonical duration.
	OnCreate(ctx context.Context, seconds float64)

	// Close flushes anything pending and closes the sink.
	Close()
}

// Sink is where journal records end up.
type Sink interface {
	Record(ctx context.Context, seconds float64) error
	Close() error
}
