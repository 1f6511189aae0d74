package engine

import (
	"context"
	"math"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/krisalay/waitcache/handle"
	"github.com/krisalay/waitcache/journal"
	"github.com/krisalay/waitcache/keying"
	"github.com/krisalay/waitcache/types"
)

// ErrInvalidDuration is returned for negative, NaN or infinite durations when validation is strict.
var ErrInvalidDuration = errors.New("invalid duration")

/*
CacheEngine is the "brain" of the handle cache.
It is responsible for the behavior of the cache, NOT storage.

It decides:
- How a raw duration becomes a key (quantization)
- Whether a duration is acceptable (validation)
- How a handle is built on a miss (factory)
- Who hears about new handles (journal)
- How events are recorded (metrics)

It does NOT:
- Store handles
- Handle sharding
- Handle locking
- Decide eviction order
*/
type CacheEngine struct {

	// Quantizer maps raw seconds to a key and the canonical seconds the handle is built from.
	Quantizer keying.Quantizer

	// Factory builds a handle on a miss.
	Factory handle.Factory

	// Strict rejects negative and non-finite durations with ErrInvalidDuration.
	// When false they are forwarded to the factory unchanged.
	Strict bool

	// Journal is told about every created handle. Nil means no journal.
	Journal journal.Journal

	Metrics types.Metrics

	// Now stamps entries. Tests replace it.
	Now func() time.Time
}

/*
NewCacheEngine creates a CacheEngine.

Nil arguments get defaults so the cache never needs nil checks:
- quantizer: exact keying
- factory:   handles on the real clock
- metrics:   NoopMetrics
*/
func NewCacheEngine(
	quantizer keying.Quantizer,
	factory handle.Factory,
	strict bool,
	j journal.Journal,
	metrics types.Metrics,
) *CacheEngine {
	if quantizer == nil {
		quantizer = keying.ExactQuantizer{}
	}
	if factory == nil {
		factory = handle.NewClockFactory(nil)
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}

	return &CacheEngine{
		Quantizer: quantizer,
		Factory:   factory,
		Strict:    strict,
		Journal:   j,
		Metrics:   metrics,
		Now:       time.Now,
	}
}

/*
Resolve validates a raw duration and turns it into its key.

The returned seconds are canonical: two raw values with the same key
always return the same seconds.
*/
func (e *CacheEngine) Resolve(seconds float64) (keying.Key, float64, error) {
	if e.Strict {
		if err := Validate(seconds); err != nil {
			e.Metrics.Reject()
			log.WithField("seconds", seconds).Debug("rejected duration")
			return 0, 0, err
		}
	}

	k, canonical := e.Quantizer.Quantize(seconds)
	return k, canonical, nil
}

/*
Build is used when the cache does NOT have the handle.

It runs the factory for the canonical duration and wraps the result
in an entry. Nothing is stored here; the caller does that.
*/
func (e *CacheEngine) Build(ctx context.Context, key keying.Key) (*types.CacheEntry, error) {
	seconds := key.Seconds()

	h, err := e.Factory.New(ctx, seconds)
	if err != nil {
		return nil, errors.Wrapf(err, "build handle for %ss", key)
	}
	if h == nil {
		return nil, errors.Errorf("factory returned no handle for %ss", key)
	}

	return types.NewCacheEntry(key, h, e.Now()), nil
}

// OnCreate is called after a new entry has been stored.
func (e *CacheEngine) OnCreate(ctx context.Context, ent *types.CacheEntry) {
	e.Metrics.Create()
	log.WithField("seconds", ent.Seconds()).Debug("created wait handle")

	if e.Journal != nil {
		e.Journal.OnCreate(ctx, ent.Seconds())
	}
}

// OnHit is called every time an existing handle is returned.
func (e *CacheEngine) OnHit(ent *types.CacheEntry) {
	e.Metrics.Hit()
	ent.Touch()
}

// Close flushes the journal.
func (e *CacheEngine) Close() {
	if e.Journal != nil {
		e.Journal.Close()
	}
}

// Validate reports ErrInvalidDuration for negative, NaN or infinite seconds.
// Zero is valid.
func Validate(seconds float64) error {
	switch {
	case math.IsNaN(seconds):
		return errors.Wrap(ErrInvalidDuration, "duration is NaN")
	case math.IsInf(seconds, 0):
		return errors.Wrapf(ErrInvalidDuration, "duration %v is not finite", seconds)
	case seconds < 0:
		return errors.Wrapf(ErrInvalidDuration, "duration %vs is negative", seconds)
	}
	return nil
}
