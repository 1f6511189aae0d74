package waitcache

import (
	"time"

	"github.com/krisalay/waitcache/engine"
	"github.com/krisalay/waitcache/eviction"
	"github.com/krisalay/waitcache/handle"
	"github.com/krisalay/waitcache/journal"
	"github.com/krisalay/waitcache/keying"
	"github.com/krisalay/waitcache/types"
)

// Options collects everything New needs.
// Start from DefaultOptions; a zero Options is a non-strict cache.
type Options struct {
	Shards int
	// Capacity bounds the cache when positive. It is split across shards
	// and rounded up per shard, so up to Shards*ceil(Capacity/Shards)
	// handles can be resident.
	Capacity int
	Eviction eviction.PolicyType

	Keying keying.Mode
	Places int
	Tick   time.Duration

	// Strict rejects negative and non-finite durations.
	Strict bool

	// Clock is used by the default factory. Ignored when Factory is set.
	Clock   handle.Clock
	Factory handle.Factory

	Journal journal.Journal
	Metrics types.Metrics
}

// DefaultOptions is an unbounded, strict cache keyed to six decimal places.
// At that precision any positive duration below 5e-7s shares the key of 0;
// use keying.Exact when sub-microsecond durations must stay distinct.
func DefaultOptions() Options {
	return Options{
		Shards:   4,
		Capacity: 0,
		Eviction: eviction.LRU,
		Keying:   keying.Decimal,
		Places:   keying.DefaultPlaces,
		Tick:     keying.DefaultTick,
		Strict:   true,
	}
}

// New builds a ShardedCache and its engine from Options.
func New(opts Options) (*ShardedCache, error) {
	def := DefaultOptions()
	if opts.Shards <= 0 {
		opts.Shards = def.Shards
	}
	if opts.Eviction == "" {
		opts.Eviction = def.Eviction
	}
	if opts.Keying == "" {
		opts.Keying = def.Keying
		if opts.Places == 0 {
			opts.Places = def.Places
		}
	}
	if opts.Tick <= 0 {
		opts.Tick = def.Tick
	}

	q, err := keying.NewQuantizer(opts.Keying, opts.Places, opts.Tick)
	if err != nil {
		return nil, err
	}

	factory := opts.Factory
	if factory == nil {
		factory = handle.NewClockFactory(opts.Clock)
	}

	eng := engine.NewCacheEngine(q, factory, opts.Strict, opts.Journal, opts.Metrics)
	return NewShardedCache(opts.Shards, opts.Capacity, opts.Eviction, eng)
}
