package waitcache

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/krisalay/waitcache/api"
	"github.com/krisalay/waitcache/engine"
	"github.com/krisalay/waitcache/eviction"
	"github.com/krisalay/waitcache/handle"
	"github.com/krisalay/waitcache/keying"
	"github.com/krisalay/waitcache/shard"
	"github.com/krisalay/waitcache/types"
)

// ErrInvalidDuration is returned by Get for negative, NaN or infinite durations
// when strict validation is on.
var ErrInvalidDuration = engine.ErrInvalidDuration

var _ api.Cache = (*ShardedCache)(nil)

/*
ShardedCache is the main cache implementation.
This struct is the orchestrator that connects:
- shards
- the engine (keying, validation, factory, journal, metrics)
- optional eviction
- miss coalescing
*/
type ShardedCache struct {
	// shards are the storage units. Each shard is an independent copy-on-write map.
	shards []*shard.Shard

	engine *engine.CacheEngine

	// selector decides which shard a key goes to.
	selector shard.Selector

	// sf makes sure concurrent misses on one key build a single handle.
	sf singleflight.Group

	closeOnce sync.Once
}

/*
NewShardedCache creates a cache.

capacity == 0 gives the unbounded cache: entries are never evicted and
every key keeps one handle for the life of the cache. A positive
capacity is split evenly across shards (rounded up) and enforced with
the given eviction policy.
*/
func NewShardedCache(
	shards int,
	capacity int,
	policy eviction.PolicyType,
	eng *engine.CacheEngine,
) (*ShardedCache, error) {
	if shards <= 0 {
		shards = 1
	}
	if eng == nil {
		eng = engine.NewCacheEngine(nil, nil, true, nil, nil)
	}

	perShard := 0
	if capacity > 0 {
		perShard = (capacity + shards - 1) / shards
	}

	s := make([]*shard.Shard, shards)
	for i := range s {
		var ev eviction.Policy[keying.Key]
		if perShard > 0 {
			// Each shard gets its own eviction policy instance
			p, err := eviction.NewEvictionPolicy[keying.Key](policy)
			if err != nil {
				return nil, err
			}
			ev = p
		}
		s[i] = shard.NewShard(ev, perShard)
	}

	return &ShardedCache{
		shards:   s,
		engine:   eng,
		selector: shard.HashSelector{},
	}, nil
}

// Get returns the shared handle for a duration in seconds.
func (c *ShardedCache) Get(ctx context.Context, seconds float64) (*handle.Handle, error) {
	ent, _, err := c.Lookup(ctx, seconds)
	if err != nil {
		return nil, err
	}
	return ent.Handle, nil
}

/*
Lookup is Get with the cache entry exposed.
hit is true when the handle already existed.
*/
func (c *ShardedCache) Lookup(ctx context.Context, seconds float64) (ent *types.CacheEntry, hit bool, err error) {
	key, _, err := c.engine.Resolve(seconds)
	if err != nil {
		return nil, false, err
	}

	sh := c.selector.Select(key, c.shards)

	// Lock-free fast path.
	if ent, ok := sh.Store.Get(key); ok {
		c.engine.OnHit(ent)
		if sh.Bounded() {
			sh.Mu.Lock()
			sh.Eviction.OnGet(key)
			sh.Mu.Unlock()
		}
		return ent, true, nil
	}

	c.engine.Metrics.Miss()

	/*
		singleflight ensures that:
		- If 100 goroutines miss on the same key at once,
		  only ONE of them runs the factory.
		- Others wait and receive the same entry.
	*/
	v, err, _ := c.sf.Do(strconv.FormatUint(uint64(key), 16), func() (any, error) {
		// A flight that finished between our read and Do already stored it.
		if ent, ok := sh.Store.Get(key); ok {
			return ent, nil
		}

		ent, err := c.engine.Build(ctx, key)
		if err != nil {
			return nil, err
		}
		return c.insert(ctx, sh, ent), nil
	})
	if err != nil {
		return nil, false, err
	}

	return v.(*types.CacheEntry), false, nil
}

/*
insert stores a freshly built entry.

The check and the write happen under the shard lock, so even callers
that bypass singleflight cannot store two handles for one key.
*/
func (c *ShardedCache) insert(ctx context.Context, sh *shard.Shard, ent *types.CacheEntry) *types.CacheEntry {
	sh.Mu.Lock()

	if existing, ok := sh.Store.Get(ent.Key); ok {
		sh.Mu.Unlock()
		return existing
	}

	if sh.Bounded() && sh.Store.Size() >= int64(sh.Capacity) {
		if evicted, ok := sh.Eviction.Evict(); ok {
			sh.Store.Delete(evicted)
			c.engine.Metrics.Eviction()
		}
	}

	sh.Store.Put(ent.Key, ent)
	if sh.Bounded() {
		sh.Eviction.OnPut(ent.Key)
	}
	sh.Mu.Unlock()

	// Outside the lock: a write-through journal may touch the disk.
	c.engine.OnCreate(ctx, ent)
	return ent
}

// Contains reports whether a handle for the duration is resident.
// Invalid durations are never resident.
func (c *ShardedCache) Contains(seconds float64) bool {
	if c.engine.Strict && engine.Validate(seconds) != nil {
		return false
	}
	key, _ := c.engine.Quantizer.Quantize(seconds)
	_, ok := c.selector.Select(key, c.shards).Store.Get(key)
	return ok
}

// Len returns how many handles are cached across all shards.
func (c *ShardedCache) Len() int {
	var n int64
	for _, sh := range c.shards {
		n += sh.Store.Size()
	}
	return int(n)
}

// Keys returns the canonical durations of the cached handles in ascending order.
func (c *ShardedCache) Keys() []float64 {
	entries := c.Entries()
	out := make([]float64, len(entries))
	for i, ent := range entries {
		out[i] = ent.Seconds()
	}
	return out
}

// Entries returns every resident entry ordered by duration.
func (c *ShardedCache) Entries() []*types.CacheEntry {
	out := make([]*types.CacheEntry, 0, c.Len())
	for _, sh := range c.shards {
		sh.Store.Range(func(ent *types.CacheEntry) bool {
			out = append(out, ent)
			return true
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seconds() < out[j].Seconds() })
	return out
}

// Preload creates handles for every duration in order and stops at the first error.
func (c *ShardedCache) Preload(ctx context.Context, seconds ...float64) error {
	for i, s := range seconds {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}
		if _, _, err := c.Lookup(ctx, s); err != nil {
			return errors.Wrapf(err, "preload item %d", i)
		}
	}
	return nil
}

/*
Close shuts the cache down.
This matters for write-back journals, so pending records are flushed.
Calling Close more than once is safe.
*/
func (c *ShardedCache) Close() {
	c.closeOnce.Do(c.engine.Close)
}
