package shard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/waitcache/eviction"
	"github.com/krisalay/waitcache/handle"
	"github.com/krisalay/waitcache/keying"
	"github.com/krisalay/waitcache/types"
)

func entry(seconds float64) *types.CacheEntry {
	k := keying.KeyOf(seconds)
	return types.NewCacheEntry(k, handle.New(seconds, nil), time.Now())
}

func TestCOWStorePutGetDelete(t *testing.T) {
	s := NewCOWStore()
	e := entry(1)

	s.Put(e.Key, e)
	got, ok := s.Get(e.Key)
	require.True(t, ok)
	assert.Same(t, e, got)
	assert.Equal(t, int64(1), s.Size())

	s.Delete(keying.KeyOf(99))
	assert.Equal(t, int64(1), s.Size())

	s.Delete(e.Key)
	_, ok = s.Get(e.Key)
	assert.False(t, ok)
	assert.Equal(t, int64(0), s.Size())
}

func TestCOWStoreRangeSeesSnapshot(t *testing.T) {
	s := NewCOWStore()
	for _, d := range []float64{1, 2, 3} {
		e := entry(d)
		s.Put(e.Key, e)
	}

	seen := 0
	s.Range(func(*types.CacheEntry) bool {
		// Writes during iteration land in a new map and are not observed.
		e := entry(float64(100 + seen))
		s.Put(e.Key, e)
		seen++
		return true
	})
	assert.Equal(t, 3, seen)
	assert.Equal(t, int64(6), s.Size())

	stopped := 0
	s.Range(func(*types.CacheEntry) bool {
		stopped++
		return false
	})
	assert.Equal(t, 1, stopped)
}

func TestHashSelectorIsStableAndSpreads(t *testing.T) {
	shards := make([]*Shard, 8)
	for i := range shards {
		shards[i] = NewShard(nil, 0)
	}

	sel := HashSelector{}
	k := keying.KeyOf(0.5)
	assert.Same(t, sel.Select(k, shards), sel.Select(k, shards))

	used := map[*Shard]struct{}{}
	for i := 0; i < 64; i++ {
		used[sel.Select(keying.KeyOf(float64(i)), shards)] = struct{}{}
	}
	assert.Greater(t, len(used), 1)
}

func TestNewShardBounded(t *testing.T) {
	assert.False(t, NewShard(nil, 10).Bounded())

	ev, err := eviction.NewEvictionPolicy[keying.Key](eviction.LRU)
	require.NoError(t, err)
	assert.False(t, NewShard(ev, 0).Bounded())

	sh := NewShard(ev, 4)
	assert.True(t, sh.Bounded())
	assert.Equal(t, 4, sh.Capacity)
}
