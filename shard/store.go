package shard

import (
	"sync/atomic"

	"github.com/krisalay/waitcache/keying"
	"github.com/krisalay/waitcache/types"
)

/*
This file defines how handles are actually stored inside a shard.
- Reads should be very fast
- Reads should NOT require locks
- Writes are rare: the handle cache only grows, and most programs use a handful of durations

To achieve this, we use "Copy-On-Write" (COW).
*/

// ShardStore is the interface used by a shard to store and retrieve entries.
// Put and Delete must be serialized by the caller.
type ShardStore interface {
	Get(keying.Key) (*types.CacheEntry, bool)
	Put(keying.Key, *types.CacheEntry)
	Delete(keying.Key)
	Size() int64

	// Range calls fn for every entry in one consistent snapshot.
	Range(fn func(*types.CacheEntry) bool)
}

type entryMap = map[keying.Key]*types.CacheEntry

/*
cowStore is a Copy-On-Write implementation of ShardStore.

- Readers always see an immutable snapshot
- Writers create a NEW copy of the map
- The new map replaces the old one atomically
*/
type cowStore struct {
	data atomic.Pointer[entryMap]
	size atomic.Int64
}

func NewCOWStore() *cowStore {
	s := &cowStore{}
	m := make(entryMap)
	s.data.Store(&m)
	return s
}

func (s *cowStore) Get(key keying.Key) (*types.CacheEntry, bool) {
	ent, ok := (*s.data.Load())[key]
	return ent, ok
}

// Put copies the current map, adds the entry and swaps the copy in.
func (s *cowStore) Put(key keying.Key, ent *types.CacheEntry) {
	old := *s.data.Load()

	n := make(entryMap, len(old)+1)
	for k, v := range old {
		n[k] = v
	}
	n[key] = ent

	s.data.Store(&n)
	s.size.Store(int64(len(n)))
}

func (s *cowStore) Delete(key keying.Key) {
	old := *s.data.Load()
	if _, ok := old[key]; !ok {
		return
	}

	n := make(entryMap, len(old))
	for k, v := range old {
		if k != key {
			n[k] = v
		}
	}

	s.data.Store(&n)
	s.size.Store(int64(len(n)))
}

func (s *cowStore) Size() int64 {
	return s.size.Load()
}

func (s *cowStore) Range(fn func(*types.CacheEntry) bool) {
	for _, ent := range *s.data.Load() {
		if !fn(ent) {
			return
		}
	}
}
