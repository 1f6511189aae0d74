package types

import (
	"sync/atomic"
	"time"

	"github.com/krisalay/waitcache/handle"
	"github.com/krisalay/waitcache/keying"
)

/*
CacheEntry is one resident handle.

Key, Handle and CreatedAt are set once when the entry is created and
never written again. The only mutable part is the hit counter, which
is atomic so lock-free readers can bump it.
*/
type CacheEntry struct {
	Key       keying.Key
	Handle    *handle.Handle
	CreatedAt time.Time

	hits atomic.Uint64
}

// NewCacheEntry wraps a freshly built handle.
func NewCacheEntry(key keying.Key, h *handle.Handle, now time.Time) *CacheEntry {
	return &CacheEntry{Key: key, Handle: h, CreatedAt: now}
}

// Seconds returns the canonical duration of the entry.
func (e *CacheEntry) Seconds() float64 { return e.Key.Seconds() }

// Touch records one cache hit on the entry.
func (e *CacheEntry) Touch() { e.hits.Add(1) }

// Hits returns how many times the entry was served from the cache.
func (e *CacheEntry) Hits() uint64 { return e.hits.Load() }
