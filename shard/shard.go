package shard

import (
	"sync"

	"github.com/krisalay/waitcache/eviction"
	"github.com/krisalay/waitcache/keying"
)

/*
This file defines what a "Shard" is. A shard is a small, independent piece of the handle cache.
Instead of having one big map and one big lock, we split the keys across shards. Each shard:
- Holds some portion of the handles
- Has its own (optional) eviction logic
- Has its own lock for writes
*/
type Shard struct {

	// Store holds the key → entry data for this shard.
	// It is a copy-on-write store that allows lock-free reads.
	Store ShardStore

	// Eviction is nil for an unbounded cache, which is the default.
	// When set, it is only touched while holding Mu.
	Eviction eviction.Policy[keying.Key]

	// Capacity is the most entries this shard holds. Zero means unbounded.
	Capacity int

	// Mu protects writes on this shard and the eviction bookkeeping.
	// Reads of Store never take it.
	Mu sync.Mutex
}

// NewShard creates an unbounded shard when ev is nil or capacity is not positive.
func NewShard(ev eviction.Policy[keying.Key], capacity int) *Shard {
	if capacity <= 0 {
		ev, capacity = nil, 0
	}
	return &Shard{
		Store:    NewCOWStore(),
		Eviction: ev,
		Capacity: capacity,
	}
}

// Bounded reports whether the shard evicts.
func (s *Shard) Bounded() bool {
	return s.Eviction != nil
}
