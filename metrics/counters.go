package metrics

import (
	"fmt"
	"sync/atomic"

	"github.com/dustin/go-humanize"

	"github.com/krisalay/waitcache/types"
)

var _ types.Metrics = (*Counters)(nil)

// Counters is a types.Metrics that counts every event with atomics.
type Counters struct {
	hits      atomic.Uint64
	misses    atomic.Uint64
	creates   atomic.Uint64
	evictions atomic.Uint64
	rejects   atomic.Uint64
}

func (c *Counters) Hit()      { c.hits.Add(1) }
func (c *Counters) Miss()     { c.misses.Add(1) }
func (c *Counters) Create()   { c.creates.Add(1) }
func (c *Counters) Eviction() { c.evictions.Add(1) }
func (c *Counters) Reject()   { c.rejects.Add(1) }

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Hits      uint64
	Misses    uint64
	Creates   uint64
	Evictions uint64
	Rejects   uint64
}

// Snapshot reads each counter once. The fields are not read atomically as a group.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Creates:   c.creates.Load(),
		Evictions: c.evictions.Load(),
		Rejects:   c.rejects.Load(),
	}
}

// HitRatio is hits over lookups that passed validation, or 0 when there were none.
func (s Snapshot) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"HITS      : %s\nMISSES    : %s\nCREATES   : %s\nEVICTIONS : %s\nREJECTS   : %s\nHIT RATIO : %.2f%%",
		humanize.Comma(int64(s.Hits)),
		humanize.Comma(int64(s.Misses)),
		humanize.Comma(int64(s.Creates)),
		humanize.Comma(int64(s.Evictions)),
		humanize.Comma(int64(s.Rejects)),
		s.HitRatio()*100,
	)
}
