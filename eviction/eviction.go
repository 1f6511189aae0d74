package eviction

import (
	"strings"

	"github.com/pkg/errors"
)

/*
This file defines how a bounded cache decides what to remove when it runs out of space.

The handle cache is unbounded by default and never calls into this package.
A policy is only created when a capacity is configured.
*/

/*
Policy is the interface that all eviction strategies must follow.

This is a set of rules that any eviction algorithm (LRU, LFU, FIFO) must obey
so the shard can interact with it in a uniform way.

The shard does NOT care how eviction works internally.
It only calls these methods, always while holding its write lock.
*/
type Policy[K comparable] interface {

	// OnGet is called whenever a key is read from the cache.
	//
	// - LRU moves the key to the front
	// - LFU bumps its counter
	// - FIFO ignores it
	OnGet(K)

	// OnPut is called whenever a key is added to the cache.
	OnPut(K)

	// Remove is called when a key is explicitly removed
	// from the cache (not evicted).
	Remove(K)

	// Evict is called when the shard is FULL and needs space.
	// It returns the key that should be evicted, or false when nothing is tracked.
	Evict() (K, bool)

	// Len returns how many keys the policy is tracking.
	Len() int
}

// PolicyType is a simple identifier for supported eviction strategies.
type PolicyType string

const (
	// LRU (Least Recently Used): evicts the handle nobody asked for in the longest time.
	LRU PolicyType = "LRU"

	// LFU (Least Frequently Used): evicts the handle requested the fewest times.
	LFU PolicyType = "LFU"

	// FIFO (First In First Out): evicts the oldest handle, regardless of access.
	FIFO PolicyType = "FIFO"
)

// ErrUnknownPolicy is returned for a PolicyType this package does not implement.
var ErrUnknownPolicy = errors.New("unknown eviction policy")

// NewEvictionPolicy is a small factory function.
// Given a PolicyType, it creates the correct eviction policy.
func NewEvictionPolicy[K comparable](t PolicyType) (Policy[K], error) {
	switch t {
	case LRU:
		return newLRU[K](), nil
	case LFU:
		return newLFU[K](), nil
	case FIFO:
		return newFIFO[K](), nil
	default:
		return nil, errors.Wrapf(ErrUnknownPolicy, "%q", string(t))
	}
}

// ParsePolicyType accepts the policy names case-insensitively.
func ParsePolicyType(s string) (PolicyType, error) {
	switch t := PolicyType(strings.ToUpper(s)); t {
	case LRU, LFU, FIFO:
		return t, nil
	default:
		return "", errors.Wrapf(ErrUnknownPolicy, "%q", s)
	}
}
