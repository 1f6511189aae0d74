package shard

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/krisalay/waitcache/keying"
)

/*
Selector is the interface that decides which shard should handle a given key.
The cache does not care HOW this decision is made. Different strategies can be plugged in.
*/
type Selector interface {
	Select(keying.Key, []*Shard) *Shard
}

// HashSelector picks a shard with FNV-1a over the eight key bytes.
type HashSelector struct{}

func hash(k keying.Key) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(k))

	h := fnv.New32a()
	h.Write(buf[:])
	return h.Sum32()
}

func (HashSelector) Select(key keying.Key, shards []*Shard) *Shard {
	return shards[hash(key)%uint32(len(shards))]
}
