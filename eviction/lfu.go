// This file implements LFU eviction.

package eviction

// lfuNode represents one key tracked by LFU.
type lfuNode[K comparable] struct {
	key  K
	freq int // how many times this key was requested
}

type lfu[K comparable] struct {
	// nodes lets us quickly find the node for a key
	nodes map[K]*lfuNode[K]

	// freqMap groups keys by how many times they were requested
	freqMap map[int]map[K]*lfuNode[K]

	// minFreq is the smallest frequency currently present.
	// It may be stale after Remove; Evict walks forward until it finds a bucket.
	minFreq int
}

func newLFU[K comparable]() *lfu[K] {
	return &lfu[K]{
		nodes:   make(map[K]*lfuNode[K]),
		freqMap: make(map[int]map[K]*lfuNode[K]),
	}
}

func (l *lfu[K]) OnGet(k K) {
	n, ok := l.nodes[k]
	if !ok {
		return
	}

	old := n.freq
	n.freq++

	delete(l.freqMap[old], k)
	if len(l.freqMap[old]) == 0 {
		delete(l.freqMap, old)
		if l.minFreq == old {
			l.minFreq++
		}
	}

	l.bucket(n.freq)[k] = n
}

// OnPut starts a new key at frequency 1.
func (l *lfu[K]) OnPut(k K) {
	if _, ok := l.nodes[k]; ok {
		return
	}

	n := &lfuNode[K]{key: k, freq: 1}
	l.nodes[k] = n
	l.bucket(1)[k] = n
	l.minFreq = 1
}

// Evict removes ANY key with the lowest frequency.
// Ties are broken arbitrarily by map iteration order.
func (l *lfu[K]) Evict() (K, bool) {
	var zero K
	if len(l.nodes) == 0 {
		return zero, false
	}

	for len(l.freqMap[l.minFreq]) == 0 {
		l.minFreq++
	}

	for k := range l.freqMap[l.minFreq] {
		l.drop(k, l.minFreq)
		return k, true
	}
	return zero, false
}

func (l *lfu[K]) Remove(k K) {
	n, ok := l.nodes[k]
	if !ok {
		return
	}
	l.drop(k, n.freq)

	if len(l.nodes) == 0 {
		l.minFreq = 0
	} else if l.minFreq == n.freq && len(l.freqMap[n.freq]) == 0 {
		// Rescan from the lowest possible frequency on the next Evict.
		l.minFreq = 1
	}
}

func (l *lfu[K]) Len() int { return len(l.nodes) }

func (l *lfu[K]) bucket(freq int) map[K]*lfuNode[K] {
	b := l.freqMap[freq]
	if b == nil {
		b = make(map[K]*lfuNode[K])
		l.freqMap[freq] = b
	}
	return b
}

func (l *lfu[K]) drop(k K, freq int) {
	delete(l.freqMap[freq], k)
	if len(l.freqMap[freq]) == 0 {
		delete(l.freqMap, freq)
	}
	delete(l.nodes, k)
}
