// This file implements FIFO eviction.

package eviction

type fifo[K comparable] struct {
	// queue keeps keys in the order they were inserted.
	// The front of the queue (index 0) is the oldest key.
	queue []K

	// set keeps track of which keys are currently in the queue.
	set map[K]struct{}
}

func newFIFO[K comparable]() *fifo[K] {
	return &fifo[K]{
		queue: make([]K, 0),
		set:   make(map[K]struct{}),
	}
}

// FIFO ignores reads completely.
func (f *fifo[K]) OnGet(K) {}

// OnPut appends a key the first time it is seen. Re-puts keep the original position.
func (f *fifo[K]) OnPut(k K) {
	if _, ok := f.set[k]; ok {
		return
	}
	f.queue = append(f.queue, k)
	f.set[k] = struct{}{}
}

func (f *fifo[K]) Evict() (K, bool) {
	var zero K
	if len(f.queue) == 0 {
		return zero, false
	}
	k := f.queue[0]
	f.queue[0] = zero
	f.queue = f.queue[1:]
	delete(f.set, k)
	return k, true
}

// Remove drops a key while preserving the order of the rest.
func (f *fifo[K]) Remove(k K) {
	if _, ok := f.set[k]; !ok {
		return
	}
	delete(f.set, k)

	for i, v := range f.queue {
		if v == k {
			f.queue = append(f.queue[:i], f.queue[i+1:]...)
			break
		}
	}
}

func (f *fifo[K]) Len() int { return len(f.set) }
