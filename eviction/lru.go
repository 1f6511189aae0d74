// This file implements LRU eviction.

package eviction

// lruNode represents ONE key inside the LRU structure. We use a doubly-linked list to track usage order.
type lruNode[K comparable] struct {
	key  K
	prev *lruNode[K]
	next *lruNode[K]
}

// lru is the concrete implementation of the LRU eviction policy.
type lru[K comparable] struct {
	// nodes maps keys to their list nodes so they can be found and moved in O(1).
	nodes map[K]*lruNode[K]

	// head points to the MOST recently used key
	head *lruNode[K]

	// tail points to the LEAST recently used key
	tail *lruNode[K]
}

func newLRU[K comparable]() *lru[K] {
	return &lru[K]{nodes: make(map[K]*lruNode[K])}
}

// OnGet marks a key as most recently used.
func (l *lru[K]) OnGet(k K) {
	if n, ok := l.nodes[k]; ok {
		l.moveToFront(n)
	}
}

func (l *lru[K]) OnPut(k K) {
	if n, ok := l.nodes[k]; ok {
		l.moveToFront(n)
		return
	}
	n := &lruNode[K]{key: k}
	l.nodes[k] = n
	l.addFront(n)
}

// Evict removes the key at the tail of the list.
func (l *lru[K]) Evict() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}

	k := l.tail.key
	l.remove(l.tail)
	delete(l.nodes, k)
	return k, true
}

func (l *lru[K]) Remove(k K) {
	if n, ok := l.nodes[k]; ok {
		l.remove(n)
		delete(l.nodes, k)
	}
}

func (l *lru[K]) Len() int { return len(l.nodes) }

func (l *lru[K]) addFront(n *lruNode[K]) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n

	if l.tail == nil {
		l.tail = n
	}
}

// remove unlinks a node and fixes head and tail.
func (l *lru[K]) remove(n *lruNode[K]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

func (l *lru[K]) moveToFront(n *lruNode[K]) {
	l.remove(n)
	l.addFront(n)
}
