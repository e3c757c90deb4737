// Package cache provides a small generic LRU cache.
package cache

// node is an entry in the recency list. Head is the most recently used.
type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// LRU is a fixed-capacity least-recently-used cache.
//
// LRU is not safe for concurrent use; it is owned by a single goroutine
// (the render loop and the sources it drives).
type LRU[K comparable, V any] struct {
	capacity int
	entries  map[K]*node[K, V]
	head     *node[K, V]
	tail     *node[K, V]
	onEvict  func(K, V)
}

// NewLRU creates a cache holding at most capacity entries. A capacity below
// one is treated as one. onEvict, if not nil, is called for every entry that
// leaves the cache through eviction or Clear.
func NewLRU[K comparable, V any](capacity int, onEvict func(K, V)) *LRU[K, V] {
	return &LRU[K, V]{
		capacity: max(capacity, 1),
		entries:  make(map[K]*node[K, V], max(capacity, 1)),
		onEvict:  onEvict,
	}
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int { return len(c.entries) }

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	n, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(n)
	return n.value, true
}

// Put stores value under key, evicting the least recently used entry when
// the cache is full. Replacing an existing key does not call onEvict.
func (c *LRU[K, V]) Put(key K, value V) {
	if n, ok := c.entries[key]; ok {
		n.value = value
		c.moveToFront(n)
		return
	}
	if len(c.entries) >= c.capacity {
		c.evict(c.tail)
	}
	n := &node[K, V]{key: key, value: value}
	c.entries[key] = n
	c.pushFront(n)
}

// Clear drops every entry, oldest first.
func (c *LRU[K, V]) Clear() {
	for c.tail != nil {
		c.evict(c.tail)
	}
}

func (c *LRU[K, V]) evict(n *node[K, V]) {
	c.unlink(n)
	delete(c.entries, n.key)
	if c.onEvict != nil {
		c.onEvict(n.key, n.value)
	}
}

func (c *LRU[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *LRU[K, V]) moveToFront(n *node[K, V]) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *LRU[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
