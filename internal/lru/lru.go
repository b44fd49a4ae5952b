// Package lru implements a byte-capped LRU cache used for the in-memory
// record tier. Capacity is tracked via a caller-provided size function so
// eviction pressure follows actual payload size, not entry count.
package lru

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// Cache is a thread-safe LRU cache with a byte capacity.
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[K]*list.Element
	evictList *list.List
	sizeOf    func(V) int64

	hits   atomic.Int64
	misses atomic.Int64
}

type entry[K comparable, V any] struct {
	key   K
	value V
	size  int64
}

// New creates a new LRU cache with the given capacity in bytes.
// sizeOf reports the in-memory cost of a value; it is called once per Set.
func New[K comparable, V any](capacity int64, sizeOf func(V) int64) *Cache[K, V] {
	return &Cache[K, V]{
		capacity:  capacity,
		items:     make(map[K]*list.Element),
		evictList: list.New(),
		sizeOf:    sizeOf,
	}
}

// Get returns a cached value.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry[K, V]).value, true
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Set caches a value, evicting least-recently-used entries as needed.
// Values larger than the total capacity are not cached.
func (c *Cache[K, V]) Set(key K, value V) {
	itemSize := c.sizeOf(value)

	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		e := ent.Value.(*entry[K, V])
		c.size += itemSize - e.size
		e.value = value
		e.size = itemSize
		c.evict()
		return
	}

	if itemSize > c.capacity {
		return
	}

	for c.size+itemSize > c.capacity {
		back := c.evictList.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}

	element := c.evictList.PushFront(&entry[K, V]{key: key, value: value, size: itemSize})
	c.items[key] = element
	c.size += itemSize
}

// Remove drops an entry if present.
func (c *Cache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)
	}
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Size returns the current size of the cache in bytes.
func (c *Cache[K, V]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Stats returns cumulative hit and miss counts.
func (c *Cache[K, V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *Cache[K, V]) evict() {
	for c.size > c.capacity {
		back := c.evictList.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}
}

func (c *Cache[K, V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	ent := e.Value.(*entry[K, V])
	delete(c.items, ent.key)
	c.size -= ent.size
}
