// Package cache provides a bounded in-memory key/value store with LRU
// eviction and optional TTL expiry.
//
// A Bounded cache never exceeds its configured capacity: inserting at
// capacity evicts the single entry with the oldest last-access time.
// TTL expiry is lazy, enforced on read rather than by a background
// sweep. ToolForge uses it to memoize resolved tool definitions so
// repeated lookups avoid re-reading the definition store.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Config configures a Bounded cache.
type Config struct {
	// MaxSize is the capacity. Values below one fall back to
	// DefaultMaxSize.
	MaxSize int

	// TTL is the maximum residency of an entry, measured from its
	// creation time. Zero disables expiry.
	TTL time.Duration

	// NoLocking disables the per-instance mutex for single-threaded
	// callers.
	NoLocking bool
}

// DefaultMaxSize is the capacity used when none is configured.
const DefaultMaxSize = 128

type entry[K comparable, V any] struct {
	key        K
	value      V
	createdAt  time.Time
	lastAccess time.Time
}

// Bounded is an LRU+TTL cache. The zero value is not usable; construct
// with New.
type Bounded[K comparable, V any] struct {
	mu      sync.Mutex
	locking bool
	maxSize int
	ttl     time.Duration

	// order holds *entry values, most recently accessed at the front.
	order   *list.List
	entries map[K]*list.Element

	now func() time.Time
}

// Stats is a point-in-time snapshot of cache occupancy.
type Stats struct {
	Size        int           `json:"size"`
	MaxSize     int           `json:"max_size"`
	TTL         time.Duration `json:"ttl"`
	Utilization float64       `json:"utilization"`
}

// New creates a Bounded cache.
func New[K comparable, V any](cfg Config) *Bounded[K, V] {
	maxSize := cfg.MaxSize
	if maxSize < 1 {
		maxSize = DefaultMaxSize
	}
	return &Bounded[K, V]{
		locking: !cfg.NoLocking,
		maxSize: maxSize,
		ttl:     cfg.TTL,
		order:   list.New(),
		entries: make(map[K]*list.Element),
		now:     time.Now,
	}
}

func (c *Bounded[K, V]) lock() {
	if c.locking {
		c.mu.Lock()
	}
}

func (c *Bounded[K, V]) unlock() {
	if c.locking {
		c.mu.Unlock()
	}
}

// Get returns the value for key. A missing key, or one whose age
// exceeds the TTL, returns the zero value and false; the expired entry
// is removed as a side effect of the read. A hit refreshes the entry's
// last-access time, which is the sole LRU recency signal.
func (c *Bounded[K, V]) Get(key K) (V, bool) {
	c.lock()
	defer c.unlock()

	var zero V
	elem, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	e := elem.Value.(*entry[K, V])
	if c.expired(e) {
		c.remove(elem)
		return zero, false
	}
	e.lastAccess = c.now()
	c.order.MoveToFront(elem)
	return e.value, true
}

// Set inserts or replaces the value for key. At capacity it evicts the
// entry with the oldest last-access time first; it does not proactively
// expire entries.
func (c *Bounded[K, V]) Set(key K, value V) {
	c.lock()
	defer c.unlock()

	now := c.now()
	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry[K, V])
		e.value = value
		e.createdAt = now
		e.lastAccess = now
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
	elem := c.order.PushFront(&entry[K, V]{
		key:        key,
		value:      value,
		createdAt:  now,
		lastAccess: now,
	})
	c.entries[key] = elem
}

// Delete removes the entry for key, if present.
func (c *Bounded[K, V]) Delete(key K) {
	c.lock()
	defer c.unlock()

	if elem, ok := c.entries[key]; ok {
		c.remove(elem)
	}
}

// Clear removes every entry.
func (c *Bounded[K, V]) Clear() {
	c.lock()
	defer c.unlock()

	c.order.Init()
	c.entries = make(map[K]*list.Element)
}

// Len returns the current entry count without purging expired entries.
func (c *Bounded[K, V]) Len() int {
	c.lock()
	defer c.unlock()
	return c.order.Len()
}

// Stats purges expired entries and reports occupancy.
func (c *Bounded[K, V]) Stats() Stats {
	c.lock()
	defer c.unlock()

	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if c.expired(elem.Value.(*entry[K, V])) {
			c.remove(elem)
		}
		elem = prev
	}

	size := c.order.Len()
	return Stats{
		Size:        size,
		MaxSize:     c.maxSize,
		TTL:         c.ttl,
		Utilization: float64(size) / float64(c.maxSize),
	}
}

func (c *Bounded[K, V]) expired(e *entry[K, V]) bool {
	return c.ttl > 0 && c.now().Sub(e.createdAt) > c.ttl
}

func (c *Bounded[K, V]) remove(elem *list.Element) {
	e := elem.Value.(*entry[K, V])
	c.order.Remove(elem)
	delete(c.entries, e.key)
}
