package store

import (
	"sync"
	"time"
)

type CacheItem[T any] struct {
	Value     *T
	ExpiresAt time.Time
}

// Cache is a map with a sliding per-entry TTL and an optional size cap.
type Cache[K comparable, V any] struct {
	items      map[K]*CacheItem[V]
	ttl        time.Duration
	maxEntries int
	mutex      sync.Mutex
	now        func() time.Time
}

// NewCache creates a new cache holding at most maxEntries values; a
// maxEntries of zero or less means no cap.
func NewCache[K comparable, V any](ttl time.Duration, maxEntries int) *Cache[K, V] {
	return &Cache[K, V]{
		items:      make(map[K]*CacheItem[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the value for key, or nil when it is missing or expired.
// A hit extends the entry's TTL.
func (c *Cache[K, V]) Get(key K) *V {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	item, found := c.items[key]
	if !found {
		return nil
	}
	now := c.now()
	if now.After(item.ExpiresAt) {
		delete(c.items, key)
		return nil
	}
	item.ExpiresAt = now.Add(c.ttl)

	return item.Value
}

// Set stores value under key. When the cache is full, expired entries are
// dropped first and then the entry closest to expiry is evicted.
func (c *Cache[K, V]) Set(key K, value *V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	if _, exists := c.items[key]; !exists && c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		c.purge(now)
		for len(c.items) >= c.maxEntries {
			c.evictOldest()
		}
	}

	c.items[key] = &CacheItem[V]{
		Value:     value,
		ExpiresAt: now.Add(c.ttl),
	}
}

func (c *Cache[K, V]) evictOldest() {
	var (
		oldest K
		at     time.Time
		found  bool
	)
	for k, item := range c.items {
		if !found || item.ExpiresAt.Before(at) {
			oldest, at, found = k, item.ExpiresAt, true
		}
	}
	if found {
		delete(c.items, oldest)
	}
}

// Purge drops every expired entry and returns how many were removed.
func (c *Cache[K, V]) Purge() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.purge(c.now())
}

func (c *Cache[K, V]) purge(now time.Time) int {
	var n int
	for k, item := range c.items {
		if now.After(item.ExpiresAt) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

// Len returns the number of entries, expired or not.
func (c *Cache[K, V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.items)
}
