// Package cache provides an ephemeral in-memory key-value store for callers
// to memoize reader output. The storage core never populates or consults it;
// it is process wiring made available to whoever embeds the store.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a generic in-memory key-value store. By default it is unbounded
// and entries never expire; callers opt into an entry cap or a TTL.
type Cache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// New creates a cache. maxEntries == 0 means unbounded; ttl == 0 means
// entries never expire.
func New[K comparable, V any](maxEntries int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		lru: expirable.NewLRU[K, V](maxEntries, nil, ttl),
	}
}

// Get returns the value for key and whether it was present.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Add stores value under key, replacing any existing entry.
func (c *Cache[K, V]) Add(key K, value V) {
	c.lru.Add(key, value)
}

// Remove drops the entry for key, if present.
func (c *Cache[K, V]) Remove(key K) {
	c.lru.Remove(key)
}

// Purge drops every entry.
func (c *Cache[K, V]) Purge() {
	c.lru.Purge()
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}
