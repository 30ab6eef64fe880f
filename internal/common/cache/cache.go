package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is used when a non-positive capacity is requested
const DefaultCapacity = 1024

// Cache is a thread-safe LRU cache
type Cache[K comparable, V any] struct {
	lru *lru.Cache[K, V]
}

// New creates a new cache with the given capacity
func New[K comparable, V any](capacity int) (*Cache[K, V], error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	l, err := lru.New[K, V](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache[K, V]{lru: l}, nil
}

// Get retrieves a value from the cache
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Set adds or updates a value in the cache
func (c *Cache[K, V]) Set(key K, value V) {
	c.lru.Add(key, value)
}

// Len returns the number of items in the cache
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}
