/*
 * Copyright 2026 The SyncSphere Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cache provides an LRU cache whose entries expire after a TTL and
// which counts its hits and misses.
package cache

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var (
	// ErrInvalidMaxSize is returned when the given max size is not positive.
	ErrInvalidMaxSize = errors.New("max size must be > 0")
)

// Stats holds cache statistics.
type Stats struct {
	hits   atomic.Int64
	misses atomic.Int64
}

// Hits returns the number of cache hits.
func (s *Stats) Hits() int64 {
	return s.hits.Load()
}

// Misses returns the number of cache misses.
func (s *Stats) Misses() int64 {
	return s.misses.Load()
}

// HitRate returns the cache hit rate as a percentage (0-100).
func (s *Stats) HitRate() float64 {
	total := s.Hits() + s.Misses()
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits()) / float64(total) * 100.0
}

// LRUExpireCache is a wrapper over hashicorp's expirable LRU with statistics.
type LRUExpireCache[K comparable, V any] struct {
	cache *expirable.LRU[K, V]
	stats Stats
	name  string
}

// NewLRUExpireCache creates an expiring cache with the given size and ttl.
func NewLRUExpireCache[K comparable, V any](
	name string,
	maxSize int,
	ttl time.Duration,
) (*LRUExpireCache[K, V], error) {
	if maxSize <= 0 {
		return nil, ErrInvalidMaxSize
	}

	return &LRUExpireCache[K, V]{
		cache: expirable.NewLRU[K, V](maxSize, nil, ttl),
		name:  name,
	}, nil
}

// Get returns the value at the key if it exists and is not expired.
func (c *LRUExpireCache[K, V]) Get(key K) (V, bool) {
	value, ok := c.cache.Get(key)
	if ok {
		c.stats.hits.Add(1)
	} else {
		c.stats.misses.Add(1)
	}
	return value, ok
}

// Add adds the value to the cache at the key. It returns true if an entry
// was evicted.
func (c *LRUExpireCache[K, V]) Add(key K, value V) bool {
	return c.cache.Add(key, value)
}

// Remove removes the key from the cache.
func (c *LRUExpireCache[K, V]) Remove(key K) bool {
	return c.cache.Remove(key)
}

// Purge clears all entries from the cache.
func (c *LRUExpireCache[K, V]) Purge() {
	c.cache.Purge()
}

// Len returns the number of entries in the cache, including the expired
// ones not yet evicted.
func (c *LRUExpireCache[K, V]) Len() int {
	return c.cache.Len()
}

// Stats returns the cache statistics.
func (c *LRUExpireCache[K, V]) Stats() *Stats {
	return &c.stats
}

// Name returns the cache name.
func (c *LRUExpireCache[K, V]) Name() string {
	return c.name
}
