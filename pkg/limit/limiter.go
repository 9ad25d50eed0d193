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

// Package limit provides the rate limiters of the server.
package limit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/syncsphere/syncsphere/pkg/cache"
)

// Limiter limits the rate of events per key. Each key has its own token
// bucket. Buckets of idle keys expire after the TTL.
type Limiter[K comparable] struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	buckets *cache.LRUExpireCache[K, *rate.Limiter]
}

// New creates a new Limiter that allows eventsPerSecond events per key with
// the given burst. At most maxKeys buckets are kept.
func New[K comparable](
	eventsPerSecond float64,
	burst int,
	maxKeys int,
	ttl time.Duration,
) (*Limiter[K], error) {
	buckets, err := cache.NewLRUExpireCache[K, *rate.Limiter]("rate-limit", maxKeys, ttl)
	if err != nil {
		return nil, err
	}

	return &Limiter[K]{
		limit:   rate.Limit(eventsPerSecond),
		burst:   burst,
		buckets: buckets,
	}, nil
}

// Allow reports whether an event of the key may happen now.
func (l *Limiter[K]) Allow(key K) bool {
	return l.bucket(key).Allow()
}

// bucket returns the bucket of the key, creating it if absent.
func (l *Limiter[K]) bucket(key K) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets.Get(key); ok {
		return b
	}

	b := rate.NewLimiter(l.limit, l.burst)
	l.buckets.Add(key, b)
	return b
}
