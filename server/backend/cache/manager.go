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

// Package cache provides the caches of the SyncSphere backend.
package cache

import (
	"time"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/pkg/cache"
	"github.com/syncsphere/syncsphere/server/logging"
)

// Manager manages all caches used in the backend.
type Manager struct {
	// Users maps the username of an authenticated token to the user ID.
	Users *cache.LRUExpireCache[string, types.ID]
}

// Options contains configuration for cache manager.
type Options struct {
	UserCacheSize int
	UserCacheTTL  time.Duration
}

// New creates a new cache manager.
func New(opts Options) (*Manager, error) {
	users, err := cache.NewLRUExpireCache[string, types.ID](
		"users",
		opts.UserCacheSize,
		opts.UserCacheTTL,
	)
	if err != nil {
		return nil, err
	}

	return &Manager{Users: users}, nil
}

// LogStats logs the hit rate of each cache.
func (m *Manager) LogStats(logger logging.Logger) {
	stats := m.Users.Stats()
	logger.Infof(
		"cache[%s]: hits=%d, misses=%d, hit rate=%.2f%%",
		m.Users.Name(),
		stats.Hits(),
		stats.Misses(),
		stats.HitRate(),
	)
}
