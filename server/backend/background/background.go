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

// Package background runs the tasks that outlive a request, such as the
// post-commit hooks in async mode, and waits for them on shutdown.
package background

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/syncsphere/syncsphere/server/logging"
	"github.com/syncsphere/syncsphere/server/profiling/prometheus"
)

type routineID int32

func (c *routineID) next() string {
	next := atomic.AddInt32((*int32)(c), 1)
	return "bg" + strconv.Itoa(int(next))
}

// Background tracks the goroutines attached by the backend.
type Background struct {
	// closing is closed by backend close.
	closing   chan struct{}
	closeOnce sync.Once

	// wgMu blocks concurrent WaitGroup mutation while backend closing.
	wgMu sync.RWMutex
	wg   sync.WaitGroup

	routineID routineID

	// running is the number of attached goroutines that have not returned.
	running atomic.Int64

	metrics *prometheus.Metrics
}

// New creates a new background service.
func New(metrics *prometheus.Metrics) *Background {
	return &Background{
		closing: make(chan struct{}),
		metrics: metrics,
	}
}

// AttachGoroutine runs f in a new goroutine tracked by the service. The
// context given to f carries a logger named after the routine. It returns
// false if the service is closed and f was not started.
func (b *Background) AttachGoroutine(
	f func(ctx context.Context),
	taskType string,
) bool {
	b.wgMu.RLock() // this blocks with ongoing close(b.closing)
	defer b.wgMu.RUnlock()
	select {
	case <-b.closing:
		logging.DefaultLogger().Warnf("background closed; skipping %s task", taskType)
		return false
	default:
	}

	b.wg.Add(1)
	b.running.Add(1)
	routineLogger := logging.New(b.routineID.next(), logging.NewField("task", taskType))
	b.metrics.AddBackgroundGoroutines(taskType)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				routineLogger.Errorf("%s task panicked: %v", taskType, r)
			}
			b.metrics.RemoveBackgroundGoroutines(taskType)
			b.running.Add(-1)
			b.wg.Done()
		}()
		f(logging.With(context.Background(), routineLogger))
	}()

	return true
}

// Running returns the number of attached goroutines that have not returned.
func (b *Background) Running() int64 {
	return b.running.Load()
}

// Close stops accepting goroutines and waits for the attached ones to
// return.
func (b *Background) Close() {
	b.closeOnce.Do(func() {
		b.wgMu.Lock()
		close(b.closing)
		b.wgMu.Unlock()
	})

	b.wg.Wait()
}
