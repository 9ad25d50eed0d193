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

package background_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/server/backend/background"
	"github.com/syncsphere/syncsphere/server/profiling/prometheus"
)

func newBackground(t *testing.T) *background.Background {
	metrics, err := prometheus.NewMetrics()
	assert.NoError(t, err)
	return background.New(metrics)
}

func TestBackground(t *testing.T) {
	t.Run("close waits for attached goroutines test", func(t *testing.T) {
		bg := newBackground(t)

		var done atomic.Int32
		for range 10 {
			assert.True(t, bg.AttachGoroutine(func(ctx context.Context) {
				done.Add(1)
			}, "test"))
		}

		bg.Close()
		assert.Equal(t, int32(10), done.Load())
		assert.Equal(t, int64(0), bg.Running())
	})

	t.Run("attach after close test", func(t *testing.T) {
		bg := newBackground(t)
		bg.Close()

		assert.False(t, bg.AttachGoroutine(func(ctx context.Context) {
			t.Error("must not run")
		}, "test"))
	})

	t.Run("panic in goroutine test", func(t *testing.T) {
		bg := newBackground(t)
		assert.True(t, bg.AttachGoroutine(func(ctx context.Context) {
			panic("boom")
		}, "test"))

		bg.Close()
		assert.Equal(t, int64(0), bg.Running())
	})
}
