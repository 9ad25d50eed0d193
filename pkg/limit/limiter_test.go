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

package limit_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/pkg/limit"
)

func TestLimiter(t *testing.T) {
	t.Run("burst then reject test", func(t *testing.T) {
		lim, err := limit.New[string](1, 3, 10, time.Minute)
		assert.NoError(t, err)

		for range 3 {
			assert.True(t, lim.Allow("alice"))
		}
		assert.False(t, lim.Allow("alice"))
	})

	t.Run("keys are independent test", func(t *testing.T) {
		lim, err := limit.New[string](1, 1, 10, time.Minute)
		assert.NoError(t, err)

		assert.True(t, lim.Allow("alice"))
		assert.False(t, lim.Allow("alice"))
		assert.True(t, lim.Allow("bob"))
	})

	t.Run("refill test", func(t *testing.T) {
		lim, err := limit.New[string](100, 1, 10, time.Minute)
		assert.NoError(t, err)

		assert.True(t, lim.Allow("alice"))
		assert.False(t, lim.Allow("alice"))
		time.Sleep(50 * time.Millisecond)
		assert.True(t, lim.Allow("alice"))
	})

	t.Run("concurrent allow test", func(t *testing.T) {
		const burst = 5
		lim, err := limit.New[string](0.001, burst, 10, time.Minute)
		assert.NoError(t, err)

		var allowed atomic.Int32
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if lim.Allow("alice") {
					allowed.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(burst), allowed.Load())
	})

	t.Run("invalid size test", func(t *testing.T) {
		_, err := limit.New[string](1, 1, 0, time.Minute)
		assert.Error(t, err)
	})
}
