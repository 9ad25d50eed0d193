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

package backend_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/backend/hooks"
	"github.com/syncsphere/syncsphere/test/helper"
)

func TestRunHooks(t *testing.T) {
	ctx := context.Background()

	t.Run("run hooks inline test", func(t *testing.T) {
		be := helper.TestBackend(t)

		var ran []string
		var list hooks.List
		list.Add("first", func(ctx context.Context) error {
			ran = append(ran, "first")
			return errors.New("first failed")
		})
		list.Add("second", func(ctx context.Context) error {
			ran = append(ran, "second")
			return nil
		})
		be.RunHooks(ctx, list)

		assert.Equal(t, []string{"first", "second"}, ran)
		assert.Equal(t, float64(1), helper.MetricSum(t, be, "syncsphere_hooks_failures_total"))
	})

	t.Run("run hooks of canceled request test", func(t *testing.T) {
		be := helper.TestBackend(t)

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		var hookErr error
		var created []int
		var list hooks.List
		list.Add("fan_out", func(ctx context.Context) error {
			hookErr = ctx.Err()
			var err error
			created, err = backend.FanOut(ctx, be, []int{1, 2, 3}, func(ctx context.Context, n int) (int, error) {
				return n, nil
			})
			return err
		})
		be.RunHooks(canceled, list)

		assert.NoError(t, hookErr)
		assert.ElementsMatch(t, []int{1, 2, 3}, created)
		assert.Equal(t, float64(0), helper.MetricSum(t, be, "syncsphere_hooks_failures_total"))
	})

	t.Run("run hooks async test", func(t *testing.T) {
		conf := helper.TestBackendConfig()
		conf.AsyncHooks = true
		be := helper.TestBackendWithConfig(t, conf)

		done := make(chan struct{})
		var list hooks.List
		list.Add("async", func(ctx context.Context) error {
			close(done)
			return nil
		})
		be.RunHooks(ctx, list)

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("hook did not run")
		}
	})

	t.Run("run hooks after shutdown test", func(t *testing.T) {
		conf := helper.TestBackendConfig()
		conf.AsyncHooks = true
		be := helper.TestBackendWithConfig(t, conf)
		be.Background.Close()

		var ran atomic.Bool
		var list hooks.List
		list.Add("late", func(ctx context.Context) error {
			ran.Store(true)
			return nil
		})
		be.RunHooks(ctx, list)
		assert.False(t, ran.Load())
	})
}

func TestFanOut(t *testing.T) {
	ctx := context.Background()
	be := helper.TestBackend(t)

	t.Run("keep order test", func(t *testing.T) {
		results, err := backend.FanOut(ctx, be, []int{1, 2, 3, 4, 5}, func(ctx context.Context, n int) (string, error) {
			time.Sleep(time.Duration(5-n) * time.Millisecond)
			return fmt.Sprint(n * n), nil
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"1", "4", "9", "16", "25"}, results)
	})

	t.Run("partial failure test", func(t *testing.T) {
		errOdd := errors.New("odd")
		results, err := backend.FanOut(ctx, be, []int{1, 2, 3, 4}, func(ctx context.Context, n int) (int, error) {
			if n%2 == 1 {
				return 0, fmt.Errorf("%d: %w", n, errOdd)
			}
			return n, nil
		})
		assert.ErrorIs(t, err, errOdd)
		assert.Equal(t, []int{2, 4}, results)
	})

	t.Run("bounded concurrency test", func(t *testing.T) {
		var running, peak atomic.Int64
		tasks := make([]int, 32)
		_, err := backend.FanOut(ctx, be, tasks, func(ctx context.Context, _ int) (int, error) {
			now := running.Add(1)
			for {
				old := peak.Load()
				if now <= old || peak.CompareAndSwap(old, now) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
			return 0, nil
		})
		assert.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), helper.HookConcurrency)
	})
}

func TestRecordCascade(t *testing.T) {
	be := helper.TestBackend(t)
	be.RecordCascade(context.Background(), &database.DeletedCounts{
		CheckIns:      2,
		Notifications: 3,
		Activities:    4,
		Discussions:   1,
	})
	assert.Equal(t, float64(10), helper.MetricSum(t, be, "syncsphere_projects_cascade_deleted_total"))
}
