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

package backend

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"
)

// fanOut bounds the concurrency of fan-outs across the server.
type fanOut struct {
	semaphore *semaphore.Weighted
}

// newFanOut creates a new fanOut with the given max concurrency.
func newFanOut(maxConcurrency int64) *fanOut {
	return &fanOut{
		semaphore: semaphore.NewWeighted(maxConcurrency),
	}
}

// FanOut executes fn for each task concurrently, respecting the Backend's
// concurrency limit. It returns the results of the successful tasks in the
// order of the tasks, along with the errors of the failed ones joined.
//
// Unlike RunHooks in async mode, FanOut is request-scoped:
//   - The caller receives results back.
//   - Context cancellation is respected.
//   - Server-wide concurrency is bounded by the semaphore.
func FanOut[T any, R any](
	ctx context.Context,
	be *Backend,
	tasks []T,
	fn func(ctx context.Context, task T) (R, error),
) ([]R, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	type result struct {
		value R
		err   error
	}

	results := make([]result, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := be.fanOut.semaphore.Acquire(ctx, 1); err != nil {
				results[i] = result{err: err}
				return
			}
			defer be.fanOut.semaphore.Release(1)

			value, err := fn(ctx, task)
			results[i] = result{value: value, err: err}
		}()
	}
	wg.Wait()

	var collected []R
	var errs []error
	for _, res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		collected = append(collected, res.value)
	}

	return collected, errors.Join(errs...)
}
