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

package hooks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/server/backend/hooks"
)

func TestHooks(t *testing.T) {
	ctx := context.Background()

	t.Run("run in order test", func(t *testing.T) {
		var order []string
		var list hooks.List
		list.Add("first", func(ctx context.Context) error {
			order = append(order, "first")
			return nil
		})
		list.Add("second", func(ctx context.Context) error {
			order = append(order, "second")
			return nil
		})

		assert.Equal(t, 0, hooks.Run(ctx, list, nil))
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("failure does not stop other hooks test", func(t *testing.T) {
		errBroken := errors.New("broken")
		var failures []string
		ran := false

		var list hooks.List
		list.Add("broken", func(ctx context.Context) error {
			return errBroken
		})
		list.Add("panicking", func(ctx context.Context) error {
			panic("boom")
		})
		list.Add("healthy", func(ctx context.Context) error {
			ran = true
			return nil
		})

		failed := hooks.Run(ctx, list, func(name string, err error) {
			failures = append(failures, name)
			if name == "broken" {
				assert.ErrorIs(t, err, errBroken)
			}
		})
		assert.Equal(t, 2, failed)
		assert.Equal(t, []string{"broken", "panicking"}, failures)
		assert.True(t, ran)
	})
}
