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

// Package hooks provides the post-commit hooks of the business operations.
// A hook runs after the primary write committed. Its failure is reported
// and never undoes the write.
package hooks

import (
	"context"
	"fmt"
)

// Hook is a named step that runs after an operation committed.
type Hook struct {
	Name string
	Run  func(ctx context.Context) error
}

// List is an ordered list of hooks.
type List []Hook

// Add appends a hook to the list.
func (l *List) Add(name string, run func(ctx context.Context) error) {
	*l = append(*l, Hook{Name: name, Run: run})
}

// Run executes every hook of the list in order. Each failure, including a
// panic, is passed to onFailure and the remaining hooks still run. It
// returns the number of failed hooks.
func Run(ctx context.Context, list List, onFailure func(name string, err error)) int {
	failed := 0
	for _, hook := range list {
		if err := runHook(ctx, hook); err != nil {
			failed++
			if onFailure != nil {
				onFailure(hook.Name, err)
			}
		}
	}
	return failed
}

func runHook(ctx context.Context, hook Hook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook %s panicked: %v", hook.Name, r)
		}
	}()

	return hook.Run(ctx)
}
