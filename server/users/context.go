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

package users

import (
	"context"

	"github.com/syncsphere/syncsphere/api/types"
)

// userKey is the key for the context.Context.
type userKey struct{}

// From returns the ID of the authenticated user from the context. It is
// empty if the request is not authenticated.
func From(ctx context.Context) types.ID {
	id, _ := ctx.Value(userKey{}).(types.ID)
	return id
}

// With returns a new context with the ID of the authenticated user.
func With(ctx context.Context, id types.ID) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}
