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

package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/pkg/errors"
)

func TestID(t *testing.T) {
	t.Run("get ID from hex test", func(t *testing.T) {
		str := "0123456789abcdef01234567"
		ID := types.ID(str)
		assert.NoError(t, ID.Validate())
		assert.False(t, ID.IsZero())
		assert.Equal(t, str, ID.String())
	})

	t.Run("invalid ID test", func(t *testing.T) {
		for _, id := range []types.ID{"", "abc", "0123456789abcdef0123456z", "0123456789abcdef0123456789"} {
			err := id.Validate()
			assert.ErrorIs(t, err, types.ErrInvalidID, id.String())
			assert.True(t, errors.IsStatus(err, errors.ErrCodeValidation))
		}
	})

	t.Run("ContainsID test", func(t *testing.T) {
		ids := []types.ID{"000000000000000000000001", "000000000000000000000002"}
		assert.True(t, types.ContainsID(ids, "000000000000000000000002"))
		assert.False(t, types.ContainsID(ids, "000000000000000000000003"))
		assert.False(t, types.ContainsID(nil, ""))
	})
}
