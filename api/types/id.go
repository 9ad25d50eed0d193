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

// Package types provides the types used in the SyncSphere API. Handlers,
// business logic and both database implementations share them.
package types

import (
	"encoding/hex"
	"fmt"

	"github.com/syncsphere/syncsphere/pkg/errors"
)

var (
	// ErrInvalidID is returned when the given ID is not an ObjectID.
	ErrInvalidID = errors.Validation("invalid ID").WithCode("ErrInvalidID")
)

// ID represents ID of entity. It is the hex representation of a 12-byte
// ObjectID. The empty ID represents "no reference".
type ID string

// String returns a string representation of this ID.
func (id ID) String() string {
	return string(id)
}

// IsZero returns true if this ID does not reference anything.
func (id ID) IsZero() bool {
	return id == ""
}

// Validate returns error if this ID is invalid.
func (id ID) Validate() error {
	b, err := hex.DecodeString(id.String())
	if err != nil || len(b) != 12 {
		return fmt.Errorf("%q: %w", id, ErrInvalidID)
	}

	return nil
}

// ContainsID reports whether ids contains id.
func ContainsID(ids []ID, id ID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
