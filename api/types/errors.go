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

package types

import (
	"fmt"

	"github.com/syncsphere/syncsphere/pkg/errors"
)

var (
	// ErrInvalidFields is returned when the given fields are invalid.
	ErrInvalidFields = errors.Validation("invalid fields").WithCode("ErrInvalidFields")

	// ErrEmptyFields is returned when none of the updatable fields is given.
	ErrEmptyFields = errors.Validation("updatable fields are empty").WithCode("ErrEmptyFields")
)

// invalidFields wraps the error of the struct validation with ErrInvalidFields.
func invalidFields(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidFields, err)
}
