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
	"strings"

	"github.com/syncsphere/syncsphere/internal/validation"
)

// CheckInFields is a set of fields that use to check in a project.
type CheckInFields struct {
	// Message is the message of the check-in.
	Message string `validate:"required,max=1000"`

	// Changes is an optional description of the changes.
	Changes string `validate:"omitempty,max=5000"`

	// Hashtags are the hashtags of the check-in.
	Hashtags []string `validate:"omitempty,max=20,dive,hashtag"`
}

// Validate validates the CheckInFields.
func (i *CheckInFields) Validate() error {
	i.Message = strings.TrimSpace(i.Message)
	return invalidFields(validation.ValidateStruct(i))
}

// NormalizeHashtags strips the leading '#' of the given tags and removes
// duplicates while keeping the order.
func NormalizeHashtags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		normalized = append(normalized, tag)
	}
	return normalized
}
