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

import "github.com/syncsphere/syncsphere/internal/validation"

// DiscussionFields is a set of fields that use to open a discussion.
type DiscussionFields struct {
	// Title is the title of the discussion.
	Title string `json:"title" validate:"required,max=200"`

	// Content is the body of the discussion.
	Content string `json:"content" validate:"omitempty,max=10000"`
}

// Validate validates the DiscussionFields.
func (i *DiscussionFields) Validate() error {
	return invalidFields(validation.ValidateStruct(i))
}

// CommentFields is a set of fields that use to comment on a discussion.
type CommentFields struct {
	// Content is the body of the comment.
	Content string `json:"content" validate:"required,max=5000"`
}

// Validate validates the CommentFields.
func (i *CommentFields) Validate() error {
	return invalidFields(validation.ValidateStruct(i))
}
