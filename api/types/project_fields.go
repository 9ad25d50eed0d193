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

// ProjectFields is a set of fields that use to create a project.
type ProjectFields struct {
	// Name is the name of this project.
	Name *string `bson:"name" validate:"required,min=1,max=60"`

	// Description is the description of this project.
	Description *string `bson:"description" validate:"omitempty,max=500"`

	// Tags are the hashtags of this project.
	Tags []string `bson:"tags" validate:"omitempty,max=20,dive,hashtag"`
}

// Validate validates the ProjectFields.
func (i *ProjectFields) Validate() error {
	return invalidFields(validation.ValidateStruct(i))
}

// UpdatableProjectFields is a set of fields that use to update a project.
type UpdatableProjectFields struct {
	// Name is the name of this project.
	Name *string `bson:"name,omitempty" validate:"omitempty,min=1,max=60"`

	// Description is the description of this project.
	Description *string `bson:"description,omitempty" validate:"omitempty,max=500"`

	// Tags are the hashtags of this project.
	Tags *[]string `bson:"tags,omitempty" validate:"omitempty,max=20,dive,hashtag"`
}

// Validate validates the UpdatableProjectFields.
func (i *UpdatableProjectFields) Validate() error {
	if i.Name == nil && i.Description == nil && i.Tags == nil {
		return ErrEmptyFields
	}

	return invalidFields(validation.ValidateStruct(i))
}
