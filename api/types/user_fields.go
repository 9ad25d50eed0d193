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

// UserFields is a set of fields that use to sign up to SyncSphere.
type UserFields struct {
	// Username is the name of user.
	Username *string `bson:"username" validate:"required,min=2,max=30,case_sensitive_slug"`

	// Password is the password of user.
	Password *string `bson:"password" validate:"required,min=8,max=30,alpha_num_special"`

	// Email is the email address of user.
	Email *string `bson:"email" validate:"required,email,max=254"`
}

// Validate validates the UserFields.
func (i *UserFields) Validate() error {
	return invalidFields(validation.ValidateStruct(i))
}

// UpdatableUserFields is a set of fields that use to update the profile of a user.
type UpdatableUserFields struct {
	// DisplayName is the name shown to other users.
	DisplayName *string `bson:"display_name,omitempty" validate:"omitempty,max=50"`

	// Bio is a short introduction of the user.
	Bio *string `bson:"bio,omitempty" validate:"omitempty,max=500"`

	// AvatarURL is the URL of the avatar image.
	AvatarURL *string `bson:"avatar_url,omitempty" validate:"omitempty,url,max=2048"`
}

// Validate validates the UpdatableUserFields.
func (i *UpdatableUserFields) Validate() error {
	if i.DisplayName == nil && i.Bio == nil && i.AvatarURL == nil {
		return ErrEmptyFields
	}

	return invalidFields(validation.ValidateStruct(i))
}
