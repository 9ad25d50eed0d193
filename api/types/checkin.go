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

import "time"

// CheckIn is a revision recorded when a member releases the lock of a project.
type CheckIn struct {
	// ID is the unique ID of the check-in.
	ID ID `json:"id"`

	// ProjectID is the ID of the project.
	ProjectID ID `json:"project_id"`

	// UserID is the ID of the user who checked in.
	UserID ID `json:"user_id"`

	// Message is the message of the check-in.
	Message string `json:"message"`

	// Changes is an optional description of the changes.
	Changes string `json:"changes,omitempty"`

	// Files are the files uploaded with the check-in.
	Files []*File `json:"files"`

	// Hashtags are the hashtags of the check-in.
	Hashtags []string `json:"hashtags"`

	// CreatedAt is the time when the check-in was recorded.
	CreatedAt time.Time `json:"created_at"`
}
