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

// Project is a project that members check out and check in.
type Project struct {
	// ID is the unique ID of the project.
	ID ID `json:"id"`

	// Name is the name of this project.
	Name string `json:"name"`

	// Description is the description of this project.
	Description string `json:"description"`

	// Tags are the hashtags of this project.
	Tags []string `json:"tags"`

	// Owner is the ID of the user who created this project.
	Owner ID `json:"owner"`

	// Members are the members of this project including the owner.
	Members []*Member `json:"members"`

	// Files are the files that were checked in to this project.
	Files []*File `json:"files"`

	// CheckedOutBy is the ID of the user who holds the lock of this project.
	// It is empty if the project is not checked out.
	CheckedOutBy ID `json:"checked_out_by,omitempty"`

	// CheckedOutAt is the time when the lock was acquired.
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`

	// LastActivity is the time of the last mutation of this project.
	LastActivity time.Time `json:"last_activity"`

	// CreatedAt is the time when the project was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the time when the project was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// IsCheckedOut returns whether the project is locked by a member.
func (p *Project) IsCheckedOut() bool {
	return !p.CheckedOutBy.IsZero()
}

// File is a descriptor of a file stored in the blob storage.
type File struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	UploadedBy ID        `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}
