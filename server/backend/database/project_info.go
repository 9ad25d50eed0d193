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

package database

import (
	"time"

	"github.com/syncsphere/syncsphere/api/types"
)

// ProjectInfo is a struct for project information.
type ProjectInfo struct {
	// ID is the unique ID of the project.
	ID types.ID `bson:"_id"`

	// Name is the name of this project.
	Name string `bson:"name"`

	// Description is the description of this project.
	Description string `bson:"description"`

	// Tags are the hashtags of this project.
	Tags []string `bson:"tags"`

	// Owner is the owner of this project.
	Owner types.ID `bson:"owner"`

	// Members are the members of this project. The owner is stored with the
	// owner role.
	Members []*MemberInfo `bson:"members"`

	// Files are the files checked in to this project. They are only appended.
	Files []*FileInfo `bson:"files"`

	// CheckedOutBy is the ID of the lock holder. It is stored as null when
	// nobody holds the lock.
	CheckedOutBy types.ID `bson:"checked_out_by"`

	// CheckedOutAt is the time when the lock was acquired.
	CheckedOutAt *time.Time `bson:"checked_out_at"`

	// LastActivity is the time of the last mutation of this project.
	LastActivity time.Time `bson:"last_activity"`

	// CreatedAt is the time when the project was created.
	CreatedAt time.Time `bson:"created_at"`

	// UpdatedAt is the time when the project was updated.
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewProjectInfo creates a new ProjectInfo of the given owner. The owner is
// inserted as a member with the owner role.
func NewProjectInfo(owner types.ID, fields *types.ProjectFields) *ProjectInfo {
	now := time.Now()
	info := &ProjectInfo{
		Owner: owner,
		Tags:  types.NormalizeHashtags(fields.Tags),
		Members: []*MemberInfo{{
			UserID:  owner,
			Role:    types.RoleOwner,
			AddedBy: owner,
			AddedAt: now,
		}},
		Files:        []*FileInfo{},
		LastActivity: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if fields.Name != nil {
		info.Name = *fields.Name
	}
	if fields.Description != nil {
		info.Description = *fields.Description
	}

	return info
}

// IsCheckedOut returns whether a member holds the lock of the project.
func (i *ProjectInfo) IsCheckedOut() bool {
	return !i.CheckedOutBy.IsZero()
}

// FindMember returns the member entry of the user or nil.
func (i *ProjectInfo) FindMember(userID types.ID) *MemberInfo {
	for _, m := range i.Members {
		if m.UserID == userID {
			return m
		}
	}
	return nil
}

// MemberIDs returns the IDs of the members. The owner is included even if
// the document lacks the owner entry.
func (i *ProjectInfo) MemberIDs() []types.ID {
	ids := make([]types.ID, 0, len(i.Members)+1)
	if i.FindMember(i.Owner) == nil && !i.Owner.IsZero() {
		ids = append(ids, i.Owner)
	}
	for _, m := range i.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// UpdateFields updates the fields.
func (i *ProjectInfo) UpdateFields(fields *types.UpdatableProjectFields) {
	if fields.Name != nil {
		i.Name = *fields.Name
	}
	if fields.Description != nil {
		i.Description = *fields.Description
	}
	if fields.Tags != nil {
		i.Tags = types.NormalizeHashtags(*fields.Tags)
	}
}

// DeepCopy returns a deep copy of the ProjectInfo.
func (i *ProjectInfo) DeepCopy() *ProjectInfo {
	if i == nil {
		return nil
	}

	members := make([]*MemberInfo, 0, len(i.Members))
	for _, m := range i.Members {
		members = append(members, m.DeepCopy())
	}
	files := make([]*FileInfo, 0, len(i.Files))
	for _, f := range i.Files {
		files = append(files, f.DeepCopy())
	}

	var checkedOutAt *time.Time
	if i.CheckedOutAt != nil {
		at := *i.CheckedOutAt
		checkedOutAt = &at
	}

	return &ProjectInfo{
		ID:           i.ID,
		Name:         i.Name,
		Description:  i.Description,
		Tags:         append([]string{}, i.Tags...),
		Owner:        i.Owner,
		Members:      members,
		Files:        files,
		CheckedOutBy: i.CheckedOutBy,
		CheckedOutAt: checkedOutAt,
		LastActivity: i.LastActivity,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

// ToProject converts the ProjectInfo to the Project.
func (i *ProjectInfo) ToProject() *types.Project {
	members := make([]*types.Member, 0, len(i.Members))
	for _, m := range i.Members {
		members = append(members, m.ToMember())
	}
	files := make([]*types.File, 0, len(i.Files))
	for _, f := range i.Files {
		files = append(files, f.ToFile())
	}

	var checkedOutAt *time.Time
	if i.CheckedOutAt != nil {
		at := *i.CheckedOutAt
		checkedOutAt = &at
	}

	return &types.Project{
		ID:           i.ID,
		Name:         i.Name,
		Description:  i.Description,
		Tags:         append([]string{}, i.Tags...),
		Owner:        i.Owner,
		Members:      members,
		Files:        files,
		CheckedOutBy: i.CheckedOutBy,
		CheckedOutAt: checkedOutAt,
		LastActivity: i.LastActivity,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

// MemberInfo is a struct for project member information.
type MemberInfo struct {
	// UserID is the ID of the user.
	UserID types.ID `bson:"user_id"`

	// Role is the role of the user in the project.
	Role types.Role `bson:"role"`

	// AddedBy is the ID of the user who added this member.
	AddedBy types.ID `bson:"added_by"`

	// AddedAt is the time when the member was added.
	AddedAt time.Time `bson:"added_at"`
}

// DeepCopy returns a deep copy of the MemberInfo.
func (i *MemberInfo) DeepCopy() *MemberInfo {
	if i == nil {
		return nil
	}

	return &MemberInfo{
		UserID:  i.UserID,
		Role:    i.Role,
		AddedBy: i.AddedBy,
		AddedAt: i.AddedAt,
	}
}

// ToMember converts the MemberInfo to the Member.
func (i *MemberInfo) ToMember() *types.Member {
	return &types.Member{
		UserID:  i.UserID,
		Role:    i.Role,
		AddedBy: i.AddedBy,
		AddedAt: i.AddedAt,
	}
}

// FileInfo is a struct for the descriptor of a stored file.
type FileInfo struct {
	Name       string    `bson:"name"`
	Path       string    `bson:"path"`
	Size       int64     `bson:"size"`
	UploadedBy types.ID  `bson:"uploaded_by"`
	UploadedAt time.Time `bson:"uploaded_at"`
}

// DeepCopy returns a deep copy of the FileInfo.
func (i *FileInfo) DeepCopy() *FileInfo {
	if i == nil {
		return nil
	}

	clone := *i
	return &clone
}

// ToFile converts the FileInfo to the File.
func (i *FileInfo) ToFile() *types.File {
	return &types.File{
		Name:       i.Name,
		Path:       i.Path,
		Size:       i.Size,
		UploadedBy: i.UploadedBy,
		UploadedAt: i.UploadedAt,
	}
}
