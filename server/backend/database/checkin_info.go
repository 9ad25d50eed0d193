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

// CheckInInfo is a struct for check-in information. Check-ins are only
// appended and removed with their project.
type CheckInInfo struct {
	ID        types.ID    `bson:"_id"`
	ProjectID types.ID    `bson:"project_id"`
	UserID    types.ID    `bson:"user_id"`
	Message   string      `bson:"message"`
	Changes   string      `bson:"changes"`
	Files     []*FileInfo `bson:"files"`
	Hashtags  []string    `bson:"hashtags"`
	CreatedAt time.Time   `bson:"created_at"`
}

// DeepCopy returns a deep copy of the CheckInInfo.
func (i *CheckInInfo) DeepCopy() *CheckInInfo {
	if i == nil {
		return nil
	}

	files := make([]*FileInfo, 0, len(i.Files))
	for _, f := range i.Files {
		files = append(files, f.DeepCopy())
	}

	return &CheckInInfo{
		ID:        i.ID,
		ProjectID: i.ProjectID,
		UserID:    i.UserID,
		Message:   i.Message,
		Changes:   i.Changes,
		Files:     files,
		Hashtags:  append([]string{}, i.Hashtags...),
		CreatedAt: i.CreatedAt,
	}
}

// ToCheckIn converts the CheckInInfo to the CheckIn.
func (i *CheckInInfo) ToCheckIn() *types.CheckIn {
	files := make([]*types.File, 0, len(i.Files))
	for _, f := range i.Files {
		files = append(files, f.ToFile())
	}

	return &types.CheckIn{
		ID:        i.ID,
		ProjectID: i.ProjectID,
		UserID:    i.UserID,
		Message:   i.Message,
		Changes:   i.Changes,
		Files:     files,
		Hashtags:  append([]string{}, i.Hashtags...),
		CreatedAt: i.CreatedAt,
	}
}
