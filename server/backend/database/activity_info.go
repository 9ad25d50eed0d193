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
	"maps"
	"time"

	"github.com/syncsphere/syncsphere/api/types"
)

// ActivityInfo is a struct for activity information.
type ActivityInfo struct {
	ID         types.ID           `bson:"_id"`
	Actor      types.ID           `bson:"actor"`
	Type       types.ActivityType `bson:"type"`
	ProjectID  types.ID           `bson:"project_id"`
	TargetUser types.ID           `bson:"target_user"`
	Data       map[string]string  `bson:"data"`
	IsGlobal   bool               `bson:"is_global"`
	ReadBy     []types.ID         `bson:"read_by"`
	CreatedAt  time.Time          `bson:"created_at"`
}

// Matches returns whether the activity is selected by the filter.
func (i *ActivityInfo) Matches(filter ActivityFilter) bool {
	if filter.Global && !i.IsGlobal {
		return false
	}
	if len(filter.Actors) > 0 && !types.ContainsID(filter.Actors, i.Actor) {
		return false
	}
	if !filter.ProjectID.IsZero() && i.ProjectID != filter.ProjectID {
		return false
	}
	return true
}

// DeepCopy returns a deep copy of the ActivityInfo.
func (i *ActivityInfo) DeepCopy() *ActivityInfo {
	if i == nil {
		return nil
	}

	return &ActivityInfo{
		ID:         i.ID,
		Actor:      i.Actor,
		Type:       i.Type,
		ProjectID:  i.ProjectID,
		TargetUser: i.TargetUser,
		Data:       maps.Clone(i.Data),
		IsGlobal:   i.IsGlobal,
		ReadBy:     append([]types.ID{}, i.ReadBy...),
		CreatedAt:  i.CreatedAt,
	}
}

// ToActivity converts the ActivityInfo to the Activity.
func (i *ActivityInfo) ToActivity() *types.Activity {
	return &types.Activity{
		ID:         i.ID,
		Actor:      i.Actor,
		Type:       i.Type,
		ProjectID:  i.ProjectID,
		TargetUser: i.TargetUser,
		Data:       maps.Clone(i.Data),
		IsGlobal:   i.IsGlobal,
		ReadBy:     append([]types.ID{}, i.ReadBy...),
		CreatedAt:  i.CreatedAt,
	}
}
