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

// NotificationInfo is a struct for notification information.
type NotificationInfo struct {
	ID        types.ID               `bson:"_id"`
	Recipient types.ID               `bson:"recipient"`
	Sender    types.ID               `bson:"sender"`
	Type      types.NotificationType `bson:"type"`
	Message   string                 `bson:"message"`
	ProjectID types.ID               `bson:"project_id"`
	CheckInID types.ID               `bson:"checkin_id"`
	Read      bool                   `bson:"read"`
	CreatedAt time.Time              `bson:"created_at"`
}

// DeepCopy returns a deep copy of the NotificationInfo.
func (i *NotificationInfo) DeepCopy() *NotificationInfo {
	if i == nil {
		return nil
	}

	clone := *i
	return &clone
}

// ToNotification converts the NotificationInfo to the Notification.
func (i *NotificationInfo) ToNotification() *types.Notification {
	return &types.Notification{
		ID:        i.ID,
		Recipient: i.Recipient,
		Sender:    i.Sender,
		Type:      i.Type,
		Message:   i.Message,
		ProjectID: i.ProjectID,
		CheckInID: i.CheckInID,
		Read:      i.Read,
		CreatedAt: i.CreatedAt,
	}
}
