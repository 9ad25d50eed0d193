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

// NotificationType is the type of a notification.
type NotificationType string

// The types of notifications.
const (
	NotificationCheckIn            NotificationType = "check_in"
	NotificationMemberAdded        NotificationType = "member_added"
	NotificationMemberRemoved      NotificationType = "member_removed"
	NotificationFriendRequest      NotificationType = "friend_request"
	NotificationFriendAccepted     NotificationType = "friend_accepted"
	NotificationDiscussionCreated  NotificationType = "discussion_created"
	NotificationDiscussionComment  NotificationType = "discussion_comment"
	NotificationDiscussionSolution NotificationType = "discussion_solution"
)

// Notification is a message delivered to a single recipient.
type Notification struct {
	ID        ID               `json:"id"`
	Recipient ID               `json:"recipient"`
	Sender    ID               `json:"sender"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	ProjectID ID               `json:"project_id,omitempty"`
	CheckInID ID               `json:"checkin_id,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
