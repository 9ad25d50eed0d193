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

// Package notifications provides the notification related business logic.
package notifications

import (
	"context"
	"time"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/database"
)

// Event describes the notification sent to each recipient.
type Event struct {
	Sender    types.ID
	Type      types.NotificationType
	Message   string
	ProjectID types.ID
	CheckInID types.ID
}

// Notify creates a notification of the event for the recipient. Nothing is
// created when the recipient is the sender.
func Notify(
	ctx context.Context,
	be *backend.Backend,
	recipient types.ID,
	event Event,
) error {
	_, err := NotifyAll(ctx, be, []types.ID{recipient}, event)
	return err
}

// NotifyMembers creates one notification of the event per member of the
// project except the sender.
func NotifyMembers(
	ctx context.Context,
	be *backend.Backend,
	project *database.ProjectInfo,
	event Event,
) (int, error) {
	if event.ProjectID.IsZero() {
		event.ProjectID = project.ID
	}
	return NotifyAll(ctx, be, project.MemberIDs(), event)
}

// NotifyAll creates one notification of the event per recipient. The sender
// and repeated recipients are skipped. The notifications are created
// concurrently within the fan-out limit of the backend. It returns the
// number of created notifications.
func NotifyAll(
	ctx context.Context,
	be *backend.Backend,
	recipients []types.ID,
	event Event,
) (int, error) {
	targets := make([]types.ID, 0, len(recipients))
	for _, recipient := range recipients {
		if recipient.IsZero() || recipient == event.Sender || types.ContainsID(targets, recipient) {
			continue
		}
		targets = append(targets, recipient)
	}

	now := time.Now()
	created, err := backend.FanOut(ctx, be, targets, func(
		ctx context.Context,
		recipient types.ID,
	) (*database.NotificationInfo, error) {
		return be.DB.CreateNotificationInfo(ctx, &database.NotificationInfo{
			Recipient: recipient,
			Sender:    event.Sender,
			Type:      event.Type,
			Message:   event.Message,
			ProjectID: event.ProjectID,
			CheckInID: event.CheckInID,
			CreatedAt: now,
		})
	})
	be.Metrics.AddNotifications(string(event.Type), len(created))

	return len(created), err
}

// List returns the notifications of the user, the newest first.
func List(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	unreadOnly bool,
	limit int,
) ([]*types.Notification, error) {
	infos, err := be.DB.ListNotificationInfos(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}

	notifications := make([]*types.Notification, 0, len(infos))
	for _, info := range infos {
		notifications = append(notifications, info.ToNotification())
	}

	return notifications, nil
}

// UnreadCount returns the number of unread notifications of the user.
func UnreadCount(ctx context.Context, be *backend.Backend, userID types.ID) (int64, error) {
	return be.DB.CountUnreadNotifications(ctx, userID)
}

// MarkRead marks the notification as read. Notifications of other users
// are reported as not found.
func MarkRead(ctx context.Context, be *backend.Backend, userID, id types.ID) error {
	return be.DB.MarkNotificationRead(ctx, userID, id)
}

// MarkAllRead marks every notification of the user as read.
func MarkAllRead(ctx context.Context, be *backend.Backend, userID types.ID) (int64, error) {
	return be.DB.MarkAllNotificationsRead(ctx, userID)
}

// Delete deletes the notification of the user.
func Delete(ctx context.Context, be *backend.Backend, userID, id types.ID) error {
	return be.DB.DeleteNotificationInfo(ctx, userID, id)
}
