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

// Package friends provides the friendship related business logic.
package friends

import (
	"context"
	"fmt"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/pkg/errors"
	"github.com/syncsphere/syncsphere/server/activities"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/backend/hooks"
	"github.com/syncsphere/syncsphere/server/notifications"
)

// ErrCannotBefriendSelf is returned when a user sends a request to oneself.
var ErrCannotBefriendSelf = errors.Validation("cannot befriend yourself").WithCode("ErrCannotBefriendSelf")

// SendRequest sends a friend request from one user to another.
func SendRequest(
	ctx context.Context,
	be *backend.Backend,
	from types.ID,
	to types.ID,
) error {
	if from == to {
		return fmt.Errorf("%s: %w", from, ErrCannotBefriendSelf)
	}

	sender, err := be.DB.FindUserInfoByID(ctx, from)
	if err != nil {
		return err
	}

	if err := be.DB.CreateFriendRequest(ctx, from, to); err != nil {
		return err
	}

	var list hooks.List
	list.Add("friend_request_notification", func(ctx context.Context) error {
		return notifications.Notify(ctx, be, to, notifications.Event{
			Sender:  from,
			Type:    types.NotificationFriendRequest,
			Message: fmt.Sprintf("%s sent you a friend request", sender.Username),
		})
	})
	be.RunHooks(ctx, list)

	return nil
}

// Accept accepts the pending request the user received from the sender.
// Both users become friends of each other.
func Accept(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	from types.ID,
) error {
	if err := be.DB.UpdateFriendRequestStatus(ctx, from, userID, types.FriendRequestAccepted); err != nil {
		return err
	}
	if err := be.DB.AddFriendship(ctx, from, userID); err != nil {
		return err
	}

	user, err := be.DB.FindUserInfoByID(ctx, userID)
	if err != nil {
		return err
	}

	var list hooks.List
	list.Add("friend_accepted_notification", func(ctx context.Context) error {
		return notifications.Notify(ctx, be, from, notifications.Event{
			Sender:  userID,
			Type:    types.NotificationFriendAccepted,
			Message: fmt.Sprintf("%s accepted your friend request", user.Username),
		})
	})
	list.Add("friend_added_activity", func(ctx context.Context) error {
		_, err := activities.Record(ctx, be, &database.ActivityInfo{
			Actor:      userID,
			Type:       types.ActivityFriendAdded,
			TargetUser: from,
		})
		return err
	})
	be.RunHooks(ctx, list)

	return nil
}

// Reject rejects the pending request the user received from the sender.
func Reject(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	from types.ID,
) error {
	return be.DB.UpdateFriendRequestStatus(ctx, from, userID, types.FriendRequestRejected)
}

// Remove ends the friendship of the two users on both sides.
func Remove(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	friendID types.ID,
) error {
	return be.DB.RemoveFriendship(ctx, userID, friendID)
}

// List returns the public views of the friends of the user.
func List(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
) ([]*types.User, error) {
	user, err := be.DB.FindUserInfoByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos, err := be.DB.FindUserInfosByIDs(ctx, user.Friends)
	if err != nil {
		return nil, err
	}

	friends := make([]*types.User, 0, len(infos))
	for _, info := range infos {
		friends = append(friends, info.ToPublicUser())
	}
	return friends, nil
}

// Pending returns the pending requests the user received.
func Pending(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
) ([]*types.FriendRequest, error) {
	user, err := be.DB.FindUserInfoByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return user.ToFriendRequests(types.FriendRequestPending), nil
}
