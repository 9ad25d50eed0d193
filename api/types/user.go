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

// User is a user of SyncSphere. Credentials and verification tokens are
// never part of it.
type User struct {
	// ID is the unique ID of the user.
	ID ID `json:"id"`

	// Username is the username of the user.
	Username string `json:"username"`

	// Email is the email address of the user.
	Email string `json:"email,omitempty"`

	// Profile is the public profile of the user.
	Profile Profile `json:"profile"`

	// Friends are the IDs of the friends of the user.
	Friends []ID `json:"friends"`

	// Verified is whether the user verified the email address.
	Verified bool `json:"verified"`

	// CreatedAt is the time when the user was created.
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the public profile of a user.
type Profile struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
}

// FriendRequestStatus is the status of a friend request.
type FriendRequestStatus string

const (
	// FriendRequestPending is the status of a request waiting for an answer.
	FriendRequestPending FriendRequestStatus = "pending"

	// FriendRequestAccepted is the status of an accepted request.
	FriendRequestAccepted FriendRequestStatus = "accepted"

	// FriendRequestRejected is the status of a rejected request.
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest is a friend request from or to another user.
type FriendRequest struct {
	// UserID is the counterpart of the request: the sender for incoming
	// requests and the recipient for sent requests.
	UserID    ID                  `json:"user_id"`
	Status    FriendRequestStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}
