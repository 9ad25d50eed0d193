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

// UserInfo is a structure representing information of a user.
type UserInfo struct {
	ID                 types.ID             `bson:"_id"`
	Username           string               `bson:"username"`
	Email              string               `bson:"email"`
	HashedPassword     string               `bson:"hashed_password"`
	Profile            ProfileInfo          `bson:"profile"`
	Friends            []types.ID           `bson:"friends"`
	FriendRequests     []*FriendRequestInfo `bson:"friend_requests"`
	SentFriendRequests []*FriendRequestInfo `bson:"sent_friend_requests"`
	Verified           bool                 `bson:"verified"`
	VerificationToken  string               `bson:"verification_token"`
	VerifiedAt         *time.Time           `bson:"verified_at"`
	CreatedAt          time.Time            `bson:"created_at"`
}

// ProfileInfo is the public profile of a user.
type ProfileInfo struct {
	DisplayName string `bson:"display_name"`
	Bio         string `bson:"bio"`
	AvatarURL   string `bson:"avatar_url"`
}

// FriendRequestInfo is a friend request stored on both users. UserID is the
// sender on the recipient and the recipient on the sender.
type FriendRequestInfo struct {
	UserID    types.ID                  `bson:"user_id"`
	Status    types.FriendRequestStatus `bson:"status"`
	CreatedAt time.Time                 `bson:"created_at"`
}

// NewUserInfo creates a new UserInfo of the given username.
func NewUserInfo(username, email, hashedPassword, verificationToken string) *UserInfo {
	return &UserInfo{
		Username:           username,
		Email:              email,
		HashedPassword:     hashedPassword,
		Profile:            ProfileInfo{DisplayName: username},
		Friends:            []types.ID{},
		FriendRequests:     []*FriendRequestInfo{},
		SentFriendRequests: []*FriendRequestInfo{},
		VerificationToken:  verificationToken,
		CreatedAt:          time.Now(),
	}
}

// IsFriend returns whether the given user is a friend of this user.
func (i *UserInfo) IsFriend(id types.ID) bool {
	return types.ContainsID(i.Friends, id)
}

// FindFriendRequest returns the incoming request of the given sender or nil.
func (i *UserInfo) FindFriendRequest(from types.ID) *FriendRequestInfo {
	return findFriendRequest(i.FriendRequests, from)
}

// FindSentFriendRequest returns the request sent to the given user or nil.
func (i *UserInfo) FindSentFriendRequest(to types.ID) *FriendRequestInfo {
	return findFriendRequest(i.SentFriendRequests, to)
}

func findFriendRequest(requests []*FriendRequestInfo, userID types.ID) *FriendRequestInfo {
	for _, r := range requests {
		if r.UserID == userID {
			return r
		}
	}
	return nil
}

// UpdateProfile updates the profile with the given fields.
func (i *UserInfo) UpdateProfile(fields *types.UpdatableUserFields) {
	if fields.DisplayName != nil {
		i.Profile.DisplayName = *fields.DisplayName
	}
	if fields.Bio != nil {
		i.Profile.Bio = *fields.Bio
	}
	if fields.AvatarURL != nil {
		i.Profile.AvatarURL = *fields.AvatarURL
	}
}

// DeepCopy returns a deep copy of the UserInfo
func (i *UserInfo) DeepCopy() *UserInfo {
	if i == nil {
		return nil
	}

	var verifiedAt *time.Time
	if i.VerifiedAt != nil {
		at := *i.VerifiedAt
		verifiedAt = &at
	}

	return &UserInfo{
		ID:                 i.ID,
		Username:           i.Username,
		Email:              i.Email,
		HashedPassword:     i.HashedPassword,
		Profile:            i.Profile,
		Friends:            append([]types.ID{}, i.Friends...),
		FriendRequests:     copyFriendRequests(i.FriendRequests),
		SentFriendRequests: copyFriendRequests(i.SentFriendRequests),
		Verified:           i.Verified,
		VerificationToken:  i.VerificationToken,
		VerifiedAt:         verifiedAt,
		CreatedAt:          i.CreatedAt,
	}
}

func copyFriendRequests(requests []*FriendRequestInfo) []*FriendRequestInfo {
	copied := make([]*FriendRequestInfo, 0, len(requests))
	for _, r := range requests {
		clone := *r
		copied = append(copied, &clone)
	}
	return copied
}

// ToUser converts the UserInfo to the User. Credentials are not exposed.
func (i *UserInfo) ToUser() *types.User {
	return &types.User{
		ID:       i.ID,
		Username: i.Username,
		Email:    i.Email,
		Profile: types.Profile{
			DisplayName: i.Profile.DisplayName,
			Bio:         i.Profile.Bio,
			AvatarURL:   i.Profile.AvatarURL,
		},
		Friends:   append([]types.ID{}, i.Friends...),
		Verified:  i.Verified,
		CreatedAt: i.CreatedAt,
	}
}

// ToPublicUser converts the UserInfo to the User shown to other users.
func (i *UserInfo) ToPublicUser() *types.User {
	user := i.ToUser()
	user.Email = ""
	return user
}

// ToFriendRequests converts the incoming requests to FriendRequests.
func (i *UserInfo) ToFriendRequests(status types.FriendRequestStatus) []*types.FriendRequest {
	var requests []*types.FriendRequest
	for _, r := range i.FriendRequests {
		if status != "" && r.Status != status {
			continue
		}
		requests = append(requests, &types.FriendRequest{
			UserID:    r.UserID,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		})
	}
	return requests
}
