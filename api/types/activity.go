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

import (
	"fmt"
	"time"

	"github.com/syncsphere/syncsphere/pkg/errors"
)

// ErrInvalidFeedScope is returned when the scope of a feed is unknown.
var ErrInvalidFeedScope = errors.Validation("invalid feed scope").WithCode("ErrInvalidFeedScope")

// ActivityType is the type of an activity.
type ActivityType string

// The types of activities.
const (
	ActivityProjectCreated      ActivityType = "project_created"
	ActivityProjectUpdated      ActivityType = "project_updated"
	ActivityProjectCheckedOut   ActivityType = "project_checked_out"
	ActivityProjectCheckedIn    ActivityType = "project_checked_in"
	ActivityMemberAdded         ActivityType = "member_added"
	ActivityMemberRemoved       ActivityType = "member_removed"
	ActivityFriendAdded         ActivityType = "friend_added"
	ActivityDiscussionCreated   ActivityType = "discussion_created"
	ActivityDiscussionCommented ActivityType = "discussion_commented"
	ActivityDiscussionSolved    ActivityType = "discussion_solved"
)

// Activity is an entry of the activity feed.
type Activity struct {
	ID         ID                `json:"id"`
	Actor      ID                `json:"actor"`
	Type       ActivityType      `json:"type"`
	ProjectID  ID                `json:"project_id,omitempty"`
	TargetUser ID                `json:"target_user,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	IsGlobal   bool              `json:"is_global"`
	ReadBy     []ID              `json:"read_by"`
	CreatedAt  time.Time         `json:"created_at"`
}

// FeedScope decides which activities a feed contains.
type FeedScope string

const (
	// FeedScopeGlobal contains the global activities.
	FeedScopeGlobal FeedScope = "global"

	// FeedScopeFriends contains the activities of the user and the friends.
	FeedScopeFriends FeedScope = "friends"
)

// ParseFeedScope parses the given scope. The empty scope is global.
func ParseFeedScope(s string) (FeedScope, error) {
	switch FeedScope(s) {
	case "", FeedScopeGlobal:
		return FeedScopeGlobal, nil
	case FeedScopeFriends:
		return FeedScopeFriends, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidFeedScope)
}
