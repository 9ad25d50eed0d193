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

// Package database provides the database interface for the SyncSphere backend.
package database

import (
	"context"
	"time"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/pkg/errors"
)

var (
	// ErrUserNotFound is returned when the user is not found.
	ErrUserNotFound = errors.NotFound("user not found").WithCode("ErrUserNotFound")

	// ErrUserAlreadyExists is returned when the username or email is taken.
	ErrUserAlreadyExists = errors.Conflict("user already exists").WithCode("ErrUserAlreadyExists")

	// ErrMismatchedPassword is returned when the password is mismatched.
	ErrMismatchedPassword = errors.Unauthenticated("mismatched password").WithCode("ErrMismatchedPassword")

	// ErrInvalidVerificationToken is returned when no user waits for the token.
	ErrInvalidVerificationToken = errors.NotFound("invalid verification token").WithCode("ErrInvalidVerificationToken")

	// ErrFriendRequestExists is returned when a pending request exists either way.
	ErrFriendRequestExists = errors.Conflict("friend request already exists").WithCode("ErrFriendRequestExists")

	// ErrFriendRequestNotFound is returned when no pending request exists.
	ErrFriendRequestNotFound = errors.NotFound("friend request not found").WithCode("ErrFriendRequestNotFound")

	// ErrAlreadyFriends is returned when the users are already friends.
	ErrAlreadyFriends = errors.Conflict("already friends").WithCode("ErrAlreadyFriends")

	// ErrFriendNotFound is returned when the users are not friends.
	ErrFriendNotFound = errors.NotFound("friend not found").WithCode("ErrFriendNotFound")

	// ErrProjectNotFound is returned when the project is not found.
	ErrProjectNotFound = errors.NotFound("project not found").WithCode("ErrProjectNotFound")

	// ErrProjectAlreadyCheckedOut is returned when the lock of the project is
	// held by a member.
	ErrProjectAlreadyCheckedOut = errors.Conflict("project already checked out").WithCode("ErrProjectAlreadyCheckedOut")

	// ErrNotLockHolder is returned when the user does not hold the lock.
	ErrNotLockHolder = errors.Forbidden("project not checked out by user").WithCode("ErrNotLockHolder")

	// ErrMemberAlreadyExists is returned when the user is already a member.
	ErrMemberAlreadyExists = errors.Conflict("member already exists").WithCode("ErrMemberAlreadyExists")

	// ErrMemberNotFound is returned when the user is not a member.
	ErrMemberNotFound = errors.NotFound("member not found").WithCode("ErrMemberNotFound")

	// ErrCheckInNotFound is returned when the check-in is not found.
	ErrCheckInNotFound = errors.NotFound("check-in not found").WithCode("ErrCheckInNotFound")

	// ErrNotificationNotFound is returned when the notification is not found.
	ErrNotificationNotFound = errors.NotFound("notification not found").WithCode("ErrNotificationNotFound")

	// ErrActivityNotFound is returned when the activity is not found.
	ErrActivityNotFound = errors.NotFound("activity not found").WithCode("ErrActivityNotFound")

	// ErrDiscussionNotFound is returned when the discussion is not found.
	ErrDiscussionNotFound = errors.NotFound("discussion not found").WithCode("ErrDiscussionNotFound")

	// ErrCommentNotFound is returned when the comment is not in the discussion.
	ErrCommentNotFound = errors.NotFound("comment not found").WithCode("ErrCommentNotFound")
)

// ActivityFilter selects the activities of a feed. Set conditions are
// combined with AND.
type ActivityFilter struct {
	// Global selects the activities shown to everyone.
	Global bool

	// Actors selects the activities whose actor is one of them.
	Actors []types.ID

	// ProjectID selects the activities of the project.
	ProjectID types.ID

	// Limit is the maximum number of activities. Zero means no limit.
	Limit int
}

// DeletedCounts is the number of documents removed with a project.
type DeletedCounts struct {
	CheckIns      int64
	Notifications int64
	Activities    int64
	Discussions   int64
}

// Database represents database which reads or saves SyncSphere data.
type Database interface {
	// Close all resources of this database.
	Close() error

	// CreateUserInfo creates a new user. The username and the email must be
	// unique.
	CreateUserInfo(
		ctx context.Context,
		username string,
		email string,
		hashedPassword string,
		verificationToken string,
	) (*UserInfo, error)

	// FindUserInfoByID returns a user by the given ID.
	FindUserInfoByID(ctx context.Context, id types.ID) (*UserInfo, error)

	// FindUserInfoByName returns a user by the given username.
	FindUserInfoByName(ctx context.Context, username string) (*UserInfo, error)

	// FindUserInfosByIDs returns the users of the given IDs. Unknown IDs are
	// skipped.
	FindUserInfosByIDs(ctx context.Context, ids []types.ID) ([]*UserInfo, error)

	// SearchUserInfos returns the users whose username contains the query.
	SearchUserInfos(ctx context.Context, query string, limit int) ([]*UserInfo, error)

	// UpdateUserProfile updates the profile of the user.
	UpdateUserProfile(
		ctx context.Context,
		id types.ID,
		fields *types.UpdatableUserFields,
	) (*UserInfo, error)

	// VerifyUserInfo marks the user waiting for the token as verified.
	VerifyUserInfo(ctx context.Context, token string) (*UserInfo, error)

	// DeleteUserInfo deletes the user and removes it from the friends and
	// the friend requests of other users.
	DeleteUserInfo(ctx context.Context, id types.ID) error

	// CreateFriendRequest records a pending request from one user to another.
	CreateFriendRequest(ctx context.Context, from, to types.ID) error

	// UpdateFriendRequestStatus answers the pending request from one user to
	// another on both sides.
	UpdateFriendRequestStatus(
		ctx context.Context,
		from, to types.ID,
		status types.FriendRequestStatus,
	) error

	// AddFriendship makes the two users friends of each other.
	AddFriendship(ctx context.Context, a, b types.ID) error

	// RemoveFriendship removes the friendship of the two users.
	RemoveFriendship(ctx context.Context, a, b types.ID) error

	// CreateProjectInfo creates a new project. The owner becomes a member
	// with the owner role.
	CreateProjectInfo(
		ctx context.Context,
		owner types.ID,
		fields *types.ProjectFields,
	) (*ProjectInfo, error)

	// FindProjectInfoByID returns a project by the given id. It does not
	// check whether the caller may access the project.
	FindProjectInfoByID(ctx context.Context, id types.ID) (*ProjectInfo, error)

	// ListProjectInfosByMember returns the projects of the member, the most
	// recently active first.
	ListProjectInfosByMember(ctx context.Context, userID types.ID) ([]*ProjectInfo, error)

	// SearchProjectInfos returns the projects whose name contains the query
	// or whose tags contain it, the most recently active first.
	SearchProjectInfos(ctx context.Context, query string, limit int) ([]*ProjectInfo, error)

	// UpdateProjectInfo updates the given project.
	UpdateProjectInfo(
		ctx context.Context,
		id types.ID,
		fields *types.UpdatableProjectFields,
	) (*ProjectInfo, error)

	// DeleteProjectInfo deletes the project with its check-ins,
	// notifications, activities and discussions.
	DeleteProjectInfo(ctx context.Context, id types.ID) (*DeletedCounts, error)

	// AddProjectMember adds the user to the project if the user is not a
	// member yet.
	AddProjectMember(
		ctx context.Context,
		projectID types.ID,
		userID types.ID,
		role types.Role,
		addedBy types.ID,
	) (*ProjectInfo, error)

	// UpdateProjectMemberRole changes the role of the member.
	UpdateProjectMemberRole(
		ctx context.Context,
		projectID types.ID,
		userID types.ID,
		role types.Role,
	) (*ProjectInfo, error)

	// RemoveProjectMember removes the member from the project.
	RemoveProjectMember(
		ctx context.Context,
		projectID types.ID,
		userID types.ID,
	) (*ProjectInfo, error)

	// CheckoutProject acquires the lock of the project for the user if no
	// one holds it. The condition and the write are a single atomic step,
	// and the project is left unchanged when the lock is held.
	CheckoutProject(ctx context.Context, projectID, userID types.ID) (*ProjectInfo, error)

	// ReleaseProject appends the files, clears the lock and updates the last
	// activity in one write if the user holds the lock.
	ReleaseProject(
		ctx context.Context,
		projectID types.ID,
		userID types.ID,
		files []*FileInfo,
	) (*ProjectInfo, error)

	// CreateCheckInInfo records a new check-in.
	CreateCheckInInfo(ctx context.Context, info *CheckInInfo) (*CheckInInfo, error)

	// ListCheckInInfos returns the check-ins of the project, the newest first.
	ListCheckInInfos(ctx context.Context, projectID types.ID, limit int) ([]*CheckInInfo, error)

	// FindCheckInInfo returns the check-in of the project.
	FindCheckInInfo(ctx context.Context, projectID, id types.ID) (*CheckInInfo, error)

	// DeleteCheckInInfo deletes the check-in. It compensates a check-in
	// whose release failed.
	DeleteCheckInInfo(ctx context.Context, id types.ID) error

	// CreateNotificationInfo creates a new notification.
	CreateNotificationInfo(ctx context.Context, info *NotificationInfo) (*NotificationInfo, error)

	// ListNotificationInfos returns the notifications of the recipient, the
	// newest first.
	ListNotificationInfos(
		ctx context.Context,
		recipient types.ID,
		unreadOnly bool,
		limit int,
	) ([]*NotificationInfo, error)

	// CountUnreadNotifications returns the number of unread notifications.
	CountUnreadNotifications(ctx context.Context, recipient types.ID) (int64, error)

	// MarkNotificationRead marks the notification of the recipient as read.
	MarkNotificationRead(ctx context.Context, recipient, id types.ID) error

	// MarkAllNotificationsRead marks every notification of the recipient as
	// read and returns the number of changed notifications.
	MarkAllNotificationsRead(ctx context.Context, recipient types.ID) (int64, error)

	// DeleteNotificationInfo deletes the notification of the recipient.
	DeleteNotificationInfo(ctx context.Context, recipient, id types.ID) error

	// PurgeReadNotifications deletes the read notifications created before
	// the given time and returns the number of deleted notifications.
	PurgeReadNotifications(ctx context.Context, before time.Time) (int64, error)

	// CreateActivityInfo appends a new activity.
	CreateActivityInfo(ctx context.Context, info *ActivityInfo) (*ActivityInfo, error)

	// ListActivityInfos returns the activities selected by the filter, the
	// newest first.
	ListActivityInfos(ctx context.Context, filter ActivityFilter) ([]*ActivityInfo, error)

	// MarkActivityRead adds the user to the readers of the activity once.
	MarkActivityRead(ctx context.Context, id, userID types.ID) error

	// CreateDiscussionInfo opens a new discussion.
	CreateDiscussionInfo(ctx context.Context, info *DiscussionInfo) (*DiscussionInfo, error)

	// FindDiscussionInfo returns the discussion of the project.
	FindDiscussionInfo(ctx context.Context, projectID, id types.ID) (*DiscussionInfo, error)

	// ListDiscussionInfos returns the discussions of the project, the most
	// recently updated first.
	ListDiscussionInfos(ctx context.Context, projectID types.ID) ([]*DiscussionInfo, error)

	// AddDiscussionComment appends a comment to the discussion.
	AddDiscussionComment(
		ctx context.Context,
		projectID types.ID,
		id types.ID,
		author types.ID,
		content string,
	) (*DiscussionInfo, *CommentInfo, error)

	// SetDiscussionSolution accepts the comment as the solution.
	SetDiscussionSolution(
		ctx context.Context,
		projectID types.ID,
		id types.ID,
		commentID types.ID,
	) (*DiscussionInfo, error)
}
