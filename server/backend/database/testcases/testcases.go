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

// Package testcases contains testcases for database. It is used by database
// implementations to test their own implementations with the same testcases.
package testcases

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server/backend/database"
)

const notExistsID = types.ID("000000000000000000000000")

// uniqueName returns a name that does not collide with the documents left
// by previous runs against a persistent database.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func createUser(t *testing.T, db database.Database, prefix string) *database.UserInfo {
	name := uniqueName(prefix)
	info, err := db.CreateUserInfo(context.Background(), name, name+"@example.com", "hashed", "token-"+name)
	assert.NoError(t, err)
	return info
}

func createProject(t *testing.T, db database.Database, owner types.ID) *database.ProjectInfo {
	name := uniqueName("project")
	info, err := db.CreateProjectInfo(context.Background(), owner, &types.ProjectFields{
		Name: &name,
		Tags: []string{"#syncsphere"},
	})
	assert.NoError(t, err)
	return info
}

// RunUserInfoTest runs the user tests for the given db.
func RunUserInfoTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("create and find user test", func(t *testing.T) {
		info := createUser(t, db, "alice")

		found, err := db.FindUserInfoByID(ctx, info.ID)
		assert.NoError(t, err)
		assert.Equal(t, info.Username, found.Username)
		assert.Equal(t, info.Username, found.Profile.DisplayName)
		assert.False(t, found.Verified)

		found, err = db.FindUserInfoByName(ctx, info.Username)
		assert.NoError(t, err)
		assert.Equal(t, info.ID, found.ID)

		_, err = db.FindUserInfoByID(ctx, notExistsID)
		assert.ErrorIs(t, err, database.ErrUserNotFound)
		_, err = db.FindUserInfoByName(ctx, uniqueName("nobody"))
		assert.ErrorIs(t, err, database.ErrUserNotFound)
	})

	t.Run("duplicated username and email test", func(t *testing.T) {
		info := createUser(t, db, "bob")

		_, err := db.CreateUserInfo(ctx, info.Username, uniqueName("other")+"@example.com", "hashed", "")
		assert.ErrorIs(t, err, database.ErrUserAlreadyExists)

		_, err = db.CreateUserInfo(ctx, uniqueName("other"), info.Email, "hashed", "")
		assert.ErrorIs(t, err, database.ErrUserAlreadyExists)
	})

	t.Run("find users by IDs and search test", func(t *testing.T) {
		prefix := uniqueName("carol")
		first, err := db.CreateUserInfo(ctx, prefix+"-1", prefix+"-1@example.com", "hashed", "")
		assert.NoError(t, err)
		second, err := db.CreateUserInfo(ctx, prefix+"-2", prefix+"-2@example.com", "hashed", "")
		assert.NoError(t, err)

		infos, err := db.FindUserInfosByIDs(ctx, []types.ID{first.ID, notExistsID, second.ID})
		assert.NoError(t, err)
		assert.Len(t, infos, 2)

		infos, err = db.SearchUserInfos(ctx, prefix, 0)
		assert.NoError(t, err)
		assert.Len(t, infos, 2)

		infos, err = db.SearchUserInfos(ctx, prefix, 1)
		assert.NoError(t, err)
		assert.Len(t, infos, 1)
	})

	t.Run("update profile and verify test", func(t *testing.T) {
		info := createUser(t, db, "dave")

		bio := "builds widgets"
		updated, err := db.UpdateUserProfile(ctx, info.ID, &types.UpdatableUserFields{Bio: &bio})
		assert.NoError(t, err)
		assert.Equal(t, bio, updated.Profile.Bio)
		assert.Equal(t, info.Username, updated.Profile.DisplayName)

		verified, err := db.VerifyUserInfo(ctx, info.VerificationToken)
		assert.NoError(t, err)
		assert.True(t, verified.Verified)
		assert.NotNil(t, verified.VerifiedAt)

		_, err = db.VerifyUserInfo(ctx, info.VerificationToken)
		assert.ErrorIs(t, err, database.ErrInvalidVerificationToken)
		_, err = db.VerifyUserInfo(ctx, "")
		assert.ErrorIs(t, err, database.ErrInvalidVerificationToken)
	})

	t.Run("delete user test", func(t *testing.T) {
		alice := createUser(t, db, "erin")
		bob := createUser(t, db, "frank")
		assert.NoError(t, db.AddFriendship(ctx, alice.ID, bob.ID))

		assert.NoError(t, db.DeleteUserInfo(ctx, alice.ID))
		_, err := db.FindUserInfoByID(ctx, alice.ID)
		assert.ErrorIs(t, err, database.ErrUserNotFound)

		found, err := db.FindUserInfoByID(ctx, bob.ID)
		assert.NoError(t, err)
		assert.False(t, found.IsFriend(alice.ID))

		assert.ErrorIs(t, db.DeleteUserInfo(ctx, alice.ID), database.ErrUserNotFound)
	})
}

// RunFriendshipTest runs the friend request and friendship tests for the given db.
func RunFriendshipTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("friend request lifecycle test", func(t *testing.T) {
		alice := createUser(t, db, "alice")
		bob := createUser(t, db, "bob")

		assert.NoError(t, db.CreateFriendRequest(ctx, alice.ID, bob.ID))
		assert.ErrorIs(t, db.CreateFriendRequest(ctx, alice.ID, bob.ID), database.ErrFriendRequestExists)
		assert.ErrorIs(t, db.CreateFriendRequest(ctx, bob.ID, alice.ID), database.ErrFriendRequestExists)

		found, err := db.FindUserInfoByID(ctx, bob.ID)
		assert.NoError(t, err)
		assert.Equal(t, types.FriendRequestPending, found.FindFriendRequest(alice.ID).Status)

		assert.NoError(t, db.UpdateFriendRequestStatus(ctx, alice.ID, bob.ID, types.FriendRequestAccepted))
		assert.ErrorIs(t,
			db.UpdateFriendRequestStatus(ctx, alice.ID, bob.ID, types.FriendRequestAccepted),
			database.ErrFriendRequestNotFound,
		)
		assert.NoError(t, db.AddFriendship(ctx, alice.ID, bob.ID))

		found, err = db.FindUserInfoByID(ctx, alice.ID)
		assert.NoError(t, err)
		assert.True(t, found.IsFriend(bob.ID))
		assert.Equal(t, types.FriendRequestAccepted, found.FindSentFriendRequest(bob.ID).Status)

		found, err = db.FindUserInfoByID(ctx, bob.ID)
		assert.NoError(t, err)
		assert.True(t, found.IsFriend(alice.ID))
		assert.Equal(t, types.FriendRequestAccepted, found.FindFriendRequest(alice.ID).Status)

		assert.ErrorIs(t, db.CreateFriendRequest(ctx, alice.ID, bob.ID), database.ErrAlreadyFriends)
	})

	t.Run("reject and resend test", func(t *testing.T) {
		alice := createUser(t, db, "carol")
		bob := createUser(t, db, "dave")

		assert.NoError(t, db.CreateFriendRequest(ctx, alice.ID, bob.ID))
		assert.NoError(t, db.UpdateFriendRequestStatus(ctx, alice.ID, bob.ID, types.FriendRequestRejected))
		assert.NoError(t, db.CreateFriendRequest(ctx, alice.ID, bob.ID))

		found, err := db.FindUserInfoByID(ctx, bob.ID)
		assert.NoError(t, err)
		assert.Len(t, found.FriendRequests, 1)
		assert.Equal(t, types.FriendRequestPending, found.FriendRequests[0].Status)
	})

	t.Run("remove friendship test", func(t *testing.T) {
		alice := createUser(t, db, "erin")
		bob := createUser(t, db, "frank")

		assert.ErrorIs(t, db.RemoveFriendship(ctx, alice.ID, bob.ID), database.ErrFriendNotFound)
		assert.NoError(t, db.AddFriendship(ctx, alice.ID, bob.ID))
		assert.NoError(t, db.AddFriendship(ctx, bob.ID, alice.ID))
		assert.NoError(t, db.RemoveFriendship(ctx, bob.ID, alice.ID))

		found, err := db.FindUserInfoByID(ctx, alice.ID)
		assert.NoError(t, err)
		assert.Empty(t, found.Friends)

		assert.ErrorIs(t, db.CreateFriendRequest(ctx, alice.ID, notExistsID), database.ErrUserNotFound)
	})
}

// RunProjectInfoTest runs the project and member tests for the given db.
func RunProjectInfoTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("create and find project test", func(t *testing.T) {
		owner := createUser(t, db, "owner")
		info := createProject(t, db, owner.ID)

		found, err := db.FindProjectInfoByID(ctx, info.ID)
		assert.NoError(t, err)
		assert.Equal(t, info.Name, found.Name)
		assert.Equal(t, []string{"syncsphere"}, found.Tags)
		assert.Len(t, found.Members, 1)
		assert.Equal(t, types.RoleOwner, found.FindMember(owner.ID).Role)
		assert.False(t, found.IsCheckedOut())
		assert.Nil(t, found.CheckedOutAt)

		_, err = db.FindProjectInfoByID(ctx, notExistsID)
		assert.ErrorIs(t, err, database.ErrProjectNotFound)
	})

	t.Run("list and search projects test", func(t *testing.T) {
		owner := createUser(t, db, "owner")
		member := createUser(t, db, "member")
		first := createProject(t, db, owner.ID)
		second := createProject(t, db, owner.ID)
		_, err := db.AddProjectMember(ctx, second.ID, member.ID, types.RoleMember, owner.ID)
		assert.NoError(t, err)

		infos, err := db.ListProjectInfosByMember(ctx, owner.ID)
		assert.NoError(t, err)
		assert.Len(t, infos, 2)
		assert.Equal(t, second.ID, infos[0].ID)

		infos, err = db.ListProjectInfosByMember(ctx, member.ID)
		assert.NoError(t, err)
		assert.Len(t, infos, 1)

		infos, err = db.SearchProjectInfos(ctx, first.Name, 10)
		assert.NoError(t, err)
		assert.Len(t, infos, 1)
		assert.Equal(t, first.ID, infos[0].ID)

		infos, err = db.SearchProjectInfos(ctx, "#syncsphere", 1)
		assert.NoError(t, err)
		assert.Len(t, infos, 1)
	})

	t.Run("update project test", func(t *testing.T) {
		owner := createUser(t, db, "owner")
		info := createProject(t, db, owner.ID)

		newName := uniqueName("renamed")
		tags := []string{"#v2"}
		updated, err := db.UpdateProjectInfo(ctx, info.ID, &types.UpdatableProjectFields{
			Name: &newName,
			Tags: &tags,
		})
		assert.NoError(t, err)
		assert.Equal(t, newName, updated.Name)
		assert.Equal(t, []string{"v2"}, updated.Tags)

		found, err := db.FindProjectInfoByID(ctx, info.ID)
		assert.NoError(t, err)
		assert.Equal(t, newName, found.Name)
		assert.Equal(t, info.Description, found.Description)

		_, err = db.UpdateProjectInfo(ctx, notExistsID, &types.UpdatableProjectFields{Name: &newName})
		assert.ErrorIs(t, err, database.ErrProjectNotFound)
	})

	t.Run("project member test", func(t *testing.T) {
		owner := createUser(t, db, "owner")
		member := createUser(t, db, "member")
		info := createProject(t, db, owner.ID)

		updated, err := db.AddProjectMember(ctx, info.ID, member.ID, types.RoleMember, owner.ID)
		assert.NoError(t, err)
		assert.Len(t, updated.Members, 2)
		assert.Equal(t, owner.ID, updated.FindMember(member.ID).AddedBy)

		_, err = db.AddProjectMember(ctx, info.ID, member.ID, types.RoleAdmin, owner.ID)
		assert.ErrorIs(t, err, database.ErrMemberAlreadyExists)
		_, err = db.AddProjectMember(ctx, info.ID, owner.ID, types.RoleAdmin, owner.ID)
		assert.ErrorIs(t, err, database.ErrMemberAlreadyExists)

		found, err := db.FindProjectInfoByID(ctx, info.ID)
		assert.NoError(t, err)
		assert.Len(t, found.Members, 2)

		updated, err = db.UpdateProjectMemberRole(ctx, info.ID, member.ID, types.RoleAdmin)
		assert.NoError(t, err)
		assert.Equal(t, types.RoleAdmin, updated.FindMember(member.ID).Role)

		updated, err = db.RemoveProjectMember(ctx, info.ID, member.ID)
		assert.NoError(t, err)
		assert.Nil(t, updated.FindMember(member.ID))

		_, err = db.RemoveProjectMember(ctx, info.ID, member.ID)
		assert.ErrorIs(t, err, database.ErrMemberNotFound)
		_, err = db.UpdateProjectMemberRole(ctx, info.ID, member.ID, types.RoleMember)
		assert.ErrorIs(t, err, database.ErrMemberNotFound)
	})
}

// RunCheckoutTest runs the lock tests for the given db.
func RunCheckoutTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("checkout and release test", func(t *testing.T) {
		owner := createUser(t, db, "owner")
		info := createProject(t, db, owner.ID)

		checkedOut, err := db.CheckoutProject(ctx, info.ID, owner.ID)
		assert.NoError(t, err)
		assert.Equal(t, owner.ID, checkedOut.CheckedOutBy)
		assert.NotNil(t, checkedOut.CheckedOutAt)

		files := []*database.FileInfo{{Name: "a.txt", Path: "p/a.txt", Size: 3, UploadedBy: owner.ID}}
		released, err := db.ReleaseProject(ctx, info.ID, owner.ID, files)
		assert.NoError(t, err)
		assert.False(t, released.IsCheckedOut())
		assert.Nil(t, released.CheckedOutAt)
		assert.Len(t, released.Files, 1)

		found, err := db.FindProjectInfoByID(ctx, info.ID)
		assert.NoError(t, err)
		assert.False(t, found.IsCheckedOut())
		assert.Len(t, found.Files, 1)
		assert.Equal(t, "a.txt", found.Files[0].Name)
		assert.False(t, found.LastActivity.Before(checkedOut.LastActivity))
	})

	t.Run("checkout conflict leaves project unchanged test", func(t *testing.T) {
		owner := createUser(t, db, "owner")
		other := createUser(t, db, "other")
		info := createProject(t, db, owner.ID)

		_, err := db.CheckoutProject(ctx, info.ID, owner.ID)
		assert.NoError(t, err)
		before, err := db.FindProjectInfoByID(ctx, info.ID)
		assert.NoError(t, err)

		_, err = db.CheckoutProject(ctx, info.ID, other.ID)
		assert.ErrorIs(t, err, database.ErrProjectAlreadyCheckedOut)
		_, err = db.CheckoutProject(ctx, info.ID, owner.ID)
		assert.ErrorIs(t, err, database.ErrProjectAlreadyCheckedOut)

		after, err := db.FindProjectInfoByID(ctx, info.ID)
		assert.NoError(t, err)
		assert.Equal(t, owner.ID, after.CheckedOutBy)
		assert.True(t, before.CheckedOutAt.Equal(*after.CheckedOutAt))
		assert.True(t, before.LastActivity.Equal(after.LastActivity))

		_, err = db.CheckoutProject(ctx, notExistsID, owner.ID)
		assert.ErrorIs(t, err, database.ErrProjectNotFound)
	})

	t.Run("release by non-holder test", func(t *testing.T) {
		owner := createUser(t, db, "owner")
		other := createUser(t, db, "other")
		info := createProject(t, db, owner.ID)

		_, err := db.ReleaseProject(ctx, info.ID, owner.ID, nil)
		assert.ErrorIs(t, err, database.ErrNotLockHolder)

		_, err = db.CheckoutProject(ctx, info.ID, owner.ID)
		assert.NoError(t, err)
		_, err = db.ReleaseProject(ctx, info.ID, other.ID, nil)
		assert.ErrorIs(t, err, database.ErrNotLockHolder)

		found, err := db.FindProjectInfoByID(ctx, info.ID)
		assert.NoError(t, err)
		assert.Equal(t, owner.ID, found.CheckedOutBy)

		_, err = db.ReleaseProject(ctx, notExistsID, owner.ID, nil)
		assert.ErrorIs(t, err, database.ErrProjectNotFound)
	})

	t.Run("concurrent checkout test", func(t *testing.T) {
		owner := createUser(t, db, "owner")
		info := createProject(t, db, owner.ID)

		const workers = 16
		users := make([]*database.UserInfo, workers)
		for i := range users {
			users[i] = createUser(t, db, fmt.Sprintf("racer%d", i))
		}

		var wg sync.WaitGroup
		errs := make([]error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = db.CheckoutProject(ctx, info.ID, users[i].ID)
			}(i)
		}
		wg.Wait()

		succeeded := -1
		for i, err := range errs {
			if err == nil {
				assert.Equal(t, -1, succeeded, "only one checkout may succeed")
				succeeded = i
				continue
			}
			assert.ErrorIs(t, err, database.ErrProjectAlreadyCheckedOut)
		}
		assert.NotEqual(t, -1, succeeded)

		found, err := db.FindProjectInfoByID(ctx, info.ID)
		assert.NoError(t, err)
		assert.Equal(t, users[succeeded].ID, found.CheckedOutBy)
	})
}

// RunCheckInInfoTest runs the check-in tests for the given db.
func RunCheckInInfoTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("create list and find check-ins test", func(t *testing.T) {
		owner := createUser(t, db, "owner")
		info := createProject(t, db, owner.ID)

		first, err := db.CreateCheckInInfo(ctx, &database.CheckInInfo{
			ProjectID: info.ID,
			UserID:    owner.ID,
			Message:   "v1",
			Hashtags:  []string{"release"},
		})
		assert.NoError(t, err)
		assert.False(t, first.ID.IsZero())

		second, err := db.CreateCheckInInfo(ctx, &database.CheckInInfo{
			ProjectID: info.ID,
			UserID:    owner.ID,
			Message:   "v2",
			Files:     []*database.FileInfo{{Name: "a.txt", Size: 1}},
		})
		assert.NoError(t, err)

		infos, err := db.ListCheckInInfos(ctx, info.ID, 0)
		assert.NoError(t, err)
		assert.Len(t, infos, 2)
		assert.Equal(t, second.ID, infos[0].ID)
		assert.Equal(t, "v1", infos[1].Message)

		infos, err = db.ListCheckInInfos(ctx, info.ID, 1)
		assert.NoError(t, err)
		assert.Len(t, infos, 1)

		found, err := db.FindCheckInInfo(ctx, info.ID, second.ID)
		assert.NoError(t, err)
		assert.Len(t, found.Files, 1)

		_, err = db.FindCheckInInfo(ctx, notExistsID, second.ID)
		assert.ErrorIs(t, err, database.ErrCheckInNotFound)

		assert.NoError(t, db.DeleteCheckInInfo(ctx, second.ID))
		_, err = db.FindCheckInInfo(ctx, info.ID, second.ID)
		assert.ErrorIs(t, err, database.ErrCheckInNotFound)
		assert.ErrorIs(t, db.DeleteCheckInInfo(ctx, second.ID), database.ErrCheckInNotFound)
	})
}

// RunNotificationInfoTest runs the notification tests for the given db.
func RunNotificationInfoTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("notification lifecycle test", func(t *testing.T) {
		alice := createUser(t, db, "alice")
		bob := createUser(t, db, "bob")

		var ids []types.ID
		for i := 0; i < 3; i++ {
			info, err := db.CreateNotificationInfo(ctx, &database.NotificationInfo{
				Recipient: alice.ID,
				Sender:    bob.ID,
				Type:      types.NotificationCheckIn,
				Message:   fmt.Sprintf("check-in %d", i),
			})
			assert.NoError(t, err)
			ids = append(ids, info.ID)
		}

		infos, err := db.ListNotificationInfos(ctx, alice.ID, false, 0)
		assert.NoError(t, err)
		assert.Len(t, infos, 3)
		assert.Equal(t, ids[2], infos[0].ID)

		count, err := db.CountUnreadNotifications(ctx, alice.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)

		assert.NoError(t, db.MarkNotificationRead(ctx, alice.ID, ids[0]))
		assert.ErrorIs(t, db.MarkNotificationRead(ctx, bob.ID, ids[1]), database.ErrNotificationNotFound)

		infos, err = db.ListNotificationInfos(ctx, alice.ID, true, 0)
		assert.NoError(t, err)
		assert.Len(t, infos, 2)

		changed, err := db.MarkAllNotificationsRead(ctx, alice.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), changed)
		count, err = db.CountUnreadNotifications(ctx, alice.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)

		assert.ErrorIs(t, db.DeleteNotificationInfo(ctx, bob.ID, ids[0]), database.ErrNotificationNotFound)
		assert.NoError(t, db.DeleteNotificationInfo(ctx, alice.ID, ids[0]))
		infos, err = db.ListNotificationInfos(ctx, alice.ID, false, 1)
		assert.NoError(t, err)
		assert.Len(t, infos, 1)
	})
}

// RunPurgeReadNotificationsTest runs the notification retention tests for
// the given db.
func RunPurgeReadNotificationsTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("purge old read notifications test", func(t *testing.T) {
		alice := createUser(t, db, "alice")
		bob := createUser(t, db, "bob")

		old := time.Now().Add(-48 * time.Hour)
		var ids []types.ID
		for _, createdAt := range []time.Time{old, old, time.Now()} {
			info, err := db.CreateNotificationInfo(ctx, &database.NotificationInfo{
				Recipient: alice.ID,
				Sender:    bob.ID,
				Type:      types.NotificationFriendRequest,
				CreatedAt: createdAt,
			})
			assert.NoError(t, err)
			ids = append(ids, info.ID)
		}

		// the old unread notification survives
		assert.NoError(t, db.MarkNotificationRead(ctx, alice.ID, ids[0]))
		assert.NoError(t, db.MarkNotificationRead(ctx, alice.ID, ids[2]))

		purged, err := db.PurgeReadNotifications(ctx, time.Now().Add(-time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, int64(1), purged)

		infos, err := db.ListNotificationInfos(ctx, alice.ID, false, 0)
		assert.NoError(t, err)
		assert.Len(t, infos, 2)
		for _, info := range infos {
			assert.NotEqual(t, ids[0], info.ID)
		}
	})
}

// RunActivityInfoTest runs the activity tests for the given db.
func RunActivityInfoTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("activity feed test", func(t *testing.T) {
		alice := createUser(t, db, "alice")
		bob := createUser(t, db, "bob")
		project := createProject(t, db, alice.ID)

		global, err := db.CreateActivityInfo(ctx, &database.ActivityInfo{
			Actor:     alice.ID,
			Type:      types.ActivityProjectCreated,
			ProjectID: project.ID,
			Data:      map[string]string{"name": project.Name},
			IsGlobal:  true,
		})
		assert.NoError(t, err)
		_, err = db.CreateActivityInfo(ctx, &database.ActivityInfo{
			Actor:      bob.ID,
			Type:       types.ActivityFriendAdded,
			TargetUser: alice.ID,
		})
		assert.NoError(t, err)

		infos, err := db.ListActivityInfos(ctx, database.ActivityFilter{Actors: []types.ID{alice.ID, bob.ID}})
		assert.NoError(t, err)
		assert.Len(t, infos, 2)
		assert.Equal(t, types.ActivityFriendAdded, infos[0].Type)

		infos, err = db.ListActivityInfos(ctx, database.ActivityFilter{Global: true, Actors: []types.ID{alice.ID, bob.ID}})
		assert.NoError(t, err)
		assert.Len(t, infos, 1)
		assert.Equal(t, project.Name, infos[0].Data["name"])

		infos, err = db.ListActivityInfos(ctx, database.ActivityFilter{ProjectID: project.ID})
		assert.NoError(t, err)
		assert.Len(t, infos, 1)

		infos, err = db.ListActivityInfos(ctx, database.ActivityFilter{Global: true, Limit: 1})
		assert.NoError(t, err)
		assert.Len(t, infos, 1)

		assert.NoError(t, db.MarkActivityRead(ctx, global.ID, bob.ID))
		assert.NoError(t, db.MarkActivityRead(ctx, global.ID, bob.ID))
		infos, err = db.ListActivityInfos(ctx, database.ActivityFilter{ProjectID: project.ID})
		assert.NoError(t, err)
		assert.Equal(t, []types.ID{bob.ID}, infos[0].ReadBy)

		assert.ErrorIs(t, db.MarkActivityRead(ctx, notExistsID, bob.ID), database.ErrActivityNotFound)
	})
}

// RunDiscussionInfoTest runs the discussion tests for the given db.
func RunDiscussionInfoTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("discussion lifecycle test", func(t *testing.T) {
		alice := createUser(t, db, "alice")
		bob := createUser(t, db, "bob")
		project := createProject(t, db, alice.ID)

		info, err := db.CreateDiscussionInfo(ctx, &database.DiscussionInfo{
			ProjectID: project.ID,
			Author:    alice.ID,
			Title:     "build fails",
			Content:   "on linux",
		})
		assert.NoError(t, err)

		updated, comment, err := db.AddDiscussionComment(ctx, project.ID, info.ID, bob.ID, "try a clean build")
		assert.NoError(t, err)
		assert.Len(t, updated.Comments, 1)
		assert.Equal(t, comment.ID, updated.Comments[0].ID)

		_, _, err = db.AddDiscussionComment(ctx, notExistsID, info.ID, bob.ID, "wrong project")
		assert.ErrorIs(t, err, database.ErrDiscussionNotFound)

		_, err = db.SetDiscussionSolution(ctx, project.ID, info.ID, notExistsID)
		assert.ErrorIs(t, err, database.ErrCommentNotFound)
		solved, err := db.SetDiscussionSolution(ctx, project.ID, info.ID, comment.ID)
		assert.NoError(t, err)
		assert.Equal(t, comment.ID, solved.SolutionCommentID)

		found, err := db.FindDiscussionInfo(ctx, project.ID, info.ID)
		assert.NoError(t, err)
		assert.Equal(t, "build fails", found.Title)
		assert.Equal(t, comment.ID, found.SolutionCommentID)

		second, err := db.CreateDiscussionInfo(ctx, &database.DiscussionInfo{
			ProjectID: project.ID,
			Author:    bob.ID,
			Title:     "docs",
		})
		assert.NoError(t, err)
		infos, err := db.ListDiscussionInfos(ctx, project.ID)
		assert.NoError(t, err)
		assert.Len(t, infos, 2)
		assert.Equal(t, second.ID, infos[0].ID)
	})
}

// RunDeleteProjectInfoTest runs the cascade deletion tests for the given db.
func RunDeleteProjectInfoTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("cascade delete test", func(t *testing.T) {
		alice := createUser(t, db, "alice")
		bob := createUser(t, db, "bob")
		project := createProject(t, db, alice.ID)
		other := createProject(t, db, alice.ID)

		for _, projectID := range []types.ID{project.ID, other.ID} {
			_, err := db.CreateCheckInInfo(ctx, &database.CheckInInfo{ProjectID: projectID, UserID: alice.ID, Message: "v1"})
			assert.NoError(t, err)
			_, err = db.CreateNotificationInfo(ctx, &database.NotificationInfo{
				Recipient: bob.ID,
				Sender:    alice.ID,
				Type:      types.NotificationCheckIn,
				ProjectID: projectID,
			})
			assert.NoError(t, err)
			_, err = db.CreateActivityInfo(ctx, &database.ActivityInfo{
				Actor:     alice.ID,
				Type:      types.ActivityProjectCheckedIn,
				ProjectID: projectID,
				IsGlobal:  true,
			})
			assert.NoError(t, err)
			_, err = db.CreateDiscussionInfo(ctx, &database.DiscussionInfo{ProjectID: projectID, Author: alice.ID, Title: "t"})
			assert.NoError(t, err)
		}
		_, err := db.CreateNotificationInfo(ctx, &database.NotificationInfo{
			Recipient: bob.ID,
			Sender:    alice.ID,
			Type:      types.NotificationFriendRequest,
		})
		assert.NoError(t, err)

		counts, err := db.DeleteProjectInfo(ctx, project.ID)
		assert.NoError(t, err)
		assert.Equal(t, &database.DeletedCounts{CheckIns: 1, Notifications: 1, Activities: 1, Discussions: 1}, counts)

		_, err = db.FindProjectInfoByID(ctx, project.ID)
		assert.ErrorIs(t, err, database.ErrProjectNotFound)
		checkins, err := db.ListCheckInInfos(ctx, project.ID, 0)
		assert.NoError(t, err)
		assert.Empty(t, checkins)
		activities, err := db.ListActivityInfos(ctx, database.ActivityFilter{ProjectID: project.ID})
		assert.NoError(t, err)
		assert.Empty(t, activities)
		discussions, err := db.ListDiscussionInfos(ctx, project.ID)
		assert.NoError(t, err)
		assert.Empty(t, discussions)

		notifications, err := db.ListNotificationInfos(ctx, bob.ID, false, 0)
		assert.NoError(t, err)
		assert.Len(t, notifications, 2)

		checkins, err = db.ListCheckInInfos(ctx, other.ID, 0)
		assert.NoError(t, err)
		assert.Len(t, checkins, 1)

		_, err = db.DeleteProjectInfo(ctx, project.ID)
		assert.ErrorIs(t, err, database.ErrProjectNotFound)
	})
}
