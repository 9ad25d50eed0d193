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

package database_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server/backend/database"
)

func TestProjectInfo(t *testing.T) {
	owner := types.ID("000000000000000000000001")
	member := types.ID("000000000000000000000002")

	t.Run("new project info test", func(t *testing.T) {
		name := "widget"
		info := database.NewProjectInfo(owner, &types.ProjectFields{
			Name: &name,
			Tags: []string{"#go", "go", "release"},
		})

		assert.Equal(t, name, info.Name)
		assert.Equal(t, []string{"go", "release"}, info.Tags)
		assert.Len(t, info.Members, 1)
		assert.Equal(t, types.RoleOwner, info.FindMember(owner).Role)
		assert.False(t, info.IsCheckedOut())
		assert.Nil(t, info.FindMember(member))
	})

	t.Run("member IDs of legacy project test", func(t *testing.T) {
		info := &database.ProjectInfo{
			Owner:   owner,
			Members: []*database.MemberInfo{{UserID: member, Role: types.RoleMember}},
		}
		assert.Equal(t, []types.ID{owner, member}, info.MemberIDs())
	})

	t.Run("update fields test", func(t *testing.T) {
		name := "widget"
		info := database.NewProjectInfo(owner, &types.ProjectFields{Name: &name})

		newName := "gadget"
		tags := []string{"#v2"}
		info.UpdateFields(&types.UpdatableProjectFields{Name: &newName, Tags: &tags})
		assert.Equal(t, newName, info.Name)
		assert.Equal(t, []string{"v2"}, info.Tags)
		assert.Equal(t, owner, info.Owner)
	})

	t.Run("deep copy test", func(t *testing.T) {
		name := "widget"
		info := database.NewProjectInfo(owner, &types.ProjectFields{Name: &name})
		now := time.Now()
		info.CheckedOutBy = member
		info.CheckedOutAt = &now

		clone := info.DeepCopy()
		clone.Members[0].Role = types.RoleAdmin
		clone.Files = append(clone.Files, &database.FileInfo{Name: "a.txt"})
		*clone.CheckedOutAt = now.Add(time.Hour)

		assert.Equal(t, types.RoleOwner, info.Members[0].Role)
		assert.Empty(t, info.Files)
		assert.Equal(t, now, *info.CheckedOutAt)

		project := info.ToProject()
		assert.True(t, project.IsCheckedOut())
		assert.Equal(t, member, project.CheckedOutBy)
	})
}

func TestUserInfo(t *testing.T) {
	t.Run("password test", func(t *testing.T) {
		hashed, err := database.HashedPassword("pa55word!")
		assert.NoError(t, err)
		assert.NoError(t, database.CompareHashAndPassword(hashed, "pa55word!"))
		assert.ErrorIs(t, database.CompareHashAndPassword(hashed, "wrong"), database.ErrMismatchedPassword)
	})

	t.Run("to user test", func(t *testing.T) {
		info := database.NewUserInfo("alice", "alice@example.com", "hashed", "token")
		info.FriendRequests = append(info.FriendRequests,
			&database.FriendRequestInfo{UserID: "000000000000000000000002", Status: types.FriendRequestPending},
			&database.FriendRequestInfo{UserID: "000000000000000000000003", Status: types.FriendRequestRejected},
		)

		user := info.ToUser()
		assert.Equal(t, "alice", user.Profile.DisplayName)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Empty(t, info.ToPublicUser().Email)
		assert.Len(t, info.ToFriendRequests(types.FriendRequestPending), 1)
		assert.Len(t, info.ToFriendRequests(""), 2)
		assert.NotNil(t, info.FindFriendRequest("000000000000000000000003"))

		clone := info.DeepCopy()
		clone.FriendRequests[0].Status = types.FriendRequestAccepted
		assert.Equal(t, types.FriendRequestPending, info.FriendRequests[0].Status)
	})
}

func TestActivityInfo(t *testing.T) {
	alice := types.ID("000000000000000000000001")
	bob := types.ID("000000000000000000000002")
	project := types.ID("000000000000000000000003")

	info := &database.ActivityInfo{Actor: alice, ProjectID: project, IsGlobal: true}
	assert.True(t, info.Matches(database.ActivityFilter{}))
	assert.True(t, info.Matches(database.ActivityFilter{Global: true, Actors: []types.ID{alice, bob}}))
	assert.False(t, info.Matches(database.ActivityFilter{Actors: []types.ID{bob}}))
	assert.False(t, info.Matches(database.ActivityFilter{ProjectID: bob}))

	info.IsGlobal = false
	assert.False(t, info.Matches(database.ActivityFilter{Global: true}))
}
