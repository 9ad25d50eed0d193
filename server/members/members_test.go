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

package members_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/pkg/errors"
	"github.com/syncsphere/syncsphere/server/activities"
	"github.com/syncsphere/syncsphere/server/authz"
	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/checkouts"
	"github.com/syncsphere/syncsphere/server/members"
	"github.com/syncsphere/syncsphere/test/helper"
)

func TestAddMember(t *testing.T) {
	ctx := context.Background()

	t.Run("add member test", func(t *testing.T) {
		be := helper.TestBackend(t)
		owner := helper.CreateUser(t, be, "owner")
		user := helper.CreateUser(t, be, "user")
		project := helper.CreateProject(t, be, owner.ID, "team")

		updated, err := members.Add(ctx, be, owner.ID, project.ID, user.ID, types.RoleMember)
		assert.NoError(t, err)
		assert.Len(t, updated.Members, 2)

		infos, err := be.DB.ListNotificationInfos(ctx, user.ID, false, 0)
		assert.NoError(t, err)
		assert.Len(t, infos, 1)
		assert.Equal(t, types.NotificationMemberAdded, infos[0].Type)
		assert.Equal(t, project.ID, infos[0].ProjectID)

		feed, err := activities.ProjectFeed(ctx, be, user.ID, project.ID, 0)
		assert.NoError(t, err)
		assert.Len(t, feed, 1)
		assert.Equal(t, types.ActivityMemberAdded, feed[0].Type)
		assert.Equal(t, user.ID, feed[0].TargetUser)
	})

	t.Run("add member twice test", func(t *testing.T) {
		be := helper.TestBackend(t)
		owner := helper.CreateUser(t, be, "owner")
		user := helper.CreateUser(t, be, "user")
		project := helper.CreateProject(t, be, owner.ID, "team")

		_, err := members.Add(ctx, be, owner.ID, project.ID, user.ID, types.RoleMember)
		assert.NoError(t, err)
		_, err = members.Add(ctx, be, owner.ID, project.ID, user.ID, types.RoleAdmin)
		assert.ErrorIs(t, err, database.ErrMemberAlreadyExists)
		assert.True(t, errors.IsStatus(err, errors.ErrCodeConflict))

		_, err = members.Add(ctx, be, owner.ID, project.ID, owner.ID, types.RoleMember)
		assert.ErrorIs(t, err, database.ErrMemberAlreadyExists)
	})

	t.Run("add member by non-owner test", func(t *testing.T) {
		be := helper.TestBackend(t)
		owner := helper.CreateUser(t, be, "owner")
		admin := helper.CreateUser(t, be, "admin")
		user := helper.CreateUser(t, be, "user")
		project := helper.CreateProject(t, be, owner.ID, "team")
		helper.AddMember(t, be, project, admin.ID, types.RoleAdmin)

		_, err := members.Add(ctx, be, admin.ID, project.ID, user.ID, types.RoleMember)
		assert.ErrorIs(t, err, authz.ErrInsufficientPermission)

		_, err = members.Add(ctx, be, user.ID, project.ID, user.ID, types.RoleMember)
		assert.ErrorIs(t, err, authz.ErrNotProjectMember)
	})

	t.Run("add member with invalid role test", func(t *testing.T) {
		be := helper.TestBackend(t)
		owner := helper.CreateUser(t, be, "owner")
		user := helper.CreateUser(t, be, "user")
		project := helper.CreateProject(t, be, owner.ID, "team")

		_, err := members.Add(ctx, be, owner.ID, project.ID, user.ID, types.RoleOwner)
		assert.ErrorIs(t, err, types.ErrInvalidRole)

		_, err = members.Add(ctx, be, owner.ID, project.ID, user.ID, "superuser")
		assert.ErrorIs(t, err, types.ErrInvalidRole)
	})

	t.Run("add unknown user test", func(t *testing.T) {
		be := helper.TestBackend(t)
		owner := helper.CreateUser(t, be, "owner")
		project := helper.CreateProject(t, be, owner.ID, "team")

		_, err := members.Add(ctx, be, owner.ID, project.ID, "000000000000000000000000", types.RoleMember)
		assert.ErrorIs(t, err, database.ErrUserNotFound)
	})
}

func TestRemoveMember(t *testing.T) {
	ctx := context.Background()

	t.Run("remove member test", func(t *testing.T) {
		be := helper.TestBackend(t)
		owner := helper.CreateUser(t, be, "owner")
		admin := helper.CreateUser(t, be, "admin")
		member := helper.CreateUser(t, be, "member")
		project := helper.CreateProject(t, be, owner.ID, "team")
		helper.AddMember(t, be, project, admin.ID, types.RoleAdmin)
		helper.AddMember(t, be, project, member.ID, types.RoleMember)

		updated, err := members.Remove(ctx, be, admin.ID, project.ID, member.ID)
		assert.NoError(t, err)
		assert.Len(t, updated.Members, 2)

		infos, err := be.DB.ListNotificationInfos(ctx, member.ID, false, 0)
		assert.NoError(t, err)
		assert.Len(t, infos, 1)
		assert.Equal(t, types.NotificationMemberRemoved, infos[0].Type)

		_, err = members.Remove(ctx, be, admin.ID, project.ID, member.ID)
		assert.ErrorIs(t, err, database.ErrMemberNotFound)
	})

	t.Run("remove owner test", func(t *testing.T) {
		be := helper.TestBackend(t)
		owner := helper.CreateUser(t, be, "owner")
		admin := helper.CreateUser(t, be, "admin")
		project := helper.CreateProject(t, be, owner.ID, "team")
		helper.AddMember(t, be, project, admin.ID, types.RoleAdmin)

		_, err := members.Remove(ctx, be, admin.ID, project.ID, owner.ID)
		assert.ErrorIs(t, err, members.ErrCannotRemoveOwner)
		_, err = members.Remove(ctx, be, owner.ID, project.ID, owner.ID)
		assert.ErrorIs(t, err, members.ErrCannotRemoveOwner)
	})

	t.Run("remove admin test", func(t *testing.T) {
		be := helper.TestBackend(t)
		owner := helper.CreateUser(t, be, "owner")
		first := helper.CreateUser(t, be, "first")
		second := helper.CreateUser(t, be, "second")
		member := helper.CreateUser(t, be, "member")
		project := helper.CreateProject(t, be, owner.ID, "team")
		helper.AddMember(t, be, project, first.ID, types.RoleAdmin)
		helper.AddMember(t, be, project, second.ID, types.RoleAdmin)
		helper.AddMember(t, be, project, member.ID, types.RoleMember)

		_, err := members.Remove(ctx, be, member.ID, project.ID, first.ID)
		assert.ErrorIs(t, err, authz.ErrInsufficientPermission)

		_, err = members.Remove(ctx, be, first.ID, project.ID, second.ID)
		assert.ErrorIs(t, err, authz.ErrInsufficientPermission)

		_, err = members.Remove(ctx, be, owner.ID, project.ID, second.ID)
		assert.NoError(t, err)

		_, err = members.Remove(ctx, be, first.ID, project.ID, first.ID)
		assert.NoError(t, err)
	})

	t.Run("remove lock holder test", func(t *testing.T) {
		be := helper.TestBackend(t)
		owner := helper.CreateUser(t, be, "owner")
		member := helper.CreateUser(t, be, "member")
		project := helper.CreateProject(t, be, owner.ID, "team")
		helper.AddMember(t, be, project, member.ID, types.RoleMember)

		_, err := checkouts.Checkout(ctx, be, member.ID, project.ID)
		assert.NoError(t, err)

		_, err = members.Remove(ctx, be, owner.ID, project.ID, member.ID)
		assert.ErrorIs(t, err, members.ErrMemberHoldsLock)
		err = members.Leave(ctx, be, member.ID, project.ID)
		assert.ErrorIs(t, err, members.ErrMemberHoldsLock)

		_, err = checkouts.CheckIn(ctx, be, member.ID, project.ID, &types.CheckInFields{Message: "done"}, nil)
		assert.NoError(t, err)
		assert.NoError(t, members.Leave(ctx, be, member.ID, project.ID))
	})
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	be := helper.TestBackend(t)
	owner := helper.CreateUser(t, be, "owner")
	admin := helper.CreateUser(t, be, "admin")
	member := helper.CreateUser(t, be, "member")
	project := helper.CreateProject(t, be, owner.ID, "team")
	helper.AddMember(t, be, project, admin.ID, types.RoleAdmin)
	helper.AddMember(t, be, project, member.ID, types.RoleMember)

	updated, err := members.UpdateRole(ctx, be, owner.ID, project.ID, member.ID, types.RoleAdmin)
	assert.NoError(t, err)
	for _, m := range updated.Members {
		if m.UserID == member.ID {
			assert.Equal(t, types.RoleAdmin, m.Role)
		}
	}

	_, err = members.UpdateRole(ctx, be, admin.ID, project.ID, member.ID, types.RoleMember)
	assert.ErrorIs(t, err, authz.ErrInsufficientPermission)

	_, err = members.UpdateRole(ctx, be, owner.ID, project.ID, owner.ID, types.RoleMember)
	assert.ErrorIs(t, err, members.ErrCannotChangeOwnerRole)

	_, err = members.UpdateRole(ctx, be, owner.ID, project.ID, member.ID, types.RoleOwner)
	assert.ErrorIs(t, err, types.ErrInvalidRole)
}

func TestLeaveAndList(t *testing.T) {
	ctx := context.Background()
	be := helper.TestBackend(t)
	owner := helper.CreateUser(t, be, "owner")
	member := helper.CreateUser(t, be, "member")
	stranger := helper.CreateUser(t, be, "stranger")
	project := helper.CreateProject(t, be, owner.ID, "team")
	helper.AddMember(t, be, project, member.ID, types.RoleMember)

	list, err := members.List(ctx, be, member.ID, project.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = members.List(ctx, be, stranger.ID, project.ID)
	assert.ErrorIs(t, err, authz.ErrNotProjectMember)

	err = members.Leave(ctx, be, owner.ID, project.ID)
	assert.ErrorIs(t, err, members.ErrOwnerCannotLeave)

	assert.NoError(t, members.Leave(ctx, be, member.ID, project.ID))
	assert.Equal(t, 0, helper.CountNotifications(t, be, owner.ID))

	err = members.Leave(ctx, be, member.ID, project.ID)
	assert.ErrorIs(t, err, authz.ErrNotProjectMember)
}
