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

// Package members provides business logic for managing project members.
package members

import (
	"context"
	"fmt"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/pkg/errors"
	"github.com/syncsphere/syncsphere/server/activities"
	"github.com/syncsphere/syncsphere/server/authz"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/backend/hooks"
	"github.com/syncsphere/syncsphere/server/notifications"
)

var (
	// ErrCannotRemoveOwner is returned when the owner is removed from the project.
	ErrCannotRemoveOwner = errors.Forbidden("cannot remove the owner").WithCode("ErrCannotRemoveOwner")

	// ErrCannotChangeOwnerRole is returned when the role of the owner is changed.
	ErrCannotChangeOwnerRole = errors.Forbidden("cannot change the role of the owner").WithCode("ErrCannotChangeOwnerRole")

	// ErrOwnerCannotLeave is returned when the owner leaves the project.
	ErrOwnerCannotLeave = errors.Forbidden("owner cannot leave the project").WithCode("ErrOwnerCannotLeave")

	// ErrMemberHoldsLock is returned when the member to remove holds the lock
	// of the project. Only the holder can release it.
	ErrMemberHoldsLock = errors.Conflict("member holds the lock").WithCode("ErrMemberHoldsLock")
)

// Add adds the user to the project with the given role. Only the owner can
// add members.
func Add(
	ctx context.Context,
	be *backend.Backend,
	actor types.ID,
	projectID types.ID,
	userID types.ID,
	role types.Role,
) (*types.Project, error) {
	if _, err := types.ParseRole(string(role)); err != nil {
		return nil, err
	}

	project, err := authz.CheckPermission(ctx, be, actor, projectID, types.RoleOwner)
	if err != nil {
		return nil, err
	}

	user, err := be.DB.FindUserInfoByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// NOTE: AddProjectMember checks it again atomically.
	if authz.IsMember(project, user.ID) {
		return nil, fmt.Errorf("%s of %s: %w", user.ID, projectID, database.ErrMemberAlreadyExists)
	}

	info, err := be.DB.AddProjectMember(ctx, projectID, user.ID, role, actor)
	if err != nil {
		return nil, err
	}

	be.RunHooks(ctx, membershipHooks(be, info, actor, user.ID, types.ActivityMemberAdded, notifications.Event{
		Sender:  actor,
		Type:    types.NotificationMemberAdded,
		Message: fmt.Sprintf("you were added to %s as %s", info.Name, role),
	}))

	return info.ToProject(), nil
}

// Remove removes the member from the project. Admins and the owner can
// remove members, but an admin cannot remove the owner or another admin.
func Remove(
	ctx context.Context,
	be *backend.Backend,
	actor types.ID,
	projectID types.ID,
	userID types.ID,
) (*types.Project, error) {
	project, err := authz.CheckPermission(ctx, be, actor, projectID, types.RoleAdmin)
	if err != nil {
		return nil, err
	}

	role, ok := authz.RoleOf(project, userID)
	if !ok {
		return nil, fmt.Errorf("%s of %s: %w", userID, projectID, database.ErrMemberNotFound)
	}
	if role == types.RoleOwner {
		return nil, fmt.Errorf("%s of %s: %w", userID, projectID, ErrCannotRemoveOwner)
	}
	if role == types.RoleAdmin && actor != userID && !authz.IsOwner(project, actor) {
		return nil, fmt.Errorf("admin cannot remove admin %s: %w", userID, authz.ErrInsufficientPermission)
	}
	if project.CheckedOutBy == userID {
		return nil, fmt.Errorf("%s of %s: %w", userID, projectID, ErrMemberHoldsLock)
	}

	info, err := be.DB.RemoveProjectMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	be.RunHooks(ctx, membershipHooks(be, info, actor, userID, types.ActivityMemberRemoved, notifications.Event{
		Sender:  actor,
		Type:    types.NotificationMemberRemoved,
		Message: fmt.Sprintf("you were removed from %s", info.Name),
	}))

	return info.ToProject(), nil
}

// UpdateRole changes the role of the member. Only the owner can change
// roles and the role of the owner never changes.
func UpdateRole(
	ctx context.Context,
	be *backend.Backend,
	actor types.ID,
	projectID types.ID,
	userID types.ID,
	role types.Role,
) (*types.Project, error) {
	if _, err := types.ParseRole(string(role)); err != nil {
		return nil, err
	}

	project, err := authz.CheckPermission(ctx, be, actor, projectID, types.RoleOwner)
	if err != nil {
		return nil, err
	}
	if authz.IsOwner(project, userID) {
		return nil, fmt.Errorf("%s of %s: %w", userID, projectID, ErrCannotChangeOwnerRole)
	}

	info, err := be.DB.UpdateProjectMemberRole(ctx, projectID, userID, role)
	if err != nil {
		return nil, err
	}

	return info.ToProject(), nil
}

// Leave removes the user from the project. The owner cannot leave.
func Leave(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	projectID types.ID,
) error {
	project, err := authz.CheckPermission(ctx, be, userID, projectID, types.RoleMember)
	if err != nil {
		return err
	}
	if authz.IsOwner(project, userID) {
		return fmt.Errorf("%s: %w", projectID, ErrOwnerCannotLeave)
	}
	if project.CheckedOutBy == userID {
		return fmt.Errorf("%s of %s: %w", userID, projectID, ErrMemberHoldsLock)
	}

	info, err := be.DB.RemoveProjectMember(ctx, projectID, userID)
	if err != nil {
		return err
	}

	be.RunHooks(ctx, membershipHooks(be, info, userID, userID, types.ActivityMemberRemoved, notifications.Event{}))
	return nil
}

// List returns the members of the project. Only members can list them.
func List(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	projectID types.ID,
) ([]*types.Member, error) {
	info, err := authz.CheckPermission(ctx, be, userID, projectID, types.RoleMember)
	if err != nil {
		return nil, err
	}

	return info.ToProject().Members, nil
}

// membershipHooks returns the hooks that notify the target user and record
// the activity of a membership change. The notification is skipped when
// the event has no type.
func membershipHooks(
	be *backend.Backend,
	project *database.ProjectInfo,
	actor types.ID,
	target types.ID,
	activityType types.ActivityType,
	event notifications.Event,
) hooks.List {
	var list hooks.List
	if event.Type != "" {
		event.ProjectID = project.ID
		list.Add(string(event.Type)+"_notification", func(ctx context.Context) error {
			return notifications.Notify(ctx, be, target, event)
		})
	}
	list.Add(string(activityType)+"_activity", func(ctx context.Context) error {
		_, err := activities.Record(ctx, be, &database.ActivityInfo{
			Actor:      actor,
			Type:       activityType,
			ProjectID:  project.ID,
			TargetUser: target,
			Data:       map[string]string{"name": project.Name},
		})
		return err
	})
	return list
}
