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

// Package authz provides the authorization related business logic.
package authz

import (
	"context"
	"fmt"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/pkg/errors"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/database"
)

var (
	// ErrNotProjectMember is returned when the user is not a member of the project.
	ErrNotProjectMember = errors.Forbidden("not a project member").WithCode("ErrNotProjectMember")

	// ErrInsufficientPermission is returned when user lacks required permission.
	ErrInsufficientPermission = errors.Forbidden("insufficient permission").WithCode("ErrInsufficientPermission")
)

// RoleOf returns the user's role in the project. The owner reference
// always yields the owner role, so documents lacking the owner entry
// still authorize. It returns false if the user is not a member.
func RoleOf(info *database.ProjectInfo, userID types.ID) (types.Role, bool) {
	if userID.IsZero() {
		return "", false
	}
	if info.Owner == userID {
		return types.RoleOwner, true
	}

	member := info.FindMember(userID)
	if member == nil {
		return "", false
	}
	return member.Role, true
}

// IsMember returns whether the user is the owner or a member of the project.
func IsMember(info *database.ProjectInfo, userID types.ID) bool {
	_, ok := RoleOf(info, userID)
	return ok
}

// IsAdmin returns whether the user is an admin or the owner of the project.
func IsAdmin(info *database.ProjectInfo, userID types.ID) bool {
	role, ok := RoleOf(info, userID)
	return ok && role.AtLeast(types.RoleAdmin)
}

// IsOwner returns whether the user is the owner of the project.
func IsOwner(info *database.ProjectInfo, userID types.ID) bool {
	role, ok := RoleOf(info, userID)
	return ok && role == types.RoleOwner
}

// CheckPermission loads the project and checks if the user has the required
// role in it. It returns the project on success.
func CheckPermission(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	projectID types.ID,
	required types.Role,
) (*database.ProjectInfo, error) {
	info, err := be.DB.FindProjectInfoByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := Require(info, userID, required); err != nil {
		return nil, err
	}

	return info, nil
}

// Require checks if the user has the required role in the loaded project.
func Require(info *database.ProjectInfo, userID types.ID, required types.Role) error {
	role, ok := RoleOf(info, userID)
	if !ok {
		return fmt.Errorf("%s of %s: %w", userID, info.ID, ErrNotProjectMember)
	}

	if !role.AtLeast(required) {
		return fmt.Errorf(
			"user has '%s' but '%s' required: %w",
			role,
			required,
			ErrInsufficientPermission,
		)
	}

	return nil
}
