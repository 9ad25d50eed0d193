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

// ErrInvalidRole is returned when the given role is not one of the roles.
var ErrInvalidRole = errors.Validation("invalid role").WithCode("ErrInvalidRole")

// Role is the role of a member in a project.
type Role string

const (
	// RoleOwner is the role of the user who created the project.
	RoleOwner Role = "owner"

	// RoleAdmin can manage members and update the project.
	RoleAdmin Role = "admin"

	// RoleMember can check out and check in the project.
	RoleMember Role = "member"
)

// rank returns the position of the role in the hierarchy. Unknown roles
// rank below every role.
func (r Role) rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleAdmin:
		return 2
	case RoleMember:
		return 1
	}
	return 0
}

// AtLeast returns whether the role is equal to or higher than the given role.
func (r Role) AtLeast(required Role) bool {
	return r.rank() > 0 && r.rank() >= required.rank()
}

// ParseRole parses the role that can be assigned to a member. The owner
// role is never assignable.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleMember:
		return Role(s), nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidRole)
}

// Member is a member of a project.
type Member struct {
	// UserID is the ID of the user.
	UserID ID `json:"user_id"`

	// Role is the role of the user in the project.
	Role Role `json:"role"`

	// AddedBy is the ID of the user who added this member.
	AddedBy ID `json:"added_by,omitempty"`

	// AddedAt is the time when the member was added.
	AddedAt time.Time `json:"added_at"`
}
