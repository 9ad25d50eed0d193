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

// Package memory implements the database interface using in-memory database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	gotime "time"

	"github.com/hashicorp/go-memdb"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server/backend/database"
)

// DB is an in-memory database for testing or temporarily. Write
// transactions of go-memdb are serialized, so a condition checked inside a
// write transaction holds until the transaction commits.
type DB struct {
	db *memdb.MemDB
}

// New returns a new in-memory database.
func New() (*DB, error) {
	memDB, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}

	return &DB{
		db: memDB,
	}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return nil
}

// CreateUserInfo creates a new user.
func (d *DB) CreateUserInfo(
	_ context.Context,
	username string,
	email string,
	hashedPassword string,
	verificationToken string,
) (*database.UserInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tblUsers, "username", username)
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("create user %s: %w", username, database.ErrUserAlreadyExists)
	}

	if email != "" {
		existing, err = txn.First(tblUsers, "email", email)
		if err != nil {
			return nil, fmt.Errorf("create user %s: %w", username, err)
		}
		if existing != nil {
			return nil, fmt.Errorf("create user %s: %w", email, database.ErrUserAlreadyExists)
		}
	}

	info := database.NewUserInfo(username, email, hashedPassword, verificationToken)
	info.ID = newID()
	if err := txn.Insert(tblUsers, info); err != nil {
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// FindUserInfoByID finds a user by the given ID.
func (d *DB) FindUserInfoByID(_ context.Context, id types.ID) (*database.UserInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	info, err := findUser(txn, id)
	if err != nil {
		return nil, err
	}

	return info, nil
}

// FindUserInfoByName finds a user by the given username.
func (d *DB) FindUserInfoByName(_ context.Context, username string) (*database.UserInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tblUsers, "username", username)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", username, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("find user %s: %w", username, database.ErrUserNotFound)
	}

	return raw.(*database.UserInfo).DeepCopy(), nil
}

// FindUserInfosByIDs returns the users of the given IDs.
func (d *DB) FindUserInfosByIDs(_ context.Context, ids []types.ID) ([]*database.UserInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	var infos []*database.UserInfo
	for _, id := range ids {
		raw, err := txn.First(tblUsers, "id", id.String())
		if err != nil {
			return nil, fmt.Errorf("find user %s: %w", id, err)
		}
		if raw == nil {
			continue
		}
		infos = append(infos, raw.(*database.UserInfo).DeepCopy())
	}

	return infos, nil
}

// SearchUserInfos returns the users whose username contains the query.
func (d *DB) SearchUserInfos(
	_ context.Context,
	query string,
	limit int,
) ([]*database.UserInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblUsers, "username")
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	query = strings.ToLower(query)
	var infos []*database.UserInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		if limit > 0 && len(infos) >= limit {
			break
		}

		info := raw.(*database.UserInfo)
		if strings.Contains(strings.ToLower(info.Username), query) {
			infos = append(infos, info.DeepCopy())
		}
	}

	return infos, nil
}

// UpdateUserProfile updates the profile of the user.
func (d *DB) UpdateUserProfile(
	_ context.Context,
	id types.ID,
	fields *types.UpdatableUserFields,
) (*database.UserInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info, err := findUser(txn, id)
	if err != nil {
		return nil, err
	}

	info.UpdateProfile(fields)
	if err := txn.Insert(tblUsers, info); err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// VerifyUserInfo marks the user waiting for the token as verified.
func (d *DB) VerifyUserInfo(_ context.Context, token string) (*database.UserInfo, error) {
	if token == "" {
		return nil, fmt.Errorf("verify user: %w", database.ErrInvalidVerificationToken)
	}

	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblUsers, "verification_token", token)
	if err != nil {
		return nil, fmt.Errorf("verify user: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("verify user: %w", database.ErrInvalidVerificationToken)
	}

	now := gotime.Now()
	info := raw.(*database.UserInfo).DeepCopy()
	info.Verified = true
	info.VerificationToken = ""
	info.VerifiedAt = &now
	if err := txn.Insert(tblUsers, info); err != nil {
		return nil, fmt.Errorf("verify user %s: %w", info.ID, err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// DeleteUserInfo deletes the user and its traces on other users.
func (d *DB) DeleteUserInfo(_ context.Context, id types.ID) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info, err := findUser(txn, id)
	if err != nil {
		return err
	}
	if err := txn.Delete(tblUsers, info); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	iter, err := txn.Get(tblUsers, "id")
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	var changed []*database.UserInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		other := raw.(*database.UserInfo)
		if !other.IsFriend(id) && other.FindFriendRequest(id) == nil && other.FindSentFriendRequest(id) == nil {
			continue
		}

		other = other.DeepCopy()
		other.Friends = removeID(other.Friends, id)
		other.FriendRequests = removeFriendRequest(other.FriendRequests, id)
		other.SentFriendRequests = removeFriendRequest(other.SentFriendRequests, id)
		changed = append(changed, other)
	}
	for _, other := range changed {
		if err := txn.Insert(tblUsers, other); err != nil {
			return fmt.Errorf("delete user %s: %w", id, err)
		}
	}

	txn.Commit()
	return nil
}

// CreateFriendRequest records a pending request from one user to another.
func (d *DB) CreateFriendRequest(_ context.Context, from, to types.ID) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	sender, err := findUser(txn, from)
	if err != nil {
		return err
	}
	recipient, err := findUser(txn, to)
	if err != nil {
		return err
	}

	if sender.IsFriend(to) {
		return fmt.Errorf("%s and %s: %w", from, to, database.ErrAlreadyFriends)
	}
	if isPending(recipient.FindFriendRequest(from)) || isPending(sender.FindFriendRequest(to)) {
		return fmt.Errorf("%s and %s: %w", from, to, database.ErrFriendRequestExists)
	}

	now := gotime.Now()
	recipient.FriendRequests = append(
		removeFriendRequest(recipient.FriendRequests, from),
		&database.FriendRequestInfo{UserID: from, Status: types.FriendRequestPending, CreatedAt: now},
	)
	sender.SentFriendRequests = append(
		removeFriendRequest(sender.SentFriendRequests, to),
		&database.FriendRequestInfo{UserID: to, Status: types.FriendRequestPending, CreatedAt: now},
	)

	if err := txn.Insert(tblUsers, recipient); err != nil {
		return fmt.Errorf("create friend request %s: %w", to, err)
	}
	if err := txn.Insert(tblUsers, sender); err != nil {
		return fmt.Errorf("create friend request %s: %w", from, err)
	}
	txn.Commit()

	return nil
}

// UpdateFriendRequestStatus answers the pending request on both sides.
func (d *DB) UpdateFriendRequestStatus(
	_ context.Context,
	from, to types.ID,
	status types.FriendRequestStatus,
) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	recipient, err := findUser(txn, to)
	if err != nil {
		return err
	}
	request := recipient.FindFriendRequest(from)
	if !isPending(request) {
		return fmt.Errorf("%s to %s: %w", from, to, database.ErrFriendRequestNotFound)
	}
	request.Status = status
	if err := txn.Insert(tblUsers, recipient); err != nil {
		return fmt.Errorf("update friend request %s: %w", to, err)
	}

	sender, err := findUser(txn, from)
	if err != nil {
		return err
	}
	if sent := sender.FindSentFriendRequest(to); sent != nil {
		sent.Status = status
		if err := txn.Insert(tblUsers, sender); err != nil {
			return fmt.Errorf("update friend request %s: %w", from, err)
		}
	}

	txn.Commit()
	return nil
}

// AddFriendship makes the two users friends of each other.
func (d *DB) AddFriendship(_ context.Context, a, b types.ID) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	userA, err := findUser(txn, a)
	if err != nil {
		return err
	}
	userB, err := findUser(txn, b)
	if err != nil {
		return err
	}

	if !userA.IsFriend(b) {
		userA.Friends = append(userA.Friends, b)
	}
	if !userB.IsFriend(a) {
		userB.Friends = append(userB.Friends, a)
	}

	if err := txn.Insert(tblUsers, userA); err != nil {
		return fmt.Errorf("add friendship %s: %w", a, err)
	}
	if err := txn.Insert(tblUsers, userB); err != nil {
		return fmt.Errorf("add friendship %s: %w", b, err)
	}
	txn.Commit()

	return nil
}

// RemoveFriendship removes the friendship of the two users.
func (d *DB) RemoveFriendship(_ context.Context, a, b types.ID) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	userA, err := findUser(txn, a)
	if err != nil {
		return err
	}
	if !userA.IsFriend(b) {
		return fmt.Errorf("%s and %s: %w", a, b, database.ErrFriendNotFound)
	}
	userB, err := findUser(txn, b)
	if err != nil {
		return err
	}

	userA.Friends = removeID(userA.Friends, b)
	userB.Friends = removeID(userB.Friends, a)
	if err := txn.Insert(tblUsers, userA); err != nil {
		return fmt.Errorf("remove friendship %s: %w", a, err)
	}
	if err := txn.Insert(tblUsers, userB); err != nil {
		return fmt.Errorf("remove friendship %s: %w", b, err)
	}
	txn.Commit()

	return nil
}

// CreateProjectInfo creates a new project.
func (d *DB) CreateProjectInfo(
	_ context.Context,
	owner types.ID,
	fields *types.ProjectFields,
) (*database.ProjectInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info := database.NewProjectInfo(owner, fields)
	info.ID = newID()
	if err := txn.Insert(tblProjects, info); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// FindProjectInfoByID returns a project by the given id.
func (d *DB) FindProjectInfoByID(_ context.Context, id types.ID) (*database.ProjectInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	return findProject(txn, id)
}

// ListProjectInfosByMember returns the projects of the member.
func (d *DB) ListProjectInfosByMember(
	_ context.Context,
	userID types.ID,
) ([]*database.ProjectInfo, error) {
	return d.listProjects(func(info *database.ProjectInfo) bool {
		return info.Owner == userID || info.FindMember(userID) != nil
	}, 0)
}

// SearchProjectInfos returns the projects matching the query.
func (d *DB) SearchProjectInfos(
	_ context.Context,
	query string,
	limit int,
) ([]*database.ProjectInfo, error) {
	name := strings.ToLower(strings.TrimSpace(query))
	tag := strings.TrimPrefix(strings.TrimSpace(query), "#")
	return d.listProjects(func(info *database.ProjectInfo) bool {
		if strings.Contains(strings.ToLower(info.Name), name) {
			return true
		}
		for _, t := range info.Tags {
			if t == tag {
				return true
			}
		}
		return false
	}, limit)
}

func (d *DB) listProjects(
	match func(info *database.ProjectInfo) bool,
	limit int,
) ([]*database.ProjectInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblProjects, "id")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var infos []*database.ProjectInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		info := raw.(*database.ProjectInfo)
		if match(info) {
			infos = append(infos, info.DeepCopy())
		}
	}

	sort.SliceStable(infos, func(i, j int) bool {
		if infos[i].LastActivity.Equal(infos[j].LastActivity) {
			return infos[i].ID > infos[j].ID
		}
		return infos[i].LastActivity.After(infos[j].LastActivity)
	})
	if limit > 0 && len(infos) > limit {
		infos = infos[:limit]
	}

	return infos, nil
}

// UpdateProjectInfo updates the given project.
func (d *DB) UpdateProjectInfo(
	_ context.Context,
	id types.ID,
	fields *types.UpdatableProjectFields,
) (*database.ProjectInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info, err := findProject(txn, id)
	if err != nil {
		return nil, err
	}

	now := gotime.Now()
	info.UpdateFields(fields)
	info.UpdatedAt = now
	info.LastActivity = now
	if err := txn.Insert(tblProjects, info); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// DeleteProjectInfo deletes the project and everything that belongs to it.
func (d *DB) DeleteProjectInfo(_ context.Context, id types.ID) (*database.DeletedCounts, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info, err := findProject(txn, id)
	if err != nil {
		return nil, err
	}
	if err := txn.Delete(tblProjects, info); err != nil {
		return nil, fmt.Errorf("delete project %s: %w", id, err)
	}

	counts := &database.DeletedCounts{}
	for _, target := range []struct {
		table string
		count *int64
	}{
		{tblCheckIns, &counts.CheckIns},
		{tblNotifications, &counts.Notifications},
		{tblActivities, &counts.Activities},
		{tblDiscussions, &counts.Discussions},
	} {
		deleted, err := txn.DeleteAll(target.table, "project_id", id.String())
		if err != nil {
			return nil, fmt.Errorf("delete %s of %s: %w", target.table, id, err)
		}
		*target.count = int64(deleted)
	}
	txn.Commit()

	return counts, nil
}

// AddProjectMember adds the user to the project.
func (d *DB) AddProjectMember(
	_ context.Context,
	projectID types.ID,
	userID types.ID,
	role types.Role,
	addedBy types.ID,
) (*database.ProjectInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info, err := findProject(txn, projectID)
	if err != nil {
		return nil, err
	}
	if info.Owner == userID || info.FindMember(userID) != nil {
		return nil, fmt.Errorf("%s in %s: %w", userID, projectID, database.ErrMemberAlreadyExists)
	}

	now := gotime.Now()
	info.Members = append(info.Members, &database.MemberInfo{
		UserID:  userID,
		Role:    role,
		AddedBy: addedBy,
		AddedAt: now,
	})
	info.UpdatedAt = now
	if err := txn.Insert(tblProjects, info); err != nil {
		return nil, fmt.Errorf("add member %s: %w", userID, err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// UpdateProjectMemberRole changes the role of the member.
func (d *DB) UpdateProjectMemberRole(
	_ context.Context,
	projectID types.ID,
	userID types.ID,
	role types.Role,
) (*database.ProjectInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info, err := findProject(txn, projectID)
	if err != nil {
		return nil, err
	}
	member := info.FindMember(userID)
	if member == nil {
		return nil, fmt.Errorf("%s in %s: %w", userID, projectID, database.ErrMemberNotFound)
	}

	member.Role = role
	info.UpdatedAt = gotime.Now()
	if err := txn.Insert(tblProjects, info); err != nil {
		return nil, fmt.Errorf("update member role %s: %w", userID, err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// RemoveProjectMember removes the member from the project.
func (d *DB) RemoveProjectMember(
	_ context.Context,
	projectID types.ID,
	userID types.ID,
) (*database.ProjectInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info, err := findProject(txn, projectID)
	if err != nil {
		return nil, err
	}
	if info.FindMember(userID) == nil {
		return nil, fmt.Errorf("%s in %s: %w", userID, projectID, database.ErrMemberNotFound)
	}

	members := make([]*database.MemberInfo, 0, len(info.Members)-1)
	for _, m := range info.Members {
		if m.UserID != userID {
			members = append(members, m)
		}
	}
	info.Members = members
	info.UpdatedAt = gotime.Now()
	if err := txn.Insert(tblProjects, info); err != nil {
		return nil, fmt.Errorf("remove member %s: %w", userID, err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// CheckoutProject acquires the lock of the project if no one holds it.
func (d *DB) CheckoutProject(
	_ context.Context,
	projectID types.ID,
	userID types.ID,
) (*database.ProjectInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info, err := findProject(txn, projectID)
	if err != nil {
		return nil, err
	}
	if info.IsCheckedOut() {
		return nil, fmt.Errorf("%s: %w", projectID, database.ErrProjectAlreadyCheckedOut)
	}

	now := gotime.Now()
	info.CheckedOutBy = userID
	info.CheckedOutAt = &now
	info.LastActivity = now
	info.UpdatedAt = now
	if err := txn.Insert(tblProjects, info); err != nil {
		return nil, fmt.Errorf("checkout project %s: %w", projectID, err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// ReleaseProject appends the files and clears the lock if the user holds it.
func (d *DB) ReleaseProject(
	_ context.Context,
	projectID types.ID,
	userID types.ID,
	files []*database.FileInfo,
) (*database.ProjectInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info, err := findProject(txn, projectID)
	if err != nil {
		return nil, err
	}
	if !info.IsCheckedOut() || info.CheckedOutBy != userID {
		return nil, fmt.Errorf("%s by %s: %w", projectID, userID, database.ErrNotLockHolder)
	}

	now := gotime.Now()
	for _, f := range files {
		info.Files = append(info.Files, f.DeepCopy())
	}
	info.CheckedOutBy = ""
	info.CheckedOutAt = nil
	info.LastActivity = now
	info.UpdatedAt = now
	if err := txn.Insert(tblProjects, info); err != nil {
		return nil, fmt.Errorf("release project %s: %w", projectID, err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// CreateCheckInInfo records a new check-in.
func (d *DB) CreateCheckInInfo(
	_ context.Context,
	info *database.CheckInInfo,
) (*database.CheckInInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info = info.DeepCopy()
	info.ID = newID()
	if info.CreatedAt.IsZero() {
		info.CreatedAt = gotime.Now()
	}
	if err := txn.Insert(tblCheckIns, info); err != nil {
		return nil, fmt.Errorf("create check-in: %w", err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// ListCheckInInfos returns the check-ins of the project, the newest first.
func (d *DB) ListCheckInInfos(
	_ context.Context,
	projectID types.ID,
	limit int,
) ([]*database.CheckInInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblCheckIns, "project_id", projectID.String())
	if err != nil {
		return nil, fmt.Errorf("list check-ins of %s: %w", projectID, err)
	}

	var infos []*database.CheckInInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		infos = append(infos, raw.(*database.CheckInInfo).DeepCopy())
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return newerThan(infos[i].CreatedAt, infos[i].ID, infos[j].CreatedAt, infos[j].ID)
	})
	if limit > 0 && len(infos) > limit {
		infos = infos[:limit]
	}

	return infos, nil
}

// FindCheckInInfo returns the check-in of the project.
func (d *DB) FindCheckInInfo(
	_ context.Context,
	projectID types.ID,
	id types.ID,
) (*database.CheckInInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tblCheckIns, "id", id.String())
	if err != nil {
		return nil, fmt.Errorf("find check-in %s: %w", id, err)
	}
	if raw == nil || raw.(*database.CheckInInfo).ProjectID != projectID {
		return nil, fmt.Errorf("find check-in %s: %w", id, database.ErrCheckInNotFound)
	}

	return raw.(*database.CheckInInfo).DeepCopy(), nil
}

// DeleteCheckInInfo deletes the check-in.
func (d *DB) DeleteCheckInInfo(_ context.Context, id types.ID) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblCheckIns, "id", id.String())
	if err != nil {
		return fmt.Errorf("find check-in %s: %w", id, err)
	}
	if raw == nil {
		return fmt.Errorf("find check-in %s: %w", id, database.ErrCheckInNotFound)
	}
	if err := txn.Delete(tblCheckIns, raw); err != nil {
		return fmt.Errorf("delete check-in %s: %w", id, err)
	}
	txn.Commit()

	return nil
}

// CreateNotificationInfo creates a new notification.
func (d *DB) CreateNotificationInfo(
	_ context.Context,
	info *database.NotificationInfo,
) (*database.NotificationInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info = info.DeepCopy()
	info.ID = newID()
	if info.CreatedAt.IsZero() {
		info.CreatedAt = gotime.Now()
	}
	if err := txn.Insert(tblNotifications, info); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// ListNotificationInfos returns the notifications of the recipient.
func (d *DB) ListNotificationInfos(
	_ context.Context,
	recipient types.ID,
	unreadOnly bool,
	limit int,
) ([]*database.NotificationInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblNotifications, "recipient", recipient.String())
	if err != nil {
		return nil, fmt.Errorf("list notifications of %s: %w", recipient, err)
	}

	var infos []*database.NotificationInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		info := raw.(*database.NotificationInfo)
		if unreadOnly && info.Read {
			continue
		}
		infos = append(infos, info.DeepCopy())
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return newerThan(infos[i].CreatedAt, infos[i].ID, infos[j].CreatedAt, infos[j].ID)
	})
	if limit > 0 && len(infos) > limit {
		infos = infos[:limit]
	}

	return infos, nil
}

// CountUnreadNotifications returns the number of unread notifications.
func (d *DB) CountUnreadNotifications(_ context.Context, recipient types.ID) (int64, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblNotifications, "recipient", recipient.String())
	if err != nil {
		return 0, fmt.Errorf("count notifications of %s: %w", recipient, err)
	}

	var count int64
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		if !raw.(*database.NotificationInfo).Read {
			count++
		}
	}

	return count, nil
}

// MarkNotificationRead marks the notification of the recipient as read.
func (d *DB) MarkNotificationRead(_ context.Context, recipient, id types.ID) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info, err := findNotification(txn, recipient, id)
	if err != nil {
		return err
	}
	if info.Read {
		return nil
	}

	info.Read = true
	if err := txn.Insert(tblNotifications, info); err != nil {
		return fmt.Errorf("mark notification %s: %w", id, err)
	}
	txn.Commit()

	return nil
}

// MarkAllNotificationsRead marks every notification of the recipient as read.
func (d *DB) MarkAllNotificationsRead(_ context.Context, recipient types.ID) (int64, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	iter, err := txn.Get(tblNotifications, "recipient", recipient.String())
	if err != nil {
		return 0, fmt.Errorf("list notifications of %s: %w", recipient, err)
	}

	var unread []*database.NotificationInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		if info := raw.(*database.NotificationInfo); !info.Read {
			unread = append(unread, info.DeepCopy())
		}
	}
	for _, info := range unread {
		info.Read = true
		if err := txn.Insert(tblNotifications, info); err != nil {
			return 0, fmt.Errorf("mark notification %s: %w", info.ID, err)
		}
	}
	txn.Commit()

	return int64(len(unread)), nil
}

// DeleteNotificationInfo deletes the notification of the recipient.
func (d *DB) DeleteNotificationInfo(_ context.Context, recipient, id types.ID) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info, err := findNotification(txn, recipient, id)
	if err != nil {
		return err
	}
	if err := txn.Delete(tblNotifications, info); err != nil {
		return fmt.Errorf("delete notification %s: %w", id, err)
	}
	txn.Commit()

	return nil
}

// PurgeReadNotifications deletes the read notifications created before the
// given time.
func (d *DB) PurgeReadNotifications(_ context.Context, before gotime.Time) (int64, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	iter, err := txn.Get(tblNotifications, "id")
	if err != nil {
		return 0, fmt.Errorf("list notifications: %w", err)
	}

	var purged []*database.NotificationInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		if info := raw.(*database.NotificationInfo); info.Read && info.CreatedAt.Before(before) {
			purged = append(purged, info)
		}
	}
	for _, info := range purged {
		if err := txn.Delete(tblNotifications, info); err != nil {
			return 0, fmt.Errorf("delete notification %s: %w", info.ID, err)
		}
	}
	txn.Commit()

	return int64(len(purged)), nil
}

// CreateActivityInfo appends a new activity.
func (d *DB) CreateActivityInfo(
	_ context.Context,
	info *database.ActivityInfo,
) (*database.ActivityInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info = info.DeepCopy()
	info.ID = newID()
	if info.CreatedAt.IsZero() {
		info.CreatedAt = gotime.Now()
	}
	if err := txn.Insert(tblActivities, info); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// ListActivityInfos returns the activities selected by the filter.
func (d *DB) ListActivityInfos(
	_ context.Context,
	filter database.ActivityFilter,
) ([]*database.ActivityInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	var iter memdb.ResultIterator
	var err error
	if filter.ProjectID.IsZero() {
		iter, err = txn.Get(tblActivities, "id")
	} else {
		iter, err = txn.Get(tblActivities, "project_id", filter.ProjectID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	var infos []*database.ActivityInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		info := raw.(*database.ActivityInfo)
		if info.Matches(filter) {
			infos = append(infos, info.DeepCopy())
		}
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return newerThan(infos[i].CreatedAt, infos[i].ID, infos[j].CreatedAt, infos[j].ID)
	})
	if filter.Limit > 0 && len(infos) > filter.Limit {
		infos = infos[:filter.Limit]
	}

	return infos, nil
}

// MarkActivityRead adds the user to the readers of the activity once.
func (d *DB) MarkActivityRead(_ context.Context, id, userID types.ID) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblActivities, "id", id.String())
	if err != nil {
		return fmt.Errorf("find activity %s: %w", id, err)
	}
	if raw == nil {
		return fmt.Errorf("find activity %s: %w", id, database.ErrActivityNotFound)
	}

	info := raw.(*database.ActivityInfo).DeepCopy()
	if types.ContainsID(info.ReadBy, userID) {
		return nil
	}
	info.ReadBy = append(info.ReadBy, userID)
	if err := txn.Insert(tblActivities, info); err != nil {
		return fmt.Errorf("mark activity %s: %w", id, err)
	}
	txn.Commit()

	return nil
}

// CreateDiscussionInfo opens a new discussion.
func (d *DB) CreateDiscussionInfo(
	_ context.Context,
	info *database.DiscussionInfo,
) (*database.DiscussionInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	now := gotime.Now()
	info = info.DeepCopy()
	info.ID = newID()
	info.CreatedAt = now
	info.UpdatedAt = now
	if err := txn.Insert(tblDiscussions, info); err != nil {
		return nil, fmt.Errorf("create discussion: %w", err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// FindDiscussionInfo returns the discussion of the project.
func (d *DB) FindDiscussionInfo(
	_ context.Context,
	projectID types.ID,
	id types.ID,
) (*database.DiscussionInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	return findDiscussion(txn, projectID, id)
}

// ListDiscussionInfos returns the discussions of the project.
func (d *DB) ListDiscussionInfos(
	_ context.Context,
	projectID types.ID,
) ([]*database.DiscussionInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblDiscussions, "project_id", projectID.String())
	if err != nil {
		return nil, fmt.Errorf("list discussions of %s: %w", projectID, err)
	}

	var infos []*database.DiscussionInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		infos = append(infos, raw.(*database.DiscussionInfo).DeepCopy())
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return newerThan(infos[i].UpdatedAt, infos[i].ID, infos[j].UpdatedAt, infos[j].ID)
	})

	return infos, nil
}

// AddDiscussionComment appends a comment to the discussion.
func (d *DB) AddDiscussionComment(
	_ context.Context,
	projectID types.ID,
	id types.ID,
	author types.ID,
	content string,
) (*database.DiscussionInfo, *database.CommentInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info, err := findDiscussion(txn, projectID, id)
	if err != nil {
		return nil, nil, err
	}

	now := gotime.Now()
	comment := &database.CommentInfo{
		ID:        newID(),
		Author:    author,
		Content:   content,
		CreatedAt: now,
	}
	info.Comments = append(info.Comments, comment)
	info.UpdatedAt = now
	if err := txn.Insert(tblDiscussions, info); err != nil {
		return nil, nil, fmt.Errorf("add comment to %s: %w", id, err)
	}
	txn.Commit()

	clone := *comment
	return info.DeepCopy(), &clone, nil
}

// SetDiscussionSolution accepts the comment as the solution.
func (d *DB) SetDiscussionSolution(
	_ context.Context,
	projectID types.ID,
	id types.ID,
	commentID types.ID,
) (*database.DiscussionInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	info, err := findDiscussion(txn, projectID, id)
	if err != nil {
		return nil, err
	}
	if info.FindComment(commentID) == nil {
		return nil, fmt.Errorf("%s in %s: %w", commentID, id, database.ErrCommentNotFound)
	}

	info.SolutionCommentID = commentID
	info.UpdatedAt = gotime.Now()
	if err := txn.Insert(tblDiscussions, info); err != nil {
		return nil, fmt.Errorf("set solution of %s: %w", id, err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// findUser returns a copy of the user that the caller may modify.
func findUser(txn *memdb.Txn, id types.ID) (*database.UserInfo, error) {
	raw, err := txn.First(tblUsers, "id", id.String())
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("find user %s: %w", id, database.ErrUserNotFound)
	}

	return raw.(*database.UserInfo).DeepCopy(), nil
}

// findProject returns a copy of the project that the caller may modify.
func findProject(txn *memdb.Txn, id types.ID) (*database.ProjectInfo, error) {
	raw, err := txn.First(tblProjects, "id", id.String())
	if err != nil {
		return nil, fmt.Errorf("find project %s: %w", id, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("find project %s: %w", id, database.ErrProjectNotFound)
	}

	return raw.(*database.ProjectInfo).DeepCopy(), nil
}

func findNotification(txn *memdb.Txn, recipient, id types.ID) (*database.NotificationInfo, error) {
	raw, err := txn.First(tblNotifications, "id", id.String())
	if err != nil {
		return nil, fmt.Errorf("find notification %s: %w", id, err)
	}
	if raw == nil || raw.(*database.NotificationInfo).Recipient != recipient {
		return nil, fmt.Errorf("find notification %s: %w", id, database.ErrNotificationNotFound)
	}

	return raw.(*database.NotificationInfo).DeepCopy(), nil
}

func findDiscussion(txn *memdb.Txn, projectID, id types.ID) (*database.DiscussionInfo, error) {
	raw, err := txn.First(tblDiscussions, "id", id.String())
	if err != nil {
		return nil, fmt.Errorf("find discussion %s: %w", id, err)
	}
	if raw == nil || raw.(*database.DiscussionInfo).ProjectID != projectID {
		return nil, fmt.Errorf("find discussion %s: %w", id, database.ErrDiscussionNotFound)
	}

	return raw.(*database.DiscussionInfo).DeepCopy(), nil
}

func isPending(request *database.FriendRequestInfo) bool {
	return request != nil && request.Status == types.FriendRequestPending
}

func removeFriendRequest(requests []*database.FriendRequestInfo, userID types.ID) []*database.FriendRequestInfo {
	kept := make([]*database.FriendRequestInfo, 0, len(requests))
	for _, r := range requests {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	return kept
}

func removeID(ids []types.ID, id types.ID) []types.ID {
	kept := make([]types.ID, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// newerThan orders documents by the given time and then by ID, the newest
// first. ObjectIDs grow with their creation time.
func newerThan(a gotime.Time, aID types.ID, b gotime.Time, bID types.ID) bool {
	if a.Equal(b) {
		return aID > bID
	}
	return a.After(b)
}

func newID() types.ID {
	return types.ID(bson.NewObjectID().Hex())
}
