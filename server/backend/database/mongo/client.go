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

// Package mongo implements database interfaces using MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	gotime "time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/logging"
)

var (
	newestFirst       = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	recentlyActive    = bson.D{{Key: "last_activity", Value: -1}, {Key: "_id", Value: -1}}
	recentlyUpdated   = bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}}
	returnAfterUpdate = options.FindOneAndUpdate().SetReturnDocument(options.After)
)

// Client is a client that connects to Mongo DB and reads or saves SyncSphere data.
type Client struct {
	config *Config
	client *mongo.Client
}

// Dial creates an instance of Client and dials the given MongoDB.
func Dial(conf *Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.ParseConnectionTimeout())
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(conf.ConnectionURI).
		SetRegistry(NewRegistry())

	if conf.MonitoringEnabled {
		threshold, err := conf.ParseSlowQueryThreshold()
		if err != nil {
			return nil, err
		}

		monitor := NewQueryMonitor(&MonitorConfig{
			Enabled:            conf.MonitoringEnabled,
			SlowQueryThreshold: threshold,
		})

		clientOptions.SetMonitor(monitor.CreateCommandMonitor())
	}

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	pingTimeout := conf.ParsePingTimeout()
	ctxPing, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	if err := ensureIndexes(ctx, client.Database(conf.Database)); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logging.DefaultLogger().Infof("MongoDB connected, URI: %s, DB: %s", conf.ConnectionURI, conf.Database)

	return &Client{
		config: conf,
		client: client,
	}, nil
}

// Close all resources of this client.
func (c *Client) Close() error {
	if err := c.client.Disconnect(context.Background()); err != nil {
		return fmt.Errorf("close mongo client: %w", err)
	}

	return nil
}

// CreateUserInfo creates a new user.
func (c *Client) CreateUserInfo(
	ctx context.Context,
	username string,
	email string,
	hashedPassword string,
	verificationToken string,
) (*database.UserInfo, error) {
	info := database.NewUserInfo(username, email, hashedPassword, verificationToken)
	info.ID = newID()
	if _, err := c.collection(ColUsers).InsertOne(ctx, info); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("create user %s: %w", username, database.ErrUserAlreadyExists)
		}

		return nil, fmt.Errorf("create user info: %w", err)
	}

	return info, nil
}

// FindUserInfoByID finds a user by the given ID.
func (c *Client) FindUserInfoByID(ctx context.Context, id types.ID) (*database.UserInfo, error) {
	return c.findUser(ctx, bson.M{"_id": id}, id.String())
}

// FindUserInfoByName finds a user by the given username.
func (c *Client) FindUserInfoByName(ctx context.Context, username string) (*database.UserInfo, error) {
	return c.findUser(ctx, bson.M{"username": username}, username)
}

// FindUserInfosByIDs returns the users of the given IDs in the given order.
func (c *Client) FindUserInfosByIDs(ctx context.Context, ids []types.ID) ([]*database.UserInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := c.collection(ColUsers).Find(ctx, bson.M{
		"_id": bson.M{"$in": ids},
	})
	if err != nil {
		return nil, fmt.Errorf("find user infos: %w", err)
	}

	var found []*database.UserInfo
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("fetch user infos: %w", err)
	}

	byID := make(map[types.ID]*database.UserInfo, len(found))
	for _, info := range found {
		byID[info.ID] = info
	}

	var infos []*database.UserInfo
	for _, id := range ids {
		if info, ok := byID[id]; ok {
			infos = append(infos, info)
		}
	}

	return infos, nil
}

// SearchUserInfos returns the users whose username contains the query.
func (c *Client) SearchUserInfos(
	ctx context.Context,
	query string,
	limit int,
) ([]*database.UserInfo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := c.collection(ColUsers).Find(ctx, bson.M{
		"username": containsIgnoreCase(query),
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("search user infos: %w", err)
	}

	var infos []*database.UserInfo
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("fetch user infos: %w", err)
	}

	return infos, nil
}

// UpdateUserProfile updates the profile of the user.
func (c *Client) UpdateUserProfile(
	ctx context.Context,
	id types.ID,
	fields *types.UpdatableUserFields,
) (*database.UserInfo, error) {
	updatable := bson.M{}
	if fields.DisplayName != nil {
		updatable["profile.display_name"] = *fields.DisplayName
	}
	if fields.Bio != nil {
		updatable["profile.bio"] = *fields.Bio
	}
	if fields.AvatarURL != nil {
		updatable["profile.avatar_url"] = *fields.AvatarURL
	}
	if len(updatable) == 0 {
		return c.FindUserInfoByID(ctx, id)
	}

	result := c.collection(ColUsers).FindOneAndUpdate(ctx, bson.M{
		"_id": id,
	}, bson.M{
		"$set": updatable,
	}, returnAfterUpdate)

	info := database.UserInfo{}
	if err := result.Decode(&info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("update user %s: %w", id, database.ErrUserNotFound)
		}
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &info, nil
}

// VerifyUserInfo marks the user waiting for the token as verified.
func (c *Client) VerifyUserInfo(ctx context.Context, token string) (*database.UserInfo, error) {
	if token == "" {
		return nil, fmt.Errorf("verify user: %w", database.ErrInvalidVerificationToken)
	}

	result := c.collection(ColUsers).FindOneAndUpdate(ctx, bson.M{
		"verification_token": token,
	}, bson.M{
		"$set": bson.M{
			"verified":           true,
			"verification_token": "",
			"verified_at":        gotime.Now(),
		},
	}, returnAfterUpdate)

	info := database.UserInfo{}
	if err := result.Decode(&info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("verify user: %w", database.ErrInvalidVerificationToken)
		}
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &info, nil
}

// DeleteUserInfo deletes the user and its traces on other users.
func (c *Client) DeleteUserInfo(ctx context.Context, id types.ID) error {
	result, err := c.collection(ColUsers).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("delete user %s: %w", id, database.ErrUserNotFound)
	}

	if _, err := c.collection(ColUsers).UpdateMany(ctx, bson.M{
		"$or": bson.A{
			bson.M{"friends": id},
			bson.M{"friend_requests.user_id": id},
			bson.M{"sent_friend_requests.user_id": id},
		},
	}, bson.M{
		"$pull": bson.M{
			"friends":              id,
			"friend_requests":      bson.M{"user_id": id},
			"sent_friend_requests": bson.M{"user_id": id},
		},
	}); err != nil {
		return fmt.Errorf("remove traces of user %s: %w", id, err)
	}

	return nil
}

// CreateFriendRequest records a pending request from one user to another.
// An answered request between the users is replaced.
func (c *Client) CreateFriendRequest(ctx context.Context, from, to types.ID) error {
	sender, err := c.FindUserInfoByID(ctx, from)
	if err != nil {
		return err
	}
	recipient, err := c.FindUserInfoByID(ctx, to)
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
	if err := c.replaceFriendRequest(ctx, to, "friend_requests", &database.FriendRequestInfo{
		UserID:    from,
		Status:    types.FriendRequestPending,
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("%s and %s: %w", from, to, err)
	}

	if err := c.replaceFriendRequest(ctx, from, "sent_friend_requests", &database.FriendRequestInfo{
		UserID:    to,
		Status:    types.FriendRequestPending,
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("%s and %s: %w", from, to, err)
	}

	return nil
}

// replaceFriendRequest removes the answered request of the same user from
// the field of the owner and pushes the given request. It fails if a
// pending request of the same user remains.
func (c *Client) replaceFriendRequest(
	ctx context.Context,
	owner types.ID,
	field string,
	request *database.FriendRequestInfo,
) error {
	if _, err := c.collection(ColUsers).UpdateOne(ctx, bson.M{
		"_id": owner,
	}, bson.M{
		"$pull": bson.M{field: bson.M{
			"user_id": request.UserID,
			"status":  bson.M{"$ne": types.FriendRequestPending},
		}},
	}); err != nil {
		return fmt.Errorf("pull %s: %w", field, err)
	}

	key := field + ".user_id"
	result, err := c.collection(ColUsers).UpdateOne(ctx, bson.M{
		"_id": owner,
		key:   bson.M{"$ne": request.UserID},
	}, bson.M{
		"$push": bson.M{field: request},
	})
	if err != nil {
		return fmt.Errorf("push %s: %w", field, err)
	}
	if result.MatchedCount == 0 {
		return database.ErrFriendRequestExists
	}

	return nil
}

// UpdateFriendRequestStatus answers the pending request on both sides.
func (c *Client) UpdateFriendRequestStatus(
	ctx context.Context,
	from, to types.ID,
	status types.FriendRequestStatus,
) error {
	result, err := c.collection(ColUsers).UpdateOne(ctx, bson.M{
		"_id": to,
		"friend_requests": bson.M{"$elemMatch": bson.M{
			"user_id": from,
			"status":  types.FriendRequestPending,
		}},
	}, bson.M{
		"$set": bson.M{"friend_requests.$.status": status},
	})
	if err != nil {
		return fmt.Errorf("update friend request %s: %w", to, err)
	}
	if result.MatchedCount == 0 {
		if _, err := c.FindUserInfoByID(ctx, to); err != nil {
			return err
		}
		return fmt.Errorf("%s to %s: %w", from, to, database.ErrFriendRequestNotFound)
	}

	if _, err := c.collection(ColUsers).UpdateOne(ctx, bson.M{
		"_id":                          from,
		"sent_friend_requests.user_id": to,
	}, bson.M{
		"$set": bson.M{"sent_friend_requests.$.status": status},
	}); err != nil {
		return fmt.Errorf("update friend request %s: %w", from, err)
	}

	return nil
}

// AddFriendship makes the two users friends of each other.
func (c *Client) AddFriendship(ctx context.Context, a, b types.ID) error {
	if _, err := c.FindUserInfoByID(ctx, a); err != nil {
		return err
	}
	if _, err := c.FindUserInfoByID(ctx, b); err != nil {
		return err
	}

	for _, pair := range [][2]types.ID{{a, b}, {b, a}} {
		if _, err := c.collection(ColUsers).UpdateOne(ctx, bson.M{
			"_id": pair[0],
		}, bson.M{
			"$addToSet": bson.M{"friends": pair[1]},
		}); err != nil {
			return fmt.Errorf("add friendship %s: %w", pair[0], err)
		}
	}

	return nil
}

// RemoveFriendship removes the friendship of the two users.
func (c *Client) RemoveFriendship(ctx context.Context, a, b types.ID) error {
	result, err := c.collection(ColUsers).UpdateOne(ctx, bson.M{
		"_id":     a,
		"friends": b,
	}, bson.M{
		"$pull": bson.M{"friends": b},
	})
	if err != nil {
		return fmt.Errorf("remove friendship %s: %w", a, err)
	}
	if result.MatchedCount == 0 {
		if _, err := c.FindUserInfoByID(ctx, a); err != nil {
			return err
		}
		return fmt.Errorf("%s and %s: %w", a, b, database.ErrFriendNotFound)
	}

	if _, err := c.collection(ColUsers).UpdateOne(ctx, bson.M{
		"_id": b,
	}, bson.M{
		"$pull": bson.M{"friends": a},
	}); err != nil {
		return fmt.Errorf("remove friendship %s: %w", b, err)
	}

	return nil
}

// CreateProjectInfo creates a new project.
func (c *Client) CreateProjectInfo(
	ctx context.Context,
	owner types.ID,
	fields *types.ProjectFields,
) (*database.ProjectInfo, error) {
	info := database.NewProjectInfo(owner, fields)
	info.ID = newID()
	if _, err := c.collection(ColProjects).InsertOne(ctx, info); err != nil {
		return nil, fmt.Errorf("create project info: %w", err)
	}

	return info, nil
}

// FindProjectInfoByID returns a project by the given id.
func (c *Client) FindProjectInfoByID(ctx context.Context, id types.ID) (*database.ProjectInfo, error) {
	result := c.collection(ColProjects).FindOne(ctx, bson.M{"_id": id})

	info := database.ProjectInfo{}
	if err := result.Decode(&info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("find project %s: %w", id, database.ErrProjectNotFound)
		}
		return nil, fmt.Errorf("decode project info: %w", err)
	}

	return &info, nil
}

// ListProjectInfosByMember returns the projects of the member.
func (c *Client) ListProjectInfosByMember(
	ctx context.Context,
	userID types.ID,
) ([]*database.ProjectInfo, error) {
	return c.findProjects(ctx, bson.M{
		"$or": bson.A{
			bson.M{"owner": userID},
			bson.M{"members.user_id": userID},
		},
	}, 0)
}

// SearchProjectInfos returns the projects whose name contains the query or
// whose tags contain the query without the leading '#'.
func (c *Client) SearchProjectInfos(
	ctx context.Context,
	query string,
	limit int,
) ([]*database.ProjectInfo, error) {
	query = strings.TrimSpace(query)
	return c.findProjects(ctx, bson.M{
		"$or": bson.A{
			bson.M{"name": containsIgnoreCase(query)},
			bson.M{"tags": strings.TrimPrefix(query, "#")},
		},
	}, limit)
}

func (c *Client) findProjects(
	ctx context.Context,
	filter bson.M,
	limit int,
) ([]*database.ProjectInfo, error) {
	opts := options.Find().SetSort(recentlyActive)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := c.collection(ColProjects).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find project infos: %w", err)
	}

	var infos []*database.ProjectInfo
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("fetch project infos: %w", err)
	}

	return infos, nil
}

// UpdateProjectInfo updates the given project.
func (c *Client) UpdateProjectInfo(
	ctx context.Context,
	id types.ID,
	fields *types.UpdatableProjectFields,
) (*database.ProjectInfo, error) {
	now := gotime.Now()
	updatable := bson.M{
		"updated_at":    now,
		"last_activity": now,
	}
	if fields.Name != nil {
		updatable["name"] = *fields.Name
	}
	if fields.Description != nil {
		updatable["description"] = *fields.Description
	}
	if fields.Tags != nil {
		updatable["tags"] = types.NormalizeHashtags(*fields.Tags)
	}

	return c.updateProject(ctx, bson.M{"_id": id}, bson.M{"$set": updatable}, func() error {
		return fmt.Errorf("update project %s: %w", id, database.ErrProjectNotFound)
	})
}

// DeleteProjectInfo deletes the project and everything that belongs to it.
func (c *Client) DeleteProjectInfo(ctx context.Context, id types.ID) (*database.DeletedCounts, error) {
	result, err := c.collection(ColProjects).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("delete project %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return nil, fmt.Errorf("delete project %s: %w", id, database.ErrProjectNotFound)
	}

	counts := &database.DeletedCounts{}
	for _, target := range []struct {
		collection string
		count      *int64
	}{
		{ColCheckIns, &counts.CheckIns},
		{ColNotifications, &counts.Notifications},
		{ColActivities, &counts.Activities},
		{ColDiscussions, &counts.Discussions},
	} {
		deleted, err := c.collection(target.collection).DeleteMany(ctx, bson.M{"project_id": id})
		if err != nil {
			return nil, fmt.Errorf("delete %s of %s: %w", target.collection, id, err)
		}
		*target.count = deleted.DeletedCount
	}

	return counts, nil
}

// AddProjectMember adds the user to the project.
func (c *Client) AddProjectMember(
	ctx context.Context,
	projectID types.ID,
	userID types.ID,
	role types.Role,
	addedBy types.ID,
) (*database.ProjectInfo, error) {
	now := gotime.Now()
	return c.updateProject(ctx, bson.M{
		"_id":             projectID,
		"owner":           bson.M{"$ne": userID},
		"members.user_id": bson.M{"$ne": userID},
	}, bson.M{
		"$push": bson.M{"members": &database.MemberInfo{
			UserID:  userID,
			Role:    role,
			AddedBy: addedBy,
			AddedAt: now,
		}},
		"$set": bson.M{"updated_at": now},
	}, func() error {
		if _, err := c.FindProjectInfoByID(ctx, projectID); err != nil {
			return err
		}
		return fmt.Errorf("%s in %s: %w", userID, projectID, database.ErrMemberAlreadyExists)
	})
}

// UpdateProjectMemberRole changes the role of the member.
func (c *Client) UpdateProjectMemberRole(
	ctx context.Context,
	projectID types.ID,
	userID types.ID,
	role types.Role,
) (*database.ProjectInfo, error) {
	return c.updateProject(ctx, bson.M{
		"_id":             projectID,
		"members.user_id": userID,
	}, bson.M{
		"$set": bson.M{
			"members.$.role": role,
			"updated_at":     gotime.Now(),
		},
	}, c.memberNotFound(ctx, projectID, userID))
}

// RemoveProjectMember removes the member from the project.
func (c *Client) RemoveProjectMember(
	ctx context.Context,
	projectID types.ID,
	userID types.ID,
) (*database.ProjectInfo, error) {
	return c.updateProject(ctx, bson.M{
		"_id":             projectID,
		"members.user_id": userID,
	}, bson.M{
		"$pull": bson.M{"members": bson.M{"user_id": userID}},
		"$set":  bson.M{"updated_at": gotime.Now()},
	}, c.memberNotFound(ctx, projectID, userID))
}

func (c *Client) memberNotFound(ctx context.Context, projectID, userID types.ID) func() error {
	return func() error {
		if _, err := c.FindProjectInfoByID(ctx, projectID); err != nil {
			return err
		}
		return fmt.Errorf("%s in %s: %w", userID, projectID, database.ErrMemberNotFound)
	}
}

// CheckoutProject acquires the lock of the project if no one holds it. The
// filter and the update run as one atomic findAndModify.
func (c *Client) CheckoutProject(
	ctx context.Context,
	projectID types.ID,
	userID types.ID,
) (*database.ProjectInfo, error) {
	now := gotime.Now()
	return c.updateProject(ctx, bson.M{
		"_id":            projectID,
		"checked_out_by": nil,
	}, bson.M{
		"$set": bson.M{
			"checked_out_by": userID,
			"checked_out_at": now,
			"last_activity":  now,
			"updated_at":     now,
		},
	}, func() error {
		if _, err := c.FindProjectInfoByID(ctx, projectID); err != nil {
			return err
		}
		return fmt.Errorf("%s: %w", projectID, database.ErrProjectAlreadyCheckedOut)
	})
}

// ReleaseProject appends the files and clears the lock if the user holds it.
func (c *Client) ReleaseProject(
	ctx context.Context,
	projectID types.ID,
	userID types.ID,
	files []*database.FileInfo,
) (*database.ProjectInfo, error) {
	notLockHolder := func() error {
		if _, err := c.FindProjectInfoByID(ctx, projectID); err != nil {
			return err
		}
		return fmt.Errorf("%s by %s: %w", projectID, userID, database.ErrNotLockHolder)
	}

	// The empty ID is stored as null, which would match an unlocked project.
	if userID.IsZero() {
		return nil, notLockHolder()
	}
	if files == nil {
		files = []*database.FileInfo{}
	}

	now := gotime.Now()
	return c.updateProject(ctx, bson.M{
		"_id":            projectID,
		"checked_out_by": userID,
	}, bson.M{
		"$push": bson.M{"files": bson.M{"$each": files}},
		"$set": bson.M{
			"checked_out_by": nil,
			"checked_out_at": nil,
			"last_activity":  now,
			"updated_at":     now,
		},
	}, notLockHolder)
}

// updateProject applies the update to the project matching the filter and
// returns the updated project. onNoMatch builds the error when nothing
// matches.
func (c *Client) updateProject(
	ctx context.Context,
	filter bson.M,
	update bson.M,
	onNoMatch func() error,
) (*database.ProjectInfo, error) {
	result := c.collection(ColProjects).FindOneAndUpdate(ctx, filter, update, returnAfterUpdate)

	info := database.ProjectInfo{}
	if err := result.Decode(&info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, onNoMatch()
		}
		return nil, fmt.Errorf("decode project info: %w", err)
	}

	return &info, nil
}

// CreateCheckInInfo records a new check-in.
func (c *Client) CreateCheckInInfo(
	ctx context.Context,
	info *database.CheckInInfo,
) (*database.CheckInInfo, error) {
	info = info.DeepCopy()
	info.ID = newID()
	if info.CreatedAt.IsZero() {
		info.CreatedAt = gotime.Now()
	}
	if info.Files == nil {
		info.Files = []*database.FileInfo{}
	}
	if info.Hashtags == nil {
		info.Hashtags = []string{}
	}

	if _, err := c.collection(ColCheckIns).InsertOne(ctx, info); err != nil {
		return nil, fmt.Errorf("create check-in: %w", err)
	}

	return info, nil
}

// ListCheckInInfos returns the check-ins of the project, the newest first.
func (c *Client) ListCheckInInfos(
	ctx context.Context,
	projectID types.ID,
	limit int,
) ([]*database.CheckInInfo, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := c.collection(ColCheckIns).Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list check-ins of %s: %w", projectID, err)
	}

	var infos []*database.CheckInInfo
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("fetch check-ins of %s: %w", projectID, err)
	}

	return infos, nil
}

// FindCheckInInfo returns the check-in of the project.
func (c *Client) FindCheckInInfo(
	ctx context.Context,
	projectID types.ID,
	id types.ID,
) (*database.CheckInInfo, error) {
	result := c.collection(ColCheckIns).FindOne(ctx, bson.M{
		"_id":        id,
		"project_id": projectID,
	})

	info := database.CheckInInfo{}
	if err := result.Decode(&info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("find check-in %s: %w", id, database.ErrCheckInNotFound)
		}
		return nil, fmt.Errorf("decode check-in: %w", err)
	}

	return &info, nil
}

// DeleteCheckInInfo deletes the check-in.
func (c *Client) DeleteCheckInInfo(ctx context.Context, id types.ID) error {
	result, err := c.collection(ColCheckIns).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete check-in %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("delete check-in %s: %w", id, database.ErrCheckInNotFound)
	}

	return nil
}

// CreateNotificationInfo creates a new notification.
func (c *Client) CreateNotificationInfo(
	ctx context.Context,
	info *database.NotificationInfo,
) (*database.NotificationInfo, error) {
	info = info.DeepCopy()
	info.ID = newID()
	if info.CreatedAt.IsZero() {
		info.CreatedAt = gotime.Now()
	}

	if _, err := c.collection(ColNotifications).InsertOne(ctx, info); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	return info, nil
}

// ListNotificationInfos returns the notifications of the recipient.
func (c *Client) ListNotificationInfos(
	ctx context.Context,
	recipient types.ID,
	unreadOnly bool,
	limit int,
) ([]*database.NotificationInfo, error) {
	filter := bson.M{"recipient": recipient}
	if unreadOnly {
		filter["read"] = false
	}

	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := c.collection(ColNotifications).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications of %s: %w", recipient, err)
	}

	var infos []*database.NotificationInfo
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("fetch notifications of %s: %w", recipient, err)
	}

	return infos, nil
}

// CountUnreadNotifications returns the number of unread notifications.
func (c *Client) CountUnreadNotifications(ctx context.Context, recipient types.ID) (int64, error) {
	count, err := c.collection(ColNotifications).CountDocuments(ctx, bson.M{
		"recipient": recipient,
		"read":      false,
	})
	if err != nil {
		return 0, fmt.Errorf("count notifications of %s: %w", recipient, err)
	}

	return count, nil
}

// MarkNotificationRead marks the notification of the recipient as read.
func (c *Client) MarkNotificationRead(ctx context.Context, recipient, id types.ID) error {
	result, err := c.collection(ColNotifications).UpdateOne(ctx, bson.M{
		"_id":       id,
		"recipient": recipient,
	}, bson.M{
		"$set": bson.M{"read": true},
	})
	if err != nil {
		return fmt.Errorf("mark notification %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("find notification %s: %w", id, database.ErrNotificationNotFound)
	}

	return nil
}

// MarkAllNotificationsRead marks every notification of the recipient as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, recipient types.ID) (int64, error) {
	result, err := c.collection(ColNotifications).UpdateMany(ctx, bson.M{
		"recipient": recipient,
		"read":      false,
	}, bson.M{
		"$set": bson.M{"read": true},
	})
	if err != nil {
		return 0, fmt.Errorf("mark notifications of %s: %w", recipient, err)
	}

	return result.ModifiedCount, nil
}

// DeleteNotificationInfo deletes the notification of the recipient.
func (c *Client) DeleteNotificationInfo(ctx context.Context, recipient, id types.ID) error {
	result, err := c.collection(ColNotifications).DeleteOne(ctx, bson.M{
		"_id":       id,
		"recipient": recipient,
	})
	if err != nil {
		return fmt.Errorf("delete notification %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("find notification %s: %w", id, database.ErrNotificationNotFound)
	}

	return nil
}

// PurgeReadNotifications deletes the read notifications created before the
// given time.
func (c *Client) PurgeReadNotifications(ctx context.Context, before gotime.Time) (int64, error) {
	result, err := c.collection(ColNotifications).DeleteMany(ctx, bson.M{
		"read":       true,
		"created_at": bson.M{"$lt": before},
	})
	if err != nil {
		return 0, fmt.Errorf("purge notifications before %s: %w", before, err)
	}

	return result.DeletedCount, nil
}

// CreateActivityInfo appends a new activity.
func (c *Client) CreateActivityInfo(
	ctx context.Context,
	info *database.ActivityInfo,
) (*database.ActivityInfo, error) {
	info = info.DeepCopy()
	info.ID = newID()
	if info.CreatedAt.IsZero() {
		info.CreatedAt = gotime.Now()
	}
	// $addToSet fails on a null array.
	if info.ReadBy == nil {
		info.ReadBy = []types.ID{}
	}

	if _, err := c.collection(ColActivities).InsertOne(ctx, info); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}

	return info, nil
}

// ListActivityInfos returns the activities selected by the filter.
func (c *Client) ListActivityInfos(
	ctx context.Context,
	filter database.ActivityFilter,
) ([]*database.ActivityInfo, error) {
	query := bson.M{}
	if filter.Global {
		query["is_global"] = true
	}
	if len(filter.Actors) > 0 {
		query["actor"] = bson.M{"$in": filter.Actors}
	}
	if !filter.ProjectID.IsZero() {
		query["project_id"] = filter.ProjectID
	}

	opts := options.Find().SetSort(newestFirst)
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := c.collection(ColActivities).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	var infos []*database.ActivityInfo
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}

	return infos, nil
}

// MarkActivityRead adds the user to the readers of the activity once.
func (c *Client) MarkActivityRead(ctx context.Context, id, userID types.ID) error {
	result, err := c.collection(ColActivities).UpdateOne(ctx, bson.M{
		"_id": id,
	}, bson.M{
		"$addToSet": bson.M{"read_by": userID},
	})
	if err != nil {
		return fmt.Errorf("mark activity %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("find activity %s: %w", id, database.ErrActivityNotFound)
	}

	return nil
}

// CreateDiscussionInfo opens a new discussion.
func (c *Client) CreateDiscussionInfo(
	ctx context.Context,
	info *database.DiscussionInfo,
) (*database.DiscussionInfo, error) {
	now := gotime.Now()
	info = info.DeepCopy()
	info.ID = newID()
	info.CreatedAt = now
	info.UpdatedAt = now
	if info.Comments == nil {
		info.Comments = []*database.CommentInfo{}
	}

	if _, err := c.collection(ColDiscussions).InsertOne(ctx, info); err != nil {
		return nil, fmt.Errorf("create discussion: %w", err)
	}

	return info, nil
}

// FindDiscussionInfo returns the discussion of the project.
func (c *Client) FindDiscussionInfo(
	ctx context.Context,
	projectID types.ID,
	id types.ID,
) (*database.DiscussionInfo, error) {
	result := c.collection(ColDiscussions).FindOne(ctx, bson.M{
		"_id":        id,
		"project_id": projectID,
	})

	info := database.DiscussionInfo{}
	if err := result.Decode(&info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("find discussion %s: %w", id, database.ErrDiscussionNotFound)
		}
		return nil, fmt.Errorf("decode discussion: %w", err)
	}

	return &info, nil
}

// ListDiscussionInfos returns the discussions of the project.
func (c *Client) ListDiscussionInfos(
	ctx context.Context,
	projectID types.ID,
) ([]*database.DiscussionInfo, error) {
	cursor, err := c.collection(ColDiscussions).Find(ctx, bson.M{
		"project_id": projectID,
	}, options.Find().SetSort(recentlyUpdated))
	if err != nil {
		return nil, fmt.Errorf("list discussions of %s: %w", projectID, err)
	}

	var infos []*database.DiscussionInfo
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("fetch discussions of %s: %w", projectID, err)
	}

	return infos, nil
}

// AddDiscussionComment appends a comment to the discussion.
func (c *Client) AddDiscussionComment(
	ctx context.Context,
	projectID types.ID,
	id types.ID,
	author types.ID,
	content string,
) (*database.DiscussionInfo, *database.CommentInfo, error) {
	now := gotime.Now()
	comment := &database.CommentInfo{
		ID:        newID(),
		Author:    author,
		Content:   content,
		CreatedAt: now,
	}

	info, err := c.updateDiscussion(ctx, bson.M{
		"_id":        id,
		"project_id": projectID,
	}, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updated_at": now},
	}, func() error {
		return fmt.Errorf("find discussion %s: %w", id, database.ErrDiscussionNotFound)
	})
	if err != nil {
		return nil, nil, err
	}

	return info, comment, nil
}

// SetDiscussionSolution accepts the comment as the solution.
func (c *Client) SetDiscussionSolution(
	ctx context.Context,
	projectID types.ID,
	id types.ID,
	commentID types.ID,
) (*database.DiscussionInfo, error) {
	return c.updateDiscussion(ctx, bson.M{
		"_id":         id,
		"project_id":  projectID,
		"comments.id": commentID,
	}, bson.M{
		"$set": bson.M{
			"solution_comment_id": commentID,
			"updated_at":          gotime.Now(),
		},
	}, func() error {
		if _, err := c.FindDiscussionInfo(ctx, projectID, id); err != nil {
			return err
		}
		return fmt.Errorf("%s in %s: %w", commentID, id, database.ErrCommentNotFound)
	})
}

func (c *Client) updateDiscussion(
	ctx context.Context,
	filter bson.M,
	update bson.M,
	onNoMatch func() error,
) (*database.DiscussionInfo, error) {
	result := c.collection(ColDiscussions).FindOneAndUpdate(ctx, filter, update, returnAfterUpdate)

	info := database.DiscussionInfo{}
	if err := result.Decode(&info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, onNoMatch()
		}
		return nil, fmt.Errorf("decode discussion: %w", err)
	}

	return &info, nil
}

func (c *Client) findUser(ctx context.Context, filter bson.M, key string) (*database.UserInfo, error) {
	result := c.collection(ColUsers).FindOne(ctx, filter)

	info := database.UserInfo{}
	if err := result.Decode(&info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("find user %s: %w", key, database.ErrUserNotFound)
		}
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &info, nil
}

func (c *Client) collection(
	name string,
	opts ...options.Lister[options.CollectionOptions],
) *mongo.Collection {
	return c.client.
		Database(c.config.Database).
		Collection(name, opts...)
}

// containsIgnoreCase returns a filter that matches strings containing the
// query regardless of case.
func containsIgnoreCase(query string) bson.M {
	return bson.M{
		"$regex":   regexp.QuoteMeta(query),
		"$options": "i",
	}
}

func isPending(request *database.FriendRequestInfo) bool {
	return request != nil && request.Status == types.FriendRequestPending
}

func newID() types.ID {
	return types.ID(bson.NewObjectID().Hex())
}
