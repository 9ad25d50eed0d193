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

// Package activities provides the activity feed related business logic.
package activities

import (
	"context"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server/authz"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/database"
)

// Record appends an activity.
func Record(
	ctx context.Context,
	be *backend.Backend,
	info *database.ActivityInfo,
) (*types.Activity, error) {
	created, err := be.DB.CreateActivityInfo(ctx, info)
	if err != nil {
		return nil, err
	}

	return created.ToActivity(), nil
}

// Feed returns the feed of the user. The global scope lists the global
// activities and the friends scope lists the activities of the user and
// the friends of the user.
func Feed(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	scope types.FeedScope,
	limit int,
) ([]*types.Activity, error) {
	filter := database.ActivityFilter{Limit: feedLimit(be, limit)}

	switch scope {
	case types.FeedScopeFriends:
		user, err := be.DB.FindUserInfoByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		filter.Actors = append([]types.ID{user.ID}, user.Friends...)
	default:
		filter.Global = true
	}

	return list(ctx, be, filter)
}

// ProjectFeed returns the activities of the project. Only members can read
// it.
func ProjectFeed(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	projectID types.ID,
	limit int,
) ([]*types.Activity, error) {
	if _, err := authz.CheckPermission(ctx, be, userID, projectID, types.RoleMember); err != nil {
		return nil, err
	}

	return list(ctx, be, database.ActivityFilter{
		ProjectID: projectID,
		Limit:     feedLimit(be, limit),
	})
}

// MarkRead adds the user to the readers of the activity.
func MarkRead(
	ctx context.Context,
	be *backend.Backend,
	id types.ID,
	userID types.ID,
) error {
	return be.DB.MarkActivityRead(ctx, id, userID)
}

func list(
	ctx context.Context,
	be *backend.Backend,
	filter database.ActivityFilter,
) ([]*types.Activity, error) {
	infos, err := be.DB.ListActivityInfos(ctx, filter)
	if err != nil {
		return nil, err
	}

	activities := make([]*types.Activity, 0, len(infos))
	for _, info := range infos {
		activities = append(activities, info.ToActivity())
	}

	return activities, nil
}

// feedLimit caps the requested limit with the configured feed limit.
func feedLimit(be *backend.Backend, requested int) int {
	if requested <= 0 || requested > be.Config.FeedLimit {
		return be.Config.FeedLimit
	}
	return requested
}
