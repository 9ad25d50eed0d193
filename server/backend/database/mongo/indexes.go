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

package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	// ColProjects represents the projects collection in the database.
	ColProjects = "projects"
	// ColUsers represents the users collection in the database.
	ColUsers = "users"
	// ColCheckIns represents the check-ins collection in the database.
	ColCheckIns = "checkins"
	// ColNotifications represents the notifications collection in the database.
	ColNotifications = "notifications"
	// ColActivities represents the activities collection in the database.
	ColActivities = "activities"
	// ColDiscussions represents the discussions collection in the database.
	ColDiscussions = "discussions"
)

// Collections represents the list of all collections in the database.
var Collections = []string{
	ColProjects,
	ColUsers,
	ColCheckIns,
	ColNotifications,
	ColActivities,
	ColDiscussions,
}

type collectionInfo struct {
	name    string
	indexes []mongo.IndexModel
}

// Below are names and indexes information of Collections that stores SyncSphere data.
var collectionInfos = []collectionInfo{
	{
		name: ColUsers,
		indexes: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "username", Value: int32(1)}},
			Options: options.Index().SetUnique(true),
		}, {
			Keys: bson.D{{Key: "email", Value: int32(1)}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "email", Value: bson.D{{Key: "$gt", Value: ""}}}}),
		}, {
			Keys: bson.D{{Key: "verification_token", Value: int32(1)}},
		}},
	},
	{
		name: ColProjects,
		indexes: []mongo.IndexModel{{
			Keys: bson.D{{Key: "members.user_id", Value: int32(1)}},
		}, {
			Keys: bson.D{
				{Key: "last_activity", Value: int32(-1)},
				{Key: "_id", Value: int32(-1)},
			},
		}, {
			Keys: bson.D{{Key: "tags", Value: int32(1)}},
		}},
	},
	{
		name: ColCheckIns,
		indexes: []mongo.IndexModel{{
			Keys: bson.D{
				{Key: "project_id", Value: int32(1)},
				{Key: "created_at", Value: int32(-1)},
			},
		}},
	},
	{
		name: ColNotifications,
		indexes: []mongo.IndexModel{{
			Keys: bson.D{
				{Key: "recipient", Value: int32(1)},
				{Key: "created_at", Value: int32(-1)},
			},
		}, {
			Keys: bson.D{
				{Key: "recipient", Value: int32(1)},
				{Key: "read", Value: int32(1)},
			},
		}, {
			Keys: bson.D{
				{Key: "read", Value: int32(1)},
				{Key: "created_at", Value: int32(1)},
			},
		}, {
			Keys: bson.D{{Key: "project_id", Value: int32(1)}},
		}},
	},
	{
		name: ColActivities,
		indexes: []mongo.IndexModel{{
			Keys: bson.D{
				{Key: "is_global", Value: int32(1)},
				{Key: "created_at", Value: int32(-1)},
			},
		}, {
			Keys: bson.D{
				{Key: "actor", Value: int32(1)},
				{Key: "created_at", Value: int32(-1)},
			},
		}, {
			Keys: bson.D{{Key: "project_id", Value: int32(1)}},
		}},
	},
	{
		name: ColDiscussions,
		indexes: []mongo.IndexModel{{
			Keys: bson.D{
				{Key: "project_id", Value: int32(1)},
				{Key: "updated_at", Value: int32(-1)},
			},
		}},
	},
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, info := range collectionInfos {
		_, err := db.Collection(info.name).Indexes().CreateMany(ctx, info.indexes)
		if err != nil {
			return fmt.Errorf("create indexes of %s: %w", info.name, err)
		}
	}
	return nil
}
