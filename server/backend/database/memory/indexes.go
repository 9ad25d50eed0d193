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

package memory

import "github.com/hashicorp/go-memdb"

var (
	tblProjects      = "projects"
	tblUsers         = "users"
	tblCheckIns      = "checkins"
	tblNotifications = "notifications"
	tblActivities    = "activities"
	tblDiscussions   = "discussions"
)

// NOTE: the lock holder is not indexed. StringFieldIndex rejects empty
// values, and the lock is only read through the project ID.
var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tblProjects: {
			Name: tblProjects,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"owner": {
					Name:    "owner",
					Indexer: &memdb.StringFieldIndex{Field: "Owner"},
				},
			},
		},
		tblUsers: {
			Name: tblUsers,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"username": {
					Name:    "username",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Username"},
				},
				"email": {
					Name:         "email",
					Unique:       true,
					AllowMissing: true,
					Indexer:      &memdb.StringFieldIndex{Field: "Email", Lowercase: true},
				},
				"verification_token": {
					Name:         "verification_token",
					AllowMissing: true,
					Indexer:      &memdb.StringFieldIndex{Field: "VerificationToken"},
				},
			},
		},
		tblCheckIns: {
			Name: tblCheckIns,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"project_id": {
					Name:    "project_id",
					Indexer: &memdb.StringFieldIndex{Field: "ProjectID"},
				},
			},
		},
		tblNotifications: {
			Name: tblNotifications,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"recipient": {
					Name:    "recipient",
					Indexer: &memdb.StringFieldIndex{Field: "Recipient"},
				},
				"project_id": {
					Name:         "project_id",
					AllowMissing: true,
					Indexer:      &memdb.StringFieldIndex{Field: "ProjectID"},
				},
			},
		},
		tblActivities: {
			Name: tblActivities,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"project_id": {
					Name:         "project_id",
					AllowMissing: true,
					Indexer:      &memdb.StringFieldIndex{Field: "ProjectID"},
				},
			},
		},
		tblDiscussions: {
			Name: tblDiscussions,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"project_id": {
					Name:    "project_id",
					Indexer: &memdb.StringFieldIndex{Field: "ProjectID"},
				},
			},
		},
	},
}
