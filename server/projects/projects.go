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

// Package projects provides the project related business logic.
package projects

import (
	"context"
	"fmt"
	"io"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/pkg/errors"
	"github.com/syncsphere/syncsphere/server/activities"
	"github.com/syncsphere/syncsphere/server/authz"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/backend/hooks"
	"github.com/syncsphere/syncsphere/server/logging"
)

// ErrFileNotFound is returned when the file was not checked in to the project.
var ErrFileNotFound = errors.NotFound("file not found").WithCode("ErrFileNotFound")

// DefaultSearchLimit is the number of projects returned by a search when no
// limit is given.
const DefaultSearchLimit = 20

// CreateProject creates a project. The owner becomes a member with the
// owner role.
func CreateProject(
	ctx context.Context,
	be *backend.Backend,
	owner types.ID,
	fields *types.ProjectFields,
) (*types.Project, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	info, err := be.DB.CreateProjectInfo(ctx, owner, fields)
	if err != nil {
		return nil, err
	}

	var list hooks.List
	list.Add("project_created_activity", func(ctx context.Context) error {
		_, err := activities.Record(ctx, be, &database.ActivityInfo{
			Actor:     owner,
			Type:      types.ActivityProjectCreated,
			ProjectID: info.ID,
			Data:      map[string]string{"name": info.Name},
			IsGlobal:  true,
		})
		return err
	})
	be.RunHooks(ctx, list)

	return info.ToProject(), nil
}

// GetProject returns the project. Only members can read it.
func GetProject(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	id types.ID,
) (*types.Project, error) {
	info, err := authz.CheckPermission(ctx, be, userID, id, types.RoleMember)
	if err != nil {
		return nil, err
	}

	return info.ToProject(), nil
}

// ListProjects lists the projects of the user, the most recently active
// first.
func ListProjects(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
) ([]*types.Project, error) {
	infos, err := be.DB.ListProjectInfosByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	return toProjects(infos), nil
}

// SearchProjects returns the projects whose name or tags contain the query.
func SearchProjects(
	ctx context.Context,
	be *backend.Backend,
	query string,
	limit int,
) ([]*types.Project, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	infos, err := be.DB.SearchProjectInfos(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	return toProjects(infos), nil
}

// UpdateProject updates the project. Only admins and the owner can update
// it.
func UpdateProject(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	id types.ID,
	fields *types.UpdatableProjectFields,
) (*types.Project, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	if _, err := authz.CheckPermission(ctx, be, userID, id, types.RoleAdmin); err != nil {
		return nil, err
	}

	info, err := be.DB.UpdateProjectInfo(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	var list hooks.List
	list.Add("project_updated_activity", func(ctx context.Context) error {
		_, err := activities.Record(ctx, be, &database.ActivityInfo{
			Actor:     userID,
			Type:      types.ActivityProjectUpdated,
			ProjectID: info.ID,
			Data:      map[string]string{"name": info.Name},
		})
		return err
	})
	be.RunHooks(ctx, list)

	return info.ToProject(), nil
}

// DeleteProject deletes the project with its check-ins, notifications,
// activities, discussions and files. Only the owner can delete it.
func DeleteProject(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	id types.ID,
) (*database.DeletedCounts, error) {
	if _, err := authz.CheckPermission(ctx, be, userID, id, types.RoleOwner); err != nil {
		return nil, err
	}

	counts, err := be.DB.DeleteProjectInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	be.RecordCascade(ctx, counts)

	// NOTE: The documents are gone, so leftover files are unreachable and
	// only logged.
	if err := be.Storage.DeleteProject(id); err != nil {
		logging.From(ctx).Warnf("delete files of project %s: %v", id, err)
	}

	return counts, nil
}

// OpenFile opens a file checked in to the project. Only members can read
// it.
func OpenFile(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	id types.ID,
	path string,
) (*types.File, io.ReadCloser, error) {
	info, err := authz.CheckPermission(ctx, be, userID, id, types.RoleMember)
	if err != nil {
		return nil, nil, err
	}

	for _, file := range info.Files {
		if file.Path != path {
			continue
		}

		r, err := be.Storage.Open(file.Path)
		if err != nil {
			return nil, nil, err
		}
		return file.ToFile(), r, nil
	}

	return nil, nil, fmt.Errorf("%s in %s: %w", path, id, ErrFileNotFound)
}

func toProjects(infos []*database.ProjectInfo) []*types.Project {
	projects := make([]*types.Project, 0, len(infos))
	for _, info := range infos {
		projects = append(projects, info.ToProject())
	}
	return projects
}
