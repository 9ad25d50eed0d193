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

// Package discussions provides the discussion related business logic.
// Members open discussions in a project, comment on them and accept one
// comment as the solution.
package discussions

import (
	"context"
	"fmt"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/internal/sanitize"
	"github.com/syncsphere/syncsphere/pkg/errors"
	"github.com/syncsphere/syncsphere/server/activities"
	"github.com/syncsphere/syncsphere/server/authz"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/backend/hooks"
	"github.com/syncsphere/syncsphere/server/notifications"
)

var (
	// ErrEmptyTitle is returned when the title is empty after sanitizing.
	ErrEmptyTitle = errors.Validation("title is empty").WithCode("ErrEmptyTitle")

	// ErrEmptyComment is returned when the comment is empty after sanitizing.
	ErrEmptyComment = errors.Validation("comment is empty").WithCode("ErrEmptyComment")
)

// Create opens a discussion in the project. Only members can open one.
func Create(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	projectID types.ID,
	fields *types.DiscussionFields,
) (*types.Discussion, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	title := sanitize.Text(fields.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	project, err := authz.CheckPermission(ctx, be, userID, projectID, types.RoleMember)
	if err != nil {
		return nil, err
	}

	info, err := be.DB.CreateDiscussionInfo(ctx, &database.DiscussionInfo{
		ProjectID: projectID,
		Author:    userID,
		Title:     title,
		Content:   sanitize.Content(fields.Content),
	})
	if err != nil {
		return nil, err
	}

	var list hooks.List
	list.Add("discussion_created_notification", func(ctx context.Context) error {
		_, err := notifications.NotifyMembers(ctx, be, project, notifications.Event{
			Sender:  userID,
			Type:    types.NotificationDiscussionCreated,
			Message: fmt.Sprintf("%s: %s", project.Name, title),
		})
		return err
	})
	list.Add("discussion_created_activity", discussionActivity(be, userID, types.ActivityDiscussionCreated, info, ""))
	be.RunHooks(ctx, list)

	return info.ToDiscussion(), nil
}

// List returns the discussions of the project, the most recently updated
// first. Only members can list them.
func List(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	projectID types.ID,
) ([]*types.Discussion, error) {
	if _, err := authz.CheckPermission(ctx, be, userID, projectID, types.RoleMember); err != nil {
		return nil, err
	}

	infos, err := be.DB.ListDiscussionInfos(ctx, projectID)
	if err != nil {
		return nil, err
	}

	discussions := make([]*types.Discussion, 0, len(infos))
	for _, info := range infos {
		discussions = append(discussions, info.ToDiscussion())
	}
	return discussions, nil
}

// Get returns the discussion of the project. Only members can read it.
func Get(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	projectID types.ID,
	id types.ID,
) (*types.Discussion, error) {
	if _, err := authz.CheckPermission(ctx, be, userID, projectID, types.RoleMember); err != nil {
		return nil, err
	}

	info, err := be.DB.FindDiscussionInfo(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	return info.ToDiscussion(), nil
}

// Comment adds a comment to the discussion. Only members can comment.
func Comment(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	projectID types.ID,
	id types.ID,
	fields *types.CommentFields,
) (*types.Comment, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	content := sanitize.Content(fields.Content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	if _, err := authz.CheckPermission(ctx, be, userID, projectID, types.RoleMember); err != nil {
		return nil, err
	}

	info, comment, err := be.DB.AddDiscussionComment(ctx, projectID, id, userID, content)
	if err != nil {
		return nil, err
	}

	var list hooks.List
	list.Add("discussion_comment_notification", func(ctx context.Context) error {
		return notifications.Notify(ctx, be, info.Author, notifications.Event{
			Sender:    userID,
			Type:      types.NotificationDiscussionComment,
			Message:   fmt.Sprintf("new comment on %s", info.Title),
			ProjectID: projectID,
		})
	})
	list.Add("discussion_commented_activity", discussionActivity(
		be,
		userID,
		types.ActivityDiscussionCommented,
		info,
		comment.ID,
	))
	be.RunHooks(ctx, list)

	return comment.ToComment(), nil
}

// MarkSolution accepts the comment as the solution of the discussion. Only
// the author of the discussion and the admins of the project can accept.
func MarkSolution(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	projectID types.ID,
	id types.ID,
	commentID types.ID,
) (*types.Discussion, error) {
	project, err := authz.CheckPermission(ctx, be, userID, projectID, types.RoleMember)
	if err != nil {
		return nil, err
	}

	discussion, err := be.DB.FindDiscussionInfo(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if discussion.Author != userID && !authz.IsAdmin(project, userID) {
		return nil, fmt.Errorf("mark solution of %s: %w", id, authz.ErrInsufficientPermission)
	}

	info, err := be.DB.SetDiscussionSolution(ctx, projectID, id, commentID)
	if err != nil {
		return nil, err
	}
	comment := info.FindComment(commentID)

	var list hooks.List
	list.Add("discussion_solution_notification", func(ctx context.Context) error {
		return notifications.Notify(ctx, be, comment.Author, notifications.Event{
			Sender:    userID,
			Type:      types.NotificationDiscussionSolution,
			Message:   fmt.Sprintf("your comment was accepted on %s", info.Title),
			ProjectID: projectID,
		})
	})
	list.Add("discussion_solved_activity", discussionActivity(be, userID, types.ActivityDiscussionSolved, info, commentID))
	be.RunHooks(ctx, list)

	return info.ToDiscussion(), nil
}

// discussionActivity returns a hook that records an activity of the
// discussion.
func discussionActivity(
	be *backend.Backend,
	actor types.ID,
	activityType types.ActivityType,
	info *database.DiscussionInfo,
	commentID types.ID,
) func(ctx context.Context) error {
	data := map[string]string{
		"discussion_id": info.ID.String(),
		"title":         info.Title,
	}
	if !commentID.IsZero() {
		data["comment_id"] = commentID.String()
	}

	return func(ctx context.Context) error {
		_, err := activities.Record(ctx, be, &database.ActivityInfo{
			Actor:     actor,
			Type:      activityType,
			ProjectID: info.ProjectID,
			Data:      data,
		})
		return err
	}
}
