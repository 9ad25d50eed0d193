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

package discussions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server/authz"
	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/discussions"
	"github.com/syncsphere/syncsphere/test/helper"
)

func TestDiscussions(t *testing.T) {
	ctx := context.Background()

	t.Run("create discussion test", func(t *testing.T) {
		be := helper.TestBackend(t)
		owner := helper.CreateUser(t, be, "owner")
		member := helper.CreateUser(t, be, "member")
		stranger := helper.CreateUser(t, be, "stranger")
		project := helper.CreateProject(t, be, owner.ID, "team")
		helper.AddMember(t, be, project, member.ID, types.RoleMember)

		discussion, err := discussions.Create(ctx, be, member.ID, project.ID, &types.DiscussionFields{
			Title:   "<b>Build</b> fails",
			Content: `see <a href="https://example.com/log">log</a><script>alert(1)</script>`,
		})
		assert.NoError(t, err)
		assert.Equal(t, "Build fails", discussion.Title)
		assert.NotContains(t, discussion.Content, "script")
		assert.Contains(t, discussion.Content, "https://example.com/log")
		assert.Contains(t, discussion.Content, "nofollow")
		assert.False(t, discussion.IsSolved())

		infos, err := be.DB.ListNotificationInfos(ctx, owner.ID, false, 0)
		assert.NoError(t, err)
		assert.Len(t, infos, 1)
		assert.Equal(t, types.NotificationDiscussionCreated, infos[0].Type)
		assert.Equal(t, 0, helper.CountNotifications(t, be, member.ID))

		_, err = discussions.Create(ctx, be, stranger.ID, project.ID, &types.DiscussionFields{Title: "hi"})
		assert.ErrorIs(t, err, authz.ErrNotProjectMember)

		_, err = discussions.Create(ctx, be, member.ID, project.ID, &types.DiscussionFields{
			Title: "<script>x</script>",
		})
		assert.ErrorIs(t, err, discussions.ErrEmptyTitle)

		_, err = discussions.Create(ctx, be, member.ID, project.ID, &types.DiscussionFields{})
		assert.ErrorIs(t, err, types.ErrInvalidFields)

		list, err := discussions.List(ctx, be, owner.ID, project.ID)
		assert.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("comment and solution test", func(t *testing.T) {
		be := helper.TestBackend(t)
		owner := helper.CreateUser(t, be, "owner")
		author := helper.CreateUser(t, be, "author")
		helperUser := helper.CreateUser(t, be, "helper")
		project := helper.CreateProject(t, be, owner.ID, "team")
		helper.AddMember(t, be, project, author.ID, types.RoleMember)
		helper.AddMember(t, be, project, helperUser.ID, types.RoleMember)

		discussion, err := discussions.Create(ctx, be, author.ID, project.ID, &types.DiscussionFields{
			Title: "How to build?",
		})
		assert.NoError(t, err)

		_, err = discussions.Comment(ctx, be, author.ID, project.ID, discussion.ID, &types.CommentFields{
			Content: "anyone?",
		})
		assert.NoError(t, err)
		assert.Equal(t, 0, helper.CountNotifications(t, be, author.ID))

		comment, err := discussions.Comment(ctx, be, helperUser.ID, project.ID, discussion.ID, &types.CommentFields{
			Content: "run make",
		})
		assert.NoError(t, err)
		assert.Equal(t, helperUser.ID, comment.Author)
		assert.Equal(t, 1, helper.CountNotifications(t, be, author.ID))

		_, err = discussions.Comment(ctx, be, helperUser.ID, project.ID, discussion.ID, &types.CommentFields{
			Content: "<script>x</script>",
		})
		assert.ErrorIs(t, err, discussions.ErrEmptyComment)

		_, err = discussions.MarkSolution(ctx, be, helperUser.ID, project.ID, discussion.ID, comment.ID)
		assert.ErrorIs(t, err, authz.ErrInsufficientPermission)

		_, err = discussions.MarkSolution(ctx, be, author.ID, project.ID, discussion.ID, "000000000000000000000000")
		assert.ErrorIs(t, err, database.ErrCommentNotFound)

		solved, err := discussions.MarkSolution(ctx, be, author.ID, project.ID, discussion.ID, comment.ID)
		assert.NoError(t, err)
		assert.True(t, solved.IsSolved())
		assert.Equal(t, comment.ID, solved.SolutionCommentID)

		infos, err := be.DB.ListNotificationInfos(ctx, helperUser.ID, false, 0)
		assert.NoError(t, err)
		var received []types.NotificationType
		for _, info := range infos {
			received = append(received, info.Type)
		}
		assert.Contains(t, received, types.NotificationDiscussionSolution)

		found, err := discussions.Get(ctx, be, owner.ID, project.ID, discussion.ID)
		assert.NoError(t, err)
		assert.Len(t, found.Comments, 2)
		assert.Equal(t, comment.ID, found.SolutionCommentID)

		_, err = discussions.MarkSolution(ctx, be, owner.ID, project.ID, discussion.ID, comment.ID)
		assert.NoError(t, err)
	})

	t.Run("unknown discussion test", func(t *testing.T) {
		be := helper.TestBackend(t)
		owner := helper.CreateUser(t, be, "owner")
		project := helper.CreateProject(t, be, owner.ID, "team")

		_, err := discussions.Get(ctx, be, owner.ID, project.ID, "000000000000000000000000")
		assert.ErrorIs(t, err, database.ErrDiscussionNotFound)

		_, err = discussions.Comment(ctx, be, owner.ID, project.ID, "000000000000000000000000", &types.CommentFields{
			Content: "hello",
		})
		assert.ErrorIs(t, err, database.ErrDiscussionNotFound)
	})
}
