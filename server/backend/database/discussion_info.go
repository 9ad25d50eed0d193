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

package database

import (
	"time"

	"github.com/syncsphere/syncsphere/api/types"
)

// DiscussionInfo is a struct for discussion information.
type DiscussionInfo struct {
	ID                types.ID       `bson:"_id"`
	ProjectID         types.ID       `bson:"project_id"`
	Author            types.ID       `bson:"author"`
	Title             string         `bson:"title"`
	Content           string         `bson:"content"`
	Comments          []*CommentInfo `bson:"comments"`
	SolutionCommentID types.ID       `bson:"solution_comment_id"`
	CreatedAt         time.Time      `bson:"created_at"`
	UpdatedAt         time.Time      `bson:"updated_at"`
}

// CommentInfo is a comment of a discussion.
type CommentInfo struct {
	ID        types.ID  `bson:"id"`
	Author    types.ID  `bson:"author"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"created_at"`
}

// FindComment returns the comment of the given ID or nil.
func (i *DiscussionInfo) FindComment(id types.ID) *CommentInfo {
	for _, c := range i.Comments {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// DeepCopy returns a deep copy of the DiscussionInfo.
func (i *DiscussionInfo) DeepCopy() *DiscussionInfo {
	if i == nil {
		return nil
	}

	comments := make([]*CommentInfo, 0, len(i.Comments))
	for _, c := range i.Comments {
		clone := *c
		comments = append(comments, &clone)
	}

	return &DiscussionInfo{
		ID:                i.ID,
		ProjectID:         i.ProjectID,
		Author:            i.Author,
		Title:             i.Title,
		Content:           i.Content,
		Comments:          comments,
		SolutionCommentID: i.SolutionCommentID,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

// ToDiscussion converts the DiscussionInfo to the Discussion.
func (i *DiscussionInfo) ToDiscussion() *types.Discussion {
	comments := make([]*types.Comment, 0, len(i.Comments))
	for _, c := range i.Comments {
		comments = append(comments, c.ToComment())
	}

	return &types.Discussion{
		ID:                i.ID,
		ProjectID:         i.ProjectID,
		Author:            i.Author,
		Title:             i.Title,
		Content:           i.Content,
		Comments:          comments,
		SolutionCommentID: i.SolutionCommentID,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

// ToComment converts the CommentInfo to the Comment.
func (i *CommentInfo) ToComment() *types.Comment {
	return &types.Comment{
		ID:        i.ID,
		Author:    i.Author,
		Content:   i.Content,
		CreatedAt: i.CreatedAt,
	}
}
