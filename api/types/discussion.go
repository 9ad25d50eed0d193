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

import "time"

// Discussion is a thread in a project.
type Discussion struct {
	ID                ID         `json:"id"`
	ProjectID         ID         `json:"project_id"`
	Author            ID         `json:"author"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	Comments          []*Comment `json:"comments"`
	SolutionCommentID ID         `json:"solution_comment_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// IsSolved returns whether a comment was accepted as the solution.
func (d *Discussion) IsSolved() bool {
	return !d.SolutionCommentID.IsZero()
}

// Comment is a comment of a discussion.
type Comment struct {
	ID        ID        `json:"id"`
	Author    ID        `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
