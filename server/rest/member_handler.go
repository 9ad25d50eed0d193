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

package rest

import (
	"net/http"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server/activities"
	"github.com/syncsphere/syncsphere/server/discussions"
	"github.com/syncsphere/syncsphere/server/members"
	"github.com/syncsphere/syncsphere/server/users"
)

// AddMemberRequest is the body of adding a member.
type AddMemberRequest struct {
	UserID types.ID `json:"user_id"`
	Role   string   `json:"role"`
}

// UpdateRoleRequest is the body of changing the role of a member.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// MarkSolutionRequest is the body of accepting a comment as the solution.
type MarkSolutionRequest struct {
	CommentID types.ID `json:"comment_id"`
}

func (h *handlers) listMembers(w http.ResponseWriter, r *http.Request) error {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		return err
	}

	list, err := members.List(r.Context(), h.be, users.From(r.Context()), projectID)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, list)
	return nil
}

func (h *handlers) addMember(w http.ResponseWriter, r *http.Request) error {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		return err
	}

	req := &AddMemberRequest{}
	if err := decodeJSON(r, req); err != nil {
		return err
	}
	if err := bodyID("user_id", req.UserID); err != nil {
		return err
	}
	role, err := types.ParseRole(req.Role)
	if err != nil {
		return err
	}

	project, err := members.Add(r.Context(), h.be, users.From(r.Context()), projectID, req.UserID, role)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, project)
	return nil
}

func (h *handlers) updateMemberRole(w http.ResponseWriter, r *http.Request) error {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		return err
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		return err
	}

	req := &UpdateRoleRequest{}
	if err := decodeJSON(r, req); err != nil {
		return err
	}
	role, err := types.ParseRole(req.Role)
	if err != nil {
		return err
	}

	project, err := members.UpdateRole(r.Context(), h.be, users.From(r.Context()), projectID, userID, role)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, project)
	return nil
}

func (h *handlers) removeMember(w http.ResponseWriter, r *http.Request) error {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		return err
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		return err
	}

	project, err := members.Remove(r.Context(), h.be, users.From(r.Context()), projectID, userID)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, project)
	return nil
}

func (h *handlers) leaveProject(w http.ResponseWriter, r *http.Request) error {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		return err
	}

	if err := members.Leave(r.Context(), h.be, users.From(r.Context()), projectID); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *handlers) projectFeed(w http.ResponseWriter, r *http.Request) error {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		return err
	}
	limit, err := queryLimit(r)
	if err != nil {
		return err
	}

	list, err := activities.ProjectFeed(r.Context(), h.be, users.From(r.Context()), projectID, limit)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, list)
	return nil
}

func (h *handlers) listDiscussions(w http.ResponseWriter, r *http.Request) error {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		return err
	}

	list, err := discussions.List(r.Context(), h.be, users.From(r.Context()), projectID)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, list)
	return nil
}

func (h *handlers) createDiscussion(w http.ResponseWriter, r *http.Request) error {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		return err
	}

	fields := &types.DiscussionFields{}
	if err := decodeJSON(r, fields); err != nil {
		return err
	}

	discussion, err := discussions.Create(r.Context(), h.be, users.From(r.Context()), projectID, fields)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, discussion)
	return nil
}

func (h *handlers) getDiscussion(w http.ResponseWriter, r *http.Request) error {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		return err
	}
	id, err := pathID(r, "discussionID")
	if err != nil {
		return err
	}

	discussion, err := discussions.Get(r.Context(), h.be, users.From(r.Context()), projectID, id)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, discussion)
	return nil
}

func (h *handlers) addComment(w http.ResponseWriter, r *http.Request) error {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		return err
	}
	id, err := pathID(r, "discussionID")
	if err != nil {
		return err
	}

	fields := &types.CommentFields{}
	if err := decodeJSON(r, fields); err != nil {
		return err
	}

	comment, err := discussions.Comment(r.Context(), h.be, users.From(r.Context()), projectID, id, fields)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, comment)
	return nil
}

func (h *handlers) markSolution(w http.ResponseWriter, r *http.Request) error {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		return err
	}
	id, err := pathID(r, "discussionID")
	if err != nil {
		return err
	}

	req := &MarkSolutionRequest{}
	if err := decodeJSON(r, req); err != nil {
		return err
	}
	if err := bodyID("comment_id", req.CommentID); err != nil {
		return err
	}

	discussion, err := discussions.MarkSolution(
		r.Context(),
		h.be,
		users.From(r.Context()),
		projectID,
		id,
		req.CommentID,
	)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, discussion)
	return nil
}
