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
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server/friends"
	"github.com/syncsphere/syncsphere/server/users"
)

// SignUpResponse is the body of a successful sign up.
type SignUpResponse struct {
	User              *types.User `json:"user"`
	VerificationToken string      `json:"verification_token"`
}

// LogInRequest is the body of a log in.
type LogInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LogInResponse is the body of a successful log in.
type LogInResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *types.User `json:"user"`
}

// VerifyRequest is the body of an email verification.
type VerifyRequest struct {
	Token string `json:"token"`
}

// FriendRequestRequest is the body of sending a friend request.
type FriendRequestRequest struct {
	UserID types.ID `json:"user_id"`
}

func (h *handlers) signUp(w http.ResponseWriter, r *http.Request) error {
	fields := &types.UserFields{}
	if err := decodeJSON(r, fields); err != nil {
		return err
	}

	user, token, err := users.SignUp(r.Context(), h.be, fields)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, &SignUpResponse{User: user, VerificationToken: token})
	return nil
}

func (h *handlers) logIn(w http.ResponseWriter, r *http.Request) error {
	req := &LogInRequest{}
	if err := decodeJSON(r, req); err != nil {
		return err
	}

	user, err := users.IsCorrectPassword(r.Context(), h.be, req.Username, req.Password)
	if err != nil {
		return err
	}

	token, err := h.tokenManager.Generate(user.Username)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, &LogInResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokenManager.Duration()),
		User:      user,
	})
	return nil
}

func (h *handlers) verify(w http.ResponseWriter, r *http.Request) error {
	req := &VerifyRequest{}
	if err := decodeJSON(r, req); err != nil {
		return err
	}

	user, err := users.Verify(r.Context(), h.be, req.Token)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, user)
	return nil
}

func (h *handlers) getMe(w http.ResponseWriter, r *http.Request) error {
	user, err := users.GetUser(r.Context(), h.be, users.From(r.Context()))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, user)
	return nil
}

func (h *handlers) updateMe(w http.ResponseWriter, r *http.Request) error {
	fields := &types.UpdatableUserFields{}
	if err := decodeJSON(r, fields); err != nil {
		return err
	}

	user, err := users.UpdateProfile(r.Context(), h.be, users.From(r.Context()), fields)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, user)
	return nil
}

func (h *handlers) deleteMe(w http.ResponseWriter, r *http.Request) error {
	if err := users.DeleteAccount(r.Context(), h.be, users.From(r.Context())); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) error {
	user, err := users.GetUserByName(r.Context(), h.be, chi.URLParam(r, "username"))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, user)
	return nil
}

func (h *handlers) searchUsers(w http.ResponseWriter, r *http.Request) error {
	limit, err := queryLimit(r)
	if err != nil {
		return err
	}

	found, err := users.Search(r.Context(), h.be, r.URL.Query().Get("q"), limit)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, found)
	return nil
}

func (h *handlers) listFriends(w http.ResponseWriter, r *http.Request) error {
	list, err := friends.List(r.Context(), h.be, users.From(r.Context()))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, list)
	return nil
}

func (h *handlers) listFriendRequests(w http.ResponseWriter, r *http.Request) error {
	pending, err := friends.Pending(r.Context(), h.be, users.From(r.Context()))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, pending)
	return nil
}

func (h *handlers) sendFriendRequest(w http.ResponseWriter, r *http.Request) error {
	req := &FriendRequestRequest{}
	if err := decodeJSON(r, req); err != nil {
		return err
	}
	if err := bodyID("user_id", req.UserID); err != nil {
		return err
	}

	if err := friends.SendRequest(r.Context(), h.be, users.From(r.Context()), req.UserID); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *handlers) acceptFriendRequest(w http.ResponseWriter, r *http.Request) error {
	from, err := pathID(r, "userID")
	if err != nil {
		return err
	}

	if err := friends.Accept(r.Context(), h.be, users.From(r.Context()), from); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *handlers) rejectFriendRequest(w http.ResponseWriter, r *http.Request) error {
	from, err := pathID(r, "userID")
	if err != nil {
		return err
	}

	if err := friends.Reject(r.Context(), h.be, users.From(r.Context()), from); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *handlers) removeFriend(w http.ResponseWriter, r *http.Request) error {
	friendID, err := pathID(r, "userID")
	if err != nil {
		return err
	}

	if err := friends.Remove(r.Context(), h.be, users.From(r.Context()), friendID); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
