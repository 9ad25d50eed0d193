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
	"github.com/syncsphere/syncsphere/server/notifications"
	"github.com/syncsphere/syncsphere/server/users"
)

// CountResponse is the body of the operations that report a count.
type CountResponse struct {
	Count int64 `json:"count"`
}

func (h *handlers) listNotifications(w http.ResponseWriter, r *http.Request) error {
	unreadOnly, err := queryBool(r, "unread")
	if err != nil {
		return err
	}
	limit, err := queryLimit(r)
	if err != nil {
		return err
	}

	list, err := notifications.List(r.Context(), h.be, users.From(r.Context()), unreadOnly, limit)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, list)
	return nil
}

func (h *handlers) unreadCount(w http.ResponseWriter, r *http.Request) error {
	count, err := notifications.UnreadCount(r.Context(), h.be, users.From(r.Context()))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, &CountResponse{Count: count})
	return nil
}

func (h *handlers) markNotificationRead(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "notificationID")
	if err != nil {
		return err
	}

	if err := notifications.MarkRead(r.Context(), h.be, users.From(r.Context()), id); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *handlers) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) error {
	count, err := notifications.MarkAllRead(r.Context(), h.be, users.From(r.Context()))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, &CountResponse{Count: count})
	return nil
}

func (h *handlers) deleteNotification(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "notificationID")
	if err != nil {
		return err
	}

	if err := notifications.Delete(r.Context(), h.be, users.From(r.Context()), id); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *handlers) feed(w http.ResponseWriter, r *http.Request) error {
	scope, err := types.ParseFeedScope(r.URL.Query().Get("scope"))
	if err != nil {
		return err
	}
	limit, err := queryLimit(r)
	if err != nil {
		return err
	}

	list, err := activities.Feed(r.Context(), h.be, users.From(r.Context()), scope, limit)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, list)
	return nil
}

func (h *handlers) markActivityRead(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "activityID")
	if err != nil {
		return err
	}

	if err := activities.MarkRead(r.Context(), h.be, id, users.From(r.Context())); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
