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

	"github.com/go-chi/chi/v5"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/pkg/limit"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/rest/auth"
)

// newRouter builds the routes of the API. The routes under /api except the
// auth routes need a bearer token and are rate limited per user.
func newRouter(
	conf *Config,
	be *backend.Backend,
	tokenManager *auth.TokenManager,
	limiter *limit.Limiter[types.ID],
) http.Handler {
	h := &handlers{be: be, tokenManager: tokenManager}

	r := chi.NewRouter()
	r.Use(requestContext, observe(be), recoverer, limitBody(conf.MaxRequestBytes))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, ErrMethodNotAllowed)
	})

	r.Get("/healthz", handle(h.health))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", handle(h.signUp))
			r.Post("/login", handle(h.logIn))
			r.Post("/verify", handle(h.verify))
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate(be, tokenManager), rateLimit(limiter))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", handle(h.searchUsers))
				r.Get("/me", handle(h.getMe))
				r.Patch("/me", handle(h.updateMe))
				r.Delete("/me", handle(h.deleteMe))
				r.Get("/{username}", handle(h.getUser))
			})

			r.Route("/friends", func(r chi.Router) {
				r.Get("/", handle(h.listFriends))
				r.Delete("/{userID}", handle(h.removeFriend))
				r.Get("/requests", handle(h.listFriendRequests))
				r.Post("/requests", handle(h.sendFriendRequest))
				r.Post("/requests/{userID}/accept", handle(h.acceptFriendRequest))
				r.Post("/requests/{userID}/reject", handle(h.rejectFriendRequest))
			})

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", handle(h.createProject))
				r.Get("/", handle(h.listProjects))
				r.Get("/search", handle(h.searchProjects))

				r.Route("/{projectID}", func(r chi.Router) {
					r.Get("/", handle(h.getProject))
					r.Patch("/", handle(h.updateProject))
					r.Delete("/", handle(h.deleteProject))
					r.Get("/files", handle(h.downloadFile))
					r.Get("/activities", handle(h.projectFeed))

					r.Post("/checkout", handle(h.checkout))
					r.Post("/checkin", handle(h.checkIn))
					r.Get("/checkins", handle(h.listCheckIns))
					r.Get("/checkins/{checkinID}", handle(h.getCheckIn))

					r.Get("/members", handle(h.listMembers))
					r.Post("/members", handle(h.addMember))
					r.Patch("/members/{userID}", handle(h.updateMemberRole))
					r.Delete("/members/{userID}", handle(h.removeMember))
					r.Post("/leave", handle(h.leaveProject))

					r.Get("/discussions", handle(h.listDiscussions))
					r.Post("/discussions", handle(h.createDiscussion))
					r.Get("/discussions/{discussionID}", handle(h.getDiscussion))
					r.Post("/discussions/{discussionID}/comments", handle(h.addComment))
					r.Post("/discussions/{discussionID}/solution", handle(h.markSolution))
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", handle(h.listNotifications))
				r.Get("/unread-count", handle(h.unreadCount))
				r.Post("/read-all", handle(h.markAllNotificationsRead))
				r.Post("/{notificationID}/read", handle(h.markNotificationRead))
				r.Delete("/{notificationID}", handle(h.deleteNotification))
			})

			r.Route("/activities", func(r chi.Router) {
				r.Get("/", handle(h.feed))
				r.Post("/{activityID}/read", handle(h.markActivityRead))
			})
		})
	})

	return r
}
