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
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/xid"

	"github.com/syncsphere/syncsphere/api/types"
	pkgerrors "github.com/syncsphere/syncsphere/pkg/errors"
	"github.com/syncsphere/syncsphere/pkg/limit"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/logging"
	"github.com/syncsphere/syncsphere/server/rest/auth"
	"github.com/syncsphere/syncsphere/server/users"
)

// headerRequestID is the header carrying the ID of the request.
const headerRequestID = "X-Request-ID"

var (
	// ErrMissingToken is returned when the request has no bearer token.
	ErrMissingToken = pkgerrors.Unauthenticated("missing bearer token").WithCode("ErrMissingToken")

	// ErrTooManyRequests is returned when the user exceeds the rate limit.
	ErrTooManyRequests = pkgerrors.ResourceExhausted("too many requests").WithCode("ErrTooManyRequests")

	// errPanic is reported when a handler panics.
	errPanic = pkgerrors.Internal("handler panicked").WithCode("ErrPanic")
)

// requestContext attaches the request ID, a logger named after it and the
// request state to the context of the request.
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = xid.New().String()
		}
		w.Header().Set(headerRequestID, id)

		ctx := logging.With(r.Context(), logging.New(id))
		ctx = withState(ctx, &requestState{startedAt: time.Now()})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// observe logs the request and records the metrics of the route once the
// handler returns.
func observe(be *backend.Backend) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			state := stateFrom(r.Context())
			duration := time.Since(state.startedAt)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			be.Metrics.AddServerHandledCounter(r.Method, route, status)
			be.Metrics.ObserveServerHandlingSeconds(r.Method, route, duration.Seconds())

			logger := logging.From(r.Context())
			if state.err != nil {
				logging.LogRequestError(logger, r.Method, r.URL.Path, duration, state.err)
				return
			}
			logging.LogRequestSuccess(logger, r.Method, r.URL.Path, status, duration)
		})
	}
}

// recoverer turns a panic of a handler into an internal error response.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logging.From(r.Context()).Errorf("panic: %v\n%s", rec, debug.Stack())
			writeError(w, r, fmt.Errorf("%v: %w", rec, errPanic))
		}()

		next.ServeHTTP(w, r)
	})
}

// limitBody caps the size of the request body.
func limitBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// authenticate resolves the user of the bearer token and attaches the ID of
// the user to the context.
func authenticate(be *backend.Backend, tokenManager *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				writeError(w, r, ErrMissingToken)
				return
			}

			claims, err := tokenManager.Verify(token)
			if err != nil {
				writeError(w, r, err)
				return
			}

			userID, err := resolveUser(r.Context(), be, claims.Username)
			if err != nil {
				writeError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(users.With(r.Context(), userID)))
		})
	}
}

// resolveUser returns the ID of the user with the given username. The
// mapping is cached since every authenticated request needs it.
func resolveUser(ctx context.Context, be *backend.Backend, username string) (types.ID, error) {
	if id, ok := be.Cache.Users.Get(username); ok {
		return id, nil
	}

	info, err := be.DB.FindUserInfoByName(ctx, username)
	if errors.Is(err, database.ErrUserNotFound) {
		return "", fmt.Errorf("%s: %w", username, auth.ErrInvalidToken)
	}
	if err != nil {
		return "", err
	}

	be.Cache.Users.Add(username, info.ID)
	return info.ID, nil
}

// rateLimit rejects the requests of users who exceed their rate.
func rateLimit(limiter *limit.Limiter[types.ID]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(users.From(r.Context())) {
				w.Header().Set("Retry-After", "1")
				writeError(w, r, ErrTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
