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
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/rest/auth"
)

// maxQueryLimit is the max value of the limit query parameter.
const maxQueryLimit = 1000

// handlerFunc is a handler that reports the failure as an error.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle converts the handler into http.HandlerFunc writing the error
// response on failure.
func handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			writeError(w, r, err)
		}
	}
}

// handlers serves the routes of the API.
type handlers struct {
	be           *backend.Backend
	tokenManager *auth.TokenManager
}

// health reports that the server is serving.
func (h *handlers) health(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}

// pathID returns the ID in the path parameter of the given key.
func pathID(r *http.Request, key string) (types.ID, error) {
	id := types.ID(chi.URLParam(r, key))
	if err := id.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return id, nil
}

// bodyID validates the ID given in the request body.
func bodyID(name string, id types.ID) error {
	if err := id.Validate(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// queryLimit returns the limit query parameter. Zero means the default
// limit of the operation.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 || limit > maxQueryLimit {
		return 0, fmt.Errorf("limit %q: %w", raw, ErrInvalidQuery)
	}
	return limit, nil
}

// queryBool returns the boolean query parameter of the given key.
func queryBool(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s %q: %w", key, raw, ErrInvalidQuery)
	}
	return b, nil
}
