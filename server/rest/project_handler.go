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
	goerrors "errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server/checkouts"
	"github.com/syncsphere/syncsphere/server/logging"
	"github.com/syncsphere/syncsphere/server/projects"
	"github.com/syncsphere/syncsphere/server/users"
)

// maxMultipartMemory is the max bytes of a multipart form kept in memory.
// The rest of the files are kept in temporary files.
const maxMultipartMemory = 8 << 20

// DeleteProjectResponse is the body of a successful project deletion.
type DeleteProjectResponse struct {
	CheckIns      int64 `json:"checkins"`
	Notifications int64 `json:"notifications"`
	Activities    int64 `json:"activities"`
	Discussions   int64 `json:"discussions"`
}

func (h *handlers) createProject(w http.ResponseWriter, r *http.Request) error {
	fields := &types.ProjectFields{}
	if err := decodeJSON(r, fields); err != nil {
		return err
	}

	project, err := projects.CreateProject(r.Context(), h.be, users.From(r.Context()), fields)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, project)
	return nil
}

func (h *handlers) listProjects(w http.ResponseWriter, r *http.Request) error {
	list, err := projects.ListProjects(r.Context(), h.be, users.From(r.Context()))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, list)
	return nil
}

func (h *handlers) searchProjects(w http.ResponseWriter, r *http.Request) error {
	limit, err := queryLimit(r)
	if err != nil {
		return err
	}

	found, err := projects.SearchProjects(r.Context(), h.be, r.URL.Query().Get("q"), limit)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, found)
	return nil
}

func (h *handlers) getProject(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "projectID")
	if err != nil {
		return err
	}

	project, err := projects.GetProject(r.Context(), h.be, users.From(r.Context()), id)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, project)
	return nil
}

func (h *handlers) updateProject(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "projectID")
	if err != nil {
		return err
	}

	fields := &types.UpdatableProjectFields{}
	if err := decodeJSON(r, fields); err != nil {
		return err
	}

	project, err := projects.UpdateProject(r.Context(), h.be, users.From(r.Context()), id, fields)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, project)
	return nil
}

func (h *handlers) deleteProject(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "projectID")
	if err != nil {
		return err
	}

	counts, err := projects.DeleteProject(r.Context(), h.be, users.From(r.Context()), id)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, &DeleteProjectResponse{
		CheckIns:      counts.CheckIns,
		Notifications: counts.Notifications,
		Activities:    counts.Activities,
		Discussions:   counts.Discussions,
	})
	return nil
}

func (h *handlers) downloadFile(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "projectID")
	if err != nil {
		return err
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		return fmt.Errorf("path is required: %w", ErrInvalidQuery)
	}

	file, body, err := projects.OpenFile(r.Context(), h.be, users.From(r.Context()), id, path)
	if err != nil {
		return err
	}
	defer func() {
		if err := body.Close(); err != nil {
			logging.From(r.Context()).Warnf("close %s: %v", path, err)
		}
	}()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.Header().Set(
		"Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}),
	)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		logging.From(r.Context()).Warnf("send %s: %v", path, err)
	}
	return nil
}

func (h *handlers) checkout(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "projectID")
	if err != nil {
		return err
	}

	project, err := checkouts.Checkout(r.Context(), h.be, users.From(r.Context()), id)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, project)
	return nil
}

// checkIn accepts a multipart form with the message, changes, hashtags
// and files fields. A JSON body is accepted for a check-in without files.
func (h *handlers) checkIn(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "projectID")
	if err != nil {
		return err
	}

	fields := &types.CheckInFields{}
	var uploads []checkouts.Upload

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := decodeJSON(r, fields); err != nil {
			return err
		}
	} else {
		form, err := parseMultipart(r)
		if err != nil {
			return err
		}
		defer func() {
			if err := form.RemoveAll(); err != nil {
				logging.From(r.Context()).Warnf("remove multipart files: %v", err)
			}
		}()

		fields.Message = formValue(form, "message")
		fields.Changes = formValue(form, "changes")
		fields.Hashtags = splitHashtags(form.Value["hashtags"])

		var closers []io.Closer
		defer func() {
			for _, c := range closers {
				_ = c.Close()
			}
		}()
		for _, header := range form.File["files"] {
			f, err := header.Open()
			if err != nil {
				return fmt.Errorf("open %s: %w", header.Filename, err)
			}
			closers = append(closers, f)
			uploads = append(uploads, checkouts.Upload{Name: header.Filename, Reader: f})
		}
	}

	checkIn, err := checkouts.CheckIn(r.Context(), h.be, users.From(r.Context()), id, fields, uploads)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, checkIn)
	return nil
}

func (h *handlers) listCheckIns(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "projectID")
	if err != nil {
		return err
	}
	limit, err := queryLimit(r)
	if err != nil {
		return err
	}

	list, err := checkouts.ListCheckIns(r.Context(), h.be, users.From(r.Context()), id, limit)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, list)
	return nil
}

func (h *handlers) getCheckIn(w http.ResponseWriter, r *http.Request) error {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		return err
	}
	id, err := pathID(r, "checkinID")
	if err != nil {
		return err
	}

	checkIn, err := checkouts.GetCheckIn(r.Context(), h.be, users.From(r.Context()), projectID, id)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, checkIn)
	return nil
}

// parseMultipart parses the multipart form of the request.
func parseMultipart(r *http.Request) (*multipart.Form, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if goerrors.As(err, &maxBytesErr) {
			return nil, fmt.Errorf("%d bytes: %w", maxBytesErr.Limit, ErrRequestTooLarge)
		}
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedBody)
	}
	return r.MultipartForm, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// splitHashtags accepts the hashtags given as repeated fields or as a
// single field separated by commas or spaces.
func splitHashtags(values []string) []string {
	var tags []string
	for _, v := range values {
		tags = append(tags, strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' '
		})...)
	}
	return tags
}
