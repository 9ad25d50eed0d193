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

package rest_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	neturl "net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/rest"
	"github.com/syncsphere/syncsphere/test/helper"
)

const password = "pass-word1"

// testClient sends the requests of a signed in user to the test server.
type testClient struct {
	t      *testing.T
	url    string
	token  string
	userID types.ID
}

func newTestServer(t *testing.T, be *backend.Backend, conf *rest.Config) string {
	srv, err := rest.NewServer(conf, be)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func (c *testClient) do(method, path string, body any) (*http.Response, []byte) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.url+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

func (c *testClient) send(req *http.Request) (*http.Response, []byte) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer func() {
		assert.NoError(c.t, resp.Body.Close())
	}()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

// signUp signs up a new user and logs in.
func signUp(t *testing.T, url, prefix string) *testClient {
	c := &testClient{t: t, url: url}
	name := helper.UniqueName(prefix)

	resp, data := c.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": name,
		"password": password,
		"email":    name + "@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	signedUp := &rest.SignUpResponse{}
	require.NoError(t, json.Unmarshal(data, signedUp))
	assert.NotEmpty(t, signedUp.VerificationToken)

	resp, data = c.do(http.MethodPost, "/api/auth/login", &rest.LogInRequest{
		Username: name,
		Password: password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	loggedIn := &rest.LogInResponse{}
	require.NoError(t, json.Unmarshal(data, loggedIn))
	c.token = loggedIn.Token
	c.userID = loggedIn.User.ID
	return c
}

func decodeError(t *testing.T, data []byte) *rest.ErrorResponse {
	resp := &rest.ErrorResponse{}
	require.NoError(t, json.Unmarshal(data, resp), string(data))
	return resp
}

func decode[T any](t *testing.T, data []byte) T {
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestAuth(t *testing.T) {
	be := helper.TestBackend(t)
	url := newTestServer(t, be, helper.TestConfig(t).REST)

	t.Run("healthz test", func(t *testing.T) {
		c := &testClient{t: t, url: url}
		resp, _ := c.do(http.MethodGet, "/healthz", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("sign up, log in and verify test", func(t *testing.T) {
		c := &testClient{t: t, url: url}
		name := helper.UniqueName("alice")

		resp, data := c.do(http.MethodPost, "/api/auth/signup", map[string]string{
			"username": name,
			"password": password,
			"email":    name + "@example.com",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		signedUp := decode[rest.SignUpResponse](t, data)
		assert.False(t, signedUp.User.Verified)

		resp, data = c.do(http.MethodPost, "/api/auth/verify", &rest.VerifyRequest{
			Token: signedUp.VerificationToken,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, decode[types.User](t, data).Verified)

		resp, data = c.do(http.MethodPost, "/api/auth/login", &rest.LogInRequest{
			Username: name,
			Password: "wrong-pass1",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "ErrMismatchedPassword", decodeError(t, data).Code)

		resp, data = c.do(http.MethodPost, "/api/auth/login", &rest.LogInRequest{
			Username: name,
			Password: password,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		c.token = decode[rest.LogInResponse](t, data).Token

		resp, data = c.do(http.MethodGet, "/api/users/me", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		me := decode[types.User](t, data)
		assert.Equal(t, name, me.Username)
		assert.Equal(t, name+"@example.com", me.Email)
	})

	t.Run("invalid sign up test", func(t *testing.T) {
		c := &testClient{t: t, url: url}
		resp, data := c.do(http.MethodPost, "/api/auth/signup", map[string]string{
			"username": "x",
			"password": "short",
			"email":    "not-an-email",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		errResp := decodeError(t, data)
		assert.Equal(t, "ErrInvalidFields", errResp.Code)
		assert.Equal(t, "validation", errResp.Status)
		assert.Len(t, errResp.Fields, 3)
	})

	t.Run("missing or invalid token test", func(t *testing.T) {
		c := &testClient{t: t, url: url}
		resp, data := c.do(http.MethodGet, "/api/users/me", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "ErrMissingToken", decodeError(t, data).Code)

		c.token = "not-a-token"
		resp, data = c.do(http.MethodGet, "/api/users/me", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "ErrInvalidToken", decodeError(t, data).Code)
	})

	t.Run("deleted account token test", func(t *testing.T) {
		c := signUp(t, url, "dave")
		resp, _ := c.do(http.MethodDelete, "/api/users/me", nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, data := c.do(http.MethodGet, "/api/users/me", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "ErrInvalidToken", decodeError(t, data).Code)
	})
}

func TestErrorMapping(t *testing.T) {
	be := helper.TestBackend(t)
	url := newTestServer(t, be, helper.TestConfig(t).REST)

	owner := signUp(t, url, "owner")
	stranger := signUp(t, url, "stranger")

	resp, data := owner.do(http.MethodPost, "/api/projects", map[string]any{
		"name": "Widget",
		"tags": []string{"#go"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	project := decode[types.Project](t, data)
	projectPath := "/api/projects/" + project.ID.String()

	t.Run("not found test", func(t *testing.T) {
		resp, data := owner.do(http.MethodGet, "/api/unknown", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "ErrRouteNotFound", decodeError(t, data).Code)

		resp, data = owner.do(http.MethodGet, "/api/projects/000000000000000000000000", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "ErrProjectNotFound", decodeError(t, data).Code)
	})

	t.Run("invalid id and query test", func(t *testing.T) {
		resp, data := owner.do(http.MethodGet, "/api/projects/not-an-id", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "ErrInvalidID", decodeError(t, data).Code)

		resp, data = owner.do(http.MethodGet, projectPath+"/checkins?limit=-1", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "ErrInvalidQuery", decodeError(t, data).Code)

		resp, data = owner.do(http.MethodGet, "/api/activities?scope=everyone", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "ErrInvalidFeedScope", decodeError(t, data).Code)
	})

	t.Run("malformed body test", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, url+"/api/projects", strings.NewReader("{"))
		require.NoError(t, err)
		resp, data := owner.send(req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "ErrMalformedBody", decodeError(t, data).Code)

		resp, data = owner.do(http.MethodPost, "/api/projects", map[string]string{
			"name":    "Gadget",
			"unknown": "field",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "ErrMalformedBody", decodeError(t, data).Code)
	})

	t.Run("forbidden test", func(t *testing.T) {
		resp, data := stranger.do(http.MethodGet, projectPath, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		errResp := decodeError(t, data)
		assert.Equal(t, "ErrNotProjectMember", errResp.Code)
		assert.Equal(t, "forbidden", errResp.Status)

		resp, _ = stranger.do(http.MethodPost, projectPath+"/checkout", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("conflict test", func(t *testing.T) {
		resp, _ := owner.do(http.MethodPost, projectPath+"/checkout", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, data := owner.do(http.MethodPost, projectPath+"/checkout", nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		errResp := decodeError(t, data)
		assert.Equal(t, "ErrProjectAlreadyCheckedOut", errResp.Code)
		assert.Equal(t, owner.userID.String(), errResp.Metadata["holder"])
	})

	t.Run("method not allowed test", func(t *testing.T) {
		resp, data := owner.do(http.MethodPut, projectPath, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "ErrMethodNotAllowed", decodeError(t, data).Code)
	})

	t.Run("request log metrics test", func(t *testing.T) {
		assert.Positive(t, helper.MetricSum(t, be, "syncsphere_http_server_handled_total"))
	})
}

func TestInternalError(t *testing.T) {
	be := helper.TestBackend(t)
	faulty := &helper.FaultyDB{Database: be.DB}
	be.DB = faulty
	url := newTestServer(t, be, helper.TestConfig(t).REST)

	c := signUp(t, url, "erin")
	resp, data := c.do(http.MethodPost, "/api/projects", map[string]string{"name": "Widget"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	projectPath := "/api/projects/" + decode[types.Project](t, data).ID.String()

	resp, _ = c.do(http.MethodPost, projectPath+"/checkout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	faulty.FailRelease = true
	resp, data = c.do(http.MethodPost, projectPath+"/checkin", &types.CheckInFields{Message: "release"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	errResp := decodeError(t, data)
	assert.Equal(t, "ErrInternal", errResp.Code)
	assert.Equal(t, "internal server error", errResp.Message)
	assert.NotContains(t, string(data), helper.ErrInjected.Error())
}

func TestCheckInOverHTTP(t *testing.T) {
	be := helper.TestBackend(t)
	url := newTestServer(t, be, helper.TestConfig(t).REST)

	a := signUp(t, url, "ann")
	b := signUp(t, url, "ben")

	resp, data := a.do(http.MethodPost, "/api/projects", map[string]string{"name": "Widget"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	projectPath := "/api/projects/" + decode[types.Project](t, data).ID.String()

	resp, data = a.do(http.MethodPost, projectPath+"/members", &rest.AddMemberRequest{
		UserID: b.userID,
		Role:   string(types.RoleMember),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	assert.Len(t, decode[types.Project](t, data).Members, 2)

	resp, data = a.do(http.MethodPost, projectPath+"/members", &rest.AddMemberRequest{
		UserID: b.userID,
		Role:   string(types.RoleOwner),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ErrInvalidRole", decodeError(t, data).Code)

	resp, _ = b.do(http.MethodPost, projectPath+"/checkout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data = a.do(http.MethodPost, projectPath+"/checkin", &types.CheckInFields{Message: "mine"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ErrNotLockHolder", decodeError(t, data).Code)

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	require.NoError(t, form.WriteField("message", "first revision"))
	require.NoError(t, form.WriteField("hashtags", "#release, v1"))
	part, err := form.CreateFormFile("files", "main.go")
	require.NoError(t, err)
	_, err = part.Write([]byte("package main"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, url+projectPath+"/checkin", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	resp, data = b.send(req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	checkIn := decode[types.CheckIn](t, data)
	assert.Equal(t, "first revision", checkIn.Message)
	assert.Equal(t, []string{"release", "v1"}, checkIn.Hashtags)
	require.Len(t, checkIn.Files, 1)
	assert.Equal(t, "main.go", checkIn.Files[0].Name)

	resp, data = a.do(http.MethodGet, projectPath+"/checkins/"+checkIn.ID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, checkIn.ID, decode[types.CheckIn](t, data).ID)

	query := neturl.Values{"path": {checkIn.Files[0].Path}}.Encode()
	resp, data = a.do(http.MethodGet, projectPath+"/files?"+query, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "package main", string(data))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "main.go")

	resp, data = a.do(http.MethodGet, "/api/notifications?unread=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	received := decode[[]*types.Notification](t, data)
	require.Len(t, received, 1)
	assert.Equal(t, types.NotificationCheckIn, received[0].Type)
	assert.Equal(t, checkIn.ID, received[0].CheckInID)

	resp, data = a.do(http.MethodGet, "/api/notifications/unread-count", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), decode[rest.CountResponse](t, data).Count)

	resp, _ = a.do(http.MethodPost, "/api/notifications/"+received[0].ID.String()+"/read", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, data = a.do(http.MethodGet, "/api/notifications/unread-count", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), decode[rest.CountResponse](t, data).Count)

	// The actor of the check-in is not notified of it.
	resp, data = b.do(http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ofB := decode[[]*types.Notification](t, data)
	require.Len(t, ofB, 1)
	assert.Equal(t, types.NotificationMemberAdded, ofB[0].Type)
	assert.True(t, ofB[0].CheckInID.IsZero())

	resp, data = a.do(http.MethodDelete, projectPath, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), decode[rest.DeleteProjectResponse](t, data).CheckIns)
}

func TestLimits(t *testing.T) {
	t.Run("rate limit test", func(t *testing.T) {
		be := helper.TestBackend(t)
		conf := helper.TestConfig(t).REST
		conf.RateLimit = 0.001
		conf.RateBurst = 2
		url := newTestServer(t, be, conf)

		c := signUp(t, url, "fay")
		for range conf.RateBurst {
			resp, _ := c.do(http.MethodGet, "/api/users/me", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
		}

		resp, data := c.do(http.MethodGet, "/api/users/me", nil)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, "ErrTooManyRequests", decodeError(t, data).Code)
		assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	})

	t.Run("request too large test", func(t *testing.T) {
		be := helper.TestBackend(t)
		conf := helper.TestConfig(t).REST
		conf.MaxRequestBytes = 256
		url := newTestServer(t, be, conf)

		c := signUp(t, url, "gus")
		resp, data := c.do(http.MethodPost, "/api/projects", map[string]string{
			"name":        "Widget",
			"description": strings.Repeat("a", 400),
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "ErrRequestTooLarge", decodeError(t, data).Code)
	})
}
