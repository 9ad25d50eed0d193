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

package checkouts_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/api/types"
	pkgerrors "github.com/syncsphere/syncsphere/pkg/errors"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/backend/storage"
	"github.com/syncsphere/syncsphere/server/checkouts"
	"github.com/syncsphere/syncsphere/server/members"
	"github.com/syncsphere/syncsphere/server/projects"
	"github.com/syncsphere/syncsphere/test/helper"
)

func createProject(t *testing.T, be *backend.Backend, owner types.ID, name string) *types.Project {
	project, err := projects.CreateProject(context.Background(), be, owner, &types.ProjectFields{Name: &name})
	assert.NoError(t, err)
	return project
}

func checkInFields(message string) *types.CheckInFields {
	return &types.CheckInFields{Message: message}
}

func TestCheckouts(t *testing.T) {
	ctx := context.Background()

	t.Run("widget scenario test", func(t *testing.T) {
		be := helper.TestBackend(t)
		a := helper.CreateUser(t, be, "a")
		widget := createProject(t, be, a.ID, "Widget")

		project, err := checkouts.Checkout(ctx, be, a.ID, widget.ID)
		assert.NoError(t, err)
		assert.Equal(t, a.ID, project.CheckedOutBy)
		assert.NotNil(t, project.CheckedOutAt)

		checkIn, err := checkouts.CheckIn(ctx, be, a.ID, widget.ID, checkInFields("v1"), []checkouts.Upload{
			{Name: "drawing.txt", Reader: strings.NewReader("widget drawing")},
		})
		assert.NoError(t, err)
		assert.Equal(t, "v1", checkIn.Message)
		assert.Len(t, checkIn.Files, 1)

		project, err = projects.GetProject(ctx, be, a.ID, widget.ID)
		assert.NoError(t, err)
		assert.False(t, project.IsCheckedOut())
		assert.Nil(t, project.CheckedOutAt)
		assert.Len(t, project.Files, 1)
		assert.Equal(t, "drawing.txt", project.Files[0].Name)
		assert.Equal(t, int64(len("widget drawing")), project.Files[0].Size)

		checkIns, err := checkouts.ListCheckIns(ctx, be, a.ID, widget.ID, 0)
		assert.NoError(t, err)
		assert.Len(t, checkIns, 1)
		assert.Equal(t, "v1", checkIns[0].Message)

		assert.Equal(t, 0, helper.CountNotifications(t, be, a.ID))
	})

	t.Run("two members scenario test", func(t *testing.T) {
		be := helper.TestBackend(t)
		a := helper.CreateUser(t, be, "a")
		b := helper.CreateUser(t, be, "b")
		widget := createProject(t, be, a.ID, "Widget")

		_, err := members.Add(ctx, be, a.ID, widget.ID, b.ID, types.RoleMember)
		assert.NoError(t, err)

		_, err = checkouts.Checkout(ctx, be, b.ID, widget.ID)
		assert.NoError(t, err)

		_, err = checkouts.CheckIn(ctx, be, a.ID, widget.ID, checkInFields("not mine"), nil)
		assert.ErrorIs(t, err, database.ErrNotLockHolder)
		assert.True(t, pkgerrors.IsStatus(err, pkgerrors.ErrCodeForbidden))

		checkIn, err := checkouts.CheckIn(ctx, be, b.ID, widget.ID, checkInFields("v2"), nil)
		assert.NoError(t, err)
		assert.Equal(t, b.ID, checkIn.UserID)

		infos, err := be.DB.ListNotificationInfos(ctx, a.ID, false, 0)
		assert.NoError(t, err)
		assert.Len(t, infos, 1)
		assert.Equal(t, types.NotificationCheckIn, infos[0].Type)
		assert.Equal(t, b.ID, infos[0].Sender)
		assert.Equal(t, checkIn.ID, infos[0].CheckInID)
		assert.Equal(t, widget.ID, infos[0].ProjectID)

		checkIns, err := checkouts.ListCheckIns(ctx, be, a.ID, widget.ID, 0)
		assert.NoError(t, err)
		assert.Len(t, checkIns, 1)
	})

	t.Run("checkout on held lock test", func(t *testing.T) {
		be := helper.TestBackend(t)
		a := helper.CreateUser(t, be, "a")
		b := helper.CreateUser(t, be, "b")
		project := createProject(t, be, a.ID, "held")
		_, err := members.Add(ctx, be, a.ID, project.ID, b.ID, types.RoleAdmin)
		assert.NoError(t, err)

		_, err = checkouts.Checkout(ctx, be, a.ID, project.ID)
		assert.NoError(t, err)
		before, err := be.DB.FindProjectInfoByID(ctx, project.ID)
		assert.NoError(t, err)

		_, err = checkouts.Checkout(ctx, be, b.ID, project.ID)
		assert.ErrorIs(t, err, database.ErrProjectAlreadyCheckedOut)
		assert.True(t, pkgerrors.IsStatus(err, pkgerrors.ErrCodeConflict))
		assert.Equal(t, a.ID.String(), pkgerrors.Metadata(err)["holder"])
		assert.NotContains(t, err.Error(), "by you")

		_, err = checkouts.Checkout(ctx, be, a.ID, project.ID)
		assert.ErrorIs(t, err, database.ErrProjectAlreadyCheckedOut)
		assert.Contains(t, err.Error(), "by you")

		after, err := be.DB.FindProjectInfoByID(ctx, project.ID)
		assert.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("checkout by stranger test", func(t *testing.T) {
		be := helper.TestBackend(t)
		a := helper.CreateUser(t, be, "a")
		stranger := helper.CreateUser(t, be, "stranger")
		project := createProject(t, be, a.ID, "private")

		_, err := checkouts.Checkout(ctx, be, stranger.ID, project.ID)
		assert.True(t, pkgerrors.IsStatus(err, pkgerrors.ErrCodeForbidden))

		_, err = checkouts.Checkout(ctx, be, a.ID, "000000000000000000000000")
		assert.ErrorIs(t, err, database.ErrProjectNotFound)
	})

	t.Run("check in without checkout test", func(t *testing.T) {
		be := helper.TestBackend(t)
		a := helper.CreateUser(t, be, "a")
		project := createProject(t, be, a.ID, "idle")

		_, err := checkouts.CheckIn(ctx, be, a.ID, project.ID, checkInFields("v1"), nil)
		assert.ErrorIs(t, err, database.ErrNotLockHolder)

		checkIns, err := checkouts.ListCheckIns(ctx, be, a.ID, project.ID, 0)
		assert.NoError(t, err)
		assert.Len(t, checkIns, 0)
	})

	t.Run("invalid check-in fields test", func(t *testing.T) {
		be := helper.TestBackend(t)
		a := helper.CreateUser(t, be, "a")
		project := createProject(t, be, a.ID, "fields")
		_, err := checkouts.Checkout(ctx, be, a.ID, project.ID)
		assert.NoError(t, err)

		_, err = checkouts.CheckIn(ctx, be, a.ID, project.ID, checkInFields("  "), nil)
		assert.ErrorIs(t, err, types.ErrInvalidFields)

		_, err = checkouts.CheckIn(ctx, be, a.ID, project.ID, checkInFields("<script>x</script>"), nil)
		assert.ErrorIs(t, err, checkouts.ErrEmptyMessage)

		info, err := be.DB.FindProjectInfoByID(ctx, project.ID)
		assert.NoError(t, err)
		assert.Equal(t, a.ID, info.CheckedOutBy)
	})

	t.Run("hashtags and sanitized text test", func(t *testing.T) {
		be := helper.TestBackend(t)
		a := helper.CreateUser(t, be, "a")
		project := createProject(t, be, a.ID, "tags")
		_, err := checkouts.Checkout(ctx, be, a.ID, project.ID)
		assert.NoError(t, err)

		checkIn, err := checkouts.CheckIn(ctx, be, a.ID, project.ID, &types.CheckInFields{
			Message:  "<b>ship</b> it",
			Changes:  "<i>refactor</i>",
			Hashtags: []string{"#release", "release", "go"},
		}, nil)
		assert.NoError(t, err)
		assert.Equal(t, "ship it", checkIn.Message)
		assert.Equal(t, "refactor", checkIn.Changes)
		assert.Equal(t, []string{"release", "go"}, checkIn.Hashtags)

		found, err := checkouts.GetCheckIn(ctx, be, a.ID, project.ID, checkIn.ID)
		assert.NoError(t, err)
		assert.Equal(t, checkIn.ID, found.ID)
	})

	t.Run("file too large test", func(t *testing.T) {
		be := helper.TestBackend(t)
		a := helper.CreateUser(t, be, "a")
		project := createProject(t, be, a.ID, "large")
		_, err := checkouts.Checkout(ctx, be, a.ID, project.ID)
		assert.NoError(t, err)

		big := strings.Repeat("x", int(helper.MaxFileBytes)+1)
		_, err = checkouts.CheckIn(ctx, be, a.ID, project.ID, checkInFields("v1"), []checkouts.Upload{
			{Name: "big.bin", Reader: strings.NewReader(big)},
		})
		assert.ErrorIs(t, err, storage.ErrFileTooLarge)
		assert.True(t, pkgerrors.IsStatus(err, pkgerrors.ErrCodeValidation))

		info, err := be.DB.FindProjectInfoByID(ctx, project.ID)
		assert.NoError(t, err)
		assert.Equal(t, a.ID, info.CheckedOutBy)
		assert.Len(t, info.Files, 0)
	})

	t.Run("concurrent checkout test", func(t *testing.T) {
		const n = 16
		be := helper.TestBackend(t)
		owner := helper.CreateUser(t, be, "owner")
		project := createProject(t, be, owner.ID, "race")

		users := []types.ID{owner.ID}
		for range n - 1 {
			user := helper.CreateUser(t, be, "racer")
			_, err := members.Add(ctx, be, owner.ID, project.ID, user.ID, types.RoleMember)
			assert.NoError(t, err)
			users = append(users, user.ID)
		}

		var wg sync.WaitGroup
		errs := make([]error, n)
		for i, userID := range users {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = checkouts.Checkout(ctx, be, userID, project.ID)
			}()
		}
		wg.Wait()

		succeeded, conflicted := 0, 0
		var holder types.ID
		for i, err := range errs {
			if err == nil {
				succeeded++
				holder = users[i]
				continue
			}
			if errors.Is(err, database.ErrProjectAlreadyCheckedOut) {
				conflicted++
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, n-1, conflicted)

		info, err := be.DB.FindProjectInfoByID(ctx, project.ID)
		assert.NoError(t, err)
		assert.Equal(t, holder, info.CheckedOutBy)
	})

	t.Run("hook failure test", func(t *testing.T) {
		be := helper.TestBackend(t)
		a := helper.CreateUser(t, be, "a")
		b := helper.CreateUser(t, be, "b")
		project := createProject(t, be, a.ID, "hooks")
		_, err := members.Add(ctx, be, a.ID, project.ID, b.ID, types.RoleMember)
		assert.NoError(t, err)

		be.DB = &helper.FaultyDB{Database: be.DB, FailNotifications: true, FailActivities: true}

		_, err = checkouts.Checkout(ctx, be, b.ID, project.ID)
		assert.NoError(t, err)
		checkIn, err := checkouts.CheckIn(ctx, be, b.ID, project.ID, checkInFields("v1"), nil)
		assert.NoError(t, err)
		assert.Equal(t, "v1", checkIn.Message)

		info, err := be.DB.FindProjectInfoByID(ctx, project.ID)
		assert.NoError(t, err)
		assert.False(t, info.IsCheckedOut())
		assert.Equal(t, 0, helper.CountNotifications(t, be, a.ID))
		assert.Equal(t, float64(3), helper.MetricSum(t, be, "syncsphere_hooks_failures_total"))
	})

	t.Run("release failure compensation test", func(t *testing.T) {
		be := helper.TestBackend(t)
		a := helper.CreateUser(t, be, "a")
		project := createProject(t, be, a.ID, "compensate")
		_, err := checkouts.Checkout(ctx, be, a.ID, project.ID)
		assert.NoError(t, err)

		faulty := &helper.FaultyDB{Database: be.DB, FailRelease: true}
		be.DB = faulty

		_, err = checkouts.CheckIn(ctx, be, a.ID, project.ID, checkInFields("v1"), []checkouts.Upload{
			{Name: "a.txt", Reader: strings.NewReader("a")},
		})
		assert.ErrorIs(t, err, helper.ErrInjected)

		checkIns, err := be.DB.ListCheckInInfos(ctx, project.ID, 0)
		assert.NoError(t, err)
		assert.Len(t, checkIns, 0)

		info, err := be.DB.FindProjectInfoByID(ctx, project.ID)
		assert.NoError(t, err)
		assert.Equal(t, a.ID, info.CheckedOutBy)
		assert.Len(t, info.Files, 0)

		faulty.FailRelease = false
		_, err = checkouts.CheckIn(ctx, be, a.ID, project.ID, checkInFields("v1"), nil)
		assert.NoError(t, err)
	})
}

func TestCheckInFiles(t *testing.T) {
	ctx := context.Background()
	be := helper.TestBackend(t)
	a := helper.CreateUser(t, be, "a")
	project := createProject(t, be, a.ID, "files")

	for i, content := range []string{"first", "second"} {
		_, err := checkouts.Checkout(ctx, be, a.ID, project.ID)
		assert.NoError(t, err)
		_, err = checkouts.CheckIn(ctx, be, a.ID, project.ID, checkInFields("rev"), []checkouts.Upload{
			{Name: filepath.Join("dir", "notes.txt"), Reader: strings.NewReader(content)},
		})
		assert.NoError(t, err)

		info, err := be.DB.FindProjectInfoByID(ctx, project.ID)
		assert.NoError(t, err)
		assert.Len(t, info.Files, i+1)
	}

	info, err := be.DB.FindProjectInfoByID(ctx, project.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, info.Files[0].Path, info.Files[1].Path)

	file, r, err := projects.OpenFile(ctx, be, a.ID, project.ID, info.Files[1].Path)
	assert.NoError(t, err)
	assert.Equal(t, "notes.txt", file.Name)
	content := make([]byte, 16)
	n, _ := r.Read(content)
	assert.NoError(t, r.Close())
	assert.Equal(t, "second", string(content[:n]))

	_, _, err = projects.OpenFile(ctx, be, a.ID, project.ID, "elsewhere/notes.txt")
	assert.ErrorIs(t, err, projects.ErrFileNotFound)

	_, err = projects.DeleteProject(ctx, be, a.ID, project.ID)
	assert.NoError(t, err)
	_, err = be.Storage.Open(info.Files[0].Path)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}
