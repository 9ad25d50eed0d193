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

// Package checkouts provides the checkout and check-in workflow of projects.
// A member acquires the lock of a project with Checkout and releases it by
// recording a check-in.
package checkouts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/internal/sanitize"
	pkgerrors "github.com/syncsphere/syncsphere/pkg/errors"
	"github.com/syncsphere/syncsphere/server/activities"
	"github.com/syncsphere/syncsphere/server/authz"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/backend/hooks"
	"github.com/syncsphere/syncsphere/server/logging"
	"github.com/syncsphere/syncsphere/server/notifications"
)

// ErrEmptyMessage is returned when the message is empty after sanitizing.
var ErrEmptyMessage = pkgerrors.Validation("message is empty").WithCode("ErrEmptyMessage")

// Results of checkout attempts reported to metrics.
const (
	resultSuccess   = "success"
	resultConflict  = "conflict"
	resultForbidden = "forbidden"
)

// Upload is a file uploaded with a check-in.
type Upload struct {
	Name   string
	Reader io.Reader
}

// Checkout acquires the lock of the project for the user. The lock is
// acquired only if no one holds it, in a single conditional write.
func Checkout(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	projectID types.ID,
) (*types.Project, error) {
	project, err := be.DB.FindProjectInfoByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(project, userID, types.RoleMember); err != nil {
		be.Metrics.AddCheckout(resultForbidden)
		return nil, err
	}

	info, err := be.DB.CheckoutProject(ctx, projectID, userID)
	if errors.Is(err, database.ErrProjectAlreadyCheckedOut) {
		be.Metrics.AddCheckout(resultConflict)
		return nil, conflictError(ctx, be, projectID, userID, err)
	}
	if err != nil {
		return nil, err
	}
	be.Metrics.AddCheckout(resultSuccess)

	var list hooks.List
	list.Add("project_checked_out_activity", func(ctx context.Context) error {
		_, err := activities.Record(ctx, be, &database.ActivityInfo{
			Actor:     userID,
			Type:      types.ActivityProjectCheckedOut,
			ProjectID: info.ID,
			Data:      map[string]string{"name": info.Name},
			IsGlobal:  true,
		})
		return err
	})
	be.RunHooks(ctx, list)

	return info.ToProject(), nil
}

// conflictError describes the lock conflict with the current holder.
func conflictError(
	ctx context.Context,
	be *backend.Backend,
	projectID types.ID,
	userID types.ID,
	err error,
) error {
	current, findErr := be.DB.FindProjectInfoByID(ctx, projectID)
	if findErr != nil || current.CheckedOutBy.IsZero() {
		return fmt.Errorf("%s: %w", projectID, err)
	}

	if current.CheckedOutBy == userID {
		err = fmt.Errorf("%s by you: %w", projectID, err)
	} else {
		err = fmt.Errorf("%s by %s: %w", projectID, current.CheckedOutBy, err)
	}
	return pkgerrors.WithMetadata(err, map[string]string{
		"holder": current.CheckedOutBy.String(),
	})
}

// CheckIn records a check-in of the project and releases the lock. Only the
// lock holder can check in. The files are stored first, then the check-in
// is recorded, then the files are appended and the lock is cleared in a
// single conditional write. If that write fails, the check-in and the
// stored files are removed.
func CheckIn(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	projectID types.ID,
	fields *types.CheckInFields,
	uploads []Upload,
) (*types.CheckIn, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	message := sanitize.Text(fields.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	project, err := be.DB.FindProjectInfoByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.CheckedOutBy.IsZero() || project.CheckedOutBy != userID {
		return nil, fmt.Errorf("%s: %w", projectID, database.ErrNotLockHolder)
	}

	// 01. Store the uploaded files.
	files, err := storeUploads(ctx, be, projectID, userID, uploads)
	if err != nil {
		return nil, err
	}

	// 02. Record the check-in.
	checkIn, err := be.DB.CreateCheckInInfo(ctx, &database.CheckInInfo{
		ProjectID: projectID,
		UserID:    userID,
		Message:   message,
		Changes:   sanitize.Text(fields.Changes),
		Files:     files,
		Hashtags:  types.NormalizeHashtags(fields.Hashtags),
	})
	if err != nil {
		discardFiles(ctx, be, files)
		return nil, err
	}

	// 03. Append the files and release the lock.
	info, err := be.DB.ReleaseProject(ctx, projectID, userID, files)
	if err != nil {
		if delErr := be.DB.DeleteCheckInInfo(ctx, checkIn.ID); delErr != nil {
			logging.From(ctx).Errorf("compensate check-in %s: %v", checkIn.ID, delErr)
		}
		discardFiles(ctx, be, files)
		return nil, err
	}
	be.Metrics.AddCheckIn()

	// 04. Let the other members know.
	var list hooks.List
	list.Add("check_in_notification", func(ctx context.Context) error {
		_, err := notifications.NotifyMembers(ctx, be, info, notifications.Event{
			Sender:    userID,
			Type:      types.NotificationCheckIn,
			Message:   fmt.Sprintf("%s: %s", info.Name, message),
			CheckInID: checkIn.ID,
		})
		return err
	})
	list.Add("project_checked_in_activity", func(ctx context.Context) error {
		_, err := activities.Record(ctx, be, &database.ActivityInfo{
			Actor:     userID,
			Type:      types.ActivityProjectCheckedIn,
			ProjectID: info.ID,
			Data: map[string]string{
				"name":       info.Name,
				"message":    message,
				"checkin_id": checkIn.ID.String(),
			},
			IsGlobal: true,
		})
		return err
	})
	be.RunHooks(ctx, list)

	return checkIn.ToCheckIn(), nil
}

// storeUploads stores the uploads and returns their descriptors. Already
// stored files are removed if one of them fails.
func storeUploads(
	ctx context.Context,
	be *backend.Backend,
	projectID types.ID,
	userID types.ID,
	uploads []Upload,
) ([]*database.FileInfo, error) {
	now := time.Now()
	files := make([]*database.FileInfo, 0, len(uploads))
	for _, upload := range uploads {
		obj, err := be.Storage.Put(ctx, projectID, upload.Name, upload.Reader)
		if err != nil {
			discardFiles(ctx, be, files)
			return nil, err
		}

		files = append(files, &database.FileInfo{
			Name:       obj.Name,
			Path:       obj.Path,
			Size:       obj.Size,
			UploadedBy: userID,
			UploadedAt: now,
		})
	}
	return files, nil
}

func discardFiles(ctx context.Context, be *backend.Backend, files []*database.FileInfo) {
	for _, file := range files {
		if err := be.Storage.Delete(file.Path); err != nil {
			logging.From(ctx).Warnf("discard %s: %v", file.Path, err)
		}
	}
}

// ListCheckIns returns the check-ins of the project, the newest first. Only
// members can list them.
func ListCheckIns(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	projectID types.ID,
	limit int,
) ([]*types.CheckIn, error) {
	if _, err := authz.CheckPermission(ctx, be, userID, projectID, types.RoleMember); err != nil {
		return nil, err
	}

	infos, err := be.DB.ListCheckInInfos(ctx, projectID, limit)
	if err != nil {
		return nil, err
	}

	checkIns := make([]*types.CheckIn, 0, len(infos))
	for _, info := range infos {
		checkIns = append(checkIns, info.ToCheckIn())
	}
	return checkIns, nil
}

// GetCheckIn returns the check-in of the project. Only members can read it.
func GetCheckIn(
	ctx context.Context,
	be *backend.Backend,
	userID types.ID,
	projectID types.ID,
	id types.ID,
) (*types.CheckIn, error) {
	if _, err := authz.CheckPermission(ctx, be, userID, projectID, types.RoleMember); err != nil {
		return nil, err
	}

	info, err := be.DB.FindCheckInInfo(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	return info.ToCheckIn(), nil
}
