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

// Package users provides the user related business logic.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/shortuuid/v4"

	"github.com/syncsphere/syncsphere/api/types"
	pkgerrors "github.com/syncsphere/syncsphere/pkg/errors"
	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/logging"
)

var (
	// ErrUserOwnsProjects is returned when a user who owns projects deletes
	// the account.
	ErrUserOwnsProjects = pkgerrors.Conflict("user owns projects").WithCode("ErrUserOwnsProjects")

	// ErrUserHoldsLock is returned when a user who holds the lock of a
	// project deletes the account.
	ErrUserHoldsLock = pkgerrors.Conflict("user holds the lock of a project").WithCode("ErrUserHoldsLock")
)

// DefaultSearchLimit is the number of users returned by a search when no
// limit is given.
const DefaultSearchLimit = 20

// SignUp signs up a new user. It returns the user with the token that
// verifies the email address.
func SignUp(
	ctx context.Context,
	be *backend.Backend,
	fields *types.UserFields,
) (*types.User, string, error) {
	if fields.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*fields.Email))
		fields = &types.UserFields{
			Username: fields.Username,
			Password: fields.Password,
			Email:    &email,
		}
	}

	if err := fields.Validate(); err != nil {
		return nil, "", err
	}

	hashed, err := database.HashedPassword(*fields.Password)
	if err != nil {
		return nil, "", fmt.Errorf("cannot hash password: %w", err)
	}

	token := shortuuid.New()
	info, err := be.DB.CreateUserInfo(
		ctx,
		*fields.Username,
		*fields.Email,
		hashed,
		token,
	)
	if err != nil {
		return nil, "", err
	}

	logging.From(ctx).Infof("user signed up: %s", info.Username)
	return info.ToUser(), token, nil
}

// IsCorrectPassword checks if the password is correct. An unknown username
// is reported as a mismatched password.
func IsCorrectPassword(
	ctx context.Context,
	be *backend.Backend,
	username,
	password string,
) (*types.User, error) {
	info, err := be.DB.FindUserInfoByName(ctx, username)
	if errors.Is(err, database.ErrUserNotFound) {
		return nil, fmt.Errorf("%s: %w", username, database.ErrMismatchedPassword)
	}
	if err != nil {
		return nil, err
	}

	if err := database.CompareHashAndPassword(
		info.HashedPassword,
		password,
	); err != nil {
		return nil, err
	}

	return info.ToUser(), nil
}

// Verify marks the user waiting for the token as verified.
func Verify(ctx context.Context, be *backend.Backend, token string) (*types.User, error) {
	if token == "" {
		return nil, database.ErrInvalidVerificationToken
	}

	info, err := be.DB.VerifyUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}

	return info.ToUser(), nil
}

// GetUser returns the user of the given ID with the private fields.
func GetUser(ctx context.Context, be *backend.Backend, id types.ID) (*types.User, error) {
	info, err := be.DB.FindUserInfoByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return info.ToUser(), nil
}

// GetUserByName returns the public view of the user.
func GetUserByName(
	ctx context.Context,
	be *backend.Backend,
	username string,
) (*types.User, error) {
	info, err := be.DB.FindUserInfoByName(ctx, username)
	if err != nil {
		return nil, err
	}

	return info.ToPublicUser(), nil
}

// Search returns the public views of the users whose username contains
// the query.
func Search(
	ctx context.Context,
	be *backend.Backend,
	query string,
	limit int,
) ([]*types.User, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	infos, err := be.DB.SearchUserInfos(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	users := make([]*types.User, 0, len(infos))
	for _, info := range infos {
		users = append(users, info.ToPublicUser())
	}
	return users, nil
}

// UpdateProfile updates the profile of the user.
func UpdateProfile(
	ctx context.Context,
	be *backend.Backend,
	id types.ID,
	fields *types.UpdatableUserFields,
) (*types.User, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	info, err := be.DB.UpdateUserProfile(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	return info.ToUser(), nil
}

// DeleteAccount deletes the user. The user leaves every project and every
// friendship. Users who own projects or hold a lock cannot delete the
// account.
func DeleteAccount(ctx context.Context, be *backend.Backend, id types.ID) error {
	info, err := be.DB.FindUserInfoByID(ctx, id)
	if err != nil {
		return err
	}

	projects, err := be.DB.ListProjectInfosByMember(ctx, id)
	if err != nil {
		return err
	}
	for _, project := range projects {
		if project.Owner == id {
			return fmt.Errorf("%s owns %s: %w", info.Username, project.ID, ErrUserOwnsProjects)
		}
		if project.CheckedOutBy == id {
			return fmt.Errorf("%s holds %s: %w", info.Username, project.ID, ErrUserHoldsLock)
		}
	}

	for _, project := range projects {
		if _, err := be.DB.RemoveProjectMember(ctx, project.ID, id); err != nil &&
			!errors.Is(err, database.ErrMemberNotFound) {
			return err
		}
	}

	if err := be.DB.DeleteUserInfo(ctx, id); err != nil {
		return err
	}
	be.Cache.Users.Remove(info.Username)

	logging.From(ctx).Infof("user deleted: %s", info.Username)
	return nil
}
