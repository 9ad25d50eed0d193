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

package housekeeping_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/backend/housekeeping"
	"github.com/syncsphere/syncsphere/test/helper"
)

func TestHousekeeping(t *testing.T) {
	ctx := context.Background()

	t.Run("purge notifications test", func(t *testing.T) {
		be := helper.TestBackend(t)
		alice := helper.CreateUser(t, be, "alice")
		bob := helper.CreateUser(t, be, "bob")

		old, err := be.DB.CreateNotificationInfo(ctx, &database.NotificationInfo{
			Recipient: alice.ID,
			Sender:    bob.ID,
			Type:      types.NotificationFriendRequest,
			CreatedAt: time.Now().Add(-2 * time.Hour),
		})
		assert.NoError(t, err)
		assert.NoError(t, be.DB.MarkNotificationRead(ctx, alice.ID, old.ID))

		recent, err := be.DB.CreateNotificationInfo(ctx, &database.NotificationInfo{
			Recipient: alice.ID,
			Sender:    bob.ID,
			Type:      types.NotificationFriendAccepted,
		})
		assert.NoError(t, err)
		assert.NoError(t, be.DB.MarkNotificationRead(ctx, alice.ID, recent.ID))

		h, err := housekeeping.New(&housekeeping.Config{
			Interval:              "1h",
			NotificationRetention: "1h",
		}, be.DB)
		assert.NoError(t, err)

		purged, err := h.PurgeNotifications(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), purged)
		assert.Equal(t, 1, helper.CountNotifications(t, be, alice.ID))
	})

	t.Run("periodic run test", func(t *testing.T) {
		be := helper.TestBackend(t)
		alice := helper.CreateUser(t, be, "alice")

		info, err := be.DB.CreateNotificationInfo(ctx, &database.NotificationInfo{
			Recipient: alice.ID,
			Sender:    alice.ID,
			Type:      types.NotificationFriendRequest,
			CreatedAt: time.Now().Add(-time.Hour),
		})
		assert.NoError(t, err)
		assert.NoError(t, be.DB.MarkNotificationRead(ctx, alice.ID, info.ID))

		h, err := housekeeping.New(&housekeeping.Config{
			Interval:              "10ms",
			NotificationRetention: "1m",
		}, be.DB)
		assert.NoError(t, err)
		assert.NoError(t, h.Start())

		assert.Eventually(t, func() bool {
			return helper.CountNotifications(t, be, alice.ID) == 0
		}, time.Second, 10*time.Millisecond)
		assert.NoError(t, h.Stop())
	})
}
