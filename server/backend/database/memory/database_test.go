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

package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/server/backend/database/memory"
	"github.com/syncsphere/syncsphere/server/backend/database/testcases"
)

func TestDB(t *testing.T) {
	db, err := memory.New()
	assert.NoError(t, err)

	t.Run("UserInfo test", func(t *testing.T) {
		testcases.RunUserInfoTest(t, db)
	})

	t.Run("Friendship test", func(t *testing.T) {
		testcases.RunFriendshipTest(t, db)
	})

	t.Run("ProjectInfo test", func(t *testing.T) {
		testcases.RunProjectInfoTest(t, db)
	})

	t.Run("Checkout test", func(t *testing.T) {
		testcases.RunCheckoutTest(t, db)
	})

	t.Run("CheckInInfo test", func(t *testing.T) {
		testcases.RunCheckInInfoTest(t, db)
	})

	t.Run("NotificationInfo test", func(t *testing.T) {
		testcases.RunNotificationInfoTest(t, db)
	})

	t.Run("PurgeReadNotifications test", func(t *testing.T) {
		testcases.RunPurgeReadNotificationsTest(t, db)
	})

	t.Run("ActivityInfo test", func(t *testing.T) {
		testcases.RunActivityInfoTest(t, db)
	})

	t.Run("DiscussionInfo test", func(t *testing.T) {
		testcases.RunDiscussionInfoTest(t, db)
	})

	t.Run("DeleteProjectInfo test", func(t *testing.T) {
		testcases.RunDeleteProjectInfoTest(t, db)
	})
}
