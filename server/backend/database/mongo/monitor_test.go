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

package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/event"
)

func TestQueryMonitor(t *testing.T) {
	t.Run("disabled monitor test", func(t *testing.T) {
		monitor := NewQueryMonitor(&MonitorConfig{Enabled: false})
		assert.Nil(t, monitor.CreateCommandMonitor())
	})

	t.Run("expected failure test", func(t *testing.T) {
		monitor := NewQueryMonitor(&MonitorConfig{Enabled: true, SlowQueryThreshold: time.Second})
		assert.NotNil(t, monitor.CreateCommandMonitor())

		duplicated := &event.CommandFailedEvent{
			Failure: errors.New("E11000 duplicate key error collection: syncsphere.users index: username_1"),
		}
		assert.True(t, monitor.isExpectedFailure(duplicated))

		unexpected := &event.CommandFailedEvent{
			Failure: errors.New("connection reset by peer"),
		}
		assert.False(t, monitor.isExpectedFailure(unexpected))
		assert.False(t, monitor.isExpectedFailure(&event.CommandFailedEvent{}))
	})

	t.Run("slow query test", func(t *testing.T) {
		monitor := NewQueryMonitor(&MonitorConfig{Enabled: true, SlowQueryThreshold: 100 * time.Millisecond})
		assert.True(t, monitor.IsSlow(time.Second))
		assert.False(t, monitor.IsSlow(10*time.Millisecond))

		disabled := NewQueryMonitor(&MonitorConfig{Enabled: true})
		assert.False(t, disabled.IsSlow(time.Hour))
	})

	t.Run("collection of command test", func(t *testing.T) {
		monitor := NewQueryMonitor(&MonitorConfig{Enabled: true})
		cmdMonitor := monitor.CreateCommandMonitor()

		cmd, err := bson.Marshal(bson.D{{Key: "update", Value: ColProjects}})
		assert.NoError(t, err)
		assert.Equal(t, ColProjects, collectionOf(cmd))
		assert.Equal(t, "", collectionOf(nil))

		cmdMonitor.Started(context.Background(), &event.CommandStartedEvent{
			Command:     cmd,
			CommandName: "update",
			RequestID:   7,
		})
		assert.Equal(t, ColProjects, monitor.finish(7))
		assert.Equal(t, "", monitor.finish(7))
	})
}
