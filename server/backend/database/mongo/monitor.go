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
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/event"
	"go.uber.org/zap"

	"github.com/syncsphere/syncsphere/server/logging"
)

// MonitorConfig represents configuration for MongoDB query monitoring.
type MonitorConfig struct {
	// Enabled determines whether query monitoring is enabled.
	Enabled bool

	// SlowQueryThreshold is the duration after which a command is logged as
	// a slow query. Zero disables it.
	SlowQueryThreshold time.Duration
}

// QueryMonitor logs the commands sent to MongoDB with their collections.
type QueryMonitor struct {
	logger logging.Logger
	config *MonitorConfig

	// collections maps the request ID of a running command to its collection.
	collections sync.Map
}

// NewQueryMonitor creates a new instance of QueryMonitor.
func NewQueryMonitor(config *MonitorConfig) *QueryMonitor {
	return &QueryMonitor{
		logger: logging.New("mongo"),
		config: config,
	}
}

// CreateCommandMonitor returns the event.CommandMonitor of the client. It
// returns nil if the monitoring is disabled.
func (m *QueryMonitor) CreateCommandMonitor() *event.CommandMonitor {
	if !m.config.Enabled {
		return nil
	}

	return &event.CommandMonitor{
		Started: func(_ context.Context, evt *event.CommandStartedEvent) {
			m.collections.Store(evt.RequestID, collectionOf(evt.Command))
			if logging.Enabled(zap.DebugLevel) {
				m.logger.Debugf("STAR: %d %s: %s", evt.RequestID, evt.CommandName, evt.Command)
			}
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			collection := m.finish(evt.RequestID)
			if m.IsSlow(evt.Duration) {
				m.logger.Warnf(
					"SLOW: %d %s %s: %dms",
					evt.RequestID,
					evt.CommandName,
					collection,
					evt.Duration.Milliseconds(),
				)
				return
			}

			m.logger.Debugf(
				"SUCC: %d %s %s: %dms",
				evt.RequestID,
				evt.CommandName,
				collection,
				evt.Duration.Milliseconds(),
			)
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			collection := m.finish(evt.RequestID)
			log := m.logger.Warnf
			if m.isExpectedFailure(evt) {
				log = m.logger.Debugf
			}

			log(
				"FAIL: %d %s %s, %v: %dms",
				evt.RequestID,
				evt.CommandName,
				collection,
				evt.Failure,
				evt.Duration.Milliseconds(),
			)
		},
	}
}

// IsSlow reports whether the command took longer than the threshold.
func (m *QueryMonitor) IsSlow(d time.Duration) bool {
	return m.config.SlowQueryThreshold > 0 && d > m.config.SlowQueryThreshold
}

// finish forgets the running command and returns its collection.
func (m *QueryMonitor) finish(requestID int64) string {
	raw, ok := m.collections.LoadAndDelete(requestID)
	if !ok {
		return ""
	}
	return raw.(string)
}

// isExpectedFailure reports whether the failure is a normal outcome of a
// request, such as a taken username, and is logged at debug level.
func (m *QueryMonitor) isExpectedFailure(evt *event.CommandFailedEvent) bool {
	if evt.Failure == nil {
		return false
	}

	failure := evt.Failure.Error()
	return strings.Contains(failure, "E11000 duplicate key") && strings.Contains(failure, ColUsers)
}

// collectionOf returns the collection of the command. The name of a command
// is its first element and the value is the collection.
func collectionOf(cmd bson.Raw) string {
	elem, err := cmd.IndexErr(0)
	if err != nil {
		return ""
	}

	collection, ok := elem.Value().StringValueOK()
	if !ok {
		return ""
	}
	return collection
}
