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

package prometheus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/server/profiling/prometheus"
)

func TestMetrics(t *testing.T) {
	metrics, err := prometheus.NewMetrics()
	assert.NoError(t, err)

	metrics.AddCheckout("succeeded")
	metrics.AddCheckout("conflict")
	metrics.AddCheckout("conflict")
	metrics.AddCheckIn()
	metrics.AddNotifications("check_in", 3)
	metrics.AddHookFailure("notify-members")
	metrics.AddServerHandledCounter("GET", "/api/projects", 200)
	metrics.ObserveServerHandlingSeconds("GET", "/api/projects", 0.01)
	metrics.AddBackgroundGoroutines("hooks")
	metrics.RemoveBackgroundGoroutines("hooks")

	families, err := metrics.Registry().Gather()
	assert.NoError(t, err)

	series := map[string]int{}
	for _, family := range families {
		series[family.GetName()] = len(family.GetMetric())
	}
	assert.Equal(t, 2, series["syncsphere_projects_checkouts_total"])
	assert.Equal(t, 1, series["syncsphere_projects_checkins_total"])
	assert.Equal(t, 1, series["syncsphere_notifications_created_total"])
	assert.Equal(t, 1, series["syncsphere_hooks_failures_total"])
	assert.Equal(t, 1, series["syncsphere_server_version"])
}
