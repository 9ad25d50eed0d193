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

// Package prometheus provides a Prometheus metrics exporter.
package prometheus

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/syncsphere/syncsphere/internal/version"
)

const (
	namespace       = "syncsphere"
	methodLabel     = "method"
	routeLabel      = "route"
	codeLabel       = "code"
	resultLabel     = "result"
	taskTypeLabel   = "task_type"
	hookLabel       = "hook"
	notifyTypeLabel = "type"
)

// Metrics manages the metric information that SyncSphere is trying to measure.
type Metrics struct {
	registry *prometheus.Registry

	serverVersion         *prometheus.GaugeVec
	serverHandledCounter  *prometheus.CounterVec
	serverHandlingSeconds *prometheus.HistogramVec
	checkoutsTotal        *prometheus.CounterVec
	checkInsTotal         prometheus.Counter
	notificationsTotal    *prometheus.CounterVec
	hookFailuresTotal     *prometheus.CounterVec
	deletedDocumentsTotal *prometheus.CounterVec
	backgroundGoroutines  *prometheus.GaugeVec
}

// NewMetrics creates a new instance of Metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	metrics := &Metrics{
		registry: reg,
		serverVersion: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "version",
			Help:      "Which version is running. 1 for 'server_version' label with current version.",
		}, []string{"server_version"}),
		serverHandledCounter: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "server_handled_total",
			Help:      "Total number of HTTP requests completed on the server, regardless of success or failure.",
		}, []string{methodLabel, routeLabel, codeLabel}),
		serverHandlingSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "server_handling_seconds",
			Help:      "The response time of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{methodLabel, routeLabel}),
		checkoutsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projects",
			Name:      "checkouts_total",
			Help:      "The total count of checkout attempts by result.",
		}, []string{resultLabel}),
		checkInsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projects",
			Name:      "checkins_total",
			Help:      "The total count of recorded check-ins.",
		}),
		notificationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "created_total",
			Help:      "The total count of created notifications by type.",
		}, []string{notifyTypeLabel}),
		hookFailuresTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hooks",
			Name:      "failures_total",
			Help:      "The total count of post-commit hooks that failed.",
		}, []string{hookLabel}),
		deletedDocumentsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projects",
			Name:      "cascade_deleted_total",
			Help:      "The total count of documents removed together with projects.",
		}, []string{"collection"}),
		backgroundGoroutines: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "background",
			Name:      "goroutines_total",
			Help:      "The total number of goroutines attached by a particular background task.",
		}, []string{taskTypeLabel}),
	}

	metrics.serverVersion.With(prometheus.Labels{
		"server_version": version.Version,
	}).Set(1)

	return metrics, nil
}

// AddServerHandledCounter adds the number of requests completed on the server.
func (m *Metrics) AddServerHandledCounter(method, route string, code int) {
	m.serverHandledCounter.With(prometheus.Labels{
		methodLabel: method,
		routeLabel:  route,
		codeLabel:   strconv.Itoa(code),
	}).Inc()
}

// ObserveServerHandlingSeconds adds an observation for response time.
func (m *Metrics) ObserveServerHandlingSeconds(method, route string, seconds float64) {
	m.serverHandlingSeconds.With(prometheus.Labels{
		methodLabel: method,
		routeLabel:  route,
	}).Observe(seconds)
}

// AddCheckout adds a checkout attempt with the given result.
func (m *Metrics) AddCheckout(result string) {
	m.checkoutsTotal.With(prometheus.Labels{
		resultLabel: result,
	}).Inc()
}

// AddCheckIn adds a recorded check-in.
func (m *Metrics) AddCheckIn() {
	m.checkInsTotal.Inc()
}

// AddNotifications adds the number of created notifications.
func (m *Metrics) AddNotifications(notificationType string, count int) {
	m.notificationsTotal.With(prometheus.Labels{
		notifyTypeLabel: notificationType,
	}).Add(float64(count))
}

// AddHookFailure adds a failed post-commit hook.
func (m *Metrics) AddHookFailure(hook string) {
	m.hookFailuresTotal.With(prometheus.Labels{
		hookLabel: hook,
	}).Inc()
}

// AddCascadeDeleted adds the number of documents removed with a project.
func (m *Metrics) AddCascadeDeleted(collection string, count int64) {
	m.deletedDocumentsTotal.With(prometheus.Labels{
		"collection": collection,
	}).Add(float64(count))
}

// AddBackgroundGoroutines adds the number of goroutines attached by a particular background task.
func (m *Metrics) AddBackgroundGoroutines(taskType string) {
	m.backgroundGoroutines.With(prometheus.Labels{
		taskTypeLabel: taskType,
	}).Inc()
}

// RemoveBackgroundGoroutines removes the number of goroutines attached by a particular background task.
func (m *Metrics) RemoveBackgroundGoroutines(taskType string) {
	m.backgroundGoroutines.With(prometheus.Labels{
		taskTypeLabel: taskType,
	}).Dec()
}

// Registry returns the registry of this metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
