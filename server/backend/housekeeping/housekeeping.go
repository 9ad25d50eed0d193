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

package housekeeping

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/syncsphere/syncsphere/server/backend/database"
	"github.com/syncsphere/syncsphere/server/logging"
)

// Housekeeping is the housekeeping service. It periodically deletes the read
// notifications older than the retention.
type Housekeeping struct {
	database database.Database

	interval  time.Duration
	retention time.Duration

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// New creates a new housekeeping instance.
func New(conf *Config, db database.Database) (*Housekeeping, error) {
	interval, err := conf.ParseInterval()
	if err != nil {
		return nil, err
	}
	retention, err := conf.ParseNotificationRetention()
	if err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())

	return &Housekeeping{
		database: db,

		interval:  interval,
		retention: retention,

		ctx:        ctx,
		cancelFunc: cancelFunc,
	}, nil
}

// Start starts the housekeeping service.
func (h *Housekeeping) Start() error {
	h.wg.Add(1)
	go h.run()
	return nil
}

// Stop stops the housekeeping service and waits for the running task.
func (h *Housekeeping) Stop() error {
	h.cancelFunc()
	h.wg.Wait()

	return nil
}

// run is the housekeeping loop.
func (h *Housekeeping) run() {
	defer h.wg.Done()

	for {
		select {
		case <-time.After(h.interval):
		case <-h.ctx.Done():
			return
		}

		if _, err := h.PurgeNotifications(h.ctx); err != nil {
			logging.From(h.ctx).Error(err)
		}
	}
}

// PurgeNotifications deletes the read notifications older than the
// retention and returns the number of deleted notifications.
func (h *Housekeeping) PurgeNotifications(ctx context.Context) (int64, error) {
	start := time.Now()
	purged, err := h.database.PurgeReadNotifications(ctx, start.Add(-h.retention))
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}

	if purged > 0 {
		logging.From(ctx).Infof(
			"HSKP: purged %d read notifications older than %s, %s",
			purged,
			h.retention,
			time.Since(start),
		)
	}

	return purged, nil
}
