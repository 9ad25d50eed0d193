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

// Package housekeeping is the package for housekeeping service. It cleans up
// the data that is no longer needed.
package housekeeping

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRetention is returned when the retention is not positive.
var ErrInvalidRetention = errors.New("notification retention must be positive")

// Config is the configuration for the housekeeping service.
type Config struct {
	// Interval is the time between housekeeping runs.
	Interval string `yaml:"Interval"`

	// NotificationRetention is how long read notifications are kept.
	NotificationRetention string `yaml:"NotificationRetention"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Interval); err != nil {
		return fmt.Errorf(
			`invalid argument %s for "--housekeeping-interval" flag: %w`,
			c.Interval,
			err,
		)
	}

	retention, err := time.ParseDuration(c.NotificationRetention)
	if err != nil {
		return fmt.Errorf(
			`invalid argument %s for "--housekeeping-notification-retention" flag: %w`,
			c.NotificationRetention,
			err,
		)
	}
	if retention <= 0 {
		return fmt.Errorf("%s: %w", c.NotificationRetention, ErrInvalidRetention)
	}

	return nil
}

// ParseInterval parses the interval.
func (c *Config) ParseInterval() (time.Duration, error) {
	interval, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0, fmt.Errorf("parse interval %s: %w", c.Interval, err)
	}

	return interval, nil
}

// ParseNotificationRetention parses the retention of read notifications.
func (c *Config) ParseNotificationRetention() (time.Duration, error) {
	retention, err := time.ParseDuration(c.NotificationRetention)
	if err != nil {
		return 0, fmt.Errorf("parse retention %s: %w", c.NotificationRetention, err)
	}

	return retention, nil
}
