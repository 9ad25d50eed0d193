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

package server

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syncsphere/syncsphere/server/backend"
	"github.com/syncsphere/syncsphere/server/backend/database/mongo"
	"github.com/syncsphere/syncsphere/server/backend/housekeeping"
	"github.com/syncsphere/syncsphere/server/backend/storage"
	"github.com/syncsphere/syncsphere/server/profiling"
	"github.com/syncsphere/syncsphere/server/rest"
)

// Below are the values of the default values of SyncSphere config.
const (
	DefaultRESTPort      = 8080
	DefaultProfilingPort = 8081

	DefaultHousekeepingInterval              = time.Hour
	DefaultHousekeepingNotificationRetention = 30 * 24 * time.Hour

	DefaultMongoConnectionURI                = "mongodb://localhost:27017"
	DefaultMongoConnectionTimeout            = 5 * time.Second
	DefaultMongoPingTimeout                  = 5 * time.Second
	DefaultMongoDatabase                     = "syncsphere-meta"
	DefaultMongoMonitoringSlowQueryThreshold = 100 * time.Millisecond

	DefaultSecretKey       = "syncsphere-secret"
	DefaultTokenDuration   = 24 * time.Hour
	DefaultHookConcurrency = 16
	DefaultFeedLimit       = 50
	DefaultAuthCacheSize   = 5000
	DefaultAuthCacheTTL    = 10 * time.Second

	DefaultStorageRoot = "syncsphere-data"
)

// Config is the configuration for creating a SyncSphere instance.
type Config struct {
	REST         *rest.Config         `yaml:"REST"`
	Profiling    *profiling.Config    `yaml:"Profiling"`
	Housekeeping *housekeeping.Config `yaml:"Housekeeping"`
	Backend      *backend.Config      `yaml:"Backend"`
	Mongo        *mongo.Config        `yaml:"Mongo"`
	Storage      *storage.Config      `yaml:"Storage"`
}

// NewConfig returns a Config struct that contains reasonable defaults
// for most of the configurations.
func NewConfig() *Config {
	return newConfig(DefaultRESTPort, DefaultProfilingPort)
}

// NewConfigFromFile returns a Config struct for the given conf file.
func NewConfigFromFile(path string) (*Config, error) {
	conf := NewConfig()
	bytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(bytes, conf); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	conf.ensureDefaultValue()
	return conf, nil
}

// RESTAddr returns the address of the REST server.
func (c *Config) RESTAddr() string {
	return fmt.Sprintf("localhost:%d", c.REST.Port)
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if err := c.REST.Validate(); err != nil {
		return err
	}

	if c.Profiling != nil {
		if err := c.Profiling.Validate(); err != nil {
			return err
		}
	}

	if c.Housekeeping != nil {
		if err := c.Housekeeping.Validate(); err != nil {
			return err
		}
	}

	if err := c.Backend.Validate(); err != nil {
		return err
	}

	if c.Mongo != nil {
		if err := c.Mongo.Validate(); err != nil {
			return err
		}
	}

	if err := c.Storage.Validate(); err != nil {
		return err
	}

	return nil
}

// ensureDefaultValue sets the value of the option to which the default value
// should be applied when the user does not input it.
func (c *Config) ensureDefaultValue() {
	if c.REST == nil {
		c.REST = &rest.Config{}
	}
	if c.REST.Port == 0 {
		c.REST.Port = DefaultRESTPort
	}
	if c.REST.MaxRequestBytes == 0 {
		c.REST.MaxRequestBytes = rest.DefaultMaxRequestBytes
	}
	if c.REST.RateLimit == 0 {
		c.REST.RateLimit = rest.DefaultRateLimit
	}
	if c.REST.RateBurst == 0 {
		c.REST.RateBurst = rest.DefaultRateBurst
	}

	if c.Profiling != nil && c.Profiling.Port == 0 {
		c.Profiling.Port = DefaultProfilingPort
	}

	if c.Housekeeping != nil {
		if c.Housekeeping.Interval == "" {
			c.Housekeeping.Interval = DefaultHousekeepingInterval.String()
		}
		if c.Housekeeping.NotificationRetention == "" {
			c.Housekeeping.NotificationRetention = DefaultHousekeepingNotificationRetention.String()
		}
	}

	if c.Backend == nil {
		c.Backend = &backend.Config{}
	}
	if c.Backend.SecretKey == "" {
		c.Backend.SecretKey = DefaultSecretKey
	}
	if c.Backend.TokenDuration == "" {
		c.Backend.TokenDuration = DefaultTokenDuration.String()
	}
	if c.Backend.HookConcurrency == 0 {
		c.Backend.HookConcurrency = DefaultHookConcurrency
	}
	if c.Backend.FeedLimit == 0 {
		c.Backend.FeedLimit = DefaultFeedLimit
	}
	if c.Backend.AuthCacheSize == 0 {
		c.Backend.AuthCacheSize = DefaultAuthCacheSize
	}
	if c.Backend.AuthCacheTTL == "" {
		c.Backend.AuthCacheTTL = DefaultAuthCacheTTL.String()
	}

	if c.Mongo != nil {
		if c.Mongo.ConnectionURI == "" {
			c.Mongo.ConnectionURI = DefaultMongoConnectionURI
		}

		if c.Mongo.ConnectionTimeout == "" {
			c.Mongo.ConnectionTimeout = DefaultMongoConnectionTimeout.String()
		}

		if c.Mongo.Database == "" {
			c.Mongo.Database = DefaultMongoDatabase
		}

		if c.Mongo.PingTimeout == "" {
			c.Mongo.PingTimeout = DefaultMongoPingTimeout.String()
		}

		if c.Mongo.MonitoringEnabled {
			if c.Mongo.MonitoringSlowQueryThreshold == "" {
				c.Mongo.MonitoringSlowQueryThreshold = DefaultMongoMonitoringSlowQueryThreshold.String()
			}
		}
	}

	if c.Storage == nil {
		c.Storage = &storage.Config{}
	}
	if c.Storage.Root == "" {
		c.Storage.Root = DefaultStorageRoot
	}
	if c.Storage.MaxFileBytes == 0 {
		c.Storage.MaxFileBytes = storage.DefaultMaxFileBytes
	}
}

func newConfig(port int, profilingPort int) *Config {
	return &Config{
		REST: &rest.Config{
			Port:            port,
			MaxRequestBytes: rest.DefaultMaxRequestBytes,
			RateLimit:       rest.DefaultRateLimit,
			RateBurst:       rest.DefaultRateBurst,
		},
		Profiling: &profiling.Config{
			Port: profilingPort,
		},
		Housekeeping: &housekeeping.Config{
			Interval:              DefaultHousekeepingInterval.String(),
			NotificationRetention: DefaultHousekeepingNotificationRetention.String(),
		},
		Backend: &backend.Config{
			SecretKey:       DefaultSecretKey,
			TokenDuration:   DefaultTokenDuration.String(),
			HookConcurrency: DefaultHookConcurrency,
			FeedLimit:       DefaultFeedLimit,
			AuthCacheSize:   DefaultAuthCacheSize,
			AuthCacheTTL:    DefaultAuthCacheTTL.String(),
		},
		Storage: &storage.Config{
			Root:         DefaultStorageRoot,
			MaxFileBytes: storage.DefaultMaxFileBytes,
		},
	}
}
