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

package server_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/server"
	"github.com/syncsphere/syncsphere/server/backend/storage"
	"github.com/syncsphere/syncsphere/server/rest"
)

func TestNewConfigFromFile(t *testing.T) {
	t.Run("fail read config file test", func(t *testing.T) {
		conf := server.NewConfig()
		assert.Equal(t, "localhost:"+strconv.Itoa(server.DefaultRESTPort), conf.RESTAddr())
		_, err := server.NewConfigFromFile("nowhere.yml")
		assert.Error(t, err)

		assert.Equal(t, server.DefaultRESTPort, conf.REST.Port)
		assert.Equal(t, "", conf.REST.CertFile)
		assert.Equal(t, "", conf.REST.KeyFile)
		assert.Nil(t, conf.Mongo)
		assert.NoError(t, conf.Validate())
	})

	t.Run("read config file test", func(t *testing.T) {
		conf, err := server.NewConfigFromFile("config.sample.yml")
		assert.NoError(t, err)

		assert.Equal(t, server.DefaultRESTPort, conf.REST.Port)
		assert.Equal(t, rest.DefaultMaxRequestBytes, conf.REST.MaxRequestBytes)
		assert.Equal(t, server.DefaultProfilingPort, conf.Profiling.Port)

		connTimeout, err := time.ParseDuration(conf.Mongo.ConnectionTimeout)
		assert.NoError(t, err)
		assert.Equal(t, server.DefaultMongoConnectionTimeout, connTimeout)
		assert.Equal(t, server.DefaultMongoConnectionURI, conf.Mongo.ConnectionURI)
		assert.Equal(t, server.DefaultMongoDatabase, conf.Mongo.Database)

		pingTimeout, err := time.ParseDuration(conf.Mongo.PingTimeout)
		assert.NoError(t, err)
		assert.Equal(t, server.DefaultMongoPingTimeout, pingTimeout)

		tokenDuration, err := time.ParseDuration(conf.Backend.TokenDuration)
		assert.NoError(t, err)
		assert.Equal(t, server.DefaultTokenDuration, tokenDuration)
		assert.True(t, conf.Backend.AsyncHooks)
		assert.Equal(t, int64(server.DefaultHookConcurrency), conf.Backend.HookConcurrency)

		interval, err := conf.Housekeeping.ParseInterval()
		assert.NoError(t, err)
		assert.Equal(t, server.DefaultHousekeepingInterval, interval)
		retention, err := conf.Housekeeping.ParseNotificationRetention()
		assert.NoError(t, err)
		assert.Equal(t, server.DefaultHousekeepingNotificationRetention, retention)

		assert.Equal(t, server.DefaultStorageRoot, conf.Storage.Root)
		assert.Equal(t, storage.DefaultMaxFileBytes, conf.Storage.MaxFileBytes)
		assert.NoError(t, conf.Validate())
	})

	t.Run("invalid config test", func(t *testing.T) {
		conf := server.NewConfig()
		conf.Backend.FeedLimit = 0
		assert.Error(t, conf.Validate())

		conf = server.NewConfig()
		conf.REST.RateBurst = 0
		assert.ErrorIs(t, conf.Validate(), rest.ErrInvalidRateLimit)
	})
}
