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

package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/server/backend"
)

func newValidBackendConf() backend.Config {
	return backend.Config{
		SecretKey:       "secret",
		TokenDuration:   "24h",
		HookConcurrency: 8,
		FeedLimit:       50,
		AuthCacheSize:   100,
		AuthCacheTTL:    "10s",
	}
}

func TestConfig(t *testing.T) {
	t.Run("validate test", func(t *testing.T) {
		validConf := newValidBackendConf()
		assert.NoError(t, validConf.Validate())

		conf1 := validConf
		conf1.TokenDuration = "1 day"
		assert.Error(t, conf1.Validate())

		conf2 := validConf
		conf2.AuthCacheTTL = "s"
		assert.Error(t, conf2.Validate())

		conf3 := validConf
		conf3.SecretKey = ""
		assert.ErrorIs(t, conf3.Validate(), backend.ErrEmptySecretKey)

		conf4 := validConf
		conf4.HookConcurrency = 0
		assert.ErrorIs(t, conf4.Validate(), backend.ErrInvalidHookConcurrency)

		conf5 := validConf
		conf5.FeedLimit = -1
		assert.ErrorIs(t, conf5.Validate(), backend.ErrInvalidFeedLimit)

		conf6 := validConf
		conf6.AuthCacheSize = 0
		assert.ErrorIs(t, conf6.Validate(), backend.ErrInvalidCacheSize)
	})

	t.Run("parse test", func(t *testing.T) {
		validConf := newValidBackendConf()

		assert.Equal(t, "24h0m0s", validConf.ParseTokenDuration().String())
		assert.Equal(t, "10s", validConf.ParseAuthCacheTTL().String())
	})
}
