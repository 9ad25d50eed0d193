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

package logging

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	pkgerrors "github.com/syncsphere/syncsphere/pkg/errors"
)

func TestRequestLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected RequestLogLevel
	}{
		{name: "nil error", err: nil, expected: RequestLogDebug},
		{name: "context canceled", err: fmt.Errorf("wait: %w", context.Canceled), expected: RequestLogDebug},
		{name: "validation", err: pkgerrors.Validation("invalid"), expected: RequestLogInfo},
		{name: "not found", err: pkgerrors.NotFound("not found"), expected: RequestLogInfo},
		{name: "conflict", err: pkgerrors.Conflict("checked out"), expected: RequestLogInfo},
		{name: "forbidden", err: pkgerrors.Forbidden("no permission"), expected: RequestLogWarn},
		{name: "unauthenticated", err: pkgerrors.Unauthenticated("auth failed"), expected: RequestLogWarn},
		{name: "resource exhausted", err: pkgerrors.ResourceExhausted("too many"), expected: RequestLogWarn},
		{name: "internal", err: pkgerrors.Internal("internal"), expected: RequestLogError},
		{name: "plain error", err: errors.New("regular error"), expected: RequestLogError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, toRequestLogLevel(tt.err))
		})
	}
}

func TestLogging(t *testing.T) {
	t.Run("SetLogLevel test", func(t *testing.T) {
		assert.NoError(t, SetLogLevel("debug"))
		assert.True(t, Enabled(zapcore.DebugLevel))
		assert.Error(t, SetLogLevel("verbose"))
		assert.Error(t, SetLogLevel("dpanic"))

		assert.NoError(t, SetLogLevel("WARN"))
		assert.False(t, Enabled(zapcore.InfoLevel))
		assert.True(t, Enabled(zapcore.ErrorLevel))
		assert.NoError(t, SetLogLevel("info"))
	})

	t.Run("SetEncoding test", func(t *testing.T) {
		assert.NoError(t, SetEncoding("json"))
		assert.NotNil(t, New("json"))
		assert.NoError(t, SetEncoding("console"))
		assert.Error(t, SetEncoding("xml"))
	})

	t.Run("context test", func(t *testing.T) {
		logger := New("request", NewField("request_id", "abc"))
		ctx := With(context.Background(), logger)
		assert.Equal(t, logger, From(ctx))
		assert.Equal(t, DefaultLogger(), From(context.Background()))
	})
}
