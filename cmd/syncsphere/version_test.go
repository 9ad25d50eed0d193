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

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/internal/version"
)

func TestVersionCmd(t *testing.T) {
	t.Run("print version test", func(t *testing.T) {
		buf := &bytes.Buffer{}
		rootCmd.SetOut(buf)
		rootCmd.SetArgs([]string{"version"})

		assert.NoError(t, rootCmd.Execute())
		assert.Contains(t, buf.String(), "SyncSphere: "+version.Version)
	})

	t.Run("invalid output test", func(t *testing.T) {
		output = "xml"
		defer func() { output = "" }()

		assert.Error(t, validateOutput())
	})
}
