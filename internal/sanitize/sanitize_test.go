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

package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syncsphere/syncsphere/internal/sanitize"
)

func TestSanitize(t *testing.T) {
	t.Run("text test", func(t *testing.T) {
		assert.Equal(t, "v1", sanitize.Text("<b>v1</b>"))
		assert.Equal(t, "", sanitize.Text("<script>alert(1)</script>"))
		assert.Equal(t, "fix &amp; ship", sanitize.Text("  fix & ship "))
	})

	t.Run("content test", func(t *testing.T) {
		assert.Equal(t, "<p>hello</p>", sanitize.Content("<p>hello</p><script>alert(1)</script>"))
		assert.Equal(t, "<p>hi</p>", sanitize.Content(`<p onclick="steal()">hi</p>`))
	})
}
