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

// Package sanitize removes unsafe markup from text written by users.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// textPolicy strips every tag.
	textPolicy = bluemonday.StrictPolicy()

	// contentPolicy keeps the markup of user generated content and drops
	// scripts, styles and event handlers.
	contentPolicy = newContentPolicy()
)

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	return p
}

// Text returns the text with every tag removed, e.g. check-in messages.
func Text(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

// Content returns the content with unsafe markup removed, e.g. the bodies
// of discussions and comments.
func Content(s string) string {
	return strings.TrimSpace(contentPolicy.Sanitize(s))
}
