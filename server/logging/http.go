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
	"time"

	pkgerrors "github.com/syncsphere/syncsphere/pkg/errors"
)

// RequestLogLevel represents the severity level for request logging.
type RequestLogLevel int

// The levels of request logging.
const (
	RequestLogDebug RequestLogLevel = iota
	RequestLogInfo
	RequestLogWarn
	RequestLogError
)

// String returns the string representation of RequestLogLevel.
func (l RequestLogLevel) String() string {
	switch l {
	case RequestLogDebug:
		return "debug"
	case RequestLogInfo:
		return "info"
	case RequestLogError:
		return "error"
	}
	return "warn"
}

// toRequestLogLevel determines the log level based on the status of the error.
func toRequestLogLevel(err error) RequestLogLevel {
	if err == nil || errors.Is(err, context.Canceled) {
		return RequestLogDebug
	}

	switch pkgerrors.StatusOf(err) {
	case pkgerrors.ErrCodeValidation, pkgerrors.ErrCodeNotFound, pkgerrors.ErrCodeConflict:
		return RequestLogInfo
	case pkgerrors.ErrCodeUnauthenticated, pkgerrors.ErrCodeForbidden, pkgerrors.ErrCodeResourceExhausted:
		return RequestLogWarn
	case pkgerrors.ErrCodeInternal, pkgerrors.ErrCodeUnavailable:
		return RequestLogError
	}

	// NOTE: errors without a status are reported as internal errors.
	return RequestLogError
}

// LogRequestError logs the error of a request with the level of its status.
func LogRequestError(logger Logger, method, path string, duration time.Duration, err error) {
	const template = "HTTP : %s %q %s => %q"
	switch toRequestLogLevel(err) {
	case RequestLogDebug:
		logger.Debugf(template, method, path, duration, err)
	case RequestLogInfo:
		logger.Infof(template, method, path, duration, err)
	case RequestLogWarn:
		logger.Warnf(template, method, path, duration, err)
	default:
		logger.Errorf(template, method, path, duration, err)
	}
}

// LogRequestSuccess logs the successful request at debug level.
func LogRequestSuccess(logger Logger, method, path string, status int, duration time.Duration) {
	logger.Debugf("HTTP : %s %q %d %s", method, path, status, duration)
}
