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


// Package errors provides errors that carry a status, which the transport
// layer maps to a response, and an optional machine readable code.
package errors

import (
	"errors"
)

// StatusError represents an error that carries a status and an optional
// machine readable code.
type StatusError interface {
	error
	Status() StatusCode
	Code() string
	WithCode(code string) StatusError
}

// statusError is compared by identity, so sentinel errors can be matched
// with errors.Is.
type statusError struct {
	message string
	status  StatusCode
	code    string
}

func (e *statusError) Error() string      { return e.message }
func (e *statusError) Status() StatusCode { return e.status }

// Code returns the code of the error, e.g. "ErrProjectNotFound".
func (e *statusError) Code() string { return e.code }

// WithCode returns a copy of the error with the given code.
func (e *statusError) WithCode(code string) StatusError {
	return &statusError{message: e.message, status: e.status, code: code}
}

func newStatusError(status StatusCode) func(string) StatusError {
	return func(message string) StatusError {
		return &statusError{message: message, status: status}
	}
}

var (
	// Validation creates an error for a missing field or a malformed value.
	Validation = newStatusError(ErrCodeValidation)

	// NotFound creates an error for a missing entity.
	NotFound = newStatusError(ErrCodeNotFound)

	// Conflict creates an error for an operation that collides with the
	// current state of an entity.
	Conflict = newStatusError(ErrCodeConflict)

	// Forbidden creates an error for an actor without permission.
	Forbidden = newStatusError(ErrCodeForbidden)

	// ResourceExhausted creates an error for a rate or size limit.
	ResourceExhausted = newStatusError(ErrCodeResourceExhausted)

	// Unauthenticated creates an error for missing or invalid credentials.
	Unauthenticated = newStatusError(ErrCodeUnauthenticated)

	// Internal creates an error for a failure of the server.
	Internal = newStatusError(ErrCodeInternal)

	// Unavailable creates an error for a dependency that cannot be reached.
	Unavailable = newStatusError(ErrCodeUnavailable)
)

// StatusOf returns the status of the first StatusError in the chain, or 0
// if there is none.
func StatusOf(err error) StatusCode {
	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status()
	}
	return 0
}

// CodeOf returns the code of the first StatusError in the chain.
func CodeOf(err error) string {
	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code()
	}
	return ""
}

// IsStatus checks if the given error has the specified status.
func IsStatus(err error, code StatusCode) bool {
	return StatusOf(err) == code
}
