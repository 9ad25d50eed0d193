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

// Package errors provides server-side error management with structured
// statuses that the REST layer converts into HTTP responses.
package errors

import (
	"fmt"
	"net/http"
)

// StatusCode represents the error statuses used throughout the server.
type StatusCode int

const (
	// ErrCodeValidation indicates that the client sent a missing or malformed
	// field, regardless of the state of the system.
	ErrCodeValidation StatusCode = 3

	// ErrCodeNotFound indicates that a requested entity was not found.
	ErrCodeNotFound StatusCode = 5

	// ErrCodeConflict indicates that the request conflicts with the current
	// state of the entity, e.g. a project that is already checked out or a
	// duplicate friend request.
	ErrCodeConflict StatusCode = 6

	// ErrCodeForbidden indicates that the caller is not allowed to execute the
	// operation: wrong owner, insufficient role or not the lock holder.
	ErrCodeForbidden StatusCode = 7

	// ErrCodeResourceExhausted indicates that a per-user quota or rate limit
	// was exceeded.
	ErrCodeResourceExhausted StatusCode = 8

	// ErrCodeInternal indicates that some invariants expected by the
	// underlying system have been broken.
	ErrCodeInternal StatusCode = 13

	// ErrCodeUnavailable indicates that the service is currently unavailable.
	ErrCodeUnavailable StatusCode = 14

	// ErrCodeUnauthenticated indicates that the request does not have valid
	// authentication credentials.
	ErrCodeUnauthenticated StatusCode = 16
)

// String returns the string representation of the status.
func (c StatusCode) String() string {
	switch c {
	case ErrCodeValidation:
		return "validation"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeConflict:
		return "conflict"
	case ErrCodeForbidden:
		return "forbidden"
	case ErrCodeResourceExhausted:
		return "resource_exhausted"
	case ErrCodeInternal:
		return "internal"
	case ErrCodeUnavailable:
		return "unavailable"
	case ErrCodeUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("code_%d", int(c))
	}
}

// HTTPStatus returns the HTTP status code that represents this status.
// Errors without a status are treated as internal.
func (c StatusCode) HTTPStatus() int {
	switch c {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeResourceExhausted:
		return http.StatusTooManyRequests
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError returns true if the status represents a client-side error.
func (c StatusCode) IsClientError() bool {
	switch c {
	case ErrCodeValidation, ErrCodeNotFound, ErrCodeConflict,
		ErrCodeForbidden, ErrCodeResourceExhausted, ErrCodeUnauthenticated:
		return true
	default:
		return false
	}
}

// IsServerError returns true if the status represents a server-side error.
func (c StatusCode) IsServerError() bool {
	switch c {
	case ErrCodeInternal, ErrCodeUnavailable:
		return true
	default:
		return false
	}
}
