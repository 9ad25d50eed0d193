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

package rest

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/syncsphere/syncsphere/internal/validation"
	"github.com/syncsphere/syncsphere/pkg/errors"
	"github.com/syncsphere/syncsphere/server/logging"
)

var (
	// ErrRequestTooLarge is returned when the body exceeds the max request bytes.
	ErrRequestTooLarge = errors.Validation("request too large").WithCode("ErrRequestTooLarge")

	// ErrMalformedBody is returned when the body cannot be decoded.
	ErrMalformedBody = errors.Validation("malformed request body").WithCode("ErrMalformedBody")

	// ErrInvalidQuery is returned when a query parameter is malformed.
	ErrInvalidQuery = errors.Validation("invalid query parameter").WithCode("ErrInvalidQuery")

	// ErrRouteNotFound is returned when no route matches the request.
	ErrRouteNotFound = errors.NotFound("route not found").WithCode("ErrRouteNotFound")

	// ErrMethodNotAllowed is returned when the route does not accept the method.
	ErrMethodNotAllowed = errors.Validation("method not allowed").WithCode("ErrMethodNotAllowed")

	// errInternal is reported in place of the errors without a client status.
	errInternal = errors.Internal("internal server error").WithCode("ErrInternal")
)

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Fields   []FieldViolation  `json:"fields,omitempty"`
}

// FieldViolation describes an invalid field of the request.
type FieldViolation struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// toErrorResponse converts the error into the HTTP status and the body.
// Errors without a client status are reported with a generic message.
func toErrorResponse(err error) (int, *ErrorResponse) {
	if goerrors.Is(err, context.Canceled) || goerrors.Is(err, context.DeadlineExceeded) {
		err = errors.Unavailable(err.Error())
	}

	status := errors.StatusOf(err)
	if !status.IsClientError() && status != errors.ErrCodeUnavailable {
		return errInternal.Status().HTTPStatus(), &ErrorResponse{
			Code:    errInternal.Code(),
			Message: errInternal.Error(),
			Status:  errInternal.Status().String(),
		}
	}

	resp := &ErrorResponse{
		Code:     errors.CodeOf(err),
		Message:  err.Error(),
		Status:   status.String(),
		Metadata: errors.Metadata(err),
	}

	var structErr *validation.StructError
	if goerrors.As(err, &structErr) {
		for _, v := range structErr.Violations {
			resp.Fields = append(resp.Fields, FieldViolation{
				Field:       v.Field,
				Description: v.Description,
			})
		}
	}

	return status.HTTPStatus(), resp
}

// writeError writes the error response and keeps the error for the request
// log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if state := stateFrom(r.Context()); state != nil {
		state.err = err
	}

	code, resp := toErrorResponse(err)
	writeJSON(w, code, resp)
}

// writeJSON writes the value as the JSON body with the status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.DefaultLogger().Warnf("encode response: %v", err)
	}
}

// decodeJSON decodes the body of the request into v.
func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if goerrors.As(err, &maxBytesErr) {
			return ErrRequestTooLarge
		}
		return fmt.Errorf("%v: %w", err, ErrMalformedBody)
	}
	return nil
}

// requestState is the state of a request shared by the middlewares and the
// handlers.
type requestState struct {
	startedAt time.Time
	err       error
}

type requestStateKey struct{}

func withState(ctx context.Context, state *requestState) context.Context {
	return context.WithValue(ctx, requestStateKey{}, state)
}

func stateFrom(ctx context.Context) *requestState {
	state, _ := ctx.Value(requestStateKey{}).(*requestState)
	return state
}
