// Package apierr normalizes status codes, errnos, messages, foreign errors
// and loose option objects into one canonical error shape, APIError, and
// renders it for logs and HTTP clients.
//
// A status code input like 404 yields errno 40400 and the status phrase. Any
// other integer is read as an errno whose first three digits give the
// status:
//
//	apierr.From(404)   // [40400] APIError: Not Found - 404 - X...
//	apierr.From(40100) // [40100] APIError: User Require Login - 401 - X...
//	apierr.From("boom") // [40000] APIError: boom - 400 - X...
//
// From is idempotent: an *APIError passes through untouched.
package apierr

import (
	"encoding/json"
	"fmt"
)

// APIError is the canonical error entity. Fields are fixed at construction;
// only Abort may replace the tracked cause.
type APIError struct {
	name       string
	errno      int
	status     int
	message    string
	requestID  string
	trackError any
}

// Value is the full field set, cause included. Not for client transmission.
type Value struct {
	Status     int    `json:"status"`
	Errno      int    `json:"errno"`
	Message    string `json:"message"`
	TrackError any    `json:"trackError"`
	Name       string `json:"name"`
	RequestID  string `json:"request_id"`
}

// Response is the minimal client-facing payload.
type Response struct {
	Code      int    `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

// DetailedResponse is the richer payload. It carries the cause, which the
// host must drop or stringify before sending it to untrusted clients.
type DetailedResponse struct {
	RequestID string        `json:"request_id"`
	Error     DetailedError `json:"error"`
}

// DetailedError is the error object nested in DetailedResponse.
type DetailedError struct {
	Name       string `json:"name"`
	Errno      int    `json:"errno"`
	Message    string `json:"message"`
	TrackError any    `json:"trackError"`
}

func (e *APIError) Name() string      { return e.name }
func (e *APIError) Errno() int        { return e.errno }
func (e *APIError) Status() int       { return e.status }
func (e *APIError) Message() string   { return e.message }
func (e *APIError) RequestID() string { return e.requestID }
func (e *APIError) TrackError() any   { return e.trackError }

// Error implements error as "[errno] name: message".
func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("[%d] %s: %s", e.errno, e.name, e.message)
}

// String renders the diagnostic line for server logs:
//
//	[errno] name: message - status - request_id
//
// followed by the cause on its own line when one is tracked.
func (e *APIError) String() string {
	if e == nil {
		return "<nil>"
	}
	s := fmt.Sprintf("[%d] %s: %s - %d - %s", e.errno, e.name, e.message, e.status, e.requestID)
	if e.trackError != nil {
		s += "\n" + describe(e.trackError)
	}
	return s
}

// Unwrap returns the tracked cause when it is an error.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	err, _ := e.trackError.(error)
	return err
}

// Value returns every field, including the tracked cause.
func (e *APIError) Value() Value {
	return Value{
		Status:     e.status,
		Errno:      e.errno,
		Message:    e.message,
		TrackError: e.trackError,
		Name:       e.name,
		RequestID:  e.requestID,
	}
}

// Response returns {code, error, request_id}. It never carries the cause.
func (e *APIError) Response() Response {
	return Response{
		Code:      e.errno,
		Error:     e.message,
		RequestID: e.requestID,
	}
}

// ResponseDetailed returns {request_id, error: {name, errno, message, trackError}}.
func (e *APIError) ResponseDetailed() DetailedResponse {
	return DetailedResponse{
		RequestID: e.requestID,
		Error: DetailedError{
			Name:       e.name,
			Errno:      e.errno,
			Message:    e.message,
			TrackError: e.trackError,
		},
	}
}

// MarshalJSON encodes the canonical Value with the cause stringified.
func (e *APIError) MarshalJSON() ([]byte, error) {
	v := e.Value()
	if v.TrackError != nil {
		v.TrackError = describe(v.TrackError)
	}
	return json.Marshal(v)
}

// Scrubbed returns a copy without the cause.
func (r DetailedResponse) Scrubbed() DetailedResponse {
	r.Error.TrackError = nil
	return r
}

// Stringified returns a copy whose cause is replaced by its text.
func (r DetailedResponse) Stringified() DetailedResponse {
	if r.Error.TrackError != nil {
		r.Error.TrackError = describe(r.Error.TrackError)
	}
	return r
}

// withTrackError returns a copy of e carrying cause. The request id is kept.
func (e *APIError) withTrackError(cause any) *APIError {
	cp := *e
	cp.trackError = cause
	return &cp
}

func (e *APIError) options() Options {
	return Options{
		Errno:      e.errno,
		Status:     e.status,
		Message:    e.message,
		Name:       e.name,
		RequestID:  e.requestID,
		TrackError: e.trackError,
	}
}

func describe(v any) string {
	if isNilValue(v) {
		return "<nil>"
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", v)
}
