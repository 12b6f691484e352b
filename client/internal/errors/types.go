// Package errors defines the single failure kind surfaced by the client SDK.
// Every transport failure, non-2xx response, or undecodable body becomes a
// *RequestError, and all of them match ErrRequestFailed under errors.Is.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrRequestFailed is the sentinel matched by every *RequestError.
var ErrRequestFailed = stderrors.New("request failed")

// Reason records which stage of the round trip failed. It is informational
// only; callers are expected to treat all reasons alike.
type Reason int

const (
	// ReasonNetwork means no HTTP response was received.
	ReasonNetwork Reason = iota
	// ReasonStatus means the server answered with a non-2xx status.
	ReasonStatus
	// ReasonDecode means the 2xx response body was not the expected JSON.
	ReasonDecode
)

// String returns the metric label for the reason.
func (r Reason) String() string {
	switch r {
	case ReasonNetwork:
		return "network_error"
	case ReasonStatus:
		return "http_error"
	case ReasonDecode:
		return "decode_error"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// RequestError describes one failed round trip.
type RequestError struct {
	Op         string // operation name, e.g. "send message"
	Reason     Reason
	StatusCode int    // 0 unless Reason == ReasonStatus
	Body       string // truncated response body for debugging
	Err        error  // underlying transport or decode error, if any
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Body != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Body)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, ErrRequestFailed)
	}
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *RequestError) Unwrap() error { return e.Err }

// Is makes every RequestError match ErrRequestFailed.
func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }

// maxBodyInError bounds how much of a failed response is kept on the error.
const maxBodyInError = 512

// NewStatusError creates an error for a non-2xx response.
func NewStatusError(op string, statusCode int, body []byte) *RequestError {
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError]
	}
	return &RequestError{Op: op, Reason: ReasonStatus, StatusCode: statusCode, Body: string(body)}
}

// NewNetworkError creates an error for a transport-level failure.
func NewNetworkError(op string, err error) *RequestError {
	return &RequestError{Op: op, Reason: ReasonNetwork, Err: err}
}

// NewDecodeError creates an error for a response body that could not be parsed.
func NewDecodeError(op string, err error) *RequestError {
	return &RequestError{Op: op, Reason: ReasonDecode, Err: err}
}

// StatusCode extracts the HTTP status from err, or 0 when err is not a
// status failure.
func StatusCode(err error) int {
	var re *RequestError
	if stderrors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
