package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed backend call. The kind is determined once at
// the transport boundary from the actual HTTP status code; downstream layers
// branch on it instead of matching message text.
type ErrorKind string

const (
	KindThrottled    ErrorKind = "THROTTLED"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
	KindValidation   ErrorKind = "VALIDATION_ERROR"
	KindServerError  ErrorKind = "SERVER_ERROR"
	KindNetworkError ErrorKind = "NETWORK_ERROR"
	KindTimeout      ErrorKind = "TIMEOUT"
)

// Error is the normalized failure envelope produced by the transport client.
// Every error that crosses the client boundary is one of these.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Status  int       `json:"status,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether the failure is the designated throttling signal.
// Only throttled failures are eligible for automatic retry.
func (e *Error) Retryable() bool {
	return e.Kind == KindThrottled
}

// KindFromStatus maps an HTTP status code to an ErrorKind.
func KindFromStatus(status int) ErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindThrottled
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return KindValidation
	case status == http.StatusGatewayTimeout:
		return KindTimeout
	default:
		return KindServerError
	}
}

// NewHTTPError builds an Error from a response status and the message field of
// the response body, if any. When the body carries no message, the text is
// synthesized as "HTTP <status>: <statusText>".
func NewHTTPError(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
	}
	return &Error{Kind: KindFromStatus(status), Status: status, Message: message}
}

// NewNetworkError wraps a transport-level failure (DNS, refused connection,
// malformed JSON) in the normalized envelope.
func NewNetworkError(msg string) *Error {
	return &Error{Kind: KindNetworkError, Message: msg}
}

// NewTimeoutError reports that the backend did not respond in time.
func NewTimeoutError() *Error {
	return &Error{Kind: KindTimeout, Message: "the backend did not respond in time"}
}

// NewValidationError reports a request rejected before any network call.
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// AsError extracts the normalized envelope from an error value. Unrecognized
// errors are wrapped as network failures, preserving the invariant that
// callers only ever see the normalized shape.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewNetworkError(err.Error())
}
