// Package errors provides structured error handling for the eventsource
// client. It implements a code-based error type with fatal/retryable
// classification driving the reconnect-versus-terminate decision.
package errors

import (
	stderrors "errors"
	"fmt"
)

// StreamError is the unified client error type.
type StreamError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Fatal indicates the session must close instead of reconnecting.
	Fatal bool `json:"fatal"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *StreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *StreamError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *StreamError) WithCause(cause error) *StreamError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *StreamError) WithDetail(key string, value any) *StreamError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new StreamError with automatic fatality classification.
func New(code ErrorCode, message string) *StreamError {
	return &StreamError{
		Code:    code,
		Message: message,
		Fatal:   IsFatalCode(code),
	}
}

// --- Common Error Constructors ---

// ConnectionFailed creates a StreamError for a request that could not be
// issued or a connection that dropped.
func ConnectionFailed(cause error) *StreamError {
	return &StreamError{
		Code: ErrCodeConnectionFailed, Message: "Unable to reach the event stream; reconnecting.",
		Fatal: false, Cause: cause,
	}
}

// BadStatus creates a StreamError for a non-200 response status.
func BadStatus(status int) *StreamError {
	return &StreamError{
		Code: ErrCodeBadStatus, Message: fmt.Sprintf("The server answered with status %d; reconnecting.", status),
		Fatal:   false,
		Details: map[string]any{"status": status},
	}
}

// BadContentType creates a StreamError for a response that is not an event
// stream.
func BadContentType(contentType string) *StreamError {
	return &StreamError{
		Code: ErrCodeBadContentType, Message: "The response is not a text/event-stream; reconnecting.",
		Fatal:   false,
		Details: map[string]any{"content_type": contentType},
	}
}

// StreamEnded creates a StreamError for a stream the server closed.
func StreamEnded(cause error) *StreamError {
	return &StreamError{
		Code: ErrCodeStreamEnded, Message: "The server closed the event stream; reconnecting.",
		Fatal: false, Cause: cause,
	}
}

// NoContent creates a fatal StreamError for an HTTP 204 response.
func NoContent() *StreamError {
	return &StreamError{
		Code: ErrCodeNoContent, Message: "The server declined the stream with 204 No Content.",
		Fatal: true,
	}
}

// MissingBody creates a fatal StreamError for a response without a body.
func MissingBody() *StreamError {
	return &StreamError{
		Code: ErrCodeMissingBody, Message: "The response has no body to stream from.",
		Fatal: true,
	}
}

// Closed creates a fatal StreamError for an explicitly closed session.
func Closed() *StreamError {
	return &StreamError{
		Code: ErrCodeClosed, Message: "The session was closed.",
		Fatal: true,
	}
}

// InvalidConfig creates a StreamError for invalid session configuration.
func InvalidConfig(reason string) *StreamError {
	return &StreamError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("Invalid configuration: %s", reason),
		Fatal: true,
	}
}

// IsFatal reports whether err is a StreamError that terminates the session.
// Unknown error types are non-fatal: the client keeps reconnecting.
func IsFatal(err error) bool {
	var se *StreamError
	if stderrors.As(err, &se) {
		return se.Fatal
	}
	return false
}

// AsStreamError converts an error to a StreamError if possible.
func AsStreamError(err error) (*StreamError, bool) {
	var se *StreamError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}
