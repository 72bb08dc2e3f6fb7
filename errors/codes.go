package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Transport errors (non-fatal: the client reconnects with unbounded retries)
const (
	// ErrCodeConnectionFailed indicates the request could not be issued or
	// the connection dropped mid-stream.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeBadStatus indicates the server answered with a non-200 status.
	ErrCodeBadStatus ErrorCode = "BAD_STATUS"
	// ErrCodeBadContentType indicates the response is not text/event-stream.
	ErrCodeBadContentType ErrorCode = "BAD_CONTENT_TYPE"
	// ErrCodeStreamEnded indicates the server closed the stream.
	ErrCodeStreamEnded ErrorCode = "STREAM_ENDED"
)

// Fatal errors (terminal: the client closes and never retries)
const (
	// ErrCodeNoContent indicates an HTTP 204 response: the server declined
	// the stream permanently.
	ErrCodeNoContent ErrorCode = "NO_CONTENT"
	// ErrCodeMissingBody indicates a validated response without a body.
	ErrCodeMissingBody ErrorCode = "MISSING_BODY"
	// ErrCodeClosed indicates the session was closed explicitly.
	ErrCodeClosed ErrorCode = "CONNECTION_CLOSED"
)

// Configuration errors (surface at construction time, never to subscribers)
const (
	// ErrCodeInvalidConfig indicates the session configuration is invalid.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

var fatalCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: false,
	ErrCodeBadStatus:        false,
	ErrCodeBadContentType:   false,
	ErrCodeStreamEnded:      false,
	ErrCodeNoContent:        true,
	ErrCodeMissingBody:      true,
	ErrCodeClosed:           true,
}

// IsFatalCode returns true if the error code terminates the session instead
// of entering the reconnect path.
func IsFatalCode(code ErrorCode) bool {
	return fatalCodes[code]
}
