package logger

import "time"

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldSession   = "session_id"
	FieldURL       = "url"
	FieldOrigin    = "origin"
	FieldState     = "state"
	FieldEventType = "event_type"
	FieldEventID   = "event_id"
	FieldAttempt   = "attempt"
	FieldDelay     = "delay_ms"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("connected", logger.Fields("url", url, "attempt", 3))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(err error) map[string]interface{} {
	return map[string]interface{}{
		FieldError: err.Error(),
	}
}

// DelayFields creates fields for a reconnect wait.
func DelayFields(d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldDelay: d.Milliseconds(),
	}
}
