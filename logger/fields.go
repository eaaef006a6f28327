package logger

import (
	"time"
)

// Standard field keys.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Dispatch field keys.
const (
	FieldMethod     = "method"
	FieldURL        = "url"
	FieldAttempt    = "attempt"
	FieldAttempts   = "attempts"
	FieldDelay      = "delay_ms"
	FieldRequestID  = "request_id"
	FieldStatusCode = "status_code"
	FieldErrorCode  = "error_code"
)

// Fields builds a map from alternating key-value pairs.
//
//	log.Info("sent", logger.Fields("attempt", 2, "url", u))
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
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}

// RetryFields creates fields describing a scheduled retry.
func RetryFields(attempt int, delay time.Duration, err error) map[string]interface{} {
	m := map[string]interface{}{
		FieldAttempt: attempt,
		FieldDelay:   delay.Milliseconds(),
	}
	if err != nil {
		m[FieldError] = err.Error()
	}
	return m
}
