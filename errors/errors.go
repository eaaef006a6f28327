package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrEncoding is returned when text cannot be converted with the requested charset.
var ErrEncoding = stderrors.New("logkit: text encoding failed")

// EncodingError wraps cause with ErrEncoding and the offending charset name.
func EncodingError(charset string, cause error) error {
	return fmt.Errorf("%w: charset %q: %w", ErrEncoding, charset, cause)
}

// ServiceError is a failure reported by the remote log service.
type ServiceError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-"`
	// Code is the service error code (e.g. "ServerBusy").
	Code string `json:"errorCode"`
	// Message is the service error message.
	Message string `json:"errorMessage"`
	// RequestID identifies the request on the service side, if reported.
	RequestID string `json:"-"`
}

// NewServiceError creates a ServiceError.
func NewServiceError(statusCode int, code, message, requestID string) *ServiceError {
	return &ServiceError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		RequestID:  requestID,
	}
}

// Error returns the string representation of the error.
func (e *ServiceError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("logkit: service error (HTTP %d, %s): %s [request_id=%s]", e.StatusCode, e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("logkit: service error (HTTP %d, %s): %s", e.StatusCode, e.Code, e.Message)
}

// Retryable reports whether the service signalled a transient condition.
func (e *ServiceError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || IsRetryableServiceCode(e.Code)
}

// ClientError is a failure detected on the client side.
type ClientError struct {
	// Code classifies the failure.
	Code ClientCode
	// Message describes the failure.
	Message string
	// Err is the underlying cause (may be nil).
	Err error
}

// NewClientError creates a ClientError.
func NewClientError(code ClientCode, message string, cause error) *ClientError {
	return &ClientError{Code: code, Message: message, Err: cause}
}

// Error returns the string representation of the error.
func (e *ClientError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("logkit: %s: %s (cause: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("logkit: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error { return e.Err }

// Retryable reports whether the failure class is transient.
func (e *ClientError) Retryable() bool {
	return IsRetryableClientCode(e.Code)
}

// --- Common constructors ---

// Connection creates a ClientError for a broken or refused connection.
func Connection(cause error) *ClientError {
	return NewClientError(CodeConnection, cause.Error(), cause)
}

// Timeout creates a ClientError for an exchange that timed out.
func Timeout(cause error) *ClientError {
	return NewClientError(CodeTimeout, cause.Error(), cause)
}

// Interrupted creates a ClientError for a cancelled wait between attempts.
func Interrupted(cause error) *ClientError {
	return NewClientError(CodeInterrupted, cause.Error(), cause)
}

// StreamReset creates a ClientError for a request body that could not be rewound.
func StreamReset(cause error) *ClientError {
	return NewClientError(CodeStreamReset, "failed to reset the request body", cause)
}

// Unknown wraps an unclassified failure for propagation.
func Unknown(cause error) *ClientError {
	return NewClientError(CodeUnknown, cause.Error(), cause)
}

// InvalidArgument creates a ClientError for an unusable dispatch argument.
func InvalidArgument(message string) *ClientError {
	return NewClientError(CodeInvalidArgument, message, nil)
}

// Shutdown creates a ClientError for a send on a closed transport.
func Shutdown() *ClientError {
	return NewClientError(CodeShutdown, "transport has been shut down", nil)
}

// CircuitOpen creates a ClientError for a send refused by an open breaker.
func CircuitOpen(cause error) *ClientError {
	return NewClientError(CodeCircuitOpen, cause.Error(), cause)
}

// RateLimited creates a ClientError for a send rejected by the local rate limit.
func RateLimited(cause error) *ClientError {
	return NewClientError(CodeRateLimited, cause.Error(), cause)
}

// --- Inspection helpers ---

// AsServiceError extracts a ServiceError from the chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsClientError extracts a ClientError from the chain.
func AsClientError(err error) (*ClientError, bool) {
	var ce *ClientError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsEncoding reports whether err is a fatal encoding failure.
func IsEncoding(err error) bool {
	return stderrors.Is(err, ErrEncoding)
}

// IsRetryable reports whether err is a service or client error of a transient class.
func IsRetryable(err error) bool {
	if se, ok := AsServiceError(err); ok {
		return se.Retryable()
	}
	if ce, ok := AsClientError(err); ok {
		return ce.Retryable()
	}
	return false
}
