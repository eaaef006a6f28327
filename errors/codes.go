package errors

// ClientCode is a machine-readable code for a locally detected failure.
type ClientCode string

// Transport level failures (retryable).
const (
	// CodeConnection indicates the connection could not be established or broke.
	CodeConnection ClientCode = "CONNECTION"
	// CodeTimeout indicates the exchange did not complete in time.
	CodeTimeout ClientCode = "TIMEOUT"
	// CodeCircuitOpen indicates the transport refused to send because its breaker is open.
	CodeCircuitOpen ClientCode = "CIRCUIT_OPEN"
	// CodeRateLimited indicates the transport's local rate limit rejected the send.
	CodeRateLimited ClientCode = "RATE_LIMITED"
)

// Fatal dispatch failures.
const (
	// CodeInterrupted indicates the wait between attempts was cancelled.
	CodeInterrupted ClientCode = "INTERRUPTED"
	// CodeStreamReset indicates the request body could not be rewound.
	CodeStreamReset ClientCode = "STREAM_RESET"
	// CodeUnknown wraps a failure that is neither a service nor a client error.
	CodeUnknown ClientCode = "UNKNOWN"
	// CodeInvalidArgument indicates the caller passed an unusable request.
	CodeInvalidArgument ClientCode = "INVALID_ARGUMENT"
	// CodeShutdown indicates the transport has already been shut down.
	CodeShutdown ClientCode = "SHUTDOWN"
)

var retryableClientCodes = map[ClientCode]bool{
	CodeConnection:  true,
	CodeTimeout:     true,
	CodeCircuitOpen: true,
	CodeRateLimited: true,
}

// IsRetryableClientCode reports whether a client failure with this code may be retried.
func IsRetryableClientCode(code ClientCode) bool {
	return retryableClientCodes[code]
}

// Error codes reported by the log service in the errorCode field.
const (
	ServiceCodeInternal              = "InternalServerError"
	ServiceCodeRequestTimeout        = "RequestTimeout"
	ServiceCodeServerBusy            = "ServerBusy"
	ServiceCodeWriteQuotaExceed      = "WriteQuotaExceed"
	ServiceCodeReadQuotaExceed       = "ReadQuotaExceed"
	ServiceCodeShardWriteQuotaExceed = "ShardWriteQuotaExceed"
	ServiceCodeShardReadQuotaExceed  = "ShardReadQuotaExceed"
	ServiceCodeProjectQPSExceed      = "ProjectQpsExceed"
	ServiceCodeUnauthorized          = "Unauthorized"
	ServiceCodeSignatureNotMatch     = "SignatureNotMatch"
	ServiceCodeProjectNotExist       = "ProjectNotExist"
	ServiceCodeProjectAlreadyExist   = "ProjectAlreadyExist"
	ServiceCodeLogStoreNotExist      = "LogStoreNotExist"
	ServiceCodeLogStoreAlreadyExist  = "LogStoreAlreadyExist"
	ServiceCodeParameterInvalid      = "ParameterInvalid"

	// ServiceCodeBadResponse is assigned locally when an error body cannot be decoded.
	ServiceCodeBadResponse = "BadResponse"
)

var retryableServiceCodes = map[string]bool{
	ServiceCodeInternal:              true,
	ServiceCodeRequestTimeout:        true,
	ServiceCodeServerBusy:            true,
	ServiceCodeWriteQuotaExceed:      true,
	ServiceCodeReadQuotaExceed:       true,
	ServiceCodeShardWriteQuotaExceed: true,
	ServiceCodeShardReadQuotaExceed:  true,
	ServiceCodeProjectQPSExceed:      true,
}

// IsRetryableServiceCode reports whether the service error code denotes a transient condition.
func IsRetryableServiceCode(code string) bool {
	return retryableServiceCodes[code]
}
