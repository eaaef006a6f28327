// Package errors defines the failure taxonomy of the log service client.
//
// Every failure surfaced by a dispatch is one of two kinds:
//
//   - ServiceError: the remote end answered with an application or protocol
//     level error (non-2xx status with an error body).
//   - ClientError: the failure was detected locally (connection, timeout,
//     interrupted wait, stream rewind, or an unexpected error wrapped for
//     propagation). The original cause is always reachable via Unwrap.
//
// ErrEncoding marks the fatal environment error raised when text cannot be
// converted with the requested charset. It is never retried.
package errors
