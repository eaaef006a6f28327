// Package middleware provides the Gin middleware of the log service
// emulator: panic recovery, request ids and request logging.
package middleware
