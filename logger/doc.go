// Package logger provides structured logging on top of zerolog.
//
// # Configuration
//
//	logger:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("httpclient")
//	log.Warn("retrying request", logger.RetryFields(1, 100*time.Millisecond, err))
package logger
