package httpclient

import (
	"context"
	"time"
)

// Transport performs one HTTP exchange per Send.
//
// Send returns a Response for 2xx replies, a *errors.ServiceError when the
// service reported a failure, and a *errors.ClientError for local or network
// failures. Any other error is treated as unclassified and is never retried.
// Send must not close the request body.
type Transport interface {
	Send(ctx context.Context, req *WireRequest, charset string) (*Response, error)
	// DefaultRetryPolicy is used when the dispatcher is not given one.
	DefaultRetryPolicy() RetryPolicy
	// Shutdown releases pooled connections. Sends after Shutdown fail.
	Shutdown(ctx context.Context) error
	ConnectionManager() ConnectionManager
}

// ConnectionManager exposes the transport's connection pool.
type ConnectionManager interface {
	Stats() ConnectionStats
	CloseIdleConnections()
}

// ConnectionStats is a snapshot of pool configuration and usage.
type ConnectionStats struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
	// Opened counts connections dialed.
	Opened int64
	// Reused counts exchanges served by a pooled connection.
	Reused int64
	// InFlight is the number of exchanges in progress.
	InFlight int64
}
