package httpclienttest

import (
	"context"
	"io"
	"sync"

	"github.com/kbukum/logkit/httpclient"
)

// Result is one scripted outcome of Send.
type Result struct {
	Response *httpclient.Response
	Err      error
}

// OK returns a successful result with the given status and body.
func OK(status int, body string) Result {
	return Result{Response: &httpclient.Response{StatusCode: status, Body: []byte(body)}}
}

// Fail returns a failing result.
func Fail(err error) Result {
	return Result{Err: err}
}

// Captured is a wire request as seen by the fake transport. The body is read
// in full during Send.
type Captured struct {
	Method        httpclient.Method
	URL           string
	Headers       map[string]string
	Body          []byte
	HasBody       bool
	ContentLength int64
	Charset       string
}

// Transport replays scripted results in order; the last one repeats.
// It records every request it receives.
type Transport struct {
	// Policy is returned by DefaultRetryPolicy.
	Policy httpclient.RetryPolicy

	mu       sync.Mutex
	results  []Result
	requests []Captured
	shutdown bool
	conns    ConnectionManager
}

var _ httpclient.Transport = (*Transport)(nil)

// NewTransport creates a fake transport returning results in order.
func NewTransport(results ...Result) *Transport {
	return &Transport{results: results}
}

// Send records req and returns the next scripted result.
func (t *Transport) Send(_ context.Context, req *httpclient.WireRequest, charset string) (*httpclient.Response, error) {
	captured := Captured{
		Method:        req.Method,
		URL:           req.URL,
		Headers:       req.Headers,
		HasBody:       req.HasBody(),
		ContentLength: req.ContentLength,
		Charset:       charset,
	}
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		captured.Body = data
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests = append(t.requests, captured)

	if len(t.results) == 0 {
		return &httpclient.Response{StatusCode: 200}, nil
	}
	idx := len(t.requests) - 1
	if idx >= len(t.results) {
		idx = len(t.results) - 1
	}
	r := t.results[idx]
	return r.Response, r.Err
}

// Requests returns a copy of the captured requests.
func (t *Transport) Requests() []Captured {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Captured(nil), t.requests...)
}

// Calls returns the number of Send calls.
func (t *Transport) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.requests)
}

func (t *Transport) DefaultRetryPolicy() httpclient.RetryPolicy {
	return t.Policy
}

func (t *Transport) Shutdown(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.shutdown = true
	return nil
}

// IsShutdown reports whether Shutdown was called.
func (t *Transport) IsShutdown() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.shutdown
}

func (t *Transport) ConnectionManager() httpclient.ConnectionManager {
	return &t.conns
}

// ConnectionManager counts CloseIdleConnections calls.
type ConnectionManager struct {
	mu     sync.Mutex
	closed int
}

func (c *ConnectionManager) Stats() httpclient.ConnectionStats {
	return httpclient.ConnectionStats{}
}

func (c *ConnectionManager) CloseIdleConnections() {
	c.mu.Lock()
	c.closed++
	c.mu.Unlock()
}

// IdleClosed returns how often CloseIdleConnections was called.
func (c *ConnectionManager) IdleClosed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
