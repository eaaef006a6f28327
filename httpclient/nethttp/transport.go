// Package nethttp implements httpclient.Transport on net/http.
package nethttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"strings"
	"sync/atomic"

	"golang.org/x/net/http2"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	logerrors "github.com/kbukum/logkit/errors"
	"github.com/kbukum/logkit/httpclient"
	"github.com/kbukum/logkit/logger"
	"github.com/kbukum/logkit/resilience"
)

// HeaderRequestID carries the service-assigned request ID.
const HeaderRequestID = "x-log-requestid"

// Transport sends wire requests with a pooled *http.Client.
// It is safe for concurrent use.
type Transport struct {
	client  *http.Client
	base    *http.Transport
	config  Config
	limiter *rate.Limiter
	sem     *semaphore.Weighted
	breaker *resilience.CircuitBreaker
	conns   *connManager
	log     *logger.Logger
	closed  atomic.Bool
}

var _ httpclient.Transport = (*Transport)(nil)

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the logger. Defaults to logger.Get("nethttp").
func WithLogger(l *logger.Logger) Option {
	return func(t *Transport) { t.log = l }
}

// New creates a Transport from cfg.
func New(cfg Config, opts ...Option) (*Transport, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.DialContext = (&net.Dialer{Timeout: cfg.DialTimeout, KeepAlive: cfg.IdleConnTimeout}).DialContext
	base.MaxIdleConns = cfg.MaxIdleConns
	base.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	base.MaxConnsPerHost = cfg.MaxConnsPerHost
	base.IdleConnTimeout = cfg.IdleConnTimeout
	base.ForceAttemptHTTP2 = false

	tlsConfig, err := cfg.TLS.Build()
	if err != nil {
		return nil, fmt.Errorf("nethttp: %w", err)
	}
	if tlsConfig != nil {
		base.TLSClientConfig = tlsConfig
	}
	if cfg.EnableHTTP2 {
		if _, err := http2.ConfigureTransports(base); err != nil {
			return nil, fmt.Errorf("nethttp: configure http2: %w", err)
		}
	}

	t := &Transport{
		client: &http.Client{
			Transport: base,
			Timeout:   cfg.Timeout,
		},
		base:   base,
		config: cfg,
		conns:  &connManager{base: base, cfg: cfg},
	}
	if cfg.RateLimit > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	if cfg.MaxConcurrent > 0 {
		t.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	if cfg.CircuitBreaker != nil {
		cbCfg := *cfg.CircuitBreaker
		if cbCfg.OnStateChange == nil {
			cbCfg.OnStateChange = func(name string, from, to resilience.State) {
				t.log.Warn("circuit breaker state changed", logger.Fields(
					"breaker", name,
					"from", from.String(),
					"to", to.String(),
				))
			}
		}
		t.breaker = resilience.NewCircuitBreaker(cbCfg)
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = logger.Get("nethttp")
	}
	return t, nil
}

// Send performs one exchange. It never closes req.Body.
func (t *Transport) Send(ctx context.Context, req *httpclient.WireRequest, charset string) (*httpclient.Response, error) {
	if t.closed.Load() {
		return nil, logerrors.Shutdown()
	}

	if t.breaker != nil {
		if err := t.breaker.Allow(); err != nil {
			return nil, logerrors.CircuitOpen(err)
		}
	}

	if t.sem != nil {
		if err := t.sem.Acquire(ctx, 1); err != nil {
			return nil, logerrors.Timeout(err)
		}
		defer t.sem.Release(1)
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, logerrors.RateLimited(err)
		}
	}

	resp, err := t.exchange(ctx, req)
	if t.breaker != nil {
		t.breaker.Record(transient(err))
	}
	return resp, err
}

func (t *Transport) exchange(ctx context.Context, req *httpclient.WireRequest) (*httpclient.Response, error) {
	ctx = httptrace.WithClientTrace(ctx, t.conns.trace())
	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URL, nil)
	if err != nil {
		return nil, logerrors.NewClientError(logerrors.CodeInvalidArgument, "invalid request URL", err)
	}

	for key, value := range req.Headers {
		octets, err := httpclient.HeaderOctets(value)
		if err != nil {
			return nil, logerrors.NewClientError(logerrors.CodeInvalidArgument, fmt.Sprintf("header %s", key), err)
		}
		switch {
		case strings.EqualFold(key, "Host"):
			httpReq.Host = octets
		case strings.EqualFold(key, "Content-Length"):
			// derived from the body
		default:
			httpReq.Header[key] = []string{octets}
		}
	}

	var body *attemptBody
	if req.HasBody() {
		if req.ContentLength == 0 {
			httpReq.Body = http.NoBody
		} else {
			body = newAttemptBody(req.Body)
			httpReq.Body = body
			httpReq.ContentLength = req.ContentLength
		}
	}

	t.conns.inFlight.Add(1)
	defer t.conns.inFlight.Add(-1)
	if body != nil {
		defer body.release()
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, classifyNetError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyNetError(ctx, fmt.Errorf("read response body: %w", err))
	}

	requestID := resp.Header.Get(HeaderRequestID)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := logerrors.DecodeServiceError(resp.StatusCode, requestID, data)
		t.log.WithContext(ctx).Debug("service error", logger.Fields(
			logger.FieldMethod, string(req.Method),
			logger.FieldStatusCode, resp.StatusCode,
			logger.FieldErrorCode, se.Code,
			logger.FieldRequestID, requestID,
		))
		return nil, se
	}

	return &httpclient.Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       data,
		RequestID:  requestID,
	}, nil
}

// DefaultRetryPolicy retries transient failures with the configured backoff.
func (t *Transport) DefaultRetryPolicy() httpclient.RetryPolicy {
	return httpclient.NewBackoffPolicy(t.config.Backoff)
}

// Shutdown closes idle connections. Sends after Shutdown fail with a
// SHUTDOWN ClientError.
func (t *Transport) Shutdown(_ context.Context) error {
	if t.closed.Swap(true) {
		return nil
	}
	t.base.CloseIdleConnections()
	t.log.Debug("transport shut down")
	return nil
}

func (t *Transport) ConnectionManager() httpclient.ConnectionManager {
	return t.conns
}

// classifyNetError maps a failed exchange to TIMEOUT or CONNECTION.
func classifyNetError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return logerrors.Timeout(err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return logerrors.Timeout(err)
	}
	return logerrors.Connection(err)
}

// transient reports whether err should count against the circuit breaker.
func transient(err error) bool {
	if err == nil {
		return false
	}
	if se, ok := logerrors.AsServiceError(err); ok {
		return se.StatusCode >= http.StatusInternalServerError
	}
	if ce, ok := logerrors.AsClientError(err); ok {
		return ce.Code == logerrors.CodeConnection || ce.Code == logerrors.CodeTimeout
	}
	return false
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[strings.ToLower(k)] = v[0]
		}
	}
	return out
}
