package httpclient

import (
	"context"
	"errors"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	logerrors "github.com/kbukum/logkit/errors"
	"github.com/kbukum/logkit/logger"
	"github.com/kbukum/logkit/observability"
)

// Dispatcher sends logical requests through a Transport with retries.
// It is safe for concurrent use; each Dispatch owns its request exclusively.
type Dispatcher struct {
	transport Transport
	config    Config
	policy    RetryPolicy
	log       *logger.Logger
	tracer    trace.Tracer
	metrics   *observability.DispatchMetrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. Defaults to logger.Get("httpclient").
func WithLogger(l *logger.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithTracer sets the tracer for dispatch spans. Defaults to the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) { d.tracer = t }
}

// WithMetrics records dispatch metrics.
func WithMetrics(m *observability.DispatchMetrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// New creates a Dispatcher. When cfg.RetryPolicy is nil the transport's
// default policy is used.
func New(transport Transport, cfg Config, opts ...Option) (*Dispatcher, error) {
	if transport == nil {
		return nil, errors.New("httpclient: transport is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	policy := cfg.RetryPolicy
	if policy == nil {
		policy = transport.DefaultRetryPolicy()
	}
	if policy == nil {
		policy = NeverRetry()
	}

	d := &Dispatcher{
		transport: transport,
		config:    cfg,
		policy:    policy,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logger.Get("httpclient")
	}
	if d.tracer == nil {
		d.tracer = observability.Tracer(observability.DefaultTracerName)
	}
	return d, nil
}

// Dispatch sends req and returns the transport's response, or the failure of
// the last attempt. Texts are encoded with charset (an IANA name).
//
// The request body, if it is an io.Closer, is closed exactly once before
// Dispatch returns, whatever the outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request, charset string) (*Response, error) {
	if req == nil {
		return nil, logerrors.InvalidArgument("request is required")
	}
	defer d.closeBody(req.Body)

	if charset == "" {
		return nil, logerrors.InvalidArgument("charset is required")
	}
	if _, err := lookupCharset(charset); err != nil {
		return nil, err
	}

	ctx, span := d.tracer.Start(ctx, observability.SpanDispatch,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(observability.AttrHTTPMethod, string(req.Method)),
			attribute.String(observability.AttrURL, joinURL(req.Endpoint, req.ResourcePath)),
			attribute.String(observability.AttrCharset, charset),
		),
	)
	defer span.End()

	start := d.config.Clock.Now()
	resp, attempts, err := d.run(ctx, req, charset)
	elapsed := d.config.Clock.Now().Sub(start)

	span.SetAttributes(
		attribute.Int(observability.AttrAttempts, attempts),
		attribute.String(observability.AttrOutcome, outcome(err)),
	)
	if resp != nil {
		span.SetAttributes(
			attribute.Int(observability.AttrStatusCode, resp.StatusCode),
			attribute.String(observability.AttrRequestID, resp.RequestID),
		)
	}
	observability.SetSpanError(span, err)
	d.metrics.RecordDispatch(ctx, string(req.Method), outcome(err), attempts, elapsed)

	if err != nil {
		d.log.WithContext(ctx).Debug("dispatch failed", logger.Fields(
			logger.FieldMethod, string(req.Method),
			logger.FieldURL, joinURL(req.Endpoint, req.ResourcePath),
			logger.FieldAttempts, attempts,
			logger.FieldError, err.Error(),
		))
		return nil, err
	}
	return resp, nil
}

// run is the retry loop. It returns the number of attempts made.
func (d *Dispatcher) run(ctx context.Context, req *Request, charset string) (*Response, int, error) {
	mark := markBody(req.Body, d.config.MarkLimit)

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if err := d.pause(ctx, attempt); err != nil {
				return nil, attempt + 1, err
			}
			if err := mark.rewind(); err != nil {
				return nil, attempt + 1, logerrors.StreamReset(err)
			}
		}

		resp, err := d.send(ctx, req, charset)
		if err == nil {
			return resp, attempt + 1, nil
		}

		if logerrors.IsEncoding(err) {
			return nil, attempt + 1, err
		}
		if !classified(err) {
			return nil, attempt + 1, logerrors.Unknown(err)
		}
		if !d.shouldRetry(err, req, attempt) {
			return nil, attempt + 1, err
		}

		d.log.WithContext(ctx).Warn("request failed, retrying", logger.Fields(
			logger.FieldMethod, string(req.Method),
			logger.FieldURL, joinURL(req.Endpoint, req.ResourcePath),
			logger.FieldAttempt, attempt+1,
			logger.FieldError, err.Error(),
		))
	}
}

// send builds a fresh wire request and performs one exchange.
func (d *Dispatcher) send(ctx context.Context, req *Request, charset string) (*Response, error) {
	wire, err := BuildRequest(req, charset)
	if err != nil {
		return nil, err
	}
	return d.transport.Send(ctx, wire, charset)
}

func (d *Dispatcher) shouldRetry(err error, req *Request, attempt int) bool {
	if attempt >= d.config.MaxRetries {
		return false
	}
	if !req.Repeatable() {
		return false
	}
	return d.policy.ShouldRetry(err, req, attempt)
}

// pause waits for the policy delay before the given attempt. A cancelled
// context ends the wait with an INTERRUPTED ClientError.
func (d *Dispatcher) pause(ctx context.Context, attempt int) error {
	if err := ctx.Err(); err != nil {
		return logerrors.Interrupted(err)
	}

	delay := d.policy.Delay(attempt)
	if delay < 0 {
		delay = 0
	}
	d.log.WithContext(ctx).Debug("waiting before retry", logger.RetryFields(attempt, delay, nil))

	timer := d.config.Clock.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C():
		return nil
	case <-ctx.Done():
		return logerrors.Interrupted(ctx.Err())
	}
}

// closeBody closes body if it can be closed. Close errors are not reported.
func (d *Dispatcher) closeBody(body io.Reader) {
	c, ok := body.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		d.log.Debug("closing request body failed", logger.ErrorFields("dispatch", err))
	}
}

// Shutdown shuts down the underlying transport.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	return d.transport.Shutdown(ctx)
}

// ConnectionManager returns the transport's connection manager.
func (d *Dispatcher) ConnectionManager() ConnectionManager {
	return d.transport.ConnectionManager()
}

// MaxRetries returns the configured retry limit.
func (d *Dispatcher) MaxRetries() int {
	return d.config.MaxRetries
}

func classified(err error) bool {
	if _, ok := logerrors.AsServiceError(err); ok {
		return true
	}
	_, ok := logerrors.AsClientError(err)
	return ok
}

func outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case logerrors.IsEncoding(err):
		return observability.OutcomeEncoding
	}
	if _, ok := logerrors.AsServiceError(err); ok {
		return observability.OutcomeServiceError
	}
	return observability.OutcomeClientError
}

