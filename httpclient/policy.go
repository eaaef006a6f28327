package httpclient

import (
	"time"

	logerrors "github.com/kbukum/logkit/errors"
	"github.com/kbukum/logkit/resilience"
)

// RetryPolicy decides whether a failed attempt is retried and how long to wait.
// Implementations must be safe for concurrent use.
type RetryPolicy interface {
	// ShouldRetry is consulted with a ServiceError or ClientError, the
	// request, and the zero-based index of the attempt that failed. The
	// dispatcher has already checked the retry limit and repeatability.
	ShouldRetry(err error, req *Request, attempt int) bool
	// Delay returns the wait before the given attempt (attempt >= 1).
	Delay(attempt int) time.Duration
}

// PolicyFuncs adapts a pair of functions to RetryPolicy. A nil
// ShouldRetryFunc never retries; a nil DelayFunc does not wait.
type PolicyFuncs struct {
	ShouldRetryFunc func(err error, req *Request, attempt int) bool
	DelayFunc       func(attempt int) time.Duration
}

func (p PolicyFuncs) ShouldRetry(err error, req *Request, attempt int) bool {
	if p.ShouldRetryFunc == nil {
		return false
	}
	return p.ShouldRetryFunc(err, req, attempt)
}

func (p PolicyFuncs) Delay(attempt int) time.Duration {
	if p.DelayFunc == nil {
		return 0
	}
	return p.DelayFunc(attempt)
}

// NeverRetry returns a policy that accepts no retries.
func NeverRetry() RetryPolicy {
	return PolicyFuncs{}
}

// BackoffPolicy retries errors accepted by RetryIf, waiting with exponential backoff.
type BackoffPolicy struct {
	Backoff resilience.Backoff
	// RetryIf classifies errors. Nil means DefaultRetryIf.
	RetryIf func(err error) bool
}

// NewBackoffPolicy returns a policy using DefaultRetryIf and b, with zero
// fields of b defaulted.
func NewBackoffPolicy(b resilience.Backoff) *BackoffPolicy {
	b.ApplyDefaults()
	return &BackoffPolicy{Backoff: b, RetryIf: DefaultRetryIf}
}

func (p *BackoffPolicy) ShouldRetry(err error, _ *Request, _ int) bool {
	retryIf := p.RetryIf
	if retryIf == nil {
		retryIf = DefaultRetryIf
	}
	return retryIf(err)
}

func (p *BackoffPolicy) Delay(attempt int) time.Duration {
	return p.Backoff.Delay(attempt)
}

// DefaultRetryIf accepts transient client failures (connection, timeout,
// open circuit, local rate limit) and service errors with a 5xx status or a
// throttling/busy error code.
func DefaultRetryIf(err error) bool {
	return logerrors.IsRetryable(err)
}
