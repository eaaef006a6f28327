package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestServiceError_Error_Format(t *testing.T) {
	err := NewServiceError(503, ServiceCodeServerBusy, "busy", "req-1")
	s := err.Error()
	if !strings.Contains(s, "HTTP 503") {
		t.Errorf("expected status in error string, got %q", s)
	}
	if !strings.Contains(s, "ServerBusy") {
		t.Errorf("expected code in error string, got %q", s)
	}
	if !strings.Contains(s, "request_id=req-1") {
		t.Errorf("expected request id in error string, got %q", s)
	}

	noID := NewServiceError(400, ServiceCodeParameterInvalid, "bad", "")
	if strings.Contains(noID.Error(), "request_id") {
		t.Errorf("expected no request id, got %q", noID.Error())
	}
}

func TestServiceError_Retryable_Table(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		want   bool
	}{
		{"5xx", 500, ServiceCodeInternal, true},
		{"502 unknown code", 502, "Whatever", true},
		{"quota on 403", 403, ServiceCodeWriteQuotaExceed, true},
		{"qps on 403", 403, ServiceCodeProjectQPSExceed, true},
		{"unauthorized", 401, ServiceCodeUnauthorized, false},
		{"signature", 401, ServiceCodeSignatureNotMatch, false},
		{"not found", 404, ServiceCodeProjectNotExist, false},
		{"bad param", 400, ServiceCodeParameterInvalid, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := NewServiceError(tc.status, tc.code, "m", "")
			if got := err.Retryable(); got != tc.want {
				t.Errorf("expected retryable=%v, got %v", tc.want, got)
			}
		})
	}
}

func TestClientError_Constructors_Table(t *testing.T) {
	cause := fmt.Errorf("boom")
	tests := []struct {
		name      string
		err       *ClientError
		code      ClientCode
		retryable bool
	}{
		{"Connection", Connection(cause), CodeConnection, true},
		{"Timeout", Timeout(cause), CodeTimeout, true},
		{"CircuitOpen", CircuitOpen(cause), CodeCircuitOpen, true},
		{"RateLimited", RateLimited(cause), CodeRateLimited, true},
		{"Interrupted", Interrupted(context.Canceled), CodeInterrupted, false},
		{"StreamReset", StreamReset(cause), CodeStreamReset, false},
		{"Unknown", Unknown(cause), CodeUnknown, false},
		{"InvalidArgument", InvalidArgument("nil request"), CodeInvalidArgument, false},
		{"Shutdown", Shutdown(), CodeShutdown, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.Retryable() != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable())
			}
		})
	}
}

func TestClientError_Unwrap_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("socket closed")
	err := Unknown(cause)
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if err.Message != "socket closed" {
		t.Errorf("expected cause message, got %q", err.Message)
	}
}

func TestClientError_Error_Format(t *testing.T) {
	err := StreamReset(fmt.Errorf("mark invalidated"))
	s := err.Error()
	if !strings.Contains(s, "STREAM_RESET") || !strings.Contains(s, "mark invalidated") {
		t.Errorf("unexpected error string %q", s)
	}

	plain := InvalidArgument("charset is required")
	if got := plain.Error(); got != "logkit: INVALID_ARGUMENT: charset is required" {
		t.Errorf("unexpected error string %q", got)
	}
}

func TestEncodingError_IsFatalSentinel(t *testing.T) {
	cause := fmt.Errorf("unsupported")
	err := EncodingError("EBCDIC-XX", cause)
	if !IsEncoding(err) {
		t.Error("expected IsEncoding to be true")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to stay reachable")
	}
	if IsRetryable(err) {
		t.Error("encoding errors must not be retryable")
	}
}

func TestAsHelpers_Wrapped(t *testing.T) {
	se := NewServiceError(500, ServiceCodeInternal, "x", "")
	wrapped := fmt.Errorf("outer: %w", se)
	got, ok := AsServiceError(wrapped)
	if !ok || got != se {
		t.Fatal("expected AsServiceError to find wrapped error")
	}
	if _, ok := AsClientError(wrapped); ok {
		t.Error("expected AsClientError to fail for service error")
	}

	ce := Connection(fmt.Errorf("refused"))
	if got, ok := AsClientError(fmt.Errorf("wrap: %w", ce)); !ok || got != ce {
		t.Fatal("expected AsClientError to find wrapped error")
	}
}

func TestIsRetryable_PlainError(t *testing.T) {
	if IsRetryable(fmt.Errorf("plain")) {
		t.Error("plain errors are not retryable")
	}
	if !IsRetryable(Timeout(fmt.Errorf("slow"))) {
		t.Error("timeouts are retryable")
	}
}
