package httpclient

import (
	"io"
	"net/http"
)

// Method is the HTTP verb of a request.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
	MethodHead   Method = http.MethodHead
	MethodPatch  Method = http.MethodPatch
)

// Param is one query parameter. Keys may repeat within a request; a param
// without a value serializes as the bare key.
type Param struct {
	Key      string
	Value    string
	HasValue bool
}

// P returns a key=value parameter.
func P(key, value string) Param {
	return Param{Key: key, Value: value, HasValue: true}
}

// Flag returns a parameter that serializes as the bare key.
func Flag(key string) Param {
	return Param{Key: key}
}

// Request is the logical description of one API call. It is built and signed
// by the caller; the dispatcher only moves the body's read position.
type Request struct {
	// Method is the HTTP verb.
	Method Method
	// Endpoint is the base URI, e.g. "https://project.region.log.aliyuncs.com".
	Endpoint string
	// ResourcePath is appended to Endpoint; the leading "/" is optional.
	ResourcePath string
	// Params are serialized into the query string (or the POST body) in order.
	Params []Param
	// Headers are sent verbatim. They must already carry the signature.
	Headers map[string]string
	// Body is the optional payload.
	Body io.Reader
	// ContentLength is the number of bytes in Body. Ignored when Body is nil.
	ContentLength int64
}

// Repeatable reports whether the request can be sent more than once: it has
// no body, or its body can be rewound.
func (r *Request) Repeatable() bool {
	return r.Body == nil || rewindable(r.Body)
}

// WireRequest is a fully assembled request ready for a Transport.
type WireRequest struct {
	// Method is the HTTP verb.
	Method Method
	// URL is the absolute URL including at most one query string.
	URL string
	// Headers hold values in single-byte form: each rune is one octet to put
	// on the wire. Use HeaderOctets to recover the bytes.
	Headers map[string]string
	// Body is the exact payload to transmit, or nil.
	Body io.Reader
	// ContentLength is the number of bytes in Body; -1 when Body is nil.
	ContentLength int64
}

// HasBody reports whether the wire request carries a payload.
func (w *WireRequest) HasBody() bool {
	return w.Body != nil
}

// Response is what a Transport returns for a successful exchange.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
	// RequestID is the service-assigned request ID, if any.
	RequestID string
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
