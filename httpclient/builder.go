package httpclient

import (
	"bytes"
	"strings"
)

const pathSeparator = "/"

// BuildRequest turns a logical request into a wire request. It has no side
// effects: building twice from the same request yields the same URL, headers
// and content length.
//
// Parameters go into the URL unless the request is a POST without a body, in
// which case the encoded parameter string becomes the body.
func BuildRequest(req *Request, charset string) (*WireRequest, error) {
	wire := &WireRequest{
		Method:        req.Method,
		Headers:       encodeHeaders(req.Headers),
		ContentLength: -1,
	}

	query, err := QueryString(req.Params, charset)
	if err != nil {
		return nil, err
	}

	hasBody := req.Body != nil
	isPost := req.Method == MethodPost

	uri := joinURL(req.Endpoint, req.ResourcePath)
	if query != "" && (!isPost || hasBody) {
		uri += "?" + query
	}
	wire.URL = uri

	switch {
	case isPost && !hasBody && query != "":
		payload, err := encodeText(charset, query)
		if err != nil {
			return nil, err
		}
		wire.Body = bytes.NewReader(payload)
		wire.ContentLength = int64(len(payload))
	case hasBody:
		wire.Body = req.Body
		wire.ContentLength = req.ContentLength
	}

	return wire, nil
}

// joinURL concatenates endpoint and resource path with exactly one separator.
func joinURL(endpoint, resourcePath string) string {
	endsWithSep := strings.HasSuffix(endpoint, pathSeparator)
	startsWithSep := strings.HasPrefix(resourcePath, pathSeparator)

	switch {
	case endsWithSep && startsWithSep:
		return endpoint + resourcePath[len(pathSeparator):]
	case !endsWithSep && !startsWithSep:
		return endpoint + pathSeparator + resourcePath
	default:
		return endpoint + resourcePath
	}
}
