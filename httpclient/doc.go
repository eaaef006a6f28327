// Package httpclient is the request-dispatch core of the log service client.
//
// A caller hands the Dispatcher a fully populated, already signed Request.
// For every attempt the Dispatcher builds a fresh WireRequest (final URL,
// single-byte header form, final body) and passes it to a Transport. Failures
// that are ServiceErrors or ClientErrors are offered to a RetryPolicy; anything
// else is wrapped and returned at once. Between attempts the Dispatcher waits
// for the policy's delay and rewinds the request body. The body is closed
// exactly once when Dispatch returns.
//
// # Basic Usage
//
//	transport, _ := nethttp.New(nethttp.DefaultConfig())
//	d, _ := httpclient.New(transport, httpclient.Config{MaxRetries: 3})
//
//	resp, err := d.Dispatch(ctx, &httpclient.Request{
//	    Method:       httpclient.MethodGet,
//	    Endpoint:     "https://my-project.cn-hangzhou.log.aliyuncs.com",
//	    ResourcePath: "/logstores",
//	    Params:       []httpclient.Param{httpclient.P("offset", "0")},
//	    Headers:      signedHeaders,
//	}, "UTF-8")
//
// # Retries
//
// A request is only retried when it is Repeatable: it has no body, or its
// body can be rewound (io.Seeker or Marker). Wrap a plain stream with
// NewMarkableReader to make bodies up to the mark limit replayable.
package httpclient
