package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kbukum/logkit/httpclient"
	"github.com/kbukum/logkit/version"
)

// HeaderClientRequestID correlates a logctl invocation with service logs.
const HeaderClientRequestID = "X-Request-ID"

// SendOptions holds the flags of the send command.
type SendOptions struct {
	Method   string
	Path     string
	Params   []string
	Headers  []string
	BodyFile string
}

func (a *App) newSendCommand() *cobra.Command {
	opts := &SendOptions{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a raw request to the service",
		Long: `Send one logical request through the dispatcher and print the status,
the service request id and the response body.

Parameters keep the order they are given in and may repeat; a parameter
without '=' is sent as a bare key. Bodies read from a file are rewound
between attempts; bodies read from stdin are buffered first.`,
		Example: `  # List logstores of a project
  logctl send --endpoint https://my-project.cn-hangzhou.log.aliyuncs.com \
    --path /logstores --param offset=0 --param size=100

  # POST a JSON document
  logctl send --method POST --path /logstores \
    --header Content-Type=application/json --body-file logstore.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSend(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Method, "method", "X", "GET", "HTTP method (GET, POST, PUT, DELETE, HEAD, PATCH)")
	cmd.Flags().StringVarP(&opts.Path, "path", "p", "", "resource path, e.g. /logstores")
	cmd.Flags().StringArrayVar(&opts.Params, "param", nil, "query parameter key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.Headers, "header", "H", nil, "request header Key=Value (repeatable)")
	cmd.Flags().StringVarP(&opts.BodyFile, "body-file", "d", "", "request body file, '-' for stdin")

	return cmd
}

func (a *App) runSend(cmd *cobra.Command, opts *SendOptions) error {
	req, closeBody, err := a.buildSendRequest(opts)
	if err != nil {
		return err
	}
	// The dispatcher closes the body; this covers failures before dispatch.
	defer closeBody()

	d, err := a.newDispatcher(cmd.Context())
	if err != nil {
		return err
	}

	resp, err := d.Dispatch(cmd.Context(), req, a.cfg.Charset)
	if err != nil {
		return err
	}
	return a.printResponse(resp)
}

func (a *App) buildSendRequest(opts *SendOptions) (*httpclient.Request, func(), error) {
	method, err := parseMethod(opts.Method)
	if err != nil {
		return nil, nil, err
	}
	params := parseParams(opts.Params)
	headers, err := parseHeaders(opts.Headers)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := lookupHeader(headers, HeaderClientRequestID); !ok {
		headers[HeaderClientRequestID] = uuid.NewString()
	}
	if _, ok := lookupHeader(headers, "User-Agent"); !ok {
		headers["User-Agent"] = version.UserAgent()
	}

	req := &httpclient.Request{
		Method:       method,
		Endpoint:     a.cfg.Endpoint,
		ResourcePath: opts.Path,
		Params:       params,
		Headers:      headers,
	}

	closeBody := func() {}
	switch opts.BodyFile {
	case "":
	case "-":
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
		req.Body = bytes.NewReader(data)
		req.ContentLength = int64(len(data))
	default:
		f, err := os.Open(opts.BodyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open body file: %w", err)
		}
		info, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, nil, fmt.Errorf("stat body file: %w", err)
		}
		req.Body = f
		req.ContentLength = info.Size()
		closeBody = func() { _ = f.Close() }
	}
	return req, closeBody, nil
}

func (a *App) printResponse(resp *httpclient.Response) error {
	fmt.Fprintf(a.stdout, "HTTP %d\n", resp.StatusCode)
	if resp.RequestID != "" {
		fmt.Fprintf(a.stdout, "request-id: %s\n", resp.RequestID)
	}
	if len(resp.Body) > 0 {
		fmt.Fprintln(a.stdout)
		fmt.Fprintln(a.stdout, strings.TrimRight(string(resp.Body), "\n"))
	}
	return nil
}

var methods = map[string]httpclient.Method{
	"GET":    httpclient.MethodGet,
	"POST":   httpclient.MethodPost,
	"PUT":    httpclient.MethodPut,
	"DELETE": httpclient.MethodDelete,
	"HEAD":   httpclient.MethodHead,
	"PATCH":  httpclient.MethodPatch,
}

func parseMethod(s string) (httpclient.Method, error) {
	m, ok := methods[strings.ToUpper(s)]
	if !ok {
		names := make([]string, 0, len(methods))
		for name := range methods {
			names = append(names, name)
		}
		sort.Strings(names)
		return "", fmt.Errorf("unsupported method %q (want one of %s)", s, strings.Join(names, ", "))
	}
	return m, nil
}

// parseParams keeps order and duplicates; "k" without '=' becomes a bare key.
func parseParams(raw []string) []httpclient.Param {
	params := make([]httpclient.Param, 0, len(raw))
	for _, kv := range raw {
		if key, value, ok := strings.Cut(kv, "="); ok {
			params = append(params, httpclient.P(key, value))
		} else {
			params = append(params, httpclient.Flag(kv))
		}
	}
	return params
}

func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw)+2)
	for _, kv := range raw {
		idx := strings.IndexAny(kv, "=:")
		if idx <= 0 || strings.TrimSpace(kv[:idx]) == "" {
			return nil, fmt.Errorf("invalid header %q (want Key=Value)", kv)
		}
		headers[strings.TrimSpace(kv[:idx])] = strings.TrimSpace(kv[idx+1:])
	}
	return headers, nil
}

func lookupHeader(headers map[string]string, name string) (string, bool) {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
