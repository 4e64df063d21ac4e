package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/granddizzy/orders/client/auth/transport"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

const (
	defaultHTTPTimeout        = 60 * time.Second
	defaultHTTPConnectTimeout = 5 * time.Second
	defaultHTTPTLSTimeout     = 5 * time.Second
)

func defaultTransport() http.RoundTripper {
	dialer := &net.Dialer{
		Timeout: defaultHTTPConnectTimeout,
	}
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: defaultHTTPTLSTimeout,
	}
}

type Client struct {
	baseURL    string
	source     oauth2.TokenSource
	events     *transport.Events
	base       http.RoundTripper
	timeout    time.Duration
	tracing    bool
	httpClient *http.Client
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithBaseURL returns a client sharing this client's transport with a different base URL.
func (c *Client) WithBaseURL(baseURL string) *Client {
	if baseURL == "" || baseURL == c.baseURL {
		return c
	}
	ret := *c
	ret.baseURL = baseURL
	return &ret
}

// Events returns the session expired observer of this client.
func (c *Client) Events() *transport.Events {
	return c.events
}

// URL joins path onto the base URL.
func (c *Client) URL(path string, query url.Values) string {
	ret := strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		ret += "?" + query.Encode()
	}
	return ret
}

// Do sends a request with an optional JSON body and returns the raw response body.
// Any non-2xx response is returned as *HTTPError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	URL := c.URL(path, query)
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, URL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: URL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: URL, Err: err}
	}
	if glog.V(2) {
		glog.Infof("[http] %s %s -> %d (%.2fms)\n", method, URL, resp.StatusCode, float64(time.Since(started).Microseconds())/1000)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(method, URL, resp.StatusCode, data)
	}
	return data, nil
}

func newHTTPError(method, URL string, status int, body []byte) *HTTPError {
	ret := &HTTPError{Method: method, URL: URL, Status: status, StatusText: http.StatusText(status), Body: body}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		ret.Message = payload.Message
		if ret.Message == "" {
			ret.Message = payload.Error
		}
	}
	return ret
}

// Get issues GET and decodes the JSON response into R.
func Get[R any](ctx context.Context, c *Client, path string, query url.Values) (*R, error) {
	return send[R](ctx, c, http.MethodGet, path, query, nil)
}

// Post issues POST with body and decodes the JSON response into R.
func Post[R any](ctx context.Context, c *Client, path string, body any) (*R, error) {
	return send[R](ctx, c, http.MethodPost, path, nil, body)
}

// Put issues PUT with body and decodes the JSON response into R.
func Put[R any](ctx context.Context, c *Client, path string, body any) (*R, error) {
	return send[R](ctx, c, http.MethodPut, path, nil, body)
}

// Delete issues DELETE and decodes the optional JSON response into R.
// It returns nil, nil when the server answered without a body.
func Delete[R any](ctx context.Context, c *Client, path string) (*R, error) {
	return send[R](ctx, c, http.MethodDelete, path, nil, nil)
}

func send[R any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (*R, error) {
	data, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	ret := new(R)
	if err = json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return ret, nil
}

// New creates an API client for baseURL.
func New(baseURL string, options ...Option) *Client {
	ret := &Client{
		baseURL: baseURL,
		timeout: defaultHTTPTimeout,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.events == nil {
		ret.events = transport.NewEvents()
	}
	if ret.base == nil {
		ret.base = defaultTransport()
	}
	var rt http.RoundTripper = transport.New(
		transport.WithTransport(ret.base),
		transport.WithTokenSource(ret.source),
		transport.WithEvents(ret.events),
	)
	if ret.tracing {
		rt = otelhttp.NewTransport(rt)
	}
	ret.httpClient = &http.Client{Transport: rt, Timeout: ret.timeout}
	return ret
}
