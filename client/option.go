package client

import (
	"net/http"
	"time"

	"github.com/granddizzy/orders/client/auth/transport"
	"golang.org/x/oauth2"
)

// Option represents option
type Option func(c *Client)

// WithTokenSource sets the bearer token source
func WithTokenSource(source oauth2.TokenSource) Option {
	return func(c *Client) {
		c.source = source
	}
}

// WithEvents sets a shared session expired observer
func WithEvents(events *transport.Events) Option {
	return func(c *Client) {
		c.events = events
	}
}

// WithTransport sets the base transport used below authentication
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.base = rt
	}
}

// WithTimeout sets the per request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithTracing wraps egress with OpenTelemetry instrumentation
func WithTracing(enabled bool) Option {
	return func(c *Client) {
		c.tracing = enabled
	}
}
