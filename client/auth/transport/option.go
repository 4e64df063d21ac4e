package transport

import (
	"net/http"

	"golang.org/x/oauth2"
)

type Option func(*RoundTripper)

// WithTokenSource sets the session token source
func WithTokenSource(source oauth2.TokenSource) Option {
	return func(t *RoundTripper) {
		t.source = source
	}
}

// WithEvents sets the session expired observer
func WithEvents(events *Events) Option {
	return func(t *RoundTripper) {
		t.events = events
	}
}

// WithTransport sets the underlying transport
func WithTransport(transport http.RoundTripper) Option {
	return func(t *RoundTripper) {
		if transport != nil {
			t.transport = transport
		}
	}
}
