package transport

import (
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const RequestIDHeader = "X-Request-ID"

type RoundTripper struct {
	source    oauth2.TokenSource
	events    *Events
	transport http.RoundTripper
}

func New(options ...Option) *RoundTripper {
	ret := &RoundTripper{
		transport: http.DefaultTransport,
		events:    NewEvents(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Events returns the session expired observer.
func (r *RoundTripper) Events() *Events {
	return r.events
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	outbound := req.Clone(ctx)
	requestID := getRequestID(ctx)
	if requestID == "" {
		requestID = outbound.Header.Get(RequestIDHeader)
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	outbound.Header.Set(RequestIDHeader, requestID)
	if token := r.token(req); token != nil {
		token.SetAuthHeader(outbound)
	}

	resp, err := r.transport.RoundTrip(outbound)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		glog.V(1).Infof("[auth] %s %s rejected with 401 (%s)\n", req.Method, req.URL.Path, requestID)
		r.events.Publish(SessionExpired{
			Method:    req.Method,
			URL:       req.URL.String(),
			Status:    resp.StatusCode,
			RequestID: requestID,
			At:        time.Now(),
		})
	}
	return resp, nil
}

func (r *RoundTripper) token(req *http.Request) *oauth2.Token {
	if value := getAuthToken(req.Context()); value != "" {
		return &oauth2.Token{AccessToken: value, TokenType: "Bearer"}
	}
	if r.source == nil {
		return nil
	}
	token, err := r.source.Token()
	if err != nil || token == nil || token.AccessToken == "" {
		return nil
	}
	return token
}
