package transport

import (
	"context"
)

type (
	contextKey string
)

const (
	ContextAuthTokenKey contextKey = "authToken"
	ContextRequestIDKey contextKey = "requestID"
)

// WithAuthToken returns a context whose requests use token instead of the session token.
func WithAuthToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, ContextAuthTokenKey, token)
}

// WithRequestID returns a context carrying an explicit request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextRequestIDKey, id)
}

func getAuthToken(ctx context.Context) string {
	if v := ctx.Value(ContextAuthTokenKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getRequestID(ctx context.Context) string {
	if v := ctx.Value(ContextRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
