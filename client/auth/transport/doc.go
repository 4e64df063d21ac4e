// Package transport implements the http.RoundTripper every authenticated API
// call goes through.
//
// The RoundTripper attaches the bearer token of the current session (or a
// per-call token carried by the request context), stamps a request id, and
// publishes a SessionExpired event to all subscribers whenever the server
// answers `401 Unauthorized`. The response itself is returned untouched so the
// caller still observes the original failure.
package transport
