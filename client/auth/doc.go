// Package auth owns the authentication session slice of the client state.
//
// A Manager logs in and registers against the API, persists the resulting
// bearer token through a store.Store, and acts as the oauth2.TokenSource the
// HTTP transport reads for every request. Once attached to a client.Client it
// subscribes to the transport's SessionExpired events and logs out when the
// API rejects the token with `401 Unauthorized`.
package auth
