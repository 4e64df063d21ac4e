// Package client is the single point of egress for calls to the
// order-management REST API.
//
// A Client joins resource paths onto the configured base URL, encodes JSON
// bodies, and converts failures into the typed errors of this package:
// NetworkError when no response was received and HTTPError for any non-2xx
// status. Authentication is delegated to the transport sub-package which
// attaches the bearer token and publishes a SessionExpired event on 401.
//
// Example:
//
//	cli := client.New("https://api.example.com/api", client.WithTokenSource(session))
//	products, err := client.Get[schema.Page[schema.Product]](ctx, cli, "products", url.Values{"page": {"1"}})
package client
