// Package resource implements the request-state store shared by every API
// resource (products, orders, contractors, users).
//
// A Store[T] owns one State[T]: the list window, pagination cursors, loading
// and error flags and the current search term. State only changes through
// Dispatch, which runs the pure Reduce function under the store mutex and
// notifies subscribers with an immutable snapshot. Thunks (Fetch, Load,
// Create, Update, Remove) perform the network call through an Endpoint and
// dispatch the resulting transition.
//
// Every list fetch is tagged with the store epoch. Changing the search term
// or page size, or clearing the store, starts a new epoch; completions tagged
// with an older epoch are discarded by the reducer.
package resource
