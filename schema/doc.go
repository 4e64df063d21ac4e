// Package schema defines the order-management domain types exchanged with the
// REST API together with the paginated list envelope.
//
// Every list item implements Entity so that generic stores can de-duplicate
// and replace items by key without knowing the concrete resource.
package schema
