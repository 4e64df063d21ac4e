// Package store persists the authentication session slice.
//
// The session (bearer token and user profile) is the only piece of client
// state that survives a restart. It ships with an in-memory implementation
// for tests and a FileStore writing a JSON snapshot to any viant/afs URL.
package store
