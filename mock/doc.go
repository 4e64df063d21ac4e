// Package mock provides an in-process implementation of the order-management
// REST API for development and tests.
//
// The server keeps products, contractors, orders and users in memory, pages
// list responses with the {data, current_page, last_page} envelope, supports
// case-insensitive search, and protects every resource with HS256 JWT bearer
// tokens issued by POST /login. Individual resources can be switched to bare
// array responses to exercise client normalization.
package mock
