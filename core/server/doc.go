// Package server holds the HTTP server configuration: listen port and the
// API key protecting the query and admin endpoints.
package server
