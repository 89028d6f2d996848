// Package middleware groups the Fiber middleware used by the tracker's HTTP
// surface: ray-id request correlation and API key authentication.
package middleware
