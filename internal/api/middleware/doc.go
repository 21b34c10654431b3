// Package middleware provides HTTP middleware for the workspaced API:
// CORS handling and per-client rate limiting.
package middleware
