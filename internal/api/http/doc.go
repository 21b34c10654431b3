// Package http provides the REST surface over the workspace state
// engine: application lifecycle endpoints, pure layout computation
// endpoints and health checks.
package http
