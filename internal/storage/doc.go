// Package storage provides the durable key-value stores the state
// engine persists the application registry through.
//
// The engine depends only on the Store interface; implementations are
// injected so tests can run against the in-memory store while
// deployments use the file-backed one. Both treat values as opaque
// bytes with exact round-trip fidelity.
package storage
