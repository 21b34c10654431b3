// Package ws provides the WebSocket surface: clients receive registry
// change events as they are persisted and may drive the application
// lifecycle over the same connection.
package ws
