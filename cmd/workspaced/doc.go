// Command workspaced runs the window state engine as an HTTP and
// WebSocket service. Configuration comes from the environment; see
// internal/infrastructure/config for the variables and defaults.
package main
