// Package daemon coordinates the long-running Bartender process.
//
// It ties configuration, the HTTP server, and the composition limiter into a
// single lifecycle with flock-based locking to prevent two daemons from
// sharing a log directory. The daemon also assembles the health snapshot
// served on GET /api/health and printed by "bartender status".
//
// Keep orchestration logic here: request handling lives in internal/server
// and the pipeline steps in their own packages.
package daemon
