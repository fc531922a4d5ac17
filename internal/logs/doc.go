// Package logs reads the daemon's run logs for the CLI.
//
// The daemon writes one file per run and keeps bartender.log pointing at the
// active one. Tail returns the last N lines (optionally only those mentioning
// a request ID) together with a byte offset, and Follow polls from that
// offset until the context ends. Memory stays bounded by the line limit.
package logs
