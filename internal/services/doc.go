// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request identifiers and stage names for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into one categorized outcome per request (client error, upstream
//     failure, server error).
//
// Use these helpers when wiring new pipeline code so operational behaviour
// (error handling, observability) stays uniform across the HTTP and CLI paths.
package services
