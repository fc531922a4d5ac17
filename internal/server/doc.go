// Package server exposes the lesson pipeline over HTTP.
//
// Routes:
//   - POST /api/storyboard drafts a storyboard, captions, and narration script.
//   - POST /api/tts synthesizes narration audio.
//   - POST /api/compose accepts a multipart upload and streams back the MP4.
//   - GET  /api/health reports dependency and preflight status.
//
// Every request is assigned a request ID (echoed in X-Request-ID) that is
// stamped into the context so every log line for the request carries it.
// Failures are mapped to status codes through services.HTTPStatus; clients
// only ever see services.PublicMessage while the full chain goes to the log.
package server
