// Package compose turns a lesson's still frames, captions, and optional
// narration into one vertical MP4 through ffmpeg.
//
// Every request owns a Workspace under the configured work directory that
// holds uploads, generated frames, the caption file, and the encoded output;
// Cleanup removes it once the response is sent. The Orchestrator fills in
// placeholder frames when none were supplied, always prepends the recipe
// card, divides the fixed lesson length evenly across the frames, and runs
// ffmpeg with an argument vector built by BuildArgs (never through a shell).
// A Limiter bounds how many encodes run at once.
package compose
