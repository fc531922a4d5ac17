// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Bartender uses it to verify composed lessons (duration, frame size, audio
// presence) and to log the length of uploaded narration tracks. Inspect runs
// ffprobe and decodes its JSON; Result helpers turn the string-typed numbers
// ffprobe emits into usable values.
package ffprobe
