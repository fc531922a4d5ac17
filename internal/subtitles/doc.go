// Package subtitles builds the timed caption track for a lesson.
//
// A lesson of N steps is split into N+1 equal, contiguous intervals over a
// fixed total duration; the extra interval carries the closing line. Build
// renders those cues as an SRT document whose timestamps use a literal "00:"
// hour prefix followed by MM:SS,mmm. CountCues, Parse, and Validate read such
// documents back for the compose pipeline and the CLI.
package subtitles
