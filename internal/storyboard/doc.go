// Package storyboard owns the lesson storyboard model and the language-model
// round trip that produces it.
//
// A Storyboard is an ordered list of narrated steps plus a closing line. The
// Generator renders the mixology prompt, sends it through a JSON-capable
// completer (the Gemini client in production) and decodes the reply with
// Parse, which rejects unknown keys, missing keys, non-positive step numbers,
// and trailing data. Every rejection is reported as services.ErrGeneration.
//
// WriteFile and ReadFile persist storyboards as YAML (or JSON, by extension)
// so CLI users can edit a lesson before building subtitles or a video.
package storyboard
