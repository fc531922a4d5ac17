// Package language normalizes narration languages.
//
// Storyboard requests and speech synthesis accept a language as an ISO 639-1
// or 639-2 code or as an English word ("es", "spa", "spanish"). Resolve turns
// any of those into the display name quoted in model prompts, and Voice picks
// the default neural voice used by the local speech command.
package language
