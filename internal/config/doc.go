// Package config loads, normalizes, and validates Bartender configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GEMINI_API_KEY, ELEVENLABS_API_KEY, TTS_CMD_TEMPLATE, and PORT. The Config
// type centralizes every knob the daemon and CLI need, so the storyboard
// client, speech synthesis, and the video composer are configured in one pass
// at process start instead of through process-wide globals.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
