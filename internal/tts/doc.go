// Package tts turns narration text into audio.
//
// A Synthesizer routes each request by voice: voices written as
// "elevenlabs:{voice_id}" go to the ElevenLabs streaming endpoint, every
// other voice runs the configured local command template. The template is
// split into arguments once and executed directly, so narration text is only
// ever a single argument and never shell input.
package tts
