// Package llm provides a Gemini generateContent client used to draft lesson
// storyboards.
//
// The client sends one user prompt with responseMimeType set to
// application/json and returns the concatenated text of the first candidate.
// Callers decode that text with DecodeLLMJSON, which tolerates Markdown code
// fences, or ExtractJSON when they need to run their own strict decoder.
//
// # Retry Behaviour
//
// Requests are retried on HTTP 408/429/5xx, network timeouts, and empty
// candidates with exponential backoff (base 1s, max 10s, 3 attempts by
// default). Retry-After headers are honoured up to the max delay. Context
// cancellation aborts retries immediately.
package llm
