package preflight

import (
	"strings"

	"bartender/internal/config"
	"bartender/internal/deps"
)

// CheckLLMConfigured reports whether a language model key is present without
// contacting the API.
func CheckLLMConfigured(cfg *config.Config) Result {
	const name = "Storyboard LLM key"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		return Result{Name: name, Detail: "Missing API key (set GEMINI_API_KEY)"}
	}
	return Result{Name: name, Passed: true, Detail: "Configured (" + cfg.LLM.Model + ")"}
}

// CheckTTSConfigured summarizes which speech engines can serve requests. It
// passes when at least one engine is usable.
func CheckTTSConfigured(cfg *config.Config) Result {
	const name = "Speech synthesis"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	var engines []string
	if strings.TrimSpace(cfg.TTS.ElevenLabsAPIKey) != "" {
		engines = append(engines, "elevenlabs")
	}
	binary, err := deps.CommandBinary(cfg.TTS.CommandTemplate)
	commandReady := false
	if err == nil {
		statuses := deps.CheckBinaries([]deps.Requirement{{Name: "tts", Command: binary}})
		commandReady = statuses[0].Available
		if commandReady {
			engines = append(engines, binary)
		}
	}
	if len(engines) == 0 {
		detail := "No engine available"
		if err != nil {
			detail += " (invalid command template)"
		} else if !commandReady {
			detail += " (" + binary + " not found, ELEVENLABS_API_KEY unset)"
		}
		return Result{Name: name, Detail: detail}
	}
	return Result{Name: name, Passed: true, Detail: strings.Join(engines, ", ")}
}
