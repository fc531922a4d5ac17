package tts

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bartender/internal/config"
	"bartender/internal/language"
	"bartender/internal/logging"
	"bartender/internal/services"
)

const (
	stageName        = "tts"
	elevenLabsPrefix = "elevenlabs:"
	// DefaultVoice is used when a request names no voice.
	DefaultVoice = "en-US-AriaNeural"
)

// Engine produces audio bytes for text in a specific voice.
type Engine interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Synthesizer validates requests and dispatches them to an engine.
type Synthesizer struct {
	elevenLabs   Engine
	command      Engine
	defaultVoice string
	logger       *slog.Logger
}

// NewSynthesizer wires both engines from configuration.
func NewSynthesizer(cfg config.TTS, logger *slog.Logger) (*Synthesizer, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	command, err := NewCommand(cfg.CommandTemplate, timeout, logger)
	if err != nil {
		return nil, err
	}
	eleven := NewElevenLabs(ElevenLabsConfig{
		APIKey:  cfg.ElevenLabsAPIKey,
		BaseURL: cfg.ElevenLabsBaseURL,
		Model:   cfg.ElevenLabsModel,
		Timeout: timeout,
	})
	return New(eleven, command, cfg.DefaultVoice, logger), nil
}

// New assembles a Synthesizer from explicit engines.
func New(elevenLabs, command Engine, defaultVoice string, logger *slog.Logger) *Synthesizer {
	if strings.TrimSpace(defaultVoice) == "" {
		defaultVoice = DefaultVoice
	}
	return &Synthesizer{
		elevenLabs:   elevenLabs,
		command:      command,
		defaultVoice: strings.TrimSpace(defaultVoice),
		logger:       logging.NewComponentLogger(logger, stageName),
	}
}

// Synthesize returns audio for text. A blank voice selects the default voice.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrValidation, stageName, "synthesize", "text is required", nil)
	}
	ctx = services.WithStage(ctx, stageName)
	logger := logging.WithContext(ctx, s.logger)

	voice = strings.TrimSpace(voice)
	if voice == "" {
		voice = s.defaultVoice
	}

	engine, engineName, engineVoice := s.command, "command", voice
	if id, ok := strings.CutPrefix(voice, elevenLabsPrefix); ok {
		engine, engineName, engineVoice = s.elevenLabs, "elevenlabs", strings.TrimSpace(id)
		if engineVoice == "" {
			return nil, services.Wrap(services.ErrValidation, stageName, "synthesize", "elevenlabs voice id is required", nil)
		}
	}
	if engine == nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, engineName, "engine not configured", nil)
	}

	started := time.Now()
	audio, err := engine.Synthesize(ctx, text, engineVoice)
	if err != nil {
		logging.ErrorWithContext(logger, "speech synthesis failed", "tts_failed",
			logging.String("engine", engineName),
			logging.String("voice", engineVoice),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the tts engine configuration and credentials"),
		)
		return nil, err
	}
	logger.Info("speech synthesized",
		logging.String("engine", engineName),
		logging.String("voice", engineVoice),
		logging.Int("text_chars", len(text)),
		logging.Int("audio_bytes", len(audio)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return audio, nil
}

// VoiceFor returns voice when set, otherwise the default voice for lang. An
// empty result leaves the choice to the Synthesizer's default voice.
func VoiceFor(voice, lang string) string {
	if voice = strings.TrimSpace(voice); voice != "" {
		return voice
	}
	return language.Voice(lang)
}
