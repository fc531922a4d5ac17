package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if !strings.Contains(c.Server.Bind, ":") {
		return fmt.Errorf("server.bind must be host:port, got %q", c.Server.Bind)
	}
	if c.Server.MaxConcurrentJobs < 1 {
		return errors.New("server.max_concurrent_jobs must be at least 1")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	if !strings.HasPrefix(c.LLM.BaseURL, "http://") && !strings.HasPrefix(c.LLM.BaseURL, "https://") {
		return fmt.Errorf("llm.base_url must be an http(s) URL, got %q", c.LLM.BaseURL)
	}
	return nil
}

func (c *Config) validateTTS() error {
	if !strings.Contains(c.TTS.CommandTemplate, "{out}") {
		return errors.New("tts.command_template must reference the {out} placeholder")
	}
	if !strings.HasPrefix(c.TTS.ElevenLabsBaseURL, "http://") && !strings.HasPrefix(c.TTS.ElevenLabsBaseURL, "https://") {
		return fmt.Errorf("tts.elevenlabs_base_url must be an http(s) URL, got %q", c.TTS.ElevenLabsBaseURL)
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.TotalSeconds <= 0 {
		return errors.New("render.total_seconds must be positive")
	}
	if c.Render.FallbackPlaceholders < 1 {
		return errors.New("render.fallback_placeholders must be at least 1")
	}
	if c.Render.FrameRate < 1 {
		return errors.New("render.frame_rate must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json", "color":
	default:
		return fmt.Errorf("logging.format must be console, json, or color, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
