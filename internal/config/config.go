package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir string `toml:"work_dir"`
	LogDir  string `toml:"log_dir"`
}

// Server contains configuration for the HTTP surface.
type Server struct {
	Bind                string `toml:"bind"`
	APIToken            string `toml:"api_token"`
	MaxConcurrentJobs   int    `toml:"max_concurrent_jobs"`
	QueueTimeoutSeconds int    `toml:"queue_timeout_seconds"`
	MaxUploadMB         int    `toml:"max_upload_mb"`
}

// LLM contains the storyboard model connection settings.
type LLM struct {
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	Temperature    float64 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RetryAttempts  int     `toml:"retry_attempts"`
}

// TTS contains configuration for speech synthesis.
type TTS struct {
	ElevenLabsAPIKey  string `toml:"elevenlabs_api_key"`
	ElevenLabsBaseURL string `toml:"elevenlabs_base_url"`
	ElevenLabsModel   string `toml:"elevenlabs_model"`
	// CommandTemplate is split into arguments once; {in}, {out}, {voice} and
	// {text} are substituted per argument and never reach a shell.
	CommandTemplate string `toml:"command_template"`
	DefaultVoice    string `toml:"default_voice"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// Render contains configuration for frame rendering and ffmpeg composition.
type Render struct {
	FFmpegBinary         string  `toml:"ffmpeg_binary"`
	FFprobeBinary        string  `toml:"ffprobe_binary"`
	TotalSeconds         float64 `toml:"total_seconds"`
	FallbackPlaceholders int     `toml:"fallback_placeholders"`
	Workers              int     `toml:"workers"`
	NormalizeInputs      bool    `toml:"normalize_inputs"`
	FontRegular          string  `toml:"font_regular"`
	FontBold             string  `toml:"font_bold"`
	VideoCodec           string  `toml:"video_codec"`
	AudioBitrate         string  `toml:"audio_bitrate"`
	FrameRate            int     `toml:"frame_rate"`
	EncodeTimeoutSeconds int     `toml:"encode_timeout_seconds"`
}

// Lesson contains the defaults applied to storyboard requests.
type Lesson struct {
	Name        string `toml:"name"`
	Language    string `toml:"language"`
	Spec        string `toml:"spec"`
	ClosingLine string `toml:"closing_line"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Bartender.
//
// Configuration sections by subsystem:
//   - Paths: per-request work area and log directory
//   - Server: HTTP bind address, auth token, and admission limits
//   - LLM: storyboard model connection settings
//   - TTS: ElevenLabs credentials and the local command template
//   - Render: ffmpeg binaries, fonts, and composition parameters
//   - Lesson: storyboard request defaults
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Server  Server  `toml:"server"`
	LLM     LLM     `toml:"llm"`
	TTS     TTS     `toml:"tts"`
	Render  Render  `toml:"render"`
	Lesson  Lesson  `toml:"lesson"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/bartender/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("bartender.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the work and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequireLLM reports a configuration error when the storyboard model cannot be
// reached because no API key is configured. Callers that generate storyboards
// invoke it while wiring so the process fails before serving any request.
func (c *Config) RequireLLM() error {
	if strings.TrimSpace(c.LLM.APIKey) != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/bartender/config.toml"
	}
	return fmt.Errorf("llm.api_key is required. Set GEMINI_API_KEY env var or edit %s (create with 'bartender config init')", defaultPath)
}

// FFmpegBinary returns the ffmpeg executable used for composition.
func (c *Config) FFmpegBinary() string {
	if binary := strings.TrimSpace(c.Render.FFmpegBinary); binary != "" {
		return binary
	}
	return defaultFFmpegBinary
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	if binary := strings.TrimSpace(c.Render.FFprobeBinary); binary != "" {
		return binary
	}
	return defaultFFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
