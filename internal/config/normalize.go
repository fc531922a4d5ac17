package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeLLM()
	c.normalizeTTS()
	if err := c.normalizeRender(); err != nil {
		return err
	}
	c.normalizeLesson()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = os.TempDir()
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultAPIBind
	}
	if port, ok := os.LookupEnv("PORT"); ok && strings.TrimSpace(port) != "" && c.Server.Bind == defaultAPIBind {
		c.Server.Bind = ":" + strings.TrimSpace(port)
	}
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
	if c.Server.APIToken == "" {
		if value, ok := os.LookupEnv("BARTENDER_API_TOKEN"); ok {
			c.Server.APIToken = strings.TrimSpace(value)
		}
	}
	if c.Server.MaxConcurrentJobs <= 0 {
		c.Server.MaxConcurrentJobs = runtime.NumCPU()
	}
	if c.Server.QueueTimeoutSeconds <= 0 {
		c.Server.QueueTimeoutSeconds = defaultQueueTimeoutSeconds
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = defaultMaxUploadMB
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if value, ok := os.LookupEnv("GEMINI_MODEL"); ok && strings.TrimSpace(value) != "" && (c.LLM.Model == "" || c.LLM.Model == defaultLLMModel) {
		c.LLM.Model = strings.TrimSpace(value)
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(c.LLM.BaseURL), "/")
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.RetryAttempts <= 0 {
		c.LLM.RetryAttempts = 1
	}
}

func (c *Config) normalizeTTS() {
	c.TTS.ElevenLabsAPIKey = strings.TrimSpace(c.TTS.ElevenLabsAPIKey)
	if c.TTS.ElevenLabsAPIKey == "" {
		if value, ok := os.LookupEnv("ELEVENLABS_API_KEY"); ok {
			c.TTS.ElevenLabsAPIKey = strings.TrimSpace(value)
		}
	}
	c.TTS.ElevenLabsBaseURL = strings.TrimRight(strings.TrimSpace(c.TTS.ElevenLabsBaseURL), "/")
	if c.TTS.ElevenLabsBaseURL == "" {
		c.TTS.ElevenLabsBaseURL = defaultElevenLabsBaseURL
	}
	c.TTS.ElevenLabsModel = strings.TrimSpace(c.TTS.ElevenLabsModel)
	if value, ok := os.LookupEnv("TTS_CMD_TEMPLATE"); ok && strings.TrimSpace(value) != "" {
		c.TTS.CommandTemplate = value
	}
	c.TTS.CommandTemplate = strings.TrimSpace(c.TTS.CommandTemplate)
	if c.TTS.CommandTemplate == "" {
		c.TTS.CommandTemplate = defaultTTSCommandTemplate
	}
	c.TTS.DefaultVoice = strings.TrimSpace(c.TTS.DefaultVoice)
	if c.TTS.DefaultVoice == "" {
		c.TTS.DefaultVoice = defaultTTSVoice
	}
	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultTTSTimeoutSeconds
	}
}

func (c *Config) normalizeRender() error {
	c.Render.FFmpegBinary = strings.TrimSpace(c.Render.FFmpegBinary)
	if c.Render.FFmpegBinary == "" {
		c.Render.FFmpegBinary = defaultFFmpegBinary
	}
	c.Render.FFprobeBinary = strings.TrimSpace(c.Render.FFprobeBinary)
	if c.Render.FFprobeBinary == "" {
		c.Render.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Render.TotalSeconds == 0 {
		c.Render.TotalSeconds = defaultTotalSeconds
	}
	if c.Render.FallbackPlaceholders == 0 {
		c.Render.FallbackPlaceholders = defaultFallbackPlaceholders
	}
	if c.Render.Workers <= 0 {
		c.Render.Workers = runtime.NumCPU()
	}
	var err error
	if c.Render.FontRegular, err = expandPath(strings.TrimSpace(c.Render.FontRegular)); err != nil {
		return fmt.Errorf("render.font_regular: %w", err)
	}
	if c.Render.FontBold, err = expandPath(strings.TrimSpace(c.Render.FontBold)); err != nil {
		return fmt.Errorf("render.font_bold: %w", err)
	}
	c.Render.VideoCodec = strings.TrimSpace(c.Render.VideoCodec)
	if c.Render.VideoCodec == "" {
		c.Render.VideoCodec = defaultVideoCodec
	}
	c.Render.AudioBitrate = strings.TrimSpace(c.Render.AudioBitrate)
	if c.Render.AudioBitrate == "" {
		c.Render.AudioBitrate = defaultAudioBitrate
	}
	if c.Render.FrameRate == 0 {
		c.Render.FrameRate = defaultFrameRate
	}
	if c.Render.EncodeTimeoutSeconds < 0 {
		c.Render.EncodeTimeoutSeconds = 0
	}
	return nil
}

func (c *Config) normalizeLesson() {
	c.Lesson.Name = strings.TrimSpace(c.Lesson.Name)
	if c.Lesson.Name == "" {
		c.Lesson.Name = defaultLessonName
	}
	c.Lesson.Language = strings.TrimSpace(c.Lesson.Language)
	if c.Lesson.Language == "" {
		c.Lesson.Language = defaultLessonLanguage
	}
	c.Lesson.Spec = strings.TrimSpace(c.Lesson.Spec)
	if c.Lesson.Spec == "" {
		c.Lesson.Spec = defaultLessonSpec
	}
	c.Lesson.ClosingLine = strings.TrimSpace(c.Lesson.ClosingLine)
	if c.Lesson.ClosingLine == "" {
		c.Lesson.ClosingLine = defaultLessonClosingLine
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
