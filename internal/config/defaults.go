package config

import "runtime"

const (
	defaultWorkDir              = ""
	defaultLogDir               = "~/.local/share/bartender/logs"
	defaultAPIBind              = "127.0.0.1:8080"
	defaultQueueTimeoutSeconds  = 30
	defaultMaxUploadMB          = 200
	defaultLLMBaseURL           = "https://generativelanguage.googleapis.com/v1beta"
	defaultLLMModel             = "gemini-1.5-flash"
	defaultLLMTemperature       = 0.7
	defaultLLMTimeoutSeconds    = 60
	defaultLLMRetryAttempts     = 3
	defaultElevenLabsBaseURL    = "https://api.elevenlabs.io"
	defaultTTSCommandTemplate   = `edge-tts --voice '{voice}' --text "{text}" --write-media {out}`
	defaultTTSVoice             = "en-US-AriaNeural"
	defaultTTSTimeoutSeconds    = 120
	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultTotalSeconds         = 60.0
	defaultFallbackPlaceholders = 6
	defaultFontRegular          = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
	defaultFontBold             = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"
	defaultVideoCodec           = "libx264"
	defaultAudioBitrate         = "192k"
	defaultFrameRate            = 30
	defaultEncodeTimeoutSeconds = 600
	defaultLessonName           = "Forest Whisperer"
	defaultLessonLanguage       = "English"
	defaultLessonSpec           = "vodka 1.5 oz, maraschino 0.5 oz, cranberry 1 oz, lemon 0.5 oz; shake hard; fine strain; coupe; lemon twist"
	defaultLessonClosingLine    = "Cheers!"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Server: Server{
			Bind:                defaultAPIBind,
			MaxConcurrentJobs:   runtime.NumCPU(),
			QueueTimeoutSeconds: defaultQueueTimeoutSeconds,
			MaxUploadMB:         defaultMaxUploadMB,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Temperature:    defaultLLMTemperature,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			RetryAttempts:  defaultLLMRetryAttempts,
		},
		TTS: TTS{
			ElevenLabsBaseURL: defaultElevenLabsBaseURL,
			CommandTemplate:   defaultTTSCommandTemplate,
			DefaultVoice:      defaultTTSVoice,
			TimeoutSeconds:    defaultTTSTimeoutSeconds,
		},
		Render: Render{
			FFmpegBinary:         defaultFFmpegBinary,
			FFprobeBinary:        defaultFFprobeBinary,
			TotalSeconds:         defaultTotalSeconds,
			FallbackPlaceholders: defaultFallbackPlaceholders,
			Workers:              runtime.NumCPU(),
			NormalizeInputs:      true,
			FontRegular:          defaultFontRegular,
			FontBold:             defaultFontBold,
			VideoCodec:           defaultVideoCodec,
			AudioBitrate:         defaultAudioBitrate,
			FrameRate:            defaultFrameRate,
			EncodeTimeoutSeconds: defaultEncodeTimeoutSeconds,
		},
		Lesson: Lesson{
			Name:        defaultLessonName,
			Language:    defaultLessonLanguage,
			Spec:        defaultLessonSpec,
			ClosingLine: defaultLessonClosingLine,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
