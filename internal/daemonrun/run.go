package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"bartender/internal/compose"
	"bartender/internal/config"
	"bartender/internal/daemon"
	"bartender/internal/deps"
	"bartender/internal/lesson"
	"bartender/internal/logging"
	"bartender/internal/logs"
	"bartender/internal/server"
	"bartender/internal/tts"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
	Diagnostic  bool
	Version     string
}

// Run starts the bartender daemon and blocks until the context is cancelled
// or the process receives SIGINT/SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("bartender-%s.log", runID))
	logger, err := logging.New(logging.Options{
		Level:            firstNonEmpty(opts.LogLevel, cfg.Logging.Level),
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
		Development:      opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if opts.Diagnostic {
		logger = attachDiagnosticLog(logger, cfg.Paths.LogDir, runID)
	}

	logDependencySnapshot(logger, cfg)
	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update bartender.log link: %v\n", err)
	}
	pidPath := filepath.Join(cfg.Paths.LogDir, "bartender.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	d, err := Build(cfg, logger, opts.Version)
	if err != nil {
		logging.ErrorWithContext(logger, "daemon construction failed", "daemon_build_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "set GEMINI_API_KEY or llm.api_key and re-run"),
		)
		return err
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logging.ErrorWithContext(logger, "daemon start failed", "daemon_start_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check server.bind and whether another daemon holds "+d.LockPath()),
		)
		return err
	}

	<-signalCtx.Done()
	logger.Info("bartender daemon shutting down")
	return nil
}

// Build wires the lesson, speech, and composition services behind the HTTP
// server and returns the daemon that owns them.
func Build(cfg *config.Config, logger *slog.Logger, version string) (*daemon.Daemon, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	lessons, _, err := lesson.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	synth, err := tts.NewSynthesizer(cfg.TTS, logger)
	if err != nil {
		return nil, err
	}
	orchestrator := compose.NewOrchestrator(compose.SettingsFromConfig(cfg), logger)
	limiter := compose.NewLimiter(cfg.Server.MaxConcurrentJobs, time.Duration(cfg.Server.QueueTimeoutSeconds)*time.Second)

	var d *daemon.Daemon
	srv := server.New(server.Options{
		Bind:           cfg.Server.Bind,
		APIToken:       cfg.Server.APIToken,
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
		WriteTimeout:   writeTimeout(cfg),
		Drafter:        lessons,
		Synthesizer:    synth,
		Composer:       orchestrator,
		Limiter:        limiter,
		Health: func(ctx context.Context) server.Health {
			return d.Health(ctx)
		},
		Logger: logger,
	})
	d, err = daemon.New(cfg, logger, srv,
		daemon.WithLimiter(limiter),
		daemon.WithFontSource(orchestrator.FontSource()),
		daemon.WithVersion(version),
	)
	if err != nil {
		return nil, fmt.Errorf("create daemon: %w", err)
	}
	return d, nil
}

// writeTimeout leaves room for a queued request to wait for a slot and then
// finish its encode.
func writeTimeout(cfg *config.Config) time.Duration {
	encode := time.Duration(cfg.Render.EncodeTimeoutSeconds) * time.Second
	queue := time.Duration(cfg.Server.QueueTimeoutSeconds) * time.Second
	if encode <= 0 {
		return 0
	}
	return encode + queue + time.Minute
}

func attachDiagnosticLog(logger *slog.Logger, logDir, runID string) *slog.Logger {
	sessionID := uuid.NewString()
	debugDir := filepath.Join(logDir, "debug")
	if err := os.MkdirAll(debugDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to create debug log directory: %v\n", err)
		return logger
	}
	debugLogPath := filepath.Join(debugDir, fmt.Sprintf("bartender-%s.log", runID))
	debugLogger, err := logging.New(logging.Options{
		Level:            "debug",
		Format:           "json",
		OutputPaths:      []string{debugLogPath},
		ErrorOutputPaths: []string{debugLogPath},
		Development:      true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to initialize debug logger: %v\n", err)
		return logger
	}
	logger = logging.TeeLogger(logger, debugLogger.Handler()).With(logging.String("session_id", sessionID))
	if err := ensureCurrentLogPointer(debugDir, debugLogPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update debug/bartender.log link: %v\n", err)
	}
	logger.Info("diagnostic mode enabled",
		logging.String(logging.FieldEventType, "diagnostic_mode_enabled"),
		logging.String("debug_log_path", debugLogPath),
	)
	return logger
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := logs.CurrentPath(logDir)
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	ffmpeg := cfg.FFmpegBinary()
	ffprobe := cfg.FFprobeBinary()
	ttsBinary, _ := deps.CommandBinary(cfg.TTS.CommandTemplate)
	logger.Info("dependency snapshot",
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.Bool("gemini_key_present", strings.TrimSpace(cfg.LLM.APIKey) != ""),
		logging.String("gemini_model", cfg.LLM.Model),
		logging.Bool("elevenlabs_key_present", strings.TrimSpace(cfg.TTS.ElevenLabsAPIKey) != ""),
		logging.Bool("ffmpeg_available", binaryAvailable(ffmpeg)),
		logging.String("ffmpeg_binary", ffmpeg),
		logging.Bool("ffprobe_available", binaryAvailable(ffprobe)),
		logging.String("ffprobe_binary", ffprobe),
		logging.Bool("tts_command_available", binaryAvailable(ttsBinary)),
		logging.String("tts_command_binary", ttsBinary),
		logging.Bool("api_token_set", strings.TrimSpace(cfg.Server.APIToken) != ""),
	)
}

func binaryAvailable(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
