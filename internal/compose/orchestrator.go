package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bartender/internal/config"
	"bartender/internal/logging"
	"bartender/internal/media/ffprobe"
	"bartender/internal/render"
	"bartender/internal/services"
	"bartender/internal/subtitles"
)

const (
	stageName      = "compose"
	outputTailSize = 2048
	// durationDriftWarn is how far the probed output may stray from the
	// lesson length before a warning is logged.
	durationDriftWarn = 2.0
)

// Settings are the composition parameters derived from configuration.
type Settings struct {
	WorkDir              string
	FFmpegBinary         string
	FFprobeBinary        string
	TotalSeconds         float64
	FallbackPlaceholders int
	Normalize            bool
	VideoCodec           string
	AudioBitrate         string
	FrameRate            int
	EncodeTimeout        time.Duration
	Workers              int
	FontRegular          string
	FontBold             string
	DefaultTitle         string
}

// SettingsFromConfig extracts Settings from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		WorkDir:              cfg.Paths.WorkDir,
		FFmpegBinary:         cfg.FFmpegBinary(),
		FFprobeBinary:        cfg.FFprobeBinary(),
		TotalSeconds:         cfg.Render.TotalSeconds,
		FallbackPlaceholders: cfg.Render.FallbackPlaceholders,
		Normalize:            cfg.Render.NormalizeInputs,
		VideoCodec:           cfg.Render.VideoCodec,
		AudioBitrate:         cfg.Render.AudioBitrate,
		FrameRate:            cfg.Render.FrameRate,
		EncodeTimeout:        time.Duration(cfg.Render.EncodeTimeoutSeconds) * time.Second,
		Workers:              cfg.Render.Workers,
		FontRegular:          cfg.Render.FontRegular,
		FontBold:             cfg.Render.FontBold,
		DefaultTitle:         cfg.Lesson.Name,
	}
}

// Request describes one composition. Images are uploaded frames already saved
// into the workspace, in order. Audio is an optional narration file path.
type Request struct {
	Workspace *Workspace
	Images    []string
	Audio     string
	Subtitles string
	Title     string
	Spec      string
}

// Result describes a finished composition.
type Result struct {
	Output         string
	Assets         []string
	PerAsset       float64
	ProbedDuration float64
	Workspace      *Workspace
}

// Orchestrator renders missing frames and drives ffmpeg.
type Orchestrator struct {
	settings Settings
	fonts    *render.Fonts
	runner   Runner
	logger   *slog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithRunner replaces the process runner used for ffmpeg.
func WithRunner(runner Runner) Option {
	return func(o *Orchestrator) {
		if runner != nil {
			o.runner = runner
		}
	}
}

// NewOrchestrator loads fonts once and returns a ready orchestrator.
func NewOrchestrator(settings Settings, logger *slog.Logger, opts ...Option) *Orchestrator {
	if settings.TotalSeconds <= 0 {
		settings.TotalSeconds = subtitles.DefaultTotal
	}
	if settings.FallbackPlaceholders <= 0 {
		settings.FallbackPlaceholders = 6
	}
	if strings.TrimSpace(settings.FFmpegBinary) == "" {
		settings.FFmpegBinary = "ffmpeg"
	}
	o := &Orchestrator{
		settings: settings,
		fonts:    render.LoadFonts(settings.FontRegular, settings.FontBold),
		runner:   ExecRunner{},
		logger:   logging.NewComponentLogger(logger, stageName),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Settings returns the effective settings.
func (o *Orchestrator) Settings() Settings {
	return o.settings
}

// FontSource reports which font tier rendering uses.
func (o *Orchestrator) FontSource() string {
	return o.fonts.Source()
}

// NewWorkspace creates a workspace under the configured work directory.
func (o *Orchestrator) NewWorkspace() (*Workspace, error) {
	ws, err := NewWorkspace(o.settings.WorkDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "workspace", "create workspace", err)
	}
	return ws, nil
}

// Compose builds the lesson video inside req.Workspace.
//
// Without uploaded images, placeholders are rendered: one per caption cue, or
// the configured fallback count when the captions are empty. The recipe card
// always leads, and every frame gets an equal share of the lesson length.
func (o *Orchestrator) Compose(ctx context.Context, req Request) (Result, error) {
	ws := req.Workspace
	if ws == nil {
		return Result{}, services.Wrap(services.ErrValidation, stageName, "compose", "workspace is required", nil)
	}
	ctx = services.WithStage(ctx, stageName)
	logger := logging.WithContext(ctx, o.logger)

	if _, err := ws.WriteSubtitles(req.Subtitles); err != nil {
		return Result{}, services.Wrap(services.ErrRender, stageName, "write subtitles", "store caption file", err)
	}

	renderOpts := render.Options{Fonts: o.fonts, Workers: o.settings.Workers, Logger: logger}
	images := append([]string(nil), req.Images...)
	if len(images) == 0 {
		count := subtitles.CountCues(req.Subtitles)
		if count == 0 {
			count = o.settings.FallbackPlaceholders
		}
		generated, err := render.Placeholders(ctx, count, ws.Tmp, renderOpts)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, services.Wrap(services.ErrTimeout, stageName, "placeholders", "request cancelled", ctx.Err())
			}
			return Result{}, services.Wrap(services.ErrRender, stageName, "placeholders", "render placeholder frames", err)
		}
		images = generated
		logger.Info("placeholder frames rendered",
			logging.Int("count", count),
			logging.String("font_source", o.fonts.Source()),
		)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = o.settings.DefaultTitle
	}
	cardPath := filepath.Join(ws.Tmp, render.CardFileName)
	if err := render.Card(render.RecipeFor(title, req.Spec), cardPath, renderOpts); err != nil {
		return Result{}, services.Wrap(services.ErrRender, stageName, "card", "render recipe card", err)
	}

	assets := append([]string{cardPath}, images...)
	per := o.settings.TotalSeconds / float64(len(assets))
	output := ws.OutputPath()
	plan := Plan{
		Inputs:       assets,
		PerAsset:     per,
		Audio:        req.Audio,
		Output:       output,
		Normalize:    o.settings.Normalize,
		VideoCodec:   o.settings.VideoCodec,
		AudioBitrate: o.settings.AudioBitrate,
		FrameRate:    o.settings.FrameRate,
	}
	if req.Audio != "" {
		if err := o.checkNarration(ctx, logger, req.Audio); err != nil {
			return Result{}, err
		}
	}
	args := BuildArgs(plan)
	logger.Info("encoding lesson video",
		logging.Int("assets", len(assets)),
		logging.Float64("per_asset_seconds", per),
		logging.Bool("audio", req.Audio != ""),
	)
	logger.Debug("ffmpeg argv", logging.String("binary", o.settings.FFmpegBinary), logging.Any("args", args))

	if err := o.encode(ctx, logger, args); err != nil {
		return Result{}, err
	}

	info, err := os.Stat(output)
	if err != nil || info.Size() == 0 {
		return Result{}, services.Wrap(services.ErrExternalTool, stageName, "ffmpeg", "ffmpeg produced no output", err)
	}

	result := Result{
		Output:    output,
		Assets:    assets,
		PerAsset:  per,
		Workspace: ws,
	}
	result.ProbedDuration = o.probe(ctx, logger, output)
	logger.Info("lesson video ready",
		logging.String("output", output),
		logging.Int64("size_bytes", info.Size()),
	)
	return result, nil
}

func (o *Orchestrator) encode(ctx context.Context, logger *slog.Logger, args []string) error {
	runCtx := ctx
	if o.settings.EncodeTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.settings.EncodeTimeout)
		defer cancel()
	}
	started := time.Now()
	out, err := o.runner.Run(runCtx, o.settings.FFmpegBinary, args)
	if err == nil {
		logger.Debug("ffmpeg finished", logging.Duration("elapsed", time.Since(started)))
		return nil
	}
	tail := strings.TrimSpace(outputTail(out, outputTailSize))
	if ctx.Err() != nil {
		return services.Wrap(services.ErrTimeout, stageName, "ffmpeg", "request cancelled during encode", ctx.Err())
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		logging.ErrorWithContext(logger, "ffmpeg timed out", "ffmpeg_timeout",
			logging.Duration("timeout", o.settings.EncodeTimeout),
			logging.String("output_tail", tail),
			logging.String(logging.FieldErrorHint, "raise render.encode_timeout_seconds or reduce input sizes"),
		)
		return services.Wrap(services.ErrTimeout, stageName, "ffmpeg",
			fmt.Sprintf("encode exceeded %s", o.settings.EncodeTimeout), runCtx.Err())
	}
	logging.ErrorWithContext(logger, "ffmpeg failed", "ffmpeg_failed",
		logging.Error(err),
		logging.String("output_tail", tail),
		logging.String(logging.FieldErrorHint, "inspect output_tail for the ffmpeg diagnostic"),
	)
	return services.Wrap(services.ErrExternalTool, stageName, "ffmpeg", "ffmpeg exited with error", err)
}

func (o *Orchestrator) probe(ctx context.Context, logger *slog.Logger, output string) float64 {
	if strings.TrimSpace(o.settings.FFprobeBinary) == "" {
		return 0
	}
	result, err := ffprobe.Inspect(ctx, o.settings.FFprobeBinary, output)
	if err != nil {
		logger.Debug("output probe skipped", logging.Error(err))
		return 0
	}
	video, ok := result.VideoStream()
	if !ok {
		logging.WarnWithContext(logger, "composed output has no video stream", "output_missing_video",
			logging.String("output", output),
			logging.String(logging.FieldImpact, "players will show a blank lesson"),
		)
	} else if video.Width != render.Width || video.Height != render.Height {
		logging.WarnWithContext(logger, "composed output has unexpected frame size", "output_frame_size",
			logging.Int("width", video.Width),
			logging.Int("height", video.Height),
			logging.String(logging.FieldImpact, "video is not the vertical lesson format"),
		)
	}
	duration := result.DurationSeconds()
	if math.IsNaN(duration) || duration <= 0 {
		logger.Debug("output probe reported no duration", logging.String("output", output))
		return 0
	}
	logger.Debug("output probed",
		logging.Float64("probed_seconds", duration),
		logging.Float64("frame_rate", video.FramesPerSecond()),
		logging.Int64("probed_size_bytes", result.SizeBytes()),
	)
	if drift := duration - o.settings.TotalSeconds; drift > durationDriftWarn || drift < -durationDriftWarn {
		logging.WarnWithContext(logger, "output duration differs from lesson length", "duration_drift",
			logging.Float64("probed_seconds", duration),
			logging.Float64("expected_seconds", o.settings.TotalSeconds),
			logging.String(logging.FieldImpact, "video may end early or run long"),
		)
	}
	return duration
}

// checkNarration rejects narration uploads without an audio stream, which
// would otherwise fail inside ffmpeg on the audio map. It warns when the
// narration length will decide the output length, since the audio is mapped
// with -shortest. Probe failures are logged and skipped.
func (o *Orchestrator) checkNarration(ctx context.Context, logger *slog.Logger, audio string) error {
	if strings.TrimSpace(o.settings.FFprobeBinary) == "" {
		return nil
	}
	result, err := ffprobe.Inspect(ctx, o.settings.FFprobeBinary, audio)
	if err != nil {
		logger.Debug("narration probe skipped", logging.Error(err))
		return nil
	}
	if !result.HasAudio() {
		return services.Wrap(services.ErrValidation, stageName, "narration",
			fmt.Sprintf("%s has no audio stream", filepath.Base(audio)), nil)
	}
	duration := result.DurationSeconds()
	if math.IsNaN(duration) || duration <= 0 {
		logger.Debug("narration probe reported no duration", logging.String("audio", audio))
		return nil
	}
	if drift := duration - o.settings.TotalSeconds; drift > durationDriftWarn || drift < -durationDriftWarn {
		logging.WarnWithContext(logger, "narration length differs from lesson length", "narration_drift",
			logging.Float64("audio_seconds", duration),
			logging.Float64("expected_seconds", o.settings.TotalSeconds),
			logging.String(logging.FieldImpact, "video ends with the shorter of frames and narration"),
		)
		return nil
	}
	logger.Debug("narration probed", logging.Float64("audio_seconds", duration))
	return nil
}
