// Package lesson drafts a complete lesson: the storyboard from the language
// model plus the caption document and narration script derived from it.
package lesson

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bartender/internal/config"
	"bartender/internal/logging"
	"bartender/internal/services/llm"
	"bartender/internal/storyboard"
	"bartender/internal/subtitles"
)

// Result is the storyboard response body.
type Result struct {
	Storyboard      storyboard.Storyboard `json:"storyboard"`
	SRT             string                `json:"srt"`
	NarrationScript string                `json:"narration_script"`
}

// Drafter produces storyboards.
type Drafter interface {
	Generate(ctx context.Context, req storyboard.Request) (storyboard.Storyboard, error)
}

// Service assembles lesson drafts.
type Service struct {
	drafter      Drafter
	totalSeconds float64
	closingLine  string
	logger       *slog.Logger
}

// NewService wraps drafter. total is the lesson length in seconds; closing
// replaces a blank closing line in the narration script.
func NewService(drafter Drafter, total float64, closing string, logger *slog.Logger) *Service {
	if total <= 0 {
		total = subtitles.DefaultTotal
	}
	if strings.TrimSpace(closing) == "" {
		closing = storyboard.DefaultClosingLine
	}
	return &Service{
		drafter:      drafter,
		totalSeconds: total,
		closingLine:  strings.TrimSpace(closing),
		logger:       logging.NewComponentLogger(logger, "lesson"),
	}
}

// NewFromConfig builds the Gemini-backed service. It fails when no language
// model key is configured.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Service, *llm.Client, error) {
	if err := cfg.RequireLLM(); err != nil {
		return nil, nil, err
	}
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Temperature:    cfg.LLM.Temperature,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	}, llm.WithRetryMaxAttempts(cfg.LLM.RetryAttempts))
	generator := storyboard.NewGenerator(client, storyboard.Defaults{
		Name:     cfg.Lesson.Name,
		Spec:     cfg.Lesson.Spec,
		Language: cfg.Lesson.Language,
	}, int(cfg.Render.TotalSeconds), logger)
	return NewService(generator, cfg.Render.TotalSeconds, cfg.Lesson.ClosingLine, logger), client, nil
}

// Draft generates a storyboard and derives the captions and narration.
func (s *Service) Draft(ctx context.Context, req storyboard.Request) (Result, error) {
	start := time.Now()
	sb, err := s.drafter.Generate(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(sb.ClosingLine) == "" {
		sb.ClosingLine = s.closingLine
	}
	result := Result{
		Storyboard:      sb,
		SRT:             subtitles.BuildStoryboard(sb, s.totalSeconds),
		NarrationScript: sb.NarrationScript(),
	}
	logging.WithContext(ctx, s.logger).Debug("lesson drafted",
		logging.Int("cues", subtitles.CountCues(result.SRT)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}
