package storyboard

import (
	"context"
	"log/slog"
	"time"

	"bartender/internal/logging"
	"bartender/internal/services"
)

// Completer returns a JSON text reply for a prompt.
type Completer interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Generator drafts storyboards through a Completer.
type Generator struct {
	completer Completer
	defaults  Defaults
	seconds   int
	logger    *slog.Logger
}

// NewGenerator constructs a Generator. seconds is the lesson length quoted in
// the prompt.
func NewGenerator(completer Completer, defaults Defaults, seconds int, logger *slog.Logger) *Generator {
	return &Generator{
		completer: completer,
		defaults:  defaults,
		seconds:   seconds,
		logger:    logging.NewComponentLogger(logger, "storyboard"),
	}
}

// Generate asks the model for a storyboard and strictly parses the reply.
func (g *Generator) Generate(ctx context.Context, req Request) (Storyboard, error) {
	if g == nil || g.completer == nil {
		return Storyboard{}, services.Wrap(services.ErrConfiguration, "storyboard", "generate", "language model client not configured", nil)
	}
	req = req.WithDefaults(g.defaults)
	logger := logging.WithContext(ctx, g.logger)
	start := time.Now()

	reply, err := g.completer.GenerateJSON(ctx, BuildPrompt(req, g.seconds))
	if err != nil {
		if ctx.Err() != nil {
			return Storyboard{}, services.Wrap(services.ErrTimeout, "storyboard", "generate", "request cancelled", err)
		}
		logging.ErrorWithContext(logger, "storyboard request failed", "storyboard_request_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check llm.api_key, llm.model, and network access"),
		)
		return Storyboard{}, services.Wrap(services.ErrGeneration, "storyboard", "generate", "language model request failed", err)
	}

	sb, err := Parse(reply)
	if err != nil {
		logging.WarnWithContext(logger, "storyboard reply rejected", "storyboard_parse_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "retry the request or lower llm.temperature"),
			logging.String(logging.FieldImpact, "no lesson produced for this request"),
		)
		return Storyboard{}, err
	}
	logger.Info("storyboard generated",
		logging.String("lesson", req.Name),
		logging.Int("steps", len(sb.Steps)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return sb, nil
}
