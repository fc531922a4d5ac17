package server

import (
	"context"

	"bartender/internal/compose"
	"bartender/internal/deps"
	"bartender/internal/preflight"
)

// Health status values.
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// Health is the GET /api/health body.
type Health struct {
	Status       string                `json:"status"`
	Version      string                `json:"version,omitempty"`
	Dependencies []deps.Status         `json:"dependencies,omitempty"`
	Preflight    []preflight.Result    `json:"preflight,omitempty"`
	Limiter      *compose.LimiterStats `json:"limiter,omitempty"`
	FontSource   string                `json:"font_source,omitempty"`
}

// Evaluate derives the overall status from dependencies and preflight checks.
func (h Health) Evaluate() Health {
	h.Status = HealthOK
	if len(deps.RequiredMissing(h.Dependencies)) > 0 || len(preflight.Failed(h.Preflight)) > 0 {
		h.Status = HealthDegraded
	}
	return h
}

// HealthSources collects the inputs for a health report.
type HealthSources struct {
	Version      string
	Dependencies func() []deps.Status
	Preflight    func(ctx context.Context) []preflight.Result
	Limiter      *compose.Limiter
	FontSource   string
}

// NewHealthFunc builds a HealthFunc from the given sources; nil sources are skipped.
func NewHealthFunc(src HealthSources) HealthFunc {
	return func(ctx context.Context) Health {
		h := Health{Version: src.Version, FontSource: src.FontSource}
		if src.Dependencies != nil {
			h.Dependencies = src.Dependencies()
		}
		if src.Preflight != nil {
			h.Preflight = src.Preflight(ctx)
		}
		if src.Limiter != nil {
			stats := src.Limiter.Stats()
			h.Limiter = &stats
		}
		return h.Evaluate()
	}
}
