package preflight

import (
	"context"
	"os"
	"strings"

	"bartender/internal/config"
)

// minWorkDirFreeBytes is the free space below which the work directory check
// fails. A lesson workspace holds a handful of frames plus one encoded video.
const minWorkDirFreeBytes = 512 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the local preflight checks for the given config. It never
// contacts remote services.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	workDir := WorkDir(cfg)
	results := []Result{
		CheckDirectoryAccess("Work directory", workDir),
		CheckFreeSpace("Work directory space", workDir, minWorkDirFreeBytes),
	}
	if strings.TrimSpace(cfg.Paths.LogDir) != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	results = append(results, CheckLLMConfigured(cfg), CheckTTSConfigured(cfg))
	return results
}

// WorkDir resolves the directory request workspaces are created under.
func WorkDir(cfg *config.Config) string {
	if cfg == nil || strings.TrimSpace(cfg.Paths.WorkDir) == "" {
		return os.TempDir()
	}
	return cfg.Paths.WorkDir
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
