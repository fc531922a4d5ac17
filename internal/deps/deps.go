package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"

	"bartender/internal/config"
)

// Requirement defines an external binary Bartender relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// Requirements lists the binaries the configured pipeline will execute.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		return nil
	}
	reqs := []Requirement{
		{Name: "FFmpeg", Command: cfg.FFmpegBinary(), Description: "Composes lesson videos"},
		{Name: "FFprobe", Command: cfg.FFprobeBinary(), Description: "Verifies composed output", Optional: true},
	}
	ttsBinary, err := CommandBinary(cfg.TTS.CommandTemplate)
	if err != nil {
		ttsBinary = ""
	}
	reqs = append(reqs, Requirement{
		Name:        "TTS command",
		Command:     ttsBinary,
		Description: "Local speech synthesis for non-ElevenLabs voices",
		Optional:    true,
	})
	return reqs
}

// CommandBinary returns the program name of a command template.
func CommandBinary(template string) (string, error) {
	args, err := shellwords.Parse(strings.TrimSpace(template))
	if err != nil {
		return "", fmt.Errorf("parse command template: %w", err)
	}
	if len(args) == 0 {
		return "", fmt.Errorf("parse command template: empty command")
	}
	return args[0], nil
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// RequiredMissing returns the names of non-optional dependencies that are unavailable.
func RequiredMissing(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Name)
		}
	}
	return missing
}
