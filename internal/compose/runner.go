package compose

import (
	"context"
	"os/exec"
	"time"
)

const killGrace = 2 * time.Second

// Runner executes an external program and returns its combined output.
type Runner interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// ExecRunner runs programs with exec.CommandContext.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.WaitDelay = killGrace
	return cmd.CombinedOutput()
}

// outputTail returns at most the last limit bytes of out, trimmed to a line start.
func outputTail(out []byte, limit int) string {
	if len(out) <= limit {
		return string(out)
	}
	tail := out[len(out)-limit:]
	for i, c := range tail {
		if c == '\n' {
			return string(tail[i+1:])
		}
	}
	return string(tail)
}
