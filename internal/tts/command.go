package tts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"

	"bartender/internal/logging"
	"bartender/internal/services"
	"bartender/internal/textutil"
)

const (
	defaultCommandTimeout = 120 * time.Second
	inputFileName         = "input.txt"
	outputFileName        = "output.wav"
	stderrLimit           = 1024
)

// Command runs a local speech program described by an argument template.
type Command struct {
	argv    []string
	timeout time.Duration
	tempDir string
	logger  *slog.Logger
}

// NewCommand splits template into arguments. The placeholders {in}, {out},
// {voice} and {text} may appear anywhere inside an argument.
func NewCommand(template string, timeout time.Duration, logger *slog.Logger) (*Command, error) {
	argv, err := ParseTemplate(template)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	return &Command{argv: argv, timeout: timeout, logger: logging.NewComponentLogger(logger, stageName)}, nil
}

// ParseTemplate splits a command template the way a POSIX shell would quote
// it, without expanding variables or substitutions.
func ParseTemplate(template string) ([]string, error) {
	if strings.TrimSpace(template) == "" {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "command", "tts.command_template is empty", nil)
	}
	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false
	argv, err := parser.Parse(template)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "command", "parse tts.command_template", err)
	}
	if len(argv) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "command", "tts.command_template has no program", nil)
	}
	return argv, nil
}

// Binary reports the program the template runs.
func (c *Command) Binary() string {
	return c.argv[0]
}

// Expand substitutes placeholders in each argument.
func (c *Command) Expand(in, out, voice, text string) []string {
	replacer := strings.NewReplacer("{in}", in, "{out}", out, "{voice}", voice, "{text}", text)
	args := make([]string, len(c.argv))
	for i, arg := range c.argv {
		args[i] = replacer.Replace(arg)
	}
	return args
}

// Synthesize implements Engine. The text is written to {in} as well as being
// available as {text}; the program must write audio to {out}.
func (c *Command) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	dir, err := os.MkdirTemp(c.tempDir, "bartender-tts-"+textutil.SanitizeToken(voice)+"-")
	if err != nil {
		return nil, services.Wrap(services.ErrSynthesis, stageName, "command", "create temp dir", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, inputFileName)
	out := filepath.Join(dir, outputFileName)
	if err := os.WriteFile(in, []byte(text), 0o600); err != nil {
		return nil, services.Wrap(services.ErrSynthesis, stageName, "command", "write input text", err)
	}

	argv := c.Expand(in, out, voice, text)
	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("tts argv", logging.Any("argv", argv))

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.WaitDelay = 2 * time.Second
	combined, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return nil, services.Wrap(services.ErrTimeout, stageName, "command", "request cancelled", ctx.Err())
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, stageName, "command",
				fmt.Sprintf("%s exceeded %s", filepath.Base(argv[0]), c.timeout), runCtx.Err())
		}
		return nil, services.Wrap(services.ErrSynthesis, stageName, "command",
			fmt.Sprintf("%s failed: %s", filepath.Base(argv[0]), tail(combined)), err)
	}

	audio, err := os.ReadFile(out)
	if err != nil {
		return nil, services.Wrap(services.ErrSynthesis, stageName, "command", "program wrote no audio", err)
	}
	if len(audio) == 0 {
		return nil, services.Wrap(services.ErrSynthesis, stageName, "command", "program wrote empty audio", nil)
	}
	return audio, nil
}

func tail(out []byte) string {
	text := strings.TrimSpace(string(out))
	if len(text) > stderrLimit {
		text = text[len(text)-stderrLimit:]
	}
	return text
}
