package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"bartender/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.LLM.APIKey = "test"
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Render.FontRegular = ""
	cfgVal.Render.FontBold = ""
	cfgVal.Render.Workers = 2
	cfgVal.Server.MaxConcurrentJobs = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLLMKey sets the language model API key on the test config.
func WithLLMKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = key
	}
}

// WithLLMBaseURL points the language model client at a test server.
func WithLLMBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = url
		b.cfg.LLM.RetryAttempts = 1
	}
}

// WithTTSTemplate overrides the speech synthesis command template.
func WithTTSTemplate(template string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TTS.CommandTemplate = template
	}
}

// WithConfig applies an arbitrary mutation to the test config.
func WithConfig(fn func(*config.Config)) ConfigOption {
	return func(b *configBuilder) {
		fn(b.cfg)
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed
// with scripts that succeed without output.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := BinDir(b.t, b.baseDir)
		for _, name := range names {
			WriteScript(b.t, filepath.Join(binDir, name), "exit 0")
		}
	}
}

// WithScript writes an executable named name with the given shell body into
// the stub bin directory on PATH.
func WithScript(name, body string) ConfigOption {
	return func(b *configBuilder) {
		WriteScript(b.t, filepath.Join(BinDir(b.t, b.baseDir), name), body)
	}
}

// BinDir creates base/bin, prepends it to PATH for the duration of the test,
// and returns it. Repeated calls reuse the directory.
func BinDir(t testing.TB, base string) string {
	t.Helper()
	binDir := filepath.Join(base, "bin")
	if info, err := os.Stat(binDir); err == nil && info.IsDir() {
		return binDir
	}
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
	return binDir
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
