package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"bartender/internal/compose"
	"bartender/internal/config"
	"bartender/internal/deps"
	"bartender/internal/logging"
	"bartender/internal/preflight"
	"bartender/internal/server"
)

// LockFileName is the daemon lock inside the log directory.
const LockFileName = "bartenderd.lock"

// Runner is the network surface the daemon manages.
type Runner interface {
	Start(ctx context.Context) error
	Stop()
	Addr() string
}

// Daemon owns the server lifecycle and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  Runner
	limiter *compose.Limiter
	fonts   string
	version string
	health  server.HealthFunc

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	Address      string             `json:"address,omitempty"`
	LockFilePath string             `json:"lock_file"`
	Dependencies []deps.Status      `json:"dependencies"`
	Preflight    []preflight.Result `json:"preflight"`
}

// Option customizes a Daemon.
type Option func(*Daemon)

// WithLimiter exposes limiter usage in health reports.
func WithLimiter(limiter *compose.Limiter) Option {
	return func(d *Daemon) { d.limiter = limiter }
}

// WithFontSource records which font tier the renderer resolved.
func WithFontSource(source string) Option {
	return func(d *Daemon) { d.fonts = source }
}

// WithVersion sets the version reported by health checks.
func WithVersion(version string) Option {
	return func(d *Daemon) { d.version = version }
}

// New constructs a daemon around an already wired server.
func New(cfg *config.Config, logger *slog.Logger, srv Runner, opts ...Option) (*Daemon, error) {
	if cfg == nil || srv == nil {
		return nil, errors.New("daemon requires config and server")
	}
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, LockFileName)
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		server:   srv,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.health = server.NewHealthFunc(server.HealthSources{
		Version: d.version,
		Dependencies: func() []deps.Status {
			return preflight.CheckSystemDeps(cfg)
		},
		Preflight: func(ctx context.Context) []preflight.Result {
			return preflight.RunAll(ctx, cfg)
		},
		Limiter:    d.limiter,
		FontSource: d.fonts,
	})
	return d, nil
}

// Start acquires the daemon lock and starts serving.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another bartender daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.server.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start api server: %w", err)
	}
	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("bartender daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.server.Addr()),
	)
	return nil
}

// Stop stops serving and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.Stop()
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove "+d.lockPath+" if no daemon is running"),
		)
	}
	d.running.Store(false)
	d.logger.Info("bartender daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// LockPath returns the path of the daemon lock file.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		LockFilePath: d.lockPath,
		Dependencies: preflight.CheckSystemDeps(d.cfg),
		Preflight:    preflight.RunAll(ctx, d.cfg),
	}
	if status.Running {
		status.Address = d.server.Addr()
	}
	return status
}

// Health reports dependency, preflight, and limiter state for GET /api/health.
func (d *Daemon) Health(ctx context.Context) server.Health {
	return d.health(ctx)
}
