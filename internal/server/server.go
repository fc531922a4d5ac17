package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"bartender/internal/compose"
	"bartender/internal/lesson"
	"bartender/internal/logging"
	"bartender/internal/storyboard"
)

const (
	defaultMaxUploadBytes = 200 << 20
	defaultWriteTimeout   = 15 * time.Minute
	multipartMemory       = 32 << 20
	jsonBodyLimit         = 1 << 20
)

// Drafter produces lesson drafts.
type Drafter interface {
	Draft(ctx context.Context, req storyboard.Request) (lesson.Result, error)
}

// Synthesizer produces narration audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Composer builds lesson videos inside per-request workspaces.
type Composer interface {
	NewWorkspace() (*compose.Workspace, error)
	Compose(ctx context.Context, req compose.Request) (compose.Result, error)
}

// Admitter bounds concurrent compositions.
type Admitter interface {
	Acquire(ctx context.Context) (func(), error)
}

// HealthFunc reports service health for GET /api/health.
type HealthFunc func(ctx context.Context) Health

// Options configures a Server.
type Options struct {
	Bind           string
	APIToken       string
	MaxUploadBytes int64
	WriteTimeout   time.Duration
	Drafter        Drafter
	Synthesizer    Synthesizer
	Composer       Composer
	Limiter        Admitter
	Health         HealthFunc
	Logger         *slog.Logger
}

// Server is the HTTP front end.
type Server struct {
	bind           string
	maxUploadBytes int64
	drafter        Drafter
	synthesizer    Synthesizer
	composer       Composer
	limiter        Admitter
	health         HealthFunc
	logger         *slog.Logger

	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

// New wires routes and middleware. Handlers whose dependency is nil answer
// with a configuration error.
func New(opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	s := &Server{
		bind:           strings.TrimSpace(opts.Bind),
		maxUploadBytes: opts.MaxUploadBytes,
		drafter:        opts.Drafter,
		synthesizer:    opts.Synthesizer,
		composer:       opts.Composer,
		limiter:        opts.Limiter,
		health:         opts.Health,
		logger:         logging.NewComponentLogger(opts.Logger, "api-server"),
	}

	token := strings.TrimSpace(opts.APIToken)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/storyboard", authMiddleware(token, s.handleStoryboard))
	mux.HandleFunc("/api/tts", authMiddleware(token, s.handleTTS))
	mux.HandleFunc("/api/compose", authMiddleware(token, s.handleCompose))
	mux.HandleFunc("/api/health", s.handleHealth)

	s.handler = s.withRequestContext(mux)
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until ctx ends.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if s.bind == "" {
		return errors.New("api listen: bind address is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.shutdown()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr reports the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	s.shutdown()
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *Server) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}
