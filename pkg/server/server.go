package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"mercator-hq/yamllist/pkg/config"
	"mercator-hq/yamllist/pkg/service"
	"mercator-hq/yamllist/pkg/telemetry/health"
	"mercator-hq/yamllist/pkg/telemetry/metrics"
	"mercator-hq/yamllist/pkg/telemetry/tracing"

	"github.com/go-chi/chi/v5"
)

// Options holds the optional collaborators of a Server.
type Options struct {
	// Metrics, when set, is served at MetricsPath.
	Metrics     *metrics.Collector
	MetricsPath string

	// Health provides /health and /ready. A checker without checks is used
	// when nil.
	Health *health.Checker

	// Build information reported by /version.
	Version   string
	GitCommit string
	BuildTime string
}

// Server is the HTTP host for the list service.
type Server struct {
	config  *config.ServerConfig
	service *service.Service
	opts    Options
	logger  *slog.Logger

	handlerOnce sync.Once
	handler     http.Handler

	httpServer   *http.Server
	addr         net.Addr
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server for svc.
func NewServer(cfg *config.ServerConfig, svc *service.Service, opts Options) *Server {
	if opts.Health == nil {
		opts.Health = health.New(0)
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = config.DefaultMetricsPath
	}
	return &Server{
		config:  cfg,
		service: svc,
		opts:    opts,
		logger:  slog.Default().With("component", "server"),
	}
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}
	s.addr = ln.Addr()
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		if !ok {
			// Shutdown was called directly.
			return nil
		}
		return err
	}
}

// Shutdown gracefully stops the server, waiting up to the configured
// shutdown timeout for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running, srv := s.isRunning, s.httpServer
		s.mu.RUnlock()
		if !running {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx := ctx
		if s.config.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
			defer cancel()
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the address the server listens on, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	s.handlerOnce.Do(func() {
		s.handler = s.setupRoutes()
	})
	return s.handler
}

// setupRoutes configures the router. Middleware runs outermost first:
// recovery, request ID, tracing, logging.
func (s *Server) setupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(RecoveryMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(tracing.HTTPMiddleware)
	r.Use(LoggingMiddleware)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/list", s.handleList)
		r.Get("/history", s.handleHistory)
	})

	liveness := s.opts.Health.LivenessHandler()
	readiness := s.opts.Health.ReadinessHandler()
	version := health.VersionHandler(s.opts.Version, s.opts.GitCommit, s.opts.BuildTime)
	r.Get("/health", liveness)
	r.Head("/health", liveness)
	r.Get("/ready", readiness)
	r.Head("/ready", readiness)
	r.Get("/version", version)

	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, s.opts.MetricsPath, s.opts.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, ErrorBody{Kind: KindNotFound, Message: "no route for " + r.URL.Path})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorBody{Kind: KindMethodNotAllowed, Message: r.Method + " is not allowed on " + r.URL.Path})
	})

	return r
}
