// Package server provides the web application: session-gated entity
// pages, the JSON API, and the authentication endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"farmledger.dev/farmledger/internal/auth"
	"farmledger.dev/farmledger/internal/store"
	"farmledger.dev/farmledger/internal/views"
	"farmledger.dev/farmledger/pkg/metrics"
)

// Server is the web application: it owns the session store, the
// template renderer, and the per-entity resources, and serves both
// the HTML pages and the JSON API.
type Server struct {
	logger     *slog.Logger
	config     *ServerConfig
	httpServer *http.Server

	repos     *store.Repositories
	resources map[string]resource
	authSvc   *auth.Service
	sessions  *auth.Sessions
	renderer  *renderer
	metrics   *metrics.HTTPMetrics
}

// ServerConfig carries everything NewServer needs.
type ServerConfig struct {
	Logger *slog.Logger

	// DB is an open database handle; the server does not own it.
	DB *gorm.DB

	HTTPPort int

	// SessionSecret signs the session cookies. SecureCookies should
	// be true whenever the app is served over HTTPS.
	SessionSecret string
	SecureCookies bool

	// Metrics enables Prometheus collectors and the /metrics route.
	Metrics bool
}

// NewServer validates cfg and assembles the application.
func NewServer(cfg *ServerConfig) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server config cannot be nil")
	}

	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.DB == nil {
		return nil, errors.New("database cannot be nil")
	}

	if cfg.HTTPPort <= 0 {
		return nil, errors.New("HTTP port must be positive")
	}

	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret cannot be empty")
	}

	sessions, err := auth.NewSessions(cfg.SessionSecret, cfg.SecureCookies)
	if err != nil {
		return nil, err
	}

	authSvc, err := auth.NewService(cfg.DB, cfg.Logger)
	if err != nil {
		return nil, err
	}

	renderer, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	repos := store.NewRepositories(cfg.DB, cfg.Logger)

	s := &Server{
		logger:    cfg.Logger,
		config:    cfg,
		repos:     repos,
		resources: newResources(repos),
		authSvc:   authSvc,
		sessions:  sessions,
		renderer:  renderer,
	}

	if cfg.Metrics {
		s.metrics = metrics.NewHTTPMetrics("farmledger")
		s.renderer.metrics = s.metrics
		repos.SetMetrics(metrics.NewStoreMetrics("farmledger"))
	}

	// The registry and the resource table must agree; a mismatch is a
	// programming error worth failing fast on.
	for _, d := range views.All() {
		if _, ok := s.resources[d.Kind]; !ok {
			return nil, fmt.Errorf("no resource registered for entity kind %q", d.Kind)
		}
	}

	return s, nil
}

// Run starts the server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting farmledger server")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	mux := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("starting HTTP server", "address", s.httpServer.Addr)

	httpErr := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- fmt.Errorf("HTTP server error: %w", err)
		}
		close(httpErr)
	}()

	s.logger.Info("server ready", "port", s.config.HTTPPort)

	select {
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	case <-ctx.Done():
		s.logger.Info("context canceled")
	case err := <-httpErr:
		if err != nil {
			s.logger.Error("HTTP server error", "error", err)
			cancel()
			return err
		}
	}

	return s.Shutdown()
}

// Shutdown drains in-flight requests and stops the HTTP server.
func (s *Server) Shutdown() error {
	s.logger.Info("shutting down server")

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("failed to shutdown HTTP server", "error", err)
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
	}

	s.logger.Info("server shutdown completed")
	return nil
}

// Handler returns the fully routed handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// setupRoutes builds the route table.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	if s.config.Metrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Authentication
	mux.HandleFunc("GET /login", s.instrument("/login", s.handleLoginPage))
	mux.HandleFunc("POST /login", s.instrument("/login", s.handleLogin))
	mux.HandleFunc("POST /signup", s.instrument("/signup", s.handleSignup))
	mux.HandleFunc("POST /logout", s.instrument("/logout", s.handleLogout))

	// Protected pages, one per registered entity kind
	mux.HandleFunc("GET /dashboard", s.instrument("/dashboard", s.requirePage(s.handleDashboard)))
	for _, desc := range views.All() {
		d := desc
		mux.HandleFunc("GET "+d.Path, s.instrument(d.Path, s.requirePage(s.handleEntityPage(d))))
		// Form posts from the entity pages.
		mux.HandleFunc("POST "+d.Path, s.instrument(d.Path, s.requirePage(s.handleEntityForm(d))))
	}

	// Protected JSON API: the four-verb contract per entity kind
	mux.HandleFunc("GET /api/v1/{kind}", s.instrument("/api/v1/{kind}", s.requireAPI(s.handleAPIList)))
	mux.HandleFunc("POST /api/v1/{kind}", s.instrument("/api/v1/{kind}", s.requireAPI(s.handleAPICreate)))
	mux.HandleFunc("PUT /api/v1/{kind}/{id}", s.instrument("/api/v1/{kind}/{id}", s.requireAPI(s.handleAPIUpdate)))
	mux.HandleFunc("DELETE /api/v1/{kind}/{id}", s.instrument("/api/v1/{kind}/{id}", s.requireAPI(s.handleAPIDelete)))

	// Index page
	mux.HandleFunc("GET /{$}", s.instrument("/", s.handleIndex))

	// Unmatched paths resolve to the not-found page
	mux.HandleFunc("/", s.instrument("404", s.handleNotFound))

	return mux
}

// handleHealth reports process liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		s.logger.Error("failed to write health response", "error", err)
	}
}
