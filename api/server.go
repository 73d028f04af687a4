// Package api serves the theme controller over HTTP. Every browser session
// gets its own controller, scoped by a sealed session cookie.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/encryption"
	"github.com/CreativeUnicorns/themeprefs/storage"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	registry   *Registry
	sealer     *encryption.Sealer
	logger     themeprefs.Logger
	router     *chi.Mux
	httpServer *http.Server
	secure     bool
}

// Config holds configuration for the API server.
type Config struct {
	ListenAddress string
	// Backend persists preferences. The server does not close it.
	Backend storage.Backend
	// Sealer protects session cookies.
	Sealer *encryption.Sealer
	// Fallback is consulted when a browser sends no colour-scheme hint.
	Fallback themeprefs.Detector
	// SessionTTL evicts idle session controllers from memory.
	SessionTTL time.Duration
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
	Logger        themeprefs.Logger
}

// NewServer creates and configures a new API server instance.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Backend == nil {
		return nil, errors.New("backend is required")
	}
	if cfg.Sealer == nil {
		return nil, errors.New("sealer is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = themeprefs.NewDefaultLogger()
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8080"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}

	s := &Server{
		registry: NewRegistry(cfg.Backend, cfg.Fallback, cfg.SessionTTL, cfg.Logger),
		sealer:   cfg.Sealer,
		logger:   cfg.Logger,
		router:   chi.NewRouter(),
		secure:   cfg.SecureCookies,
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Registry returns the session registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Start runs the HTTP server and blocks until it is shut down.
// A graceful shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server and drops every session.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("API server stopping")
	defer s.registry.Close()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("API server stopped gracefully")
	return nil
}
