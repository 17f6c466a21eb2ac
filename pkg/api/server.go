package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/fileflow/fileflow/internal/logger"
)

// Server is the relay HTTP server.
//
// It serves the transfer API, signaling upgrades and the web bundle
// from one listener, and supports graceful shutdown.
type Server struct {
	server       *http.Server
	config       Config
	shutdownOnce sync.Once
}

// NewServer creates a server in a stopped state. Call Start to begin
// serving.
//
// The http.Server carries no read or write timeouts: signaling
// connections are long-lived, and the transfer routes have their own
// timeout middleware.
func NewServer(cfg Config, deps Deps) *Server {
	cfg.ApplyDefaults()

	return &Server{
		server: &http.Server{
			Addr:        net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)),
			Handler:     NewRouter(cfg, deps),
			IdleTimeout: cfg.IdleTimeout,
		},
		config: cfg,
	}
}

// Start serves until ctx is cancelled or the listener fails, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"addr", s.server.Addr,
			"api_prefix", s.config.APIPrefix,
		)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("server shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	}
}

// Stop initiates graceful shutdown. Safe to call multiple times.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			logger.Error("server shutdown error", "error", err)
		} else {
			logger.Info("server stopped gracefully")
		}
	})
	return shutdownErr
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}
