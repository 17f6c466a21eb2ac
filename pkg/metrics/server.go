package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fileflow/fileflow/internal/logger"
)

// Config configures the standalone metrics HTTP server.
type Config struct {
	// Enabled controls whether metrics are collected and served.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the HTTP port for the metrics endpoint. Default: 9090.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	// Path is the metrics endpoint path. Default: /metrics.
	Path string `mapstructure:"path" yaml:"path"`
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Port <= 0 {
		c.Port = 9090
	}
	if c.Path == "" {
		c.Path = "/metrics"
	}
}

// Handler returns the promhttp handler for the process registry.
// Returns nil when metrics are disabled.
func Handler() http.Handler {
	reg := GetRegistry()
	if reg == nil {
		return nil
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Serve runs the metrics server until ctx is cancelled. Returns nil
// immediately when metrics are disabled.
func Serve(ctx context.Context, cfg Config) error {
	cfg.ApplyDefaults()

	handler := Handler()
	if handler == nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, handler)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", "port", cfg.Port, "path", cfg.Path)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("metrics server failed: %w", err)
	}
}
