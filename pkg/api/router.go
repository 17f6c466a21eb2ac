// Package api wires the relay's HTTP surface: the transfer API, the
// signaling channel and the embedded web bundle.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fileflow/fileflow/internal/logger"
	"github.com/fileflow/fileflow/pkg/api/handlers"
	"github.com/fileflow/fileflow/pkg/signal"
	"github.com/fileflow/fileflow/pkg/transfer"
)

// Deps carries the services the router exposes.
type Deps struct {
	Transfers *transfer.Service
	Signals   *signal.Handler
	WebRTC    signal.WebRTCConfig
}

// NewRouter builds the chi router with middleware and all routes.
//
// The functional API is nested under cfg.APIPrefix. The request
// timeout applies to the transfer API group only; signaling sockets
// have no server-imposed idle timeout.
func NewRouter(cfg Config, deps Deps) http.Handler {
	cfg.ApplyDefaults()

	transferH := handlers.NewTransferHandler(deps.Transfers)
	signalH := handlers.NewSignalHandler(deps.Signals, deps.WebRTC)
	staticH := handlers.NewStaticHandler()

	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route(cfg.APIPrefix, func(r chi.Router) {
		r.Get("/hello", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("Hi!"))
		})
		r.Get("/webrtc/config", signalH.WebRTCConfig)
		r.Get("/signal/{room}", signalH.Signal)

		// The transfer routes carry the request timeout; the download
		// wait window is tuned to finish short of it.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
			r.Get("/id", transferH.IssueID)
			r.Get("/{id}/status", transferH.Status)
			r.Post("/{id}/upload", transferH.Upload)
			r.Get("/{id}/file", transferH.Download)
			r.Put("/{id}/done", transferH.Done)
		})
	})

	// View routes
	r.Get("/", staticH.Home)
	r.Get("/upload", staticH.Upload)
	r.Get("/download", staticH.Download)
	r.Get("/{id}/file", staticH.Download)

	// Static assets and bundle fallback
	r.Get("/assets/*", staticH.Asset)
	r.NotFound(staticH.Fallback)

	return r
}

// requestLogger logs request start at DEBUG and completion at INFO.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Info("request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}
