package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fileflow/fileflow/pkg/signal"
)

// SignalHandler exposes the signaling channel and WebRTC bootstrap
// configuration.
type SignalHandler struct {
	signals *signal.Handler
	webrtc  signal.WebRTCConfig
}

// NewSignalHandler creates a signaling handler.
func NewSignalHandler(signals *signal.Handler, webrtc signal.WebRTCConfig) *SignalHandler {
	return &SignalHandler{signals: signals, webrtc: webrtc}
}

// Signal handles GET /signal/{room} websocket upgrades.
func (h *SignalHandler) Signal(w http.ResponseWriter, r *http.Request) {
	h.signals.Serve(w, r, chi.URLParam(r, "room"))
}

// WebRTCConfig handles GET /webrtc/config.
//
// The response is the raw RTCConfiguration shape consumed by browsers,
// not the standard envelope.
func (h *SignalHandler) WebRTCConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.webrtc
	if cfg.ICEServers == nil {
		cfg.ICEServers = []signal.ICEServer{}
	}
	WriteJSON(w, http.StatusOK, cfg)
}
