package config

import (
	"strings"

	"github.com/fileflow/fileflow/pkg/signal"
)

// GetDefaultConfig returns a configuration populated with defaults only.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for any unspecified configuration
// fields. Zero values are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	cfg.Server.ApplyDefaults()
	cfg.Transfer.ApplyDefaults()
	cfg.Metrics.ApplyDefaults()

	// A non-nil slice keeps the /webrtc/config payload as [] rather
	// than null.
	if cfg.WebRTC.ICEServers == nil {
		cfg.WebRTC.ICEServers = []signal.ICEServer{}
	}
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}
