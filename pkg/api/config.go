package api

import "time"

// Config configures the relay HTTP server.
type Config struct {
	// Host is the bind address. Default: 0.0.0.0.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the listen port. Default: 5000.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	// APIPrefix is the path the functional API is nested under.
	// Default: /api/fileflow.
	APIPrefix string `mapstructure:"api_prefix" yaml:"api_prefix"`

	// RequestTimeout bounds upload/download/done requests. The
	// download wait window must stay below it. Default: 20s.
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`

	// IdleTimeout is the keep-alive idle bound. Default: 60s.
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown. Default: 5s.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port <= 0 {
		c.Port = 5000
	}
	if c.APIPrefix == "" {
		c.APIPrefix = "/api/fileflow"
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 20 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}
