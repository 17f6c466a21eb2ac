// Package config loads and persists the FileFlow server configuration.
//
// Configuration sources, highest precedence first:
//  1. Environment variables (FILEFLOW_*)
//  2. Configuration file (YAML)
//  3. Default values
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fileflow/fileflow/internal/bytesize"
	"github.com/fileflow/fileflow/internal/logger"
	"github.com/fileflow/fileflow/pkg/api"
	"github.com/fileflow/fileflow/pkg/metrics"
	"github.com/fileflow/fileflow/pkg/signal"
	"github.com/fileflow/fileflow/pkg/transfer"
)

// Config represents the FileFlow relay configuration.
//
// It captures the static aspects of the server:
//   - Logging configuration
//   - HTTP server settings (bind address, API prefix, timeouts)
//   - Transfer limits and retention windows
//   - Prometheus metrics server
//   - WebRTC ICE servers handed to browser peers
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Server contains HTTP server configuration
	Server api.Config `mapstructure:"server" yaml:"server"`

	// Transfer contains transfer limits and retention windows
	Transfer transfer.Config `mapstructure:"transfer" yaml:"transfer"`

	// Metrics contains Prometheus metrics server configuration
	Metrics metrics.Config `mapstructure:"metrics" yaml:"metrics"`

	// WebRTC lists the ICE servers returned to browser peers
	WebRTC signal.WebRTCConfig `mapstructure:"webrtc" yaml:"webrtc"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// Load loads configuration from file, environment, and defaults.
//
// An empty configPath uses the default location. A missing config file
// is not an error; defaults are used instead. Environment overrides are
// applied last either way.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	configFileFound, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	var cfg *Config
	if !configFileFound {
		cfg = GetDefaultConfig()
	} else {
		cfg = &Config{}
		if err := v.Unmarshal(cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		ApplyDefaults(cfg)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration with helpful error messages when the
// config file is missing.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			// No file at the default location is fine; run on defaults.
			return Load("")
		}
		configPath = GetDefaultConfigPath()
	} else {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s\n\n"+
				"Please create the configuration file:\n"+
				"  fileflow init --config %s",
				configPath, configPath)
		}
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to the specified file path in YAML.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setupViper configures viper with environment variables and config file
// settings. Environment variables use the FILEFLOW_ prefix with
// underscores, e.g. FILEFLOW_LOGGING_LEVEL=DEBUG.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("FILEFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// applyEnvOverrides applies the short-form environment variables that
// predate the nested FILEFLOW_SECTION_KEY scheme. The block limits
// are also honored without the prefix. An unparsable value is logged
// and skipped so the server still starts on its defaults.
func applyEnvOverrides(cfg *Config) {
	if v, name := lookupEnv("FILEFLOW_LOGGING_LEVEL", "FILEFLOW_LOG_LEVEL"); v != "" {
		switch level := strings.ToUpper(v); level {
		case "DEBUG", "INFO", "WARN", "ERROR":
			cfg.Logging.Level = level
		default:
			logger.Warn("ignoring invalid "+name, "value", v)
		}
	}
	if v, _ := lookupEnv("FILEFLOW_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v, name := lookupEnv("FILEFLOW_SERVER_API_PREFIX", "FILEFLOW_API_PREFIX"); v != "" {
		if trimmed := strings.TrimRight(v, "/"); strings.HasPrefix(trimmed, "/") {
			cfg.Server.APIPrefix = trimmed
		} else {
			logger.Warn("ignoring invalid "+name, "value", v)
		}
	}
	if v, name := lookupEnv("FILEFLOW_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p <= 65535 {
			cfg.Server.Port = p
		} else {
			logger.Warn("ignoring invalid "+name, "value", v)
		}
	}
	if v, name := lookupEnv("MAX_BLOCK_SIZE", "FILEFLOW_MAX_BLOCK_SIZE"); v != "" {
		if size, err := bytesize.Parse(v); err == nil && size > 0 {
			cfg.Transfer.MaxBlockSize = size
		} else {
			logger.Warn("ignoring invalid "+name, "value", v)
		}
	}
	if v, name := lookupEnv("MAX_BLOCKS_PER_FILE", "FILEFLOW_MAX_BLOCKS_PER_FILE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Transfer.MaxBlocksPerFile = n
		} else {
			logger.Warn("ignoring invalid "+name, "value", v)
		}
	}
}

// lookupEnv returns the first non-empty value among names, with the
// name that supplied it.
func lookupEnv(names ...string) (string, string) {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v, name
		}
	}
	return "", ""
}

// configDecodeHooks returns a combined decode hook for all custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
		durationDecodeHook(),
	)
}

// byteSizeDecodeHook converts strings and integers to bytesize.ByteSize
// so config files can use human-readable sizes like "1Mi" or "500KB".
func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return bytesize.Parse(v)
		case int:
			return bytesize.ByteSize(v), nil
		case int64:
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			// YAML often deserializes numbers as float64
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}

// durationDecodeHook converts strings to time.Duration so config files
// can use human-readable durations like "30s" or "24h".
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to
// the current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "fileflow")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "fileflow")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks if a config file exists at the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path (exposed for
// the init command).
func GetConfigDir() string {
	return getConfigDir()
}
