package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fileflow/fileflow/internal/bytesize"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Logging.Level != "INFO" {
		t.Errorf("expected default log level INFO, got %s", cfg.Logging.Level)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Server.APIPrefix != "/api/fileflow" {
		t.Errorf("expected default API prefix /api/fileflow, got %s", cfg.Server.APIPrefix)
	}
	if cfg.Transfer.MaxBlockSize != bytesize.ByteSize(1<<20) {
		t.Errorf("expected default max block size 1Mi, got %d", cfg.Transfer.MaxBlockSize)
	}
	if cfg.Transfer.MaxBlocksPerFile != 1024 {
		t.Errorf("expected default max blocks per file 1024, got %d", cfg.Transfer.MaxBlocksPerFile)
	}
	if cfg.Transfer.MetaTTL != 24*time.Hour {
		t.Errorf("expected default meta TTL 24h, got %s", cfg.Transfer.MetaTTL)
	}
	if cfg.Transfer.BlockTTL != 60*time.Second {
		t.Errorf("expected default block TTL 60s, got %s", cfg.Transfer.BlockTTL)
	}
	if cfg.WebRTC.ICEServers == nil {
		t.Error("expected non-nil ICE server list")
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Server.Port = 70000

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for out-of-range port")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file should succeed: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: DEBUG
server:
  port: 8080
  api_prefix: /api/relay
transfer:
  max_block_size: 2Mi
  max_blocks_per_file: 16
  block_ttl: 30s
webrtc:
  ice_servers:
    - urls: ["stun:stun.example.com:3478"]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("expected level DEBUG, got %s", cfg.Logging.Level)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.APIPrefix != "/api/relay" {
		t.Errorf("expected prefix /api/relay, got %s", cfg.Server.APIPrefix)
	}
	if cfg.Transfer.MaxBlockSize != bytesize.ByteSize(2<<20) {
		t.Errorf("expected max block size 2Mi, got %d", cfg.Transfer.MaxBlockSize)
	}
	if cfg.Transfer.MaxBlocksPerFile != 16 {
		t.Errorf("expected 16 blocks per file, got %d", cfg.Transfer.MaxBlocksPerFile)
	}
	if cfg.Transfer.BlockTTL != 30*time.Second {
		t.Errorf("expected block TTL 30s, got %s", cfg.Transfer.BlockTTL)
	}
	// Unset fields still get defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host, got %s", cfg.Server.Host)
	}
	if len(cfg.WebRTC.ICEServers) != 1 || cfg.WebRTC.ICEServers[0].URLs[0] != "stun:stun.example.com:3478" {
		t.Errorf("unexpected ICE servers: %+v", cfg.WebRTC.ICEServers)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FILEFLOW_HOST", "127.0.0.1")
	t.Setenv("FILEFLOW_PORT", "6001")
	t.Setenv("MAX_BLOCK_SIZE", "512Ki")
	t.Setenv("MAX_BLOCKS_PER_FILE", "8")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected host override, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 6001 {
		t.Errorf("expected port override, got %d", cfg.Server.Port)
	}
	if cfg.Transfer.MaxBlockSize != bytesize.ByteSize(512<<10) {
		t.Errorf("expected block size override, got %d", cfg.Transfer.MaxBlockSize)
	}
	if cfg.Transfer.MaxBlocksPerFile != 8 {
		t.Errorf("expected block count override, got %d", cfg.Transfer.MaxBlocksPerFile)
	}
}

func TestEnvOverrideAPIPrefix(t *testing.T) {
	t.Setenv("FILEFLOW_SERVER_API_PREFIX", "/api/custom/")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.APIPrefix != "/api/custom" {
		t.Errorf("expected prefix override, got %s", cfg.Server.APIPrefix)
	}
}

func TestEnvOverrideAPIPrefixRequiresLeadingSlash(t *testing.T) {
	t.Setenv("FILEFLOW_SERVER_API_PREFIX", "api/custom")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.APIPrefix != "/api/fileflow" {
		t.Errorf("relative prefix should fall back to default, got %s", cfg.Server.APIPrefix)
	}
}

func TestEnvOverridesIgnoreInvalidValues(t *testing.T) {
	t.Setenv("FILEFLOW_PORT", "not-a-port")
	t.Setenv("MAX_BLOCK_SIZE", "lots")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("invalid port should fall back to default, got %d", cfg.Server.Port)
	}
	if cfg.Transfer.MaxBlockSize != bytesize.ByteSize(1<<20) {
		t.Errorf("invalid size should fall back to default, got %d", cfg.Transfer.MaxBlockSize)
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Server.Port = 9999
	cfg.Logging.Level = "DEBUG"

	path := filepath.Join(t.TempDir(), "subdir", "config.yaml")
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.Port != 9999 {
		t.Errorf("expected saved port 9999, got %d", loaded.Server.Port)
	}
	if loaded.Logging.Level != "DEBUG" {
		t.Errorf("expected saved level DEBUG, got %s", loaded.Logging.Level)
	}
}
