// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	loader := NewLoader("", "test-version")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("expected ListenAddr=%s, got %s", DefaultListenAddr, cfg.ListenAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel=info, got %s", cfg.LogLevel)
	}
	if cfg.RateLimit != DefaultRateLimit {
		t.Errorf("expected RateLimit=%d, got %d", DefaultRateLimit, cfg.RateLimit)
	}
	if !cfg.WatchEnabled {
		t.Error("expected watcher enabled by default")
	}
	if cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("expected WatchDebounce=500ms, got %v", cfg.WatchDebounce)
	}
	if cfg.HistoryLimit != 100 {
		t.Errorf("expected HistoryLimit=100, got %d", cfg.HistoryLimit)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
}

func TestLoadFromYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	overlayPath := filepath.Join(tmpDir, "MangoHud.conf")

	yamlContent := fmt.Sprintf(`
dataDir: %s
overlayPath: %s
listenAddr: 127.0.0.1:9999
logLevel: debug
api:
  token: test-token
  rateLimit: 42
watch:
  enabled: false
  debounce: 2s
history:
  limit: 7
`, tmpDir, overlayPath)

	if err := os.WriteFile(configPath, []byte(yamlContent), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	loader := NewLoader(configPath, "1.0.0")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DataDir != tmpDir {
		t.Errorf("DataDir = %s, want %s", cfg.DataDir, tmpDir)
	}
	if cfg.OverlayPath != overlayPath {
		t.Errorf("OverlayPath = %s, want %s", cfg.OverlayPath, overlayPath)
	}
	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("ListenAddr = %s", cfg.ListenAddr)
	}
	if cfg.APIToken != "test-token" {
		t.Errorf("APIToken = %s", cfg.APIToken)
	}
	if cfg.RateLimit != 42 {
		t.Errorf("RateLimit = %d", cfg.RateLimit)
	}
	if cfg.WatchEnabled {
		t.Error("watch should be disabled via file")
	}
	if cfg.WatchDebounce != 2*time.Second {
		t.Errorf("WatchDebounce = %v", cfg.WatchDebounce)
	}
	if cfg.HistoryLimit != 7 {
		t.Errorf("HistoryLimit = %d", cfg.HistoryLimit)
	}
}

func TestLoadStrictRejectsUnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("listenAdr: 127.0.0.1:1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader(configPath, "v").Load(); err == nil {
		t.Error("typo'd field should fail strict parse")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("listenAddr: 127.0.0.1:1111\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MANGOVERLAY_LISTEN", "127.0.0.1:2222")

	cfg, err := NewLoader(configPath, "v").Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:2222" {
		t.Errorf("ENV should win over file, got %s", cfg.ListenAddr)
	}
}

func TestValidate(t *testing.T) {
	base := func() AppConfig {
		cfg := defaults()
		cfg.DataDir = "/tmp/mangoverlay-test"
		cfg.OverlayPath = "/tmp/MangoHud.conf"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", func(cfg *AppConfig) {}, false},
		{"bad listen addr", func(cfg *AppConfig) { cfg.ListenAddr = "nonsense" }, true},
		{"bad log level", func(cfg *AppConfig) { cfg.LogLevel = "chatty" }, true},
		{"negative rate limit", func(cfg *AppConfig) { cfg.RateLimit = -1 }, true},
		{"bad proxy cidr", func(cfg *AppConfig) { cfg.TrustedProxies = "10.0.0.0/33" }, true},
		{"telemetry without endpoint", func(cfg *AppConfig) {
			cfg.Telemetry.Enabled = true
			cfg.Telemetry.Endpoint = ""
		}, true},
		{"telemetry bad exporter", func(cfg *AppConfig) {
			cfg.Telemetry.Enabled = true
			cfg.Telemetry.Endpoint = "localhost:4318"
			cfg.Telemetry.Exporter = "udp"
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte(""), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader(configPath, "v").Load(); err == nil {
		t.Error("non-YAML config should be rejected")
	}
}
