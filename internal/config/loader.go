// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence ENV > file >
// defaults, in strict validated order: defaults, file (strict parse),
// env overlay, validate.
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a new configuration loader. configPath may be empty
// for ENV-only operation.
func NewLoader(configPath, version string) *Loader {
	return &Loader{configPath: configPath, version: version}
}

// Load loads and validates the daemon configuration.
func (l *Loader) Load() (AppConfig, error) {
	cfg := defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFile(&cfg, fileCfg)
	}

	mergeEnv(&cfg)

	// Absolute paths prevent surprises when the daemon's working
	// directory differs from the operator's.
	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}
	if abs, err := filepath.Abs(cfg.OverlayPath); err == nil {
		cfg.OverlayPath = abs
	}

	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func defaults() AppConfig {
	return AppConfig{
		DataDir:       DefaultDataDir(),
		OverlayPath:   DefaultOverlayPath(),
		ListenAddr:    DefaultListenAddr,
		LogLevel:      "info",
		LogService:    "mangoverlay",
		RateLimit:     DefaultRateLimit,
		WatchEnabled:  true,
		WatchDebounce: 500 * time.Millisecond,
		HistoryLimit:  100,
		Telemetry: TelemetryConfig{
			Exporter:     "http",
			Environment:  "development",
			SamplingRate: 1.0,
		},
	}
}

// loadFile parses a YAML config file with strict decoding: unknown
// fields are fatal to catch typos early.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if err == io.EOF {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}

func mergeFile(cfg *AppConfig, f *FileConfig) {
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if f.OverlayPath != "" {
		cfg.OverlayPath = f.OverlayPath
	}
	if f.ListenAddr != "" {
		cfg.ListenAddr = f.ListenAddr
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.API.Token != "" {
		cfg.APIToken = f.API.Token
	}
	if f.API.TrustedProxies != "" {
		cfg.TrustedProxies = f.API.TrustedProxies
	}
	if f.API.RateLimit != nil {
		cfg.RateLimit = *f.API.RateLimit
	}
	if f.Watch.Enabled != nil {
		cfg.WatchEnabled = *f.Watch.Enabled
	}
	if f.Watch.Debounce != "" {
		if d, err := time.ParseDuration(f.Watch.Debounce); err == nil {
			cfg.WatchDebounce = d
		}
	}
	if f.History.Limit != nil {
		cfg.HistoryLimit = *f.History.Limit
	}
	if f.Telemetry != nil {
		t := &cfg.Telemetry
		t.Enabled = f.Telemetry.Enabled
		if f.Telemetry.Exporter != "" {
			t.Exporter = f.Telemetry.Exporter
		}
		if f.Telemetry.Endpoint != "" {
			t.Endpoint = f.Telemetry.Endpoint
		}
		if f.Telemetry.Environment != "" {
			t.Environment = f.Telemetry.Environment
		}
		if f.Telemetry.SamplingRate > 0 {
			t.SamplingRate = f.Telemetry.SamplingRate
		}
	}
}

// mergeEnv applies MANGOVERLAY_* environment overrides, the highest
// precedence source.
func mergeEnv(cfg *AppConfig) {
	cfg.DataDir = ParseString("MANGOVERLAY_DATA", cfg.DataDir)
	cfg.OverlayPath = ParseString("MANGOVERLAY_OVERLAY_CONFIG", cfg.OverlayPath)
	cfg.ListenAddr = ParseString("MANGOVERLAY_LISTEN", cfg.ListenAddr)
	cfg.APIToken = ParseString("MANGOVERLAY_API_TOKEN", cfg.APIToken)
	cfg.LogLevel = ParseString("MANGOVERLAY_LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = ParseString("MANGOVERLAY_LOG_SERVICE", cfg.LogService)
	cfg.TrustedProxies = ParseString("MANGOVERLAY_TRUSTED_PROXIES", cfg.TrustedProxies)
	cfg.RateLimit = ParseInt("MANGOVERLAY_RATE_LIMIT", cfg.RateLimit)
	cfg.WatchEnabled = ParseBool("MANGOVERLAY_WATCH", cfg.WatchEnabled)
	cfg.WatchDebounce = ParseDuration("MANGOVERLAY_WATCH_DEBOUNCE", cfg.WatchDebounce)
	cfg.HistoryLimit = ParseInt("MANGOVERLAY_HISTORY_LIMIT", cfg.HistoryLimit)

	cfg.Telemetry.Enabled = ParseBool("MANGOVERLAY_OTEL_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = ParseString("MANGOVERLAY_OTEL_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = ParseString("MANGOVERLAY_OTEL_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.Environment = ParseString("MANGOVERLAY_OTEL_ENVIRONMENT", cfg.Telemetry.Environment)
	cfg.Telemetry.SamplingRate = ParseFloat("MANGOVERLAY_OTEL_SAMPLING", cfg.Telemetry.SamplingRate)
}
