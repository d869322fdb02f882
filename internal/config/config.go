// SPDX-License-Identifier: MIT

// Package config loads the daemon's own configuration with precedence
// ENV > file > defaults. This is the service configuration; the overlay
// config file it manages is handled by internal/mangohud.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default service endpoints. The daemon serves a local GUI front-end, so
// it binds loopback unless told otherwise.
const (
	DefaultListenAddr = "127.0.0.1:8313"
	DefaultRateLimit  = 600 // requests per minute per client
)

// AppConfig is the effective daemon configuration after merging.
type AppConfig struct {
	// DataDir holds profiles/ and the revision database.
	DataDir string

	// OverlayPath is the active overlay config file being managed.
	OverlayPath string

	ListenAddr string
	APIToken   string // optional bearer token required for mutating routes

	LogLevel   string
	LogService string

	TrustedProxies string // CSV of CIDRs allowed to set X-Forwarded-For
	RateLimit      int    // requests per minute per client, 0 disables

	WatchEnabled  bool // watch OverlayPath for external edits
	WatchDebounce time.Duration

	HistoryLimit int // revisions retained per config, 0 keeps all

	Telemetry TelemetryConfig

	Version string
}

// TelemetryConfig configures the OTLP trace exporter.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"` // "http" or "grpc"
	Endpoint     string  `yaml:"endpoint"`
	Environment  string  `yaml:"environment"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// FileConfig is the YAML representation of the daemon config file.
// Pointer fields distinguish "absent" from zero values during merge.
type FileConfig struct {
	DataDir     string `yaml:"dataDir"`
	OverlayPath string `yaml:"overlayPath"`
	ListenAddr  string `yaml:"listenAddr"`
	LogLevel    string `yaml:"logLevel"`

	API struct {
		Token          string `yaml:"token"`
		TrustedProxies string `yaml:"trustedProxies"`
		RateLimit      *int   `yaml:"rateLimit"`
	} `yaml:"api"`

	Watch struct {
		Enabled  *bool  `yaml:"enabled"`
		Debounce string `yaml:"debounce"`
	} `yaml:"watch"`

	History struct {
		Limit *int `yaml:"limit"`
	} `yaml:"history"`

	Telemetry *TelemetryConfig `yaml:"telemetry"`
}

// DefaultOverlayPath returns the conventional location of the overlay
// config file for the current user.
func DefaultOverlayPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("/tmp", "MangoHud.conf")
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "MangoHud", "MangoHud.conf")
}

// DefaultDataDir returns the conventional data directory for the daemon.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("/tmp", "mangoverlay")
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "mangoverlay")
}
