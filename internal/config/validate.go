// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/rs/zerolog"
)

// Validate checks the merged configuration for operational sanity.
func Validate(cfg AppConfig) error {
	if cfg.DataDir == "" {
		return fmt.Errorf("dataDir must not be empty")
	}
	if cfg.OverlayPath == "" {
		return fmt.Errorf("overlayPath must not be empty")
	}

	if _, _, err := net.SplitHostPort(cfg.ListenAddr); err != nil {
		return fmt.Errorf("invalid listenAddr %q: %w", cfg.ListenAddr, err)
	}

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid logLevel %q: %w", cfg.LogLevel, err)
	}

	if cfg.RateLimit < 0 {
		return fmt.Errorf("rateLimit must be >= 0, got %d", cfg.RateLimit)
	}
	if cfg.HistoryLimit < 0 {
		return fmt.Errorf("history limit must be >= 0, got %d", cfg.HistoryLimit)
	}
	if cfg.WatchDebounce < 0 {
		return fmt.Errorf("watch debounce must be >= 0, got %v", cfg.WatchDebounce)
	}

	if cfg.TrustedProxies != "" {
		for _, part := range strings.Split(cfg.TrustedProxies, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, _, err := net.ParseCIDR(part); err != nil {
				return fmt.Errorf("invalid trusted proxy CIDR %q: %w", part, err)
			}
		}
	}

	if cfg.Telemetry.Enabled {
		switch cfg.Telemetry.Exporter {
		case "http", "grpc":
		default:
			return fmt.Errorf("invalid telemetry exporter %q (want http or grpc)", cfg.Telemetry.Exporter)
		}
		if cfg.Telemetry.Endpoint == "" {
			return fmt.Errorf("telemetry enabled but endpoint is empty")
		}
		if cfg.Telemetry.SamplingRate < 0 || cfg.Telemetry.SamplingRate > 1 {
			return fmt.Errorf("telemetry sampling rate must be in [0,1], got %v", cfg.Telemetry.SamplingRate)
		}
	}

	return nil
}
