// SPDX-License-Identifier: MIT

// mangoverlayd is the overlay config daemon. It manages the MangoHud
// config file, keeps revision history, watches for external edits and
// serves the HTTP API the front-ends talk to.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mangoverlay/mangoverlay/internal/api"
	"github.com/mangoverlay/mangoverlay/internal/config"
	"github.com/mangoverlay/mangoverlay/internal/health"
	"github.com/mangoverlay/mangoverlay/internal/history"
	mvlog "github.com/mangoverlay/mangoverlay/internal/log"
	"github.com/mangoverlay/mangoverlay/internal/overlay"
	"github.com/mangoverlay/mangoverlay/internal/profile"
	"github.com/mangoverlay/mangoverlay/internal/telemetry"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to daemon config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Safe defaults until the real config is loaded.
	mvlog.Configure(mvlog.Config{
		Level:   "info",
		Service: "mangoverlay",
		Version: version,
	})
	logger := mvlog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config path: explicit flag, else ${MANGOVERLAY_DATA}/config.yaml
	// when it exists.
	effectivePath := strings.TrimSpace(*configPath)
	if effectivePath == "" {
		dataDir := strings.TrimSpace(config.ParseString("MANGOVERLAY_DATA", config.DefaultDataDir()))
		autoPath := filepath.Join(dataDir, "config.yaml")
		if _, err := os.Stat(autoPath); err == nil {
			effectivePath = autoPath
		}
	}

	cfg, err := config.NewLoader(effectivePath, version).Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", effectivePath).
			Msg("failed to load configuration")
	}

	mvlog.Configure(mvlog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})

	if effectivePath != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str("path", effectivePath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.ListenAddr).
		Msg("starting mangoverlay")
	logger.Info().Msgf("→ Overlay config: %s", cfg.OverlayPath)
	logger.Info().Msgf("→ Data dir: %s", cfg.DataDir)
	if cfg.APIToken != "" {
		logger.Info().Msg("→ API token: configured")
	} else {
		logger.Warn().Msg("→ API token: not configured; API is open (fine for loopback listeners)")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		logger.Fatal().Err(err).Msg("failed to create data directory")
	}

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		logger.Fatal().Err(err).Str("event", "telemetry.init_failed").Msg("failed to initialize tracing")
	}

	hist, err := history.Open(filepath.Join(cfg.DataDir, "history.db"), cfg.HistoryLimit)
	if err != nil {
		logger.Fatal().Err(err).Str("event", "history.open_failed").Msg("failed to open revision database")
	}
	defer func() { _ = hist.Close() }()

	profiles, err := profile.NewStore(cfg.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Str("event", "profiles.init_failed").Msg("failed to create profile store")
	}

	svc := overlay.New(overlay.Options{Path: cfg.OverlayPath, History: hist})
	if err := svc.Load(ctx, "startup"); err != nil {
		logger.Fatal().Err(err).Str("event", "overlay.load_failed").Msg("failed to load overlay config")
	}

	if cfg.WatchEnabled {
		watcher := overlay.NewWatcher(svc, cfg.WatchDebounce)
		if err := watcher.Start(ctx); err != nil {
			logger.Fatal().Err(err).Str("event", "watcher.start_failed").Msg("failed to start config watcher")
		}
	} else {
		logger.Info().Str("event", "watcher.disabled").Msg("config file watching disabled")
	}

	hm := health.NewManager(version)
	hm.RegisterChecker(health.NewDataDirChecker(cfg.DataDir))
	hm.RegisterChecker(health.NewOverlayChecker(svc))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.New(cfg, svc, profiles, hist, hm).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("event", "http.listen").Str("addr", cfg.ListenAddr).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return tp.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Str("event", "daemon.failed").Msg("daemon failed")
	}
	logger.Info().Msg("server exiting")
}
