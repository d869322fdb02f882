// SPDX-License-Identifier: MIT

// Package api exposes the mangoverlay daemon over HTTP: config reads
// and edits, profiles, presets, revision history and operational
// probes.
package api

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mangoverlay/mangoverlay/internal/config"
	"github.com/mangoverlay/mangoverlay/internal/health"
	"github.com/mangoverlay/mangoverlay/internal/history"
	"github.com/mangoverlay/mangoverlay/internal/log"
	"github.com/mangoverlay/mangoverlay/internal/overlay"
	"github.com/mangoverlay/mangoverlay/internal/profile"
)

// Server wires the HTTP surface to the domain services.
type Server struct {
	overlay     *overlay.Service
	profiles    *profile.Store
	hist        *history.Store
	health      *health.Manager
	apiToken    string
	rateLimit   int
	version     string
	trustedNets []*net.IPNet
	logger      zerolog.Logger
}

// New creates a Server. hist may be nil when history is disabled.
func New(cfg config.AppConfig, svc *overlay.Service, profiles *profile.Store, hist *history.Store, hm *health.Manager) *Server {
	return &Server{
		overlay:     svc,
		profiles:    profiles,
		hist:        hist,
		health:      hm,
		apiToken:    cfg.APIToken,
		rateLimit:   cfg.RateLimit,
		version:     cfg.Version,
		trustedNets: parseTrustedProxies(cfg.TrustedProxies),
		logger:      log.WithComponent("api"),
	}
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(otelMiddleware("mangoverlay"))
	r.Use(spanAttributesMiddleware)
	if s.rateLimit > 0 {
		r.Use(httprate.Limit(
			s.rateLimit,
			time.Minute,
			httprate.WithKeyFuncs(func(req *http.Request) (string, error) {
				return s.clientIP(req), nil
			}),
			httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate_limit_exceeded"}`))
			}),
		))
	}

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/status", s.handleStatus)
		r.Get("/schema", s.handleSchema)

		r.Route("/config", func(r chi.Router) {
			r.Get("/", s.handleGetConfig)
			r.Put("/", s.handlePutConfig)
			r.Patch("/", s.handlePatchConfig)
			r.Post("/validate", s.handleValidateConfig)
			r.Post("/reset", s.handleResetConfig)
			r.Post("/reload", s.handleReloadConfig)
		})

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", s.handleListPresets)
			r.Post("/{id}/apply", s.handleApplyPreset)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", s.handleListProfiles)
			r.Post("/", s.handleCreateProfile)
			r.Get("/{name}", s.handleGetProfile)
			r.Put("/{name}", s.handlePutProfile)
			r.Delete("/{name}", s.handleDeleteProfile)
			r.Post("/{name}/apply", s.handleApplyProfile)
			r.Post("/{name}/duplicate", s.handleDuplicateProfile)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.handleListRevisions)
			r.Get("/{id}", s.handleGetRevision)
			r.Post("/{id}/rollback", s.handleRollback)
		})
	})

	return r
}

// otelMiddleware wraps handlers with OpenTelemetry HTTP spans,
// skipping probe and metrics endpoints to reduce noise.
func otelMiddleware(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(
			next,
			serviceName,
			otelhttp.WithFilter(func(req *http.Request) bool {
				switch req.URL.Path {
				case "/healthz", "/readyz", "/metrics":
					return false
				}
				return true
			}),
			otelhttp.WithSpanNameFormatter(func(operation string, req *http.Request) string {
				return fmt.Sprintf("%s %s %s", operation, req.Method, req.URL.Path)
			}),
		)
	}
}
