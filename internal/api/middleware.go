// SPDX-License-Identifier: MIT

package api

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/mangoverlay/mangoverlay/internal/log"
	"github.com/mangoverlay/mangoverlay/internal/telemetry"
)

// parseTrustedProxies parses a comma-separated CIDR list. Invalid
// entries are skipped; config validation rejects them before we get
// here.
func parseTrustedProxies(csv string) []*net.IPNet {
	var nets []*net.IPNet
	for _, part := range strings.Split(csv, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		if _, ipnet, err := net.ParseCIDR(p); err == nil {
			nets = append(nets, ipnet)
		}
	}
	return nets
}

func (s *Server) remoteIsTrusted(remote string) bool {
	if len(s.trustedNets) == 0 {
		return false
	}
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, n := range s.trustedNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// clientIP determines the originating IP. Forwarding headers are only
// honored when the direct peer is a trusted proxy.
func (s *Server) clientIP(r *http.Request) string {
	if s.remoteIsTrusted(r.RemoteAddr) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if ip := strings.TrimSpace(parts[0]); ip != "" {
				return ip
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return xr
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// requestIDMiddleware assigns every request a UUID and threads it
// through the context for log correlation.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := log.ContextWithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware emits one structured access log line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.FromContext(r.Context()).Info().
			Str("event", "http.request").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Str("remote", s.clientIP(r)).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

// spanAttributesMiddleware records method, matched route and final
// status on the request span. otelhttp opens the span further out in
// the chain; this runs inside it, after chi has resolved the route.
func spanAttributesMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		trace.SpanFromContext(r.Context()).SetAttributes(
			telemetry.HTTPAttributes(r.Method, route, r.URL.String(), ww.Status())...)
	})
}

// authMiddleware enforces bearer-token auth on mutating routes. With
// no token configured the daemon is open, which is the expected mode
// for a localhost-only listener.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		reqToken := extractToken(r)
		if reqToken == "" {
			log.FromContext(r.Context()).Warn().
				Str("event", "auth.missing_header").
				Msg("authorization header missing")
			writeUnauthorized(w)
			return
		}
		if subtle.ConstantTimeCompare([]byte(reqToken), []byte(s.apiToken)) != 1 {
			log.FromContext(r.Context()).Warn().
				Str("event", "auth.invalid_token").
				Msg("invalid api token")
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractToken pulls the bearer token from the Authorization header.
func extractToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
