// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mangoverlay/mangoverlay/internal/history"
	"github.com/mangoverlay/mangoverlay/internal/telemetry"
)

func (s *Server) handleListRevisions(w http.ResponseWriter, r *http.Request) {
	if s.hist == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("revision history disabled"))
		return
	}

	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > 500 {
			writeBadRequest(w, errors.New("limit must be 1..500"))
			return
		}
		limit = n
	}

	revs, err := s.hist.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if revs == nil {
		revs = []history.Revision{}
	}
	writeJSON(w, http.StatusOK, revs)
}

func (s *Server) handleGetRevision(w http.ResponseWriter, r *http.Request) {
	if s.hist == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("revision history disabled"))
		return
	}

	rev, err := s.hist.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, history.ErrNotFound) {
		writeNotFound(w)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

func (s *Server) handleRollback(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	trace.SpanFromContext(r.Context()).SetAttributes(attribute.String(telemetry.RevisionIDKey, id))

	snap, err := s.overlay.Rollback(r.Context(), actorAPI, id)
	if errors.Is(err, history.ErrNotFound) {
		writeNotFound(w)
		return
	}
	if err != nil {
		s.writeSaveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toConfigResponse(snap))
}
