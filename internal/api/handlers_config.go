// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"github.com/mangoverlay/mangoverlay/internal/log"
	"github.com/mangoverlay/mangoverlay/internal/mangohud"
	"github.com/mangoverlay/mangoverlay/internal/overlay"
	"github.com/mangoverlay/mangoverlay/internal/telemetry"
)

const actorAPI = "api"

type configResponse struct {
	Content     string           `json:"content"`
	Hash        string           `json:"hash"`
	LoadedAt    time.Time        `json:"loadedAt"`
	Entries     int              `json:"entries"`
	UnknownKeys []string         `json:"unknownKeys,omitempty"`
	Issues      []mangohud.Issue `json:"issues,omitempty"`
	Warnings    []mangohud.Issue `json:"warnings,omitempty"`
}

func toConfigResponse(snap overlay.Snapshot) configResponse {
	var unknown []string
	for _, e := range snap.Document.Unknown() {
		unknown = append(unknown, e.Key)
	}
	return configResponse{
		Content:     snap.Document.String(),
		Hash:        snap.Hash,
		LoadedAt:    snap.LoadedAt,
		Entries:     snap.Document.Len(),
		UnknownKeys: unknown,
		Issues:      snap.Issues,
		Warnings:    snap.Warnings,
	}
}

// baseHash resolves the optimistic-concurrency base from the If-Match
// header, falling back to an explicit body field.
func baseHash(r *http.Request, bodyHash string) string {
	if m := strings.Trim(r.Header.Get("If-Match"), `"`); m != "" && m != "*" {
		return m
	}
	return bodyHash
}

func (s *Server) writeSaveError(w http.ResponseWriter, r *http.Request, err error) {
	span := trace.SpanFromContext(r.Context())
	switch {
	case errors.Is(err, overlay.ErrConflict):
		span.SetAttributes(telemetry.ErrorAttributes(err, "conflict")...)
		writeConflict(w, err)
	case errors.Is(err, mangohud.ErrInvalidParams):
		span.SetAttributes(telemetry.ErrorAttributes(err, "invalid_params")...)
		writeUnprocessable(w, err)
	case errors.Is(err, overlay.ErrUnknownKey):
		span.SetAttributes(telemetry.ErrorAttributes(err, "unknown_key")...)
		writeBadRequest(w, err)
	default:
		span.SetAttributes(telemetry.ErrorAttributes(err, "internal")...)
		log.FromContext(r.Context()).Error().Err(err).
			Str("event", "api.save_failed").
			Msg("config save failed")
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	snap := s.overlay.Snapshot()
	w.Header().Set("ETag", `"`+snap.Hash+`"`)
	writeJSON(w, http.StatusOK, toConfigResponse(snap))
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content  string `json:"content"`
		BaseHash string `json:"baseHash"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}

	snap, err := s.overlay.Replace(r.Context(), actorAPI, req.Content, baseHash(r, req.BaseHash))
	if err != nil {
		s.writeSaveError(w, r, err)
		return
	}
	w.Header().Set("ETag", `"`+snap.Hash+`"`)
	writeJSON(w, http.StatusOK, toConfigResponse(snap))
}

func (s *Server) handlePatchConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Set      map[string]string `json:"set"`
		Unset    []string          `json:"unset"`
		BaseHash string            `json:"baseHash"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if len(req.Set) == 0 && len(req.Unset) == 0 {
		writeBadRequest(w, errors.New("nothing to change"))
		return
	}

	snap, err := s.overlay.Update(r.Context(), actorAPI, req.Set, req.Unset, baseHash(r, req.BaseHash))
	if err != nil {
		s.writeSaveError(w, r, err)
		return
	}
	w.Header().Set("ETag", `"`+snap.Hash+`"`)
	writeJSON(w, http.StatusOK, toConfigResponse(snap))
}

// handleValidateConfig dry-runs a config without touching disk.
func (s *Server) handleValidateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}

	doc, err := mangohud.DecodeDocumentString(req.Content)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	params, issues := doc.Params()
	warnings, vErr := mangohud.Validate(params)

	resp := struct {
		Valid    bool             `json:"valid"`
		Error    string           `json:"error,omitempty"`
		Issues   []mangohud.Issue `json:"issues,omitempty"`
		Warnings []mangohud.Issue `json:"warnings,omitempty"`
	}{
		Valid:    vErr == nil && len(issues) == 0,
		Issues:   issues,
		Warnings: warnings,
	}
	if vErr != nil {
		resp.Error = vErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetConfig(w http.ResponseWriter, r *http.Request) {
	snap, err := s.overlay.Reset(r.Context(), actorAPI)
	if err != nil {
		s.writeSaveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toConfigResponse(snap))
}

func (s *Server) handleReloadConfig(w http.ResponseWriter, r *http.Request) {
	if err := s.overlay.Load(r.Context(), "manual"); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toConfigResponse(s.overlay.Snapshot()))
}

type schemaEntry struct {
	Key      string   `json:"key"`
	Group    string   `json:"group"`
	Kind     string   `json:"kind"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Enum     []string `json:"enum,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	Requires []string `json:"requires,omitempty"`
	Restart  bool     `json:"restart,omitempty"`
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	specs := mangohud.Registry()
	out := make([]schemaEntry, 0, len(specs))
	for _, spec := range specs {
		e := schemaEntry{
			Key:      spec.Key,
			Group:    spec.Group,
			Kind:     string(spec.Kind),
			Enum:     spec.Enum,
			Unit:     spec.Unit,
			Requires: spec.Requires,
			Restart:  spec.Restart,
		}
		if spec.HasRange {
			min, max := spec.Min, spec.Max
			e.Min, e.Max = &min, &max
		}
		out = append(out, e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListPresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, mangohud.Presets())
}

func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, errors.New("preset id must be an integer"))
		return
	}

	snap, err := s.overlay.ApplyPreset(r.Context(), actorAPI, mangohud.HudPreset(id))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConfigResponse(snap))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.overlay.Snapshot()
	writeJSON(w, http.StatusOK, struct {
		Version     string    `json:"version"`
		ConfigPath  string    `json:"configPath"`
		Hash        string    `json:"hash"`
		LoadedAt    time.Time `json:"loadedAt"`
		Entries     int       `json:"entries"`
		UnknownKeys int       `json:"unknownKeys"`
		Issues      int       `json:"issues"`
		Warnings    int       `json:"warnings"`
	}{
		Version:     s.version,
		ConfigPath:  s.overlay.Path(),
		Hash:        snap.Hash,
		LoadedAt:    snap.LoadedAt,
		Entries:     snap.Document.Len(),
		UnknownKeys: len(snap.Document.Unknown()),
		Issues:      len(snap.Issues),
		Warnings:    len(snap.Warnings),
	})
}
