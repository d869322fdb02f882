// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"github.com/mangoverlay/mangoverlay/internal/mangohud"
	"github.com/mangoverlay/mangoverlay/internal/profile"
	"github.com/mangoverlay/mangoverlay/internal/telemetry"
)

// annotateProfileSpan tags the request span with the profile being
// operated on.
func annotateProfileSpan(r *http.Request, name string) {
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.ProfileAttributes(name)...)
}

func (s *Server) writeProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profile.ErrNotFound):
		writeNotFound(w)
	case errors.Is(err, profile.ErrExists):
		writeConflict(w, err)
	case errors.Is(err, profile.ErrInvalidName):
		writeBadRequest(w, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) handleListProfiles(w http.ResponseWriter, _ *http.Request) {
	infos, err := s.profiles.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if infos == nil {
		infos = []profile.Info{}
	}
	writeJSON(w, http.StatusOK, infos)
}

// handleCreateProfile stores a new profile. With no content given the
// active config is snapshotted, which is the "save as profile" flow.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string  `json:"name"`
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}

	var doc *mangohud.Document
	if req.Content != nil {
		var err error
		doc, err = mangohud.DecodeDocumentString(*req.Content)
		if err != nil {
			writeBadRequest(w, err)
			return
		}
	} else {
		doc = s.overlay.Snapshot().Document
	}

	annotateProfileSpan(r, req.Name)
	if err := s.profiles.Create(req.Name, doc); err != nil {
		s.writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	annotateProfileSpan(r, name)
	doc, err := s.profiles.Get(name)
	if err != nil {
		s.writeProfileError(w, err)
		return
	}

	params, issues := doc.Params()
	warnings, _ := mangohud.Validate(params)
	writeJSON(w, http.StatusOK, struct {
		Name     string           `json:"name"`
		Content  string           `json:"content"`
		Issues   []mangohud.Issue `json:"issues,omitempty"`
		Warnings []mangohud.Issue `json:"warnings,omitempty"`
	}{
		Name:     name,
		Content:  doc.String(),
		Issues:   issues,
		Warnings: warnings,
	})
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
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

	name := chi.URLParam(r, "name")
	annotateProfileSpan(r, name)
	if err := s.profiles.Save(name, doc); err != nil {
		s.writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	annotateProfileSpan(r, name)
	if err := s.profiles.Delete(name); err != nil {
		s.writeProfileError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleApplyProfile copies a profile over the active config.
func (s *Server) handleApplyProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	annotateProfileSpan(r, name)
	doc, err := s.profiles.Get(name)
	if err != nil {
		s.writeProfileError(w, err)
		return
	}

	snap, err := s.overlay.Save(r.Context(), "profile:"+name, doc, "")
	if err != nil {
		s.writeSaveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toConfigResponse(snap))
}

func (s *Server) handleDuplicateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}

	annotateProfileSpan(r, req.Name)
	if err := s.profiles.Duplicate(chi.URLParam(r, "name"), req.Name); err != nil {
		s.writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}
