// SPDX-License-Identifier: MIT

// Package overlay owns the active MangoHud config file. It keeps a
// parsed snapshot in memory, serializes all writes, records every
// successful save as a revision and reloads when the file changes on
// disk.
package overlay

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mangoverlay/mangoverlay/internal/history"
	"github.com/mangoverlay/mangoverlay/internal/log"
	"github.com/mangoverlay/mangoverlay/internal/mangohud"
	"github.com/mangoverlay/mangoverlay/internal/metrics"
	"github.com/mangoverlay/mangoverlay/internal/telemetry"
)

var (
	// ErrConflict is returned when a save carries a stale base hash,
	// meaning the file changed since the caller last read it.
	ErrConflict = errors.New("config changed since last read")
	// ErrUnknownKey is returned for updates naming keys outside the schema.
	ErrUnknownKey = errors.New("unknown config key")
)

// Snapshot is a consistent view of the active config.
type Snapshot struct {
	Document *mangohud.Document
	Params   mangohud.Params
	Issues   []mangohud.Issue // decode problems, config still usable
	Warnings []mangohud.Issue // validation advisories
	Hash     string           // sha256 of the on-disk content
	LoadedAt time.Time
}

// Options configures a Service.
type Options struct {
	Path    string // active MangoHud config file
	History *history.Store
}

// Service guards the active config with a RWMutex. Reads take a
// snapshot; writes go through save which holds the write lock across
// validate, disk write and history record.
type Service struct {
	mu     sync.RWMutex
	doc    *mangohud.Document
	params mangohud.Params
	issues []mangohud.Issue
	warns  []mangohud.Issue
	hash   string
	loaded time.Time
	path   string
	hist   *history.Store
	logger zerolog.Logger

	listenMu  sync.RWMutex
	listeners []chan<- Snapshot
}

// New creates a Service for the config at opts.Path. The file is not
// read until Load is called.
func New(opts Options) *Service {
	return &Service{
		doc:    mangohud.NewDocument(),
		params: mangohud.Defaults(),
		path:   opts.Path,
		hist:   opts.History,
		logger: log.WithComponent("overlay"),
	}
}

// Path returns the watched config file path.
func (s *Service) Path() string {
	return s.path
}

// Load reads the config from disk and swaps the snapshot. A missing
// file is not an error: MangoHud runs on compiled-in defaults, so an
// absent file is the empty config. trigger labels the reload metric.
func (s *Service) Load(ctx context.Context, trigger string) error {
	data, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		metrics.ReloadTotal.WithLabelValues(trigger, "error").Inc()
		return fmt.Errorf("read config %s: %w", s.path, err)
	}

	doc, err := mangohud.DecodeDocumentString(string(data))
	if err != nil {
		metrics.ReloadTotal.WithLabelValues(trigger, "error").Inc()
		return fmt.Errorf("decode config %s: %w", s.path, err)
	}

	// An invalid on-disk config never displaces the current state; the
	// caller sees the error and the previous snapshot stays live.
	params, issues := doc.Params()
	warns, err := mangohud.Validate(params)
	if err != nil {
		metrics.ReloadTotal.WithLabelValues(trigger, "error").Inc()
		metrics.ValidationFailuresTotal.Inc()
		return fmt.Errorf("validate config %s: %w", s.path, err)
	}

	s.mu.Lock()
	snap := s.swapLocked(doc, params, issues, warns, hashContent(data))
	s.mu.Unlock()

	trace.SpanFromContext(ctx).SetAttributes(attribute.String(telemetry.ConfigTriggerKey, trigger))
	metrics.ReloadTotal.WithLabelValues(trigger, "ok").Inc()
	s.logger.Info().
		Str("event", "overlay.loaded").
		Str("trigger", trigger).
		Int("entries", snap.Document.Len()).
		Int("issues", len(snap.Issues)).
		Msg("config loaded")

	s.notify(snap)
	return nil
}

// swapLocked installs doc as the current state and returns the new
// snapshot. Caller holds the write lock and has already validated
// params.
func (s *Service) swapLocked(doc *mangohud.Document, params mangohud.Params, issues, warns []mangohud.Issue, hash string) Snapshot {
	s.doc = doc
	s.params = params
	s.issues = issues
	s.warns = warns
	s.hash = hash
	s.loaded = time.Now().UTC()

	metrics.UnknownKeys.Set(float64(len(doc.Unknown())))
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	return Snapshot{
		Document: s.doc.Clone(),
		Params:   s.params,
		Issues:   s.issues,
		Warnings: s.warns,
		Hash:     s.hash,
		LoadedAt: s.loaded,
	}
}

// Snapshot returns the current state. The document is a clone, safe
// for the caller to mutate.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Save validates doc and writes it to disk atomically. baseHash, when
// non-empty, must match the current content hash or the save is
// refused with ErrConflict. actor is recorded in the revision.
func (s *Service) Save(ctx context.Context, actor string, doc *mangohud.Document, baseHash string) (Snapshot, error) {
	params, issues := doc.Params()
	warns, err := mangohud.Validate(params)
	if err != nil {
		metrics.ValidationFailuresTotal.Inc()
		metrics.SaveTotal.WithLabelValues("invalid").Inc()
		return Snapshot{}, err
	}

	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if baseHash != "" && baseHash != s.hash {
		metrics.SaveTotal.WithLabelValues("conflict").Inc()
		return Snapshot{}, ErrConflict
	}

	// Duplicate keys are tolerated on read (last wins) but never
	// written back.
	doc.Compact()
	content := doc.String()
	if err := writeAtomic(s.path, []byte(content)); err != nil {
		metrics.SaveTotal.WithLabelValues("error").Inc()
		return Snapshot{}, fmt.Errorf("write config %s: %w", s.path, err)
	}

	summary := mangohud.Diff(s.params, params).Keys()
	snap := s.swapLocked(doc, params, issues, warns, hashContent([]byte(content)))
	trace.SpanFromContext(ctx).SetAttributes(telemetry.SaveAttributes(actor, summary)...)

	if s.hist != nil {
		if rev, err := s.hist.Record(ctx, actor, summary, content); err != nil {
			// The file is already written; losing one revision is
			// recoverable, failing the save is not.
			s.logger.Error().Err(err).
				Str("event", "overlay.revision_failed").
				Msg("failed to record revision")
		} else {
			s.logger.Debug().
				Str("event", "overlay.revision_recorded").
				Str("revision", rev.ID).
				Msg("revision recorded")
		}
	}

	metrics.SaveTotal.WithLabelValues("ok").Inc()
	metrics.SaveDuration.Observe(time.Since(start).Seconds())
	s.logger.Info().
		Str("event", "overlay.saved").
		Str("actor", actor).
		Strs("changed", summary).
		Msg("config saved")

	go s.notify(snap)
	return snap, nil
}

// Update applies key-level edits on top of the current document.
// Every key must exist in the schema and every value must parse, or
// nothing is written.
func (s *Service) Update(ctx context.Context, actor string, set map[string]string, unset []string, baseHash string) (Snapshot, error) {
	s.mu.RLock()
	doc := s.doc.Clone()
	s.mu.RUnlock()

	for key, value := range set {
		spec, ok := mangohud.LookupKey(key)
		if !ok {
			return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
		}
		if err := spec.Check(value); err != nil {
			metrics.ValidationFailuresTotal.Inc()
			trace.SpanFromContext(ctx).SetAttributes(attribute.String(telemetry.ConfigKeyKey, key))
			return Snapshot{}, fmt.Errorf("key %q: %w", key, err)
		}
	}
	for _, key := range unset {
		if _, ok := mangohud.LookupKey(key); !ok {
			return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
		}
	}

	for key, value := range set {
		doc.Set(key, value)
	}
	for _, key := range unset {
		doc.Unset(key)
	}

	return s.Save(ctx, actor, doc, baseHash)
}

// Replace swaps the whole document for the given text.
func (s *Service) Replace(ctx context.Context, actor, content, baseHash string) (Snapshot, error) {
	doc, err := mangohud.DecodeDocumentString(content)
	if err != nil {
		return Snapshot{}, err
	}
	return s.Save(ctx, actor, doc, baseHash)
}

// Reset replaces the config with an empty document, which means
// MangoHud falls back to its built-in defaults for every key.
func (s *Service) Reset(ctx context.Context, actor string) (Snapshot, error) {
	return s.Save(ctx, actor, mangohud.NewDocument(), "")
}

// ApplyPreset replaces the config with one of the built-in HUD presets.
func (s *Service) ApplyPreset(ctx context.Context, actor string, id mangohud.HudPreset) (Snapshot, error) {
	params, err := mangohud.PresetParams(id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.Save(ctx, actor, mangohud.MarshalDocument(params), "")
}

// Rollback restores the content of an earlier revision. The rollback
// itself is recorded as a new revision, never rewriting history.
func (s *Service) Rollback(ctx context.Context, actor, revisionID string) (Snapshot, error) {
	if s.hist == nil {
		metrics.RollbackTotal.WithLabelValues("error").Inc()
		return Snapshot{}, errors.New("revision history disabled")
	}
	rev, err := s.hist.Get(ctx, revisionID)
	if err != nil {
		metrics.RollbackTotal.WithLabelValues("error").Inc()
		return Snapshot{}, err
	}
	snap, err := s.Replace(ctx, actor, rev.Content, "")
	if err != nil {
		metrics.RollbackTotal.WithLabelValues("error").Inc()
		return Snapshot{}, err
	}
	metrics.RollbackTotal.WithLabelValues("ok").Inc()
	s.logger.Info().
		Str("event", "overlay.rollback").
		Str("revision", revisionID).
		Str("actor", actor).
		Msg("rolled back to revision")
	return snap, nil
}

// RegisterListener registers a channel that receives a snapshot after
// every successful load or save. Sends are non-blocking; a full
// channel drops the notification.
func (s *Service) RegisterListener(ch chan<- Snapshot) {
	s.listenMu.Lock()
	defer s.listenMu.Unlock()
	s.listeners = append(s.listeners, ch)
}

func (s *Service) notify(snap Snapshot) {
	s.listenMu.RLock()
	defer s.listenMu.RUnlock()
	for _, ch := range s.listeners {
		select {
		case ch <- snap:
		default:
			s.logger.Warn().
				Str("event", "overlay.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

// writeAtomic writes data with a same-directory temp file and rename,
// creating parent directories on first save.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return err
	}
	defer func() { _ = pf.Cleanup() }()
	if _, err := pf.Write(data); err != nil {
		return err
	}
	return pf.CloseAtomicallyReplace()
}

func hashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
