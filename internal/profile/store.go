// SPDX-License-Identifier: MIT

// Package profile manages named overlay config profiles as plain
// .conf files under the data directory. A profile is a full config
// snapshot that can be applied to the active overlay config.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	"github.com/mangoverlay/mangoverlay/internal/fsutil"
	"github.com/mangoverlay/mangoverlay/internal/mangohud"
	"github.com/mangoverlay/mangoverlay/internal/metrics"
)

var (
	// ErrNotFound is returned when a named profile does not exist.
	ErrNotFound = errors.New("profile not found")
	// ErrExists is returned when creating a profile that already exists.
	ErrExists = errors.New("profile already exists")
	// ErrInvalidName is returned for names outside the allowed charset.
	ErrInvalidName = errors.New("invalid profile name")
)

// nameRe bounds profile names so they are always safe path segments.
var nameRe = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// Info describes a stored profile without its content.
type Info struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Size       int64     `json:"size"`
}

// Store reads and writes profiles under dir.
type Store struct {
	dir string
}

// NewStore creates the profile directory if needed.
func NewStore(dataDir string) (*Store, error) {
	dir := filepath.Join(dataDir, "profiles")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// path validates the name and confines it to the profile directory.
func (s *Store) path(name string) (string, error) {
	if !nameRe.MatchString(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	p, err := fsutil.ConfineRelPath(s.dir, name+".conf")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return p, nil
}

// List returns all profiles sorted by name.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read profile dir: %w", err)
	}

	var out []Info
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".conf")
		if !ok || e.IsDir() || !nameRe.MatchString(name) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{
			Name:       name,
			ModifiedAt: fi.ModTime().UTC(),
			Size:       fi.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get loads a profile as a parsed document.
func (s *Store) Get(name string) (*mangohud.Document, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read profile %q: %w", name, err)
	}
	return mangohud.DecodeDocumentString(string(data))
}

// Save writes a profile atomically, overwriting any existing one.
func (s *Store) Save(name string, doc *mangohud.Document) error {
	p, err := s.path(name)
	if err != nil {
		metrics.ProfileOpsTotal.WithLabelValues("save", "error").Inc()
		return err
	}
	if err := writeAtomic(p, []byte(doc.String())); err != nil {
		metrics.ProfileOpsTotal.WithLabelValues("save", "error").Inc()
		return fmt.Errorf("save profile %q: %w", name, err)
	}
	metrics.ProfileOpsTotal.WithLabelValues("save", "ok").Inc()
	return nil
}

// Create writes a new profile, failing if the name is taken.
func (s *Store) Create(name string, doc *mangohud.Document) error {
	p, err := s.path(name)
	if err != nil {
		metrics.ProfileOpsTotal.WithLabelValues("create", "error").Inc()
		return err
	}
	if _, err := os.Lstat(p); err == nil {
		metrics.ProfileOpsTotal.WithLabelValues("create", "error").Inc()
		return fmt.Errorf("%w: %q", ErrExists, name)
	}
	if err := writeAtomic(p, []byte(doc.String())); err != nil {
		metrics.ProfileOpsTotal.WithLabelValues("create", "error").Inc()
		return fmt.Errorf("create profile %q: %w", name, err)
	}
	metrics.ProfileOpsTotal.WithLabelValues("create", "ok").Inc()
	return nil
}

// Delete removes a profile.
func (s *Store) Delete(name string) error {
	p, err := s.path(name)
	if err != nil {
		metrics.ProfileOpsTotal.WithLabelValues("delete", "error").Inc()
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		metrics.ProfileOpsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		metrics.ProfileOpsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("delete profile %q: %w", name, err)
	}
	metrics.ProfileOpsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}

// Duplicate copies an existing profile under a new name.
func (s *Store) Duplicate(name, newName string) error {
	doc, err := s.Get(name)
	if err != nil {
		return err
	}
	return s.Create(newName, doc)
}

// writeAtomic stages the content in a temp file in the same directory
// and renames it over the target, so readers never see partial writes.
func writeAtomic(path string, data []byte) error {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o640))
	if err != nil {
		return err
	}
	defer func() { _ = pf.Cleanup() }()
	if _, err := pf.Write(data); err != nil {
		return err
	}
	return pf.CloseAtomicallyReplace()
}
