// SPDX-License-Identifier: MIT

// Package history persists overlay config revisions in an embedded
// SQLite database. Every successful save appends a revision; rollbacks
// go through the normal save path, so history is strictly append-only.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go driver

	"github.com/mangoverlay/mangoverlay/internal/metrics"
)

// ErrNotFound is returned when a revision id does not exist.
var ErrNotFound = errors.New("revision not found")

// Revision is one stored snapshot of the overlay config.
type Revision struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Actor     string    `json:"actor"`
	Summary   []string  `json:"summary"` // changed keys relative to the prior revision
	Content   string    `json:"content,omitempty"`
}

// Store is a SQLite-backed revision store.
type Store struct {
	db    *sql.DB
	limit int // retained revisions, 0 keeps all
}

const schema = `
CREATE TABLE IF NOT EXISTS revisions (
	id         TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	actor      TEXT NOT NULL,
	summary    TEXT NOT NULL,
	content    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_revisions_created ON revisions(created_at DESC);
`

// Open initializes the revision store at dbPath. The DSN carries the
// PRAGMAs so they apply to every pooled connection.
func Open(dbPath string, limit int) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		dbPath, (5 * time.Second).Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open failed: %w", err)
	}
	// Single writer; WAL readers share it fine at this scale.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping failed: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}

	s := &Store{db: db, limit: limit}
	if n, err := s.Count(context.Background()); err == nil {
		metrics.RevisionsStored.Set(float64(n))
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends a revision and prunes beyond the retention limit.
// The returned revision carries the generated id and timestamp.
func (s *Store) Record(ctx context.Context, actor string, summary []string, content string) (Revision, error) {
	rev := Revision{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Actor:     actor,
		Summary:   summary,
		Content:   content,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO revisions (id, created_at, actor, summary, content) VALUES (?, ?, ?, ?, ?)`,
		rev.ID, rev.CreatedAt.UnixNano(), rev.Actor, strings.Join(rev.Summary, ","), rev.Content,
	)
	if err != nil {
		return Revision{}, fmt.Errorf("record revision: %w", err)
	}

	if s.limit > 0 {
		if err := s.prune(ctx); err != nil {
			return rev, fmt.Errorf("prune revisions: %w", err)
		}
	}

	if n, err := s.Count(ctx); err == nil {
		metrics.RevisionsStored.Set(float64(n))
	}
	return rev, nil
}

// prune deletes the oldest revisions beyond the retention limit.
func (s *Store) prune(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM revisions WHERE id NOT IN (
			SELECT id FROM revisions ORDER BY created_at DESC LIMIT ?
		)`, s.limit)
	return err
}

// List returns up to n revisions, newest first, without content.
func (s *Store) List(ctx context.Context, n int) ([]Revision, error) {
	if n <= 0 {
		n = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, actor, summary FROM revisions ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Revision
	for rows.Next() {
		var rev Revision
		var created int64
		var summary string
		if err := rows.Scan(&rev.ID, &created, &rev.Actor, &summary); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		rev.CreatedAt = time.Unix(0, created).UTC()
		rev.Summary = splitSummary(summary)
		out = append(out, rev)
	}
	return out, rows.Err()
}

// Get returns one revision including its content.
func (s *Store) Get(ctx context.Context, id string) (Revision, error) {
	var rev Revision
	var created int64
	var summary string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, actor, summary, content FROM revisions WHERE id = ?`, id).
		Scan(&rev.ID, &created, &rev.Actor, &summary, &rev.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, ErrNotFound
	}
	if err != nil {
		return Revision{}, fmt.Errorf("get revision: %w", err)
	}
	rev.CreatedAt = time.Unix(0, created).UTC()
	rev.Summary = splitSummary(summary)
	return rev, nil
}

// Count returns the number of stored revisions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM revisions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count revisions: %w", err)
	}
	return n, nil
}

func splitSummary(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
