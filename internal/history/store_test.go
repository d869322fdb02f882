// SPDX-License-Identifier: MIT

package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, limit int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"), limit)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	s := openTestStore(t, 0)
	ctx := context.Background()

	rev, err := s.Record(ctx, "api", []string{"fps_limit", "vsync"}, "fps_limit=60\nvsync=3\n")
	require.NoError(t, err)
	assert.NotEmpty(t, rev.ID)
	assert.False(t, rev.CreatedAt.IsZero())

	got, err := s.Get(ctx, rev.ID)
	require.NoError(t, err)
	assert.Equal(t, rev.ID, got.ID)
	assert.Equal(t, "api", got.Actor)
	assert.Equal(t, []string{"fps_limit", "vsync"}, got.Summary)
	assert.Equal(t, "fps_limit=60\nvsync=3\n", got.Content)
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t, 0)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t, 0)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		rev, err := s.Record(ctx, "watcher", nil, fmt.Sprintf("fps_limit=%d\n", i))
		require.NoError(t, err)
		ids = append(ids, rev.ID)
	}

	revs, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, revs, 3)
	assert.Equal(t, ids[2], revs[0].ID)
	assert.Equal(t, ids[0], revs[2].ID)
	// List omits content.
	assert.Empty(t, revs[0].Content)
}

func TestListLimit(t *testing.T) {
	s := openTestStore(t, 0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Record(ctx, "api", nil, "fps=1\n")
		require.NoError(t, err)
	}

	revs, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, revs, 2)
}

func TestPruneRetainsNewest(t *testing.T) {
	s := openTestStore(t, 3)
	ctx := context.Background()

	var last string
	for i := 0; i < 6; i++ {
		rev, err := s.Record(ctx, "api", nil, fmt.Sprintf("vsync=%d\n", i%4))
		require.NoError(t, err)
		last = rev.ID
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	revs, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, revs, 3)
	assert.Equal(t, last, revs[0].ID)
}

func TestEmptySummary(t *testing.T) {
	s := openTestStore(t, 0)
	ctx := context.Background()

	rev, err := s.Record(ctx, "api", nil, "")
	require.NoError(t, err)

	got, err := s.Get(ctx, rev.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Summary)
}
