// SPDX-License-Identifier: MIT

package overlay

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mangoverlay/mangoverlay/internal/history"
	"github.com/mangoverlay/mangoverlay/internal/mangohud"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestService(t *testing.T) (*Service, *history.Store) {
	t.Helper()
	dir := t.TempDir()
	hist, err := history.Open(filepath.Join(dir, "history.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = hist.Close() })

	svc := New(Options{
		Path:    filepath.Join(dir, "MangoHud.conf"),
		History: hist,
	})
	return svc, hist
}

func TestLoadMissingFileIsEmptyConfig(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, svc.Load(context.Background(), "startup"))

	snap := svc.Snapshot()
	assert.Zero(t, snap.Document.Len())
	assert.Equal(t, mangohud.Defaults(), snap.Params)
	assert.Empty(t, snap.Issues)
}

func TestLoadParsesFile(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, os.WriteFile(svc.Path(), []byte("fps_limit=60\nvsync=3\n"), 0o644))

	require.NoError(t, svc.Load(context.Background(), "startup"))

	snap := svc.Snapshot()
	assert.Equal(t, []uint16{60}, snap.Params.FpsLimit)
	require.NotNil(t, snap.Params.VSync)
	assert.Equal(t, mangohud.VSyncOn, *snap.Params.VSync)
}

func TestSaveWritesFileAndRecordsRevision(t *testing.T) {
	svc, hist := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Load(ctx, "startup"))

	doc := svc.Snapshot().Document
	doc.Set("fps_limit", "144")

	snap, err := svc.Save(ctx, "api", doc, "")
	require.NoError(t, err)
	assert.Equal(t, []uint16{144}, snap.Params.FpsLimit)

	data, err := os.ReadFile(svc.Path())
	require.NoError(t, err)
	assert.Equal(t, "fps_limit=144\n", string(data))

	revs, err := hist.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.Equal(t, "api", revs[0].Actor)
	assert.Equal(t, []string{"fps_limit"}, revs[0].Summary)
}

func TestSaveConflictOnStaleHash(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Load(ctx, "startup"))

	stale := svc.Snapshot()

	doc := stale.Document.Clone()
	doc.Set("vsync", "1")
	_, err := svc.Save(ctx, "api", doc, stale.Hash)
	require.NoError(t, err)

	// Second writer still holds the pre-save hash.
	doc2 := stale.Document.Clone()
	doc2.Set("vsync", "2")
	_, err = svc.Save(ctx, "api", doc2, stale.Hash)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSaveRejectsInvalidParams(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Load(ctx, "startup"))

	doc := svc.Snapshot().Document
	doc.Set("alpha", "3")

	_, err := svc.Save(ctx, "api", doc, "")
	assert.ErrorIs(t, err, mangohud.ErrInvalidParams)
	// Nothing hit the disk.
	_, statErr := os.Stat(svc.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadKeepsStateOnInvalidFile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(svc.Path(), []byte("fps_limit=60\n"), 0o644))
	require.NoError(t, svc.Load(ctx, "startup"))
	before := svc.Snapshot()

	// External edit with an out-of-range value.
	require.NoError(t, os.WriteFile(svc.Path(), []byte("alpha=5\n"), 0o644))

	err := svc.Load(ctx, "watcher")
	require.ErrorIs(t, err, mangohud.ErrInvalidParams)

	after := svc.Snapshot()
	assert.Equal(t, before.Params, after.Params)
	assert.Equal(t, before.Hash, after.Hash)
}

func TestSaveCollapsesDuplicateKeys(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(svc.Path(), []byte("vsync=1\nvsync=2\n"), 0o644))
	require.NoError(t, svc.Load(ctx, "startup"))

	// Last occurrence wins on read.
	snap := svc.Snapshot()
	require.NotNil(t, snap.Params.VSync)
	assert.Equal(t, mangohud.VSyncMailbox, *snap.Params.VSync)

	_, err := svc.Update(ctx, "api", map[string]string{"fps_limit": "60"}, nil, "")
	require.NoError(t, err)

	data, err := os.ReadFile(svc.Path())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "vsync"))
	assert.Contains(t, string(data), "vsync=2")
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(svc.Path(), []byte("fps_limit=60\ncpu_temp=1\n"), 0o644))
	require.NoError(t, svc.Load(ctx, "startup"))

	snap, err := svc.Update(ctx, "api",
		map[string]string{"fps_limit": "120", "gpu_temp": "1"},
		[]string{"cpu_temp"}, "")
	require.NoError(t, err)

	assert.Equal(t, []uint16{120}, snap.Params.FpsLimit)
	assert.True(t, snap.Params.GpuTemp)
	assert.False(t, snap.Params.CpuTemp)
	_, present := snap.Document.Get("cpu_temp")
	assert.False(t, present)
}

func TestUpdateUnknownKeyRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Load(ctx, "startup"))

	_, err := svc.Update(ctx, "api", map[string]string{"nope": "1"}, nil, "")
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = svc.Update(ctx, "api", nil, []string{"nope"}, "")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestUpdateBadValueLeavesFileUntouched(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(svc.Path(), []byte("vsync=1\n"), 0o644))
	require.NoError(t, svc.Load(ctx, "startup"))

	_, err := svc.Update(ctx, "api", map[string]string{"fps_limit": "abc"}, nil, "")
	require.Error(t, err)

	data, err := os.ReadFile(svc.Path())
	require.NoError(t, err)
	assert.Equal(t, "vsync=1\n", string(data))
}

func TestReset(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(svc.Path(), []byte("fps_limit=60\n"), 0o644))
	require.NoError(t, svc.Load(ctx, "startup"))

	snap, err := svc.Reset(ctx, "api")
	require.NoError(t, err)
	assert.Zero(t, snap.Document.Len())
	assert.Equal(t, mangohud.Defaults(), snap.Params)
}

func TestApplyPreset(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Load(ctx, "startup"))

	snap, err := svc.ApplyPreset(ctx, "api", mangohud.PresetFpsOnly)
	require.NoError(t, err)
	assert.True(t, snap.Params.Fps)

	_, err = svc.ApplyPreset(ctx, "api", mangohud.HudPreset(42))
	assert.Error(t, err)
}

func TestRollback(t *testing.T) {
	svc, hist := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Load(ctx, "startup"))

	_, err := svc.Update(ctx, "api", map[string]string{"fps_limit": "60"}, nil, "")
	require.NoError(t, err)
	_, err = svc.Update(ctx, "api", map[string]string{"fps_limit": "144"}, nil, "")
	require.NoError(t, err)

	revs, err := hist.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, revs, 2)

	snap, err := svc.Rollback(ctx, "api", revs[1].ID)
	require.NoError(t, err)
	assert.Equal(t, []uint16{60}, snap.Params.FpsLimit)

	// Rollback appended a third revision instead of rewriting history.
	revs, err = hist.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, revs, 3)
}

func TestRollbackUnknownRevision(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Load(ctx, "startup"))

	_, err := svc.Rollback(ctx, "api", "missing")
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestListenerNotifiedOnSave(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Load(ctx, "startup"))

	ch := make(chan Snapshot, 4)
	svc.RegisterListener(ch)

	_, err := svc.Update(ctx, "api", map[string]string{"vsync": "3"}, nil, "")
	require.NoError(t, err)

	select {
	case snap := <-ch:
		require.NotNil(t, snap.Params.VSync)
		assert.Equal(t, mangohud.VSyncOn, *snap.Params.VSync)
	case <-time.After(2 * time.Second):
		t.Fatal("listener not notified")
	}
}
