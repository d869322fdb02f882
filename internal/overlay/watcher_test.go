// SPDX-License-Identifier: MIT

package overlay

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangoverlay/mangoverlay/internal/mangohud"
)

func TestWatcherReloadsOnExternalWrite(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, svc.Load(ctx, "startup"))

	w := NewWatcher(svc, 10*time.Millisecond)
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(svc.Path(), []byte("fps_limit=75\n"), 0o644))

	require.Eventually(t, func() bool {
		snap := svc.Snapshot()
		return len(snap.Params.FpsLimit) == 1 && snap.Params.FpsLimit[0] == 75
	}, 5*time.Second, 20*time.Millisecond, "watcher did not pick up external write")
}

func TestWatcherSurvivesAtomicReplace(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, svc.Load(ctx, "startup"))

	w := NewWatcher(svc, 10*time.Millisecond)
	require.NoError(t, w.Start(ctx))

	// Our own saves replace the file by rename. A later external edit
	// must still be noticed.
	_, err := svc.Update(ctx, "api", map[string]string{"vsync": "1"}, nil, "")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(svc.Path(), []byte("vsync=2\n"), 0o644))

	require.Eventually(t, func() bool {
		snap := svc.Snapshot()
		return snap.Params.VSync != nil && *snap.Params.VSync == mangohud.VSyncMailbox
	}, 5*time.Second, 20*time.Millisecond, "watcher lost the file after atomic replace")
}

func TestWatcherNotifiesListeners(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, svc.Load(ctx, "startup"))

	ch := make(chan Snapshot, 4)
	svc.RegisterListener(ch)

	w := NewWatcher(svc, 10*time.Millisecond)
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(svc.Path(), []byte("fps_limit=99\n"), 0o644))

	select {
	case snap := <-ch:
		assert.Equal(t, []uint16{99}, snap.Params.FpsLimit)
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot delivered after external change")
	}
}
