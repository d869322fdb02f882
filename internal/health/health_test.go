// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangoverlay/mangoverlay/internal/overlay"
)

type stubChecker struct {
	name   string
	result CheckResult
}

func (c stubChecker) Name() string                        { return c.name }
func (c stubChecker) Check(_ context.Context) CheckResult { return c.result }

func TestHealthAlwaysHealthyWithoutVerbose(t *testing.T) {
	m := NewManager("1.2.3")
	m.RegisterChecker(stubChecker{"broken", CheckResult{Status: StatusUnhealthy}})

	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Empty(t, resp.Checks)
}

func TestHealthVerboseAggregates(t *testing.T) {
	m := NewManager("dev")
	m.RegisterChecker(stubChecker{"ok", CheckResult{Status: StatusHealthy}})
	m.RegisterChecker(stubChecker{"slow", CheckResult{Status: StatusDegraded}})

	resp := m.Health(context.Background(), true)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Len(t, resp.Checks, 2)
}

func TestReadyUnhealthyMeansNotReady(t *testing.T) {
	m := NewManager("dev")
	m.RegisterChecker(stubChecker{"db", CheckResult{Status: StatusUnhealthy, Error: "gone"}})

	resp := m.Ready(context.Background())
	assert.False(t, resp.Ready)
	assert.Equal(t, StatusUnhealthy, resp.Status)
}

func TestServeReadyStatusCodes(t *testing.T) {
	m := NewManager("dev")

	rec := httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, 200, rec.Code)

	m.RegisterChecker(stubChecker{"down", CheckResult{Status: StatusUnhealthy}})
	rec = httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, 503, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestDataDirChecker(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, StatusHealthy, NewDataDirChecker(dir).Check(context.Background()).Status)

	missing := filepath.Join(dir, "nope")
	assert.Equal(t, StatusUnhealthy, NewDataDirChecker(missing).Check(context.Background()).Status)

	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	assert.Equal(t, StatusUnhealthy, NewDataDirChecker(file).Check(context.Background()).Status)
}

func TestOverlayChecker(t *testing.T) {
	dir := t.TempDir()
	svc := overlay.New(overlay.Options{Path: filepath.Join(dir, "MangoHud.conf")})

	// Not loaded yet.
	assert.Equal(t, StatusUnhealthy, NewOverlayChecker(svc).Check(context.Background()).Status)

	require.NoError(t, svc.Load(context.Background(), "startup"))
	assert.Equal(t, StatusHealthy, NewOverlayChecker(svc).Check(context.Background()).Status)

	// A config with decode issues degrades but stays up.
	require.NoError(t, os.WriteFile(svc.Path(), []byte("fps_limit=abc\n"), 0o644))
	require.NoError(t, svc.Load(context.Background(), "manual"))
	assert.Equal(t, StatusDegraded, NewOverlayChecker(svc).Check(context.Background()).Status)
}
