package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, modulePath, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	gomod := "module " + modulePath + "\n\ngo 1.24\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte(gomod), 0o644))
	if yaml != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "canopy.yaml"), []byte(yaml), 0o644))
	}
	return dir
}

func TestLoadOptional_MissingFileIsEmptyConfig(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg.Pipeline.Batching)
	assert.Zero(t, cfg.Pipeline.BatchWindowMS)
}

func TestLoadOptional_ParsesPipelineAndDebug(t *testing.T) {
	dir := writeProject(t, "example.com/app", `
pipeline:
  batching: true
  batch_window_ms: 16
debug:
  log_frames: true
`)

	cfg, err := LoadOptional(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg.Pipeline.Batching)
	assert.True(t, *cfg.Pipeline.Batching)
	assert.Equal(t, 16, cfg.Pipeline.BatchWindowMS)
	assert.True(t, cfg.Debug.LogFrames)
	assert.False(t, cfg.Debug.PaintBounds)
}

func TestLoadOptional_RejectsMalformedYAML(t *testing.T) {
	dir := writeProject(t, "example.com/app", "pipeline: [")

	_, err := LoadOptional(dir)
	assert.ErrorContains(t, err, "failed to parse canopy.yaml")
}

func TestResolve_DefaultsWithoutFile(t *testing.T) {
	dir := writeProject(t, "example.com/app", "")

	resolved, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", resolved.ModulePath)
	assert.Equal(t, DefaultBatchWindow, resolved.BatchWindow)
	assert.Equal(t, dir, resolved.Root)
}

func TestResolve_DisabledBatchingMeansZeroWindow(t *testing.T) {
	dir := writeProject(t, "example.com/app", `
pipeline:
  batching: false
`)

	resolved, err := Resolve(dir)
	require.NoError(t, err)
	assert.Zero(t, resolved.BatchWindow)
	assert.Zero(t, resolved.Options().BatchWindow)
}

func TestResolve_WindowConflictsWithDisabledBatching(t *testing.T) {
	dir := writeProject(t, "example.com/app", `
pipeline:
  batching: false
  batch_window_ms: 16
`)

	_, err := Resolve(dir)
	assert.ErrorContains(t, err, "batching is disabled")
}

func TestResolve_NegativeWindowRejected(t *testing.T) {
	dir := writeProject(t, "example.com/app", `
pipeline:
  batch_window_ms: -1
`)

	_, err := Resolve(dir)
	assert.ErrorContains(t, err, "must not be negative")
}

func TestResolve_CustomWindow(t *testing.T) {
	dir := writeProject(t, "example.com/app", `
pipeline:
  batch_window_ms: 4
`)

	resolved, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, 4*time.Millisecond, resolved.BatchWindow)
	assert.Equal(t, 4*time.Millisecond, resolved.Options().BatchWindow)
}

func TestResolve_RequiresGoMod(t *testing.T) {
	_, err := Resolve(t.TempDir())
	assert.ErrorContains(t, err, "go.mod")
}

func TestResolve_RejectsInvalidModulePath(t *testing.T) {
	dir := writeProject(t, "Example .com/ bad path!", "")

	_, err := Resolve(dir)
	assert.Error(t, err)
}
