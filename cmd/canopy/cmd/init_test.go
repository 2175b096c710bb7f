package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGoMod(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gomod := []byte("module example.com/app\n\ngo 1.24\n")
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), gomod, 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestInit_WritesStarterConfig(t *testing.T) {
	dir := writeGoMod(t)

	if err := runInit([]string{"--dir", dir}); err != nil {
		t.Fatalf("init: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "canopy.yaml"))
	if err != nil {
		t.Fatalf("read canopy.yaml: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("canopy.yaml is empty")
	}

	// A second init must not clobber the existing file.
	if err := runInit([]string{"--dir", dir}); err == nil {
		t.Fatal("init overwrote an existing canopy.yaml")
	}
}

func TestDoctor_AcceptsGeneratedConfig(t *testing.T) {
	dir := writeGoMod(t)

	if err := runInit([]string{"--dir", dir}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := runDoctor([]string{"--dir", dir}); err != nil {
		t.Fatalf("doctor: %v", err)
	}
}

func TestDoctor_ReportsInvalidPipeline(t *testing.T) {
	dir := writeGoMod(t)
	bad := []byte("pipeline:\n  batch_window_ms: -5\n")
	if err := os.WriteFile(filepath.Join(dir, "canopy.yaml"), bad, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runDoctor([]string{"--dir", dir}); err == nil {
		t.Fatal("doctor accepted a negative batching window")
	}
}
