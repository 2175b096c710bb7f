// Package config loads the optional canopy.yaml runtime configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/canopy-ui/canopy/pkg/core"
)

// DefaultBatchWindow is the mark-coalescing window used when canopy.yaml
// does not set one.
const DefaultBatchWindow = 8 * time.Millisecond

// Config represents the optional canopy.yaml configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Debug    DebugConfig    `yaml:"debug"`
}

// PipelineConfig contains frame pipeline settings.
type PipelineConfig struct {
	// Batching enables coalescing of dirty marks into one frame.
	// Nil means enabled.
	Batching *bool `yaml:"batching,omitempty"`
	// BatchWindowMS is the coalescing window in milliseconds.
	BatchWindowMS int `yaml:"batch_window_ms,omitempty"`
}

// DebugConfig contains diagnostic settings.
type DebugConfig struct {
	LogFrames   bool `yaml:"log_frames,omitempty"`
	PaintBounds bool `yaml:"paint_bounds,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root        string
	ModulePath  string
	BatchWindow time.Duration
	Debug       DebugConfig
}

// Options converts the resolved configuration into pipeline options.
func (r *Resolved) Options() core.Options {
	return core.Options{BatchWindow: r.BatchWindow}
}

// LoadOptional reads canopy.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "canopy.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read canopy.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse canopy.yaml: %w", err)
	}

	return &cfg, nil
}

// Resolve loads canopy.yaml (if present) and resolves defaults against the
// host module.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := hostModulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	window, err := cfg.Pipeline.window()
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Root:        dir,
		ModulePath:  modulePath,
		BatchWindow: window,
		Debug:       cfg.Debug,
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func (p PipelineConfig) window() (time.Duration, error) {
	if p.BatchWindowMS < 0 {
		return 0, fmt.Errorf("pipeline.batch_window_ms must not be negative (got %d)", p.BatchWindowMS)
	}
	if p.Batching != nil && !*p.Batching {
		if p.BatchWindowMS != 0 {
			return 0, fmt.Errorf("pipeline.batch_window_ms set but batching is disabled")
		}
		return 0, nil
	}
	if p.BatchWindowMS == 0 {
		return DefaultBatchWindow, nil
	}
	return time.Duration(p.BatchWindowMS) * time.Millisecond, nil
}

func hostModulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	if err := module.CheckPath(path); err != nil {
		return "", fmt.Errorf("invalid module path %q: %w", path, err)
	}
	return path, nil
}
