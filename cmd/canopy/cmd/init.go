package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/canopy-ui/canopy/pkg/config"
)

const starterConfig = `# Canopy runtime configuration.
pipeline:
  # Coalesce dirty marks raised within this window into one frame.
  batch_window_ms: 8
debug:
  log_frames: false
`

func init() {
	RegisterCommand(&Command{
		Name:  "init",
		Short: "Write a starter canopy.yaml",
		Long: `Write a starter canopy.yaml into the project root.

Fails if the file already exists.`,
		Usage: "canopy init [--dir DIR]",
		Run:   runInit,
	})
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	dir := fs.String("dir", "", "project directory (default: nearest go.mod)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	root := *dir
	if root == "" {
		found, err := config.FindProjectRoot()
		if err != nil {
			return err
		}
		root = found
	}

	path := filepath.Join(root, "canopy.yaml")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write canopy.yaml: %w", err)
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}
