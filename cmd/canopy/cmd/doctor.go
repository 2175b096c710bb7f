package cmd

import (
	"flag"
	"fmt"

	"github.com/canopy-ui/canopy/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "doctor",
		Short: "Check the project configuration",
		Long: `Check the current project for a valid canopy.yaml.

Resolves the host Go module, validates the pipeline settings and prints
the effective configuration.`,
		Usage: "canopy doctor [--dir DIR]",
		Run:   runDoctor,
	})
}

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
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

	resolved, err := config.Resolve(root)
	if err != nil {
		return fmt.Errorf("doctor: %w", err)
	}

	fmt.Printf("Project: %s\n", resolved.Root)
	fmt.Printf("Module:  %s\n", resolved.ModulePath)
	if resolved.BatchWindow == 0 {
		fmt.Println("Batching: disabled")
	} else {
		fmt.Printf("Batching: %s window\n", resolved.BatchWindow)
	}
	fmt.Printf("Debug:   log_frames=%v paint_bounds=%v\n",
		resolved.Debug.LogFrames, resolved.Debug.PaintBounds)
	fmt.Println()
	fmt.Println("No problems found.")
	return nil
}
