package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sweep removes the transient files the pipeline leaves in the workspace.
// Intermediate artifacts (overlay text files, codec sample MP4s) all carry a
// leading underscore; everything else is deliverable output.
func sweep(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list workspace: %w", err)
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "_") {
			continue
		}
		logger.Debug().Msgf("remove transient file %s", e.Name())
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("remove transient file: %w", err)
		}
	}
	return nil
}
