package main

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"index.m3u8", "1080p_0.m3u8", "1080p_0_000.ts",
		"poster.jpg", "progressive.mp4", "video-tag.html",
		"_0.mp4", "_1.mp4", "_0.txt", "_mp4.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	require.NoError(t, sweep(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"1080p_0.m3u8", "1080p_0_000.ts", "index.m3u8",
		"poster.jpg", "progressive.mp4", "video-tag.html",
	}, names)
}

func TestSweep_EmptyWorkspace(t *testing.T) {
	assert.NoError(t, sweep(t.TempDir()))
}

func TestSweep_MissingWorkspace(t *testing.T) {
	assert.Error(t, sweep(filepath.Join(t.TempDir(), "nope")))
}
