package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRungVarsExpand(t *testing.T) {
	rv := rungVars{
		width:      1920,
		resolution: 1080,
		bitrate:    4500,
		codec:      "h264",
		name:       "Full HD",
		profile:    "high@5.1",
	}

	tests := []struct {
		pattern string
		index   string
		want    string
	}{
		{pattern: "{resolution}p_{index}", index: "0_%03d", want: "1080p_0_%03d"},
		{pattern: "{resolution}p_{index}", index: "0", want: "1080p_0"},
		{pattern: "{width}x{resolution}@{bitrate}", want: "1920x1080@4500"},
		{pattern: "{name} ({codec}, {profile})", want: "Full HD (h264, high@5.1)"},
		{pattern: "static", want: "static"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, rv.expand(tc.pattern, tc.index), tc.pattern)
	}
}

func TestSplitProfile(t *testing.T) {
	name, level, err := splitProfile("main@3.1")
	require.NoError(t, err)
	assert.Equal(t, "main", name)
	assert.Equal(t, "3.1", level)

	_, _, err = splitProfile("main")
	assert.Error(t, err)
}
