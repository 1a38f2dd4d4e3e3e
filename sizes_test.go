package main

import (
	"testing"
)

func TestContainedIn(t *testing.T) {
	tests := []struct {
		name     string
		original vsize
		target   vsize
		expected vsize
	}{
		{
			name:     "16:9 source into 16:9 target",
			original: vsize{w: 1920, h: 1080},
			target:   vsize{w: 1280, h: 720},
			expected: vsize{w: 1280, h: 720},
		},
		{
			name:     "wide source is height-limited",
			original: vsize{w: 3840, h: 1610},
			target:   vsize{w: 1280, h: 720},
			expected: vsize{w: 1280, h: 536},
		},
		{
			name:     "tall source is width-limited",
			original: vsize{w: 1080, h: 1920},
			target:   vsize{w: 1280, h: 720},
			expected: vsize{w: 404, h: 720},
		},
		{
			name:     "odd results are rounded down to even",
			original: vsize{w: 1997, h: 1080},
			target:   vsize{w: 854, h: 480},
			expected: vsize{w: 854, h: 460},
		},
		{
			name:     "upscale is allowed",
			original: vsize{w: 640, h: 360},
			target:   vsize{w: 1280, h: 720},
			expected: vsize{w: 1280, h: 720},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.original.containedIn(tc.target)
			if got != tc.expected {
				t.Errorf("containedIn(%v, %v) = %v, want %v", tc.original, tc.target, got, tc.expected)
			}
			if got.w%2 != 0 || got.h%2 != 0 {
				t.Errorf("containedIn(%v, %v) = %v: dimensions must be even", tc.original, tc.target, got)
			}
		})
	}
}
