package main

import (
	"fmt"
)

type vsize struct {
	w, h int
}

func (v vsize) String() string {
	return fmt.Sprintf("%dx%d", v.w, v.h)
}

func (v vsize) Scale() string {
	return fmt.Sprintf("scale=%d:%d", v.w, v.h)
}

// containedIn returns the dimensions ensuring the original video fits inside
// the target while keeping its aspect ratio. Both dimensions are rounded down
// to even values, as encoders require.
func (v vsize) containedIn(target vsize) vsize {
	ratio := float64(v.w) / float64(v.h)
	w, h := target.w, target.h
	if float64(w)/ratio > float64(h) {
		w = int(float64(h) * ratio)
	} else {
		h = int(float64(w) / ratio)
	}
	return vsize{w: w / 2 * 2, h: h / 2 * 2}
}
