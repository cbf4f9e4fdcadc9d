// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"
	"math"
)

// rasterLine draws a one-pixel-wide segment with a major-axis DDA.
//
// One pixel is produced per pixel center crossed along the major axis.
// The segment is half-open: the column (or row) of the end vertex is not
// drawn, so a strip of connected lines touches each shared vertex once.
// Lines cover every sample of the pixels they touch.
func (fb *Framebuffer) rasterLine(p *Prepared, clip image.Rectangle, shade FragmentFunc) int {
	r := p.Bounds.Intersect(clip)
	if r.Empty() {
		return 0
	}
	a, b := p.s[0], p.s[1]
	dx, dy := b.x-a.x, b.y-a.y

	xMajor := math.Abs(dx) >= math.Abs(dy)
	a0, a1, d := a.y, b.y, dy
	lo, hi := r.Min.Y, r.Max.Y
	if xMajor {
		a0, a1, d = a.x, b.x, dx
		lo, hi = r.Min.X, r.Max.X
	}

	first, last := majorRange(a0, a1)
	first = max(first, lo)
	last = min(last, hi-1)

	all := uint32(1)<<fb.samples - 1
	count := 0
	for i := first; i <= last; i++ {
		center := float64(i) + 0.5
		t := (center - a0) / d
		if t < 0 || t > 1 {
			continue
		}
		var x, y int
		if xMajor {
			x, y = i, int(math.Floor(a.y+t*dy))
		} else {
			x, y = int(math.Floor(a.x+t*dx)), i
		}
		if !(image.Point{X: x, Y: y}).In(r) {
			continue
		}
		z := a.z + t*(b.z-a.z)
		if !depthVisible(z) {
			continue
		}

		frag := Vertex{Color: lerpColor(p.v[0].Color, p.v[1].Color, t)}
		frag.Position[0] = float32(x) + 0.5
		frag.Position[1] = float32(y) + 0.5
		frag.Position[2] = float32(z)
		frag.Position[3] = 1

		fb.store(x, y, all, shade(frag))
		count++
	}
	return count
}

// majorRange returns the inclusive range of pixel indices whose centers
// lie in [a0, a1) when walking from a0 toward a1.
func majorRange(a0, a1 float64) (first, last int) {
	if a1 > a0 {
		return int(math.Ceil(a0 - 0.5)), int(math.Ceil(a1-0.5)) - 1
	}
	return int(math.Floor(a1-0.5)) + 1, int(math.Floor(a0 - 0.5))
}
