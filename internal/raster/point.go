// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"
	"math"
)

// rasterPoint draws a one-pixel point: the pixel containing the vertex.
func (fb *Framebuffer) rasterPoint(p *Prepared, clip image.Rectangle, shade FragmentFunc) int {
	s := p.s[0]
	x, y := int(math.Floor(s.x)), int(math.Floor(s.y))
	if !(image.Point{X: x, Y: y}).In(p.Bounds.Intersect(clip)) || !depthVisible(s.z) {
		return 0
	}

	frag := Vertex{Color: p.v[0].Color}
	frag.Position[0] = float32(x) + 0.5
	frag.Position[1] = float32(y) + 0.5
	frag.Position[2] = float32(s.z)
	frag.Position[3] = 1

	fb.store(x, y, uint32(1)<<fb.samples-1, shade(frag))
	return 1
}
