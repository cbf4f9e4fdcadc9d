// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import "image"

// Rasterize draws prims into the pixels of clip in submission order and
// returns the number of fragments shaded. Later primitives overwrite
// earlier ones; there is no depth test and no blending.
//
// Calls with disjoint clip rectangles may run concurrently on the same
// Framebuffer.
func (fb *Framebuffer) Rasterize(prims []Prepared, clip image.Rectangle, shade FragmentFunc) int {
	clip = clip.Intersect(fb.Bounds())
	if clip.Empty() {
		return 0
	}
	count := 0
	for i := range prims {
		p := &prims[i]
		if !p.Bounds.Overlaps(clip) {
			continue
		}
		switch p.kind {
		case KindTriangle:
			count += fb.rasterTriangle(p, clip, shade)
		case KindLine:
			count += fb.rasterLine(p, clip, shade)
		case KindPoint:
			count += fb.rasterPoint(p, clip, shade)
		}
	}
	return count
}
