// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"
)

// edgeFunction returns twice the signed area of triangle (a, b, p).
// For a triangle with positive area it is positive on the interior side of
// every edge.
func edgeFunction(a, b window, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// isTopLeft reports whether the edge a->b of a positively oriented
// triangle is a top or a left edge. Samples exactly on such edges are
// covered; samples on the other edges are not, so pixels on an edge shared
// by two triangles are drawn exactly once.
func isTopLeft(a, b window) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return dy < 0 || (dy == 0 && dx > 0)
}

// setupTriangle orients the triangle and precomputes its edge rules.
// Both windings are accepted. It returns false for degenerate triangles.
func (p *Prepared) setupTriangle() bool {
	area := edgeFunction(p.s[0], p.s[1], p.s[2].x, p.s[2].y)
	if area == 0 {
		return false
	}
	if area < 0 {
		p.s[1], p.s[2] = p.s[2], p.s[1]
		p.v[1], p.v[2] = p.v[2], p.v[1]
		area = -area
	}
	p.area = area
	// Edge i is the one opposite vertex i.
	p.topLeft[0] = isTopLeft(p.s[1], p.s[2])
	p.topLeft[1] = isTopLeft(p.s[2], p.s[0])
	p.topLeft[2] = isTopLeft(p.s[0], p.s[1])
	return true
}

// edgeWeights evaluates the three edge functions at (px, py).
func (p *Prepared) edgeWeights(px, py float64) (w0, w1, w2 float64) {
	w0 = edgeFunction(p.s[1], p.s[2], px, py)
	w1 = edgeFunction(p.s[2], p.s[0], px, py)
	w2 = edgeFunction(p.s[0], p.s[1], px, py)
	return w0, w1, w2
}

// covers applies the top-left fill rule to a set of edge weights.
func (p *Prepared) covers(w0, w1, w2 float64) bool {
	return inside(w0, p.topLeft[0]) && inside(w1, p.topLeft[1]) && inside(w2, p.topLeft[2])
}

// depth interpolates window-space z from a set of edge weights.
func (p *Prepared) depth(w0, w1, w2 float64) float64 {
	return (w0*p.s[0].z + w1*p.s[1].z + w2*p.s[2].z) / p.area
}

func inside(w float64, topLeft bool) bool {
	return w > 0 || (w == 0 && topLeft)
}

// rasterTriangle shades every pixel of clip covered by the triangle and
// returns the number of fragments produced.
func (fb *Framebuffer) rasterTriangle(p *Prepared, clip image.Rectangle, shade FragmentFunc) int {
	r := p.Bounds.Intersect(clip)
	if r.Empty() {
		return 0
	}
	inv := 1 / p.area
	count := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		fy := float64(y)
		for x := r.Min.X; x < r.Max.X; x++ {
			fx := float64(x)

			// Coverage and depth clip are per sample.
			var mask uint32
			for s, off := range fb.offsets {
				w0, w1, w2 := p.edgeWeights(fx+off[0], fy+off[1])
				if p.covers(w0, w1, w2) && depthVisible(p.depth(w0, w1, w2)) {
					mask |= 1 << s
				}
			}
			if mask == 0 {
				continue
			}

			// Attributes are evaluated once per pixel at its center, even
			// when only some samples are covered.
			cx, cy := fx+0.5, fy+0.5
			w0, w1, w2 := p.edgeWeights(cx, cy)
			b0, b1, b2 := w0*inv, w1*inv, w2*inv
			z := p.depth(w0, w1, w2)

			c0, c1, c2 := float32(b0), float32(b1), float32(b2)
			frag := Vertex{
				Color: p.v[0].Color.Mul(c0).Add(p.v[1].Color.Mul(c1)).Add(p.v[2].Color.Mul(c2)),
			}
			frag.Position[0] = float32(cx)
			frag.Position[1] = float32(cy)
			frag.Position[2] = float32(z)
			frag.Position[3] = 1

			fb.store(x, y, mask, shade(frag))
			count++
		}
	}
	return count
}
