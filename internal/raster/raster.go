// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster implements the fixed-function part of the software
// pipeline: viewport mapping, primitive coverage, attribute interpolation
// and the multisampled color target.
//
// The package knows nothing about how vertices were produced or how
// fragments are colored. Callers hand it vertex-stage outputs and a
// fragment function; it calls the function once per covered pixel.
package raster

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is a vertex-stage output (internal copy to avoid import cycle).
// Position is the clip-space position, Color the attribute to interpolate.
type Vertex struct {
	Position mgl32.Vec4
	Color    mgl32.Vec4
}

// FragmentFunc shades one fragment. The Position of the argument holds the
// window-space coordinate (x+0.5, y+0.5, z, 1) of the pixel center and Color
// the interpolated attribute.
type FragmentFunc func(frag Vertex) mgl32.Vec4

// Kind is the primitive type.
type Kind uint8

const (
	// KindPoint is a single-vertex primitive covering one pixel.
	KindPoint Kind = iota + 1
	// KindLine is a two-vertex, one-pixel-wide segment.
	KindLine
	// KindTriangle is a filled three-vertex primitive.
	KindTriangle
)

// Primitive is an assembled primitive. Only the first 1, 2 or 3 vertices
// are used depending on Kind.
type Primitive struct {
	Kind Kind
	V    [3]Vertex
}

// window is a vertex position in window space.
type window struct {
	x, y, z float64
}

// toWindow applies the perspective divide and viewport transform.
// Clip-space y points up, window-space y points down.
func toWindow(p mgl32.Vec4, width, height int) window {
	w := float64(p[3])
	if w == 0 {
		w = 1
	}
	return window{
		x: (float64(p[0])/w + 1) * 0.5 * float64(width),
		y: (1 - float64(p[1])/w) * 0.5 * float64(height),
		z: float64(p[2]) / w,
	}
}

// Prepared is a primitive in window space, ready to be rasterized into any
// number of tiles.
type Prepared struct {
	kind Kind
	v    [3]Vertex
	s    [3]window

	// Bounds is the pixel region the primitive may touch, clamped to the
	// viewport.
	Bounds image.Rectangle

	// Triangle setup.
	area    float64
	topLeft [3]bool
}

// Prepare maps p to window space and computes its screen bounds. It returns
// false when the primitive cannot produce any fragment: zero-area
// triangles, zero-length lines, and anything entirely outside the viewport.
func Prepare(p Primitive, width, height int) (Prepared, bool) {
	pp := Prepared{kind: p.Kind, v: p.V}
	n := 0
	switch p.Kind {
	case KindPoint:
		n = 1
	case KindLine:
		n = 2
	case KindTriangle:
		n = 3
	default:
		return Prepared{}, false
	}
	for i := range n {
		pp.s[i] = toWindow(p.V[i].Position, width, height)
	}

	switch p.Kind {
	case KindTriangle:
		if !pp.setupTriangle() {
			return Prepared{}, false
		}
	case KindLine:
		if pp.s[0].x == pp.s[1].x && pp.s[0].y == pp.s[1].y {
			return Prepared{}, false
		}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range n {
		minX = math.Min(minX, pp.s[i].x)
		minY = math.Min(minY, pp.s[i].y)
		maxX = math.Max(maxX, pp.s[i].x)
		maxY = math.Max(maxY, pp.s[i].y)
	}
	bounds := image.Rect(
		clampInt(math.Floor(minX), width), clampInt(math.Floor(minY), height),
		clampInt(math.Floor(maxX)+1, width), clampInt(math.Floor(maxY)+1, height),
	)
	if bounds.Empty() {
		return Prepared{}, false
	}
	pp.Bounds = bounds
	return pp, true
}

// clampInt converts v to an int in [0, limit].
func clampInt(v float64, limit int) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= float64(limit) {
		return limit
	}
	return int(v)
}

// depthVisible reports whether z lies inside the [0, 1] depth range.
// Fragments outside it are clipped.
func depthVisible(z float64) bool {
	return z >= 0 && z <= 1
}

// lerpColor returns a*(1-t) + b*t.
func lerpColor(a, b mgl32.Vec4, t float64) mgl32.Vec4 {
	tf := float32(t)
	return a.Mul(1 - tf).Add(b.Mul(tf))
}
