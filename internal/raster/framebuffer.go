// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// samplePattern holds sample offsets within a pixel for each supported
// sample count. The 4x pattern is the standard rotated grid used by
// Vulkan and D3D.
var samplePattern = map[int][][2]float64{
	1: {{0.5, 0.5}},
	4: {
		{0.375, 0.125},
		{0.875, 0.375},
		{0.125, 0.625},
		{0.625, 0.875},
	},
}

// SampleCountSupported reports whether n samples per pixel can be
// rasterized.
func SampleCountSupported(n int) bool {
	_, ok := samplePattern[n]
	return ok
}

// Framebuffer is a multisampled float color target.
//
// Samples of pixel (x, y) are stored contiguously. Writes to disjoint
// rectangles may happen concurrently.
type Framebuffer struct {
	width   int
	height  int
	samples int
	offsets [][2]float64
	color   []mgl32.Vec4
}

// NewFramebuffer allocates a width x height target with the given number
// of samples per pixel. Unsupported sample counts fall back to 1.
func NewFramebuffer(width, height, samples int) *Framebuffer {
	if !SampleCountSupported(samples) {
		samples = 1
	}
	width = max(width, 0)
	height = max(height, 0)
	return &Framebuffer{
		width:   width,
		height:  height,
		samples: samples,
		offsets: samplePattern[samples],
		color:   make([]mgl32.Vec4, width*height*samples),
	}
}

// Width returns the target width in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the target height in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// Samples returns the number of samples per pixel.
func (fb *Framebuffer) Samples() int { return fb.samples }

// Bounds returns the target rectangle.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.width, fb.height)
}

// Clear sets every sample to c.
func (fb *Framebuffer) Clear(c mgl32.Vec4) {
	for i := range fb.color {
		fb.color[i] = c
	}
}

// Sample returns sample s of pixel (x, y).
func (fb *Framebuffer) Sample(x, y, s int) mgl32.Vec4 {
	return fb.color[(y*fb.width+x)*fb.samples+s]
}

// Resolve returns the average of all samples of pixel (x, y).
// Out-of-range coordinates return the zero vector.
func (fb *Framebuffer) Resolve(x, y int) mgl32.Vec4 {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return mgl32.Vec4{}
	}
	base := (y*fb.width + x) * fb.samples
	if fb.samples == 1 {
		return fb.color[base]
	}
	var sum mgl32.Vec4
	for _, c := range fb.color[base : base+fb.samples] {
		sum = sum.Add(c)
	}
	return sum.Mul(1 / float32(fb.samples))
}

// store writes c to the samples of pixel (x, y) selected by mask.
func (fb *Framebuffer) store(x, y int, mask uint32, c mgl32.Vec4) {
	base := (y*fb.width + x) * fb.samples
	for s := range fb.samples {
		if mask&(1<<s) != 0 {
			fb.color[base+s] = c
		}
	}
}
