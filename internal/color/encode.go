// Package color converts the float colors produced by fragment shading
// into the 8-bit storage formats of the color target.
//
// Shading happens in linear space. The sRGB encoding is applied only when
// a color is stored, and never to alpha.
package color

import (
	"image"
	stdcolor "image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Encoding is the transfer function applied on store.
type Encoding uint8

const (
	// Linear stores channels unchanged (UNORM).
	Linear Encoding = iota
	// SRGB applies the sRGB transfer function to the color channels.
	SRGB
)

// Unorm quantizes v to 8 bits, clamping to [0, 1] and rounding to nearest.
func Unorm(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// LinearToSRGB encodes a linear value using the lookup table.
func LinearToSRGB(v float32) uint8 {
	if !(v > 0) {
		return srgbLUT[0]
	}
	if v >= 1 {
		return srgbLUT[4095]
	}
	return srgbLUT[int(v*4095+0.5)]
}

// Encode converts c to an 8-bit RGBA color.
func Encode(c mgl32.Vec4, enc Encoding) stdcolor.RGBA {
	if enc == SRGB {
		return stdcolor.RGBA{R: LinearToSRGB(c[0]), G: LinearToSRGB(c[1]), B: LinearToSRGB(c[2]), A: Unorm(c[3])}
	}
	return stdcolor.RGBA{R: Unorm(c[0]), G: Unorm(c[1]), B: Unorm(c[2]), A: Unorm(c[3])}
}

// EncodeRect stores the colors returned by src for every pixel of r into
// dst. Disjoint rectangles may be encoded concurrently.
func EncodeRect(dst *image.RGBA, r image.Rectangle, enc Encoding, src func(x, y int) mgl32.Vec4) {
	r = r.Intersect(dst.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			c := Encode(src(x, y), enc)
			dst.Pix[off+0] = c.R
			dst.Pix[off+1] = c.G
			dst.Pix[off+2] = c.B
			dst.Pix[off+3] = c.A
			off += 4
		}
	}
}
