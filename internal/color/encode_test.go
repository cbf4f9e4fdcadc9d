package color

import (
	"image"
	stdcolor "image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestUnorm(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{0.5, 128},
		{1.0 / 255, 1},
		{1, 255},
		{2, 255},
		{float32(math.NaN()), 0},
	}
	for _, tt := range tests {
		if got := Unorm(tt.in); got != tt.want {
			t.Errorf("Unorm(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLinearToSRGBMatchesExact(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		l := float32(i) / 1000
		fast, exact := int(LinearToSRGB(l)), int(linearToSRGBExact(l))
		if d := fast - exact; d > 1 || d < -1 {
			t.Errorf("LinearToSRGB(%v) = %d, exact %d", l, fast, exact)
		}
	}
}

func TestLinearToSRGBKnownValues(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{0, 0},
		{0.5, 188},
		{1, 255},
	}
	for _, tt := range tests {
		if got := LinearToSRGB(tt.in); got != tt.want {
			t.Errorf("LinearToSRGB(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSRGBRoundTrip(t *testing.T) {
	for i := range 256 {
		s := uint8(i)
		if got := LinearToSRGB(srgbToLinear(s)); got != s {
			d := int(got) - int(s)
			if d > 1 || d < -1 {
				t.Errorf("round trip %d -> %d", s, got)
			}
		}
	}
}

func TestEncodeAlphaLinear(t *testing.T) {
	c := mgl32.Vec4{0.5, 0.5, 0.5, 0.5}
	tests := []struct {
		enc  Encoding
		want stdcolor.RGBA
	}{
		{Linear, stdcolor.RGBA{R: 128, G: 128, B: 128, A: 128}},
		{SRGB, stdcolor.RGBA{R: 188, G: 188, B: 188, A: 128}},
	}
	for _, tt := range tests {
		if got := Encode(c, tt.enc); got != tt.want {
			t.Errorf("Encode(%v, %d) = %v, want %v", c, tt.enc, got, tt.want)
		}
	}
}

func TestEncodeRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	EncodeRect(img, image.Rect(1, 1, 3, 3), Linear, func(x, y int) mgl32.Vec4 {
		return mgl32.Vec4{1, 0, 0, 1}
	})

	for y := range 4 {
		for x := range 4 {
			got := img.RGBAAt(x, y)
			inside := x >= 1 && x < 3 && y >= 1 && y < 3
			want := stdcolor.RGBA{}
			if inside {
				want = stdcolor.RGBA{R: 255, A: 255}
			}
			if got != want {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

// srgbToLinear decodes an 8-bit sRGB value with the exact transfer function.
func srgbToLinear(s uint8) float32 {
	sf := float64(s) / 255
	if sf <= 0.04045 {
		return float32(sf / 12.92)
	}
	return float32(math.Pow((sf+0.055)/1.055, 2.4))
}
