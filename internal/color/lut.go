package color

import "math"

// srgbLUT maps a 12-bit linear value to its 8-bit sRGB encoding.
// 4096 entries keep the error within one step of the exact transfer
// function for every 8-bit output.
var srgbLUT [4096]uint8

func init() {
	for i := range srgbLUT {
		srgbLUT[i] = linearToSRGBExact(float32(i) / 4095)
	}
}

// linearToSRGBExact encodes l with the piecewise sRGB transfer function.
func linearToSRGBExact(l float32) uint8 {
	lf := math.Min(math.Max(float64(l), 0), 1)
	var s float64
	if lf <= 0.0031308 {
		s = lf * 12.92
	} else {
		s = 1.055*math.Pow(lf, 1.0/2.4) - 0.055
	}
	//nolint:gosec // G115: s is in [0,1]
	return uint8(math.Min(s*255+0.5, 255))
}
