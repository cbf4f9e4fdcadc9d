package gradmesh

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ColorFormat is the storage format of the color target.
type ColorFormat int

const (
	// FormatRGBA8Unorm stores 8-bit channels without a transfer function.
	FormatRGBA8Unorm ColorFormat = iota
	// FormatRGBA8UnormSRGB stores 8-bit channels with the sRGB transfer
	// function applied on write.
	FormatRGBA8UnormSRGB
	// FormatRGBA32Float keeps full float precision; Image quantizes it
	// like FormatRGBA8Unorm.
	FormatRGBA32Float
)

// String returns the format name used on the command line.
func (f ColorFormat) String() string {
	switch f {
	case FormatRGBA8Unorm:
		return "unorm"
	case FormatRGBA8UnormSRGB:
		return "srgb"
	case FormatRGBA32Float:
		return "float"
	default:
		return fmt.Sprintf("ColorFormat(%d)", int(f))
	}
}

// ParseColorFormat parses a format name as returned by String.
func ParseColorFormat(s string) (ColorFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unorm", "rgba8unorm", "":
		return FormatRGBA8Unorm, nil
	case "srgb", "rgba8unorm-srgb":
		return FormatRGBA8UnormSRGB, nil
	case "float", "rgba32float":
		return FormatRGBA32Float, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// PipelineConfig describes the color target and scheduling of a render
// pipeline. It is passed explicitly to renderer constructors; there is no
// global pipeline state.
type PipelineConfig struct {
	// Width and Height are the color target dimensions in pixels.
	Width  int
	Height int

	// Format is the color target format.
	Format ColorFormat

	// SampleCount is the number of samples per pixel: 1, or 4 for MSAA.
	SampleCount int

	// ClearColor is written to every sample before the first draw.
	ClearColor mgl32.Vec4

	// Workers is the size of the CPU worker pool. Zero or negative means
	// GOMAXPROCS. GPU renderers ignore it.
	Workers int
}

// DefaultPipelineConfig returns a single-sampled RGBA8 target of the given
// size cleared to opaque black.
func DefaultPipelineConfig(width, height int) PipelineConfig {
	return PipelineConfig{
		Width:       width,
		Height:      height,
		Format:      FormatRGBA8Unorm,
		SampleCount: 1,
		ClearColor:  mgl32.Vec4{0, 0, 0, 1},
		Workers:     runtime.GOMAXPROCS(0),
	}
}

// Validate checks the configuration.
func (c *PipelineConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	if c.SampleCount != 1 && c.SampleCount != 4 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleCount, c.SampleCount)
	}
	switch c.Format {
	case FormatRGBA8Unorm, FormatRGBA8UnormSRGB, FormatRGBA32Float:
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, c.Format)
	}
	return nil
}
