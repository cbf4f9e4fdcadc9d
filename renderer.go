package gradmesh

import (
	"context"
	"image"
)

// Renderer executes draw calls against a color target.
//
// Implementations own their resources: the vertex buffers uploaded for a
// draw, the pipeline state and the color target. Draw clears the target to
// the configured clear color and then draws every call in order.
type Renderer interface {
	// Draw runs the shading stage for the given draw calls.
	// Returns an error if a draw call is malformed or rendering fails.
	Draw(ctx context.Context, calls ...DrawCall) error

	// Image returns the resolved color target as 8-bit RGBA.
	Image() *image.RGBA

	// Close releases the renderer's resources.
	Close() error
}

// DrawStats describes the work done by the last Draw.
type DrawStats struct {
	// Vertices is the number of vertex stage invocations.
	Vertices int
	// Primitives is the number of assembled primitives.
	Primitives int
	// Culled counts primitives that produced no coverage: degenerate, or
	// entirely outside the viewport.
	Culled int
	// Fragments is the number of fragment stage invocations.
	Fragments int
}
