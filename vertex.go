package gradmesh

import "github.com/go-gl/mathgl/mgl32"

// VertexIn is one record of the vertex buffer as the host uploads it.
//
// Pos is a clip-space position whose homogeneous w is implicitly 1.0.
// Color is an RGB triple, nominally in [0, 1]; values outside that range
// are passed through untouched.
type VertexIn struct {
	Pos   mgl32.Vec3
	Color mgl32.Vec3
}

// VertexOut is the record produced by VertexStage and interpolated by the
// rasterizer.
//
// After rasterization the same record is handed to FragmentStage. At that
// point Position holds the fragment's window-space coordinate
// (x+0.5, y+0.5, z, 1) instead of the original clip-space position, and
// Color holds the interpolated vertex color.
type VertexOut struct {
	Position mgl32.Vec4
	Color    mgl32.Vec4
}

// VertexStage maps one input vertex to one output vertex.
//
// The position is extended with w = 1 and the color with alpha = 1. No
// transform, clamping or bounds check is applied: coordinates outside the
// clip volume are discarded later by the rasterizer, not here.
//
// VertexStage is pure and safe to call from any number of goroutines.
func VertexStage(v VertexIn) VertexOut {
	return VertexOut{
		Position: v.Pos.Vec4(1),
		Color:    v.Color.Vec4(1),
	}
}

// FragmentStage returns the color written for one covered fragment.
// It is the identity on the interpolated color; Position is never read.
func FragmentStage(f VertexOut) mgl32.Vec4 {
	return f.Color
}
