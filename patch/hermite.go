package patch

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/gradmesh/mesh"
)

// hermite maps (t³, t², t, 1) to the four cubic Hermite basis functions:
// start value, end value, start tangent, end tangent.
var hermite = mgl32.Mat4FromRows(
	mgl32.Vec4{2, -3, 0, 1},
	mgl32.Vec4{-2, 3, 0, 0},
	mgl32.Vec4{1, -2, 1, 0},
	mgl32.Vec4{1, -1, 0, 0},
)

// Patch is one Ferguson patch. Each scalar channel has a coefficient
// matrix M and evaluates to (H·v̂)ᵀ M (H·û).
//
// u runs from the first to the second row of the cell, v from the first to
// the second column.
type Patch struct {
	x, y    mgl32.Mat4
	r, g, b mgl32.Mat4
}

func newPatch(p00, p01, p10, p11 ControlPoint) Patch {
	geometric := func(axis int) mgl32.Mat4 {
		return mgl32.Mat4FromRows(
			mgl32.Vec4{p00.Position[axis], p01.Position[axis], p00.VTangent[axis], p01.VTangent[axis]},
			mgl32.Vec4{p10.Position[axis], p11.Position[axis], p10.VTangent[axis], p11.VTangent[axis]},
			mgl32.Vec4{p00.UTangent[axis], p01.UTangent[axis], 0, 0},
			mgl32.Vec4{p10.UTangent[axis], p11.UTangent[axis], 0, 0},
		)
	}
	// Colors blend bilinearly through the Hermite basis, with flat tangents.
	color := func(ch int) mgl32.Mat4 {
		return mgl32.Mat4FromRows(
			mgl32.Vec4{p00.Color[ch], p01.Color[ch], 0, 0},
			mgl32.Vec4{p10.Color[ch], p11.Color[ch], 0, 0},
			mgl32.Vec4{},
			mgl32.Vec4{},
		)
	}
	return Patch{
		x: geometric(0), y: geometric(1),
		r: color(0), g: color(1), b: color(2),
	}
}

func cubic(t float32) mgl32.Vec4 {
	return mgl32.Vec4{t * t * t, t * t, t, 1}
}

// Eval returns the unit-square position and the color of the patch at
// (u, v).
func (p *Patch) Eval(u, v float32) (mgl32.Vec2, mgl32.Vec3) {
	hu := hermite.Mul4x1(cubic(u))
	hv := hermite.Mul4x1(cubic(v))
	at := func(m mgl32.Mat4) float32 {
		return hv.Dot(m.Mul4x1(hu))
	}
	return mgl32.Vec2{at(p.x), at(p.y)}, mgl32.Vec3{at(p.r), at(p.g), at(p.b)}
}

// appendLattice samples the patch on a (steps+1)² lattice and appends the
// vertices and two triangles per lattice quad to m.
func (p *Patch) appendLattice(m *mesh.Mesh, steps int) {
	start := len(m.Positions)
	for i := range steps + 1 {
		for j := range steps + 1 {
			pos, col := p.Eval(float32(i)/float32(steps), float32(j)/float32(steps))
			m.Positions = append(m.Positions, ToClip(pos))
			m.Colors = append(m.Colors, col)
		}
	}

	rowLen := steps + 1
	for r := range steps {
		for c := range steps {
			base := start + r*rowLen + c
			m.Indexes = append(m.Indexes,
				uint32(base+rowLen), uint32(base+1), uint32(base), //nolint:gosec // mesh sizes fit uint32
				uint32(base+rowLen), uint32(base+rowLen+1), uint32(base+1), //nolint:gosec // mesh sizes fit uint32
			)
		}
	}
}

// appendCurve appends one boundary curve as line segments. The curve runs
// along u with v fixed when alongU is set, and along v otherwise.
func (p *Patch) appendCurve(m *mesh.Mesh, steps int, fixed float32, alongU bool) {
	eval := func(t float32) (mgl32.Vec2, mgl32.Vec3) {
		if alongU {
			return p.Eval(t, fixed)
		}
		return p.Eval(fixed, t)
	}
	lastPos, lastCol := eval(0)
	for i := 1; i <= steps; i++ {
		pos, col := eval(float32(i) / float32(steps))
		m.Positions = append(m.Positions, ToClip(lastPos), ToClip(pos))
		m.Colors = append(m.Colors, lastCol, col)
		lastPos, lastCol = pos, col
	}
}
