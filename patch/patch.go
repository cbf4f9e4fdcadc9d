// Package patch generates gradient meshes from a grid of Ferguson patches.
//
// A Grid is a row-major lattice of control points on the unit square. Every
// cell between four neighboring points is a bicubic Hermite (Ferguson)
// patch: positions and colors are blended with the cubic Hermite basis,
// and the position tangents shape the patch boundaries. Build samples every
// patch on a regular lattice and triangulates it into a mesh.Mesh.
package patch

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/gradmesh"
	"github.com/gogpu/gradmesh/mesh"
)

var (
	// ErrGridSize is returned for grids with fewer than two points along
	// an axis.
	ErrGridSize = errors.New("patch: grid must be at least 2x2")

	// ErrColorCount is returned when the number of colors does not match
	// the number of control points.
	ErrColorCount = errors.New("patch: color count does not match grid size")
)

// ControlPoint is one vertex of the patch grid.
type ControlPoint struct {
	Position mgl32.Vec2
	UTangent mgl32.Vec2
	VTangent mgl32.Vec2
	Color    mgl32.Vec3
}

// Grid is a width x height lattice of control points, stored row by row.
type Grid struct {
	width  int
	height int
	points []ControlPoint
}

// NewGrid creates a grid of evenly spaced control points on the unit
// square. colors holds one color per point in row-major order.
func NewGrid(width, height int, colors []mgl32.Vec3) (*Grid, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrGridSize, width, height)
	}
	if len(colors) != width*height {
		return nil, fmt.Errorf("%w: %d colors for %dx%d points", ErrColorCount, len(colors), width, height)
	}

	xStep := 1 / float32(width-1)
	yStep := 1 / float32(height-1)
	points := make([]ControlPoint, width*height)
	for i := range points {
		points[i] = ControlPoint{
			Position: mgl32.Vec2{float32(i%width) * xStep, float32(i/width) * yStep},
			UTangent: mgl32.Vec2{xStep, 0},
			VTangent: mgl32.Vec2{0, yStep},
			Color:    colors[i],
		}
	}
	return &Grid{width: width, height: height, points: points}, nil
}

// DefaultGrid returns a 3x3 grid with a black top row, a blue middle row
// and a green bottom row.
func DefaultGrid() *Grid {
	black := mgl32.Vec3{0, 0, 0}
	blue := mgl32.Vec3{0, 0, 1}
	green := mgl32.Vec3{0, 1, 0}
	g, err := NewGrid(3, 3, []mgl32.Vec3{
		black, black, black,
		blue, blue, blue,
		green, green, green,
	})
	if err != nil {
		panic(err)
	}
	return g
}

// Width returns the number of control points per row.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the number of control points.
func (g *Grid) Len() int { return len(g.points) }

// Point returns the control point in column w of row h.
func (g *Grid) Point(w, h int) ControlPoint {
	return g.points[h*g.width+w]
}

// At returns control point i in row-major order.
func (g *Grid) At(i int) ControlPoint {
	return g.points[i]
}

// SetPosition moves control point i. Positions are not clamped.
func (g *Grid) SetPosition(i int, p mgl32.Vec2) {
	g.points[i].Position = p
}

// SetColor recolors control point i.
func (g *Grid) SetColor(i int, c mgl32.Vec3) {
	g.points[i].Color = c
}

// Cell returns the patch between columns w, w+1 and rows h, h+1.
func (g *Grid) Cell(w, h int) Patch {
	return newPatch(g.Point(w, h), g.Point(w, h+1), g.Point(w+1, h), g.Point(w+1, h+1))
}

// Build samples every cell on a (subdivs+2) x (subdivs+2) lattice and
// returns the triangulated mesh in clip space. Cells are emitted column by
// column; every cell owns its vertices, so edges shared between cells are
// duplicated.
func (g *Grid) Build(subdivs int) *mesh.Mesh {
	subdivs = max(subdivs, 0)
	steps := subdivs + 1
	rowLen := steps + 1
	cells := (g.width - 1) * (g.height - 1)

	m := &mesh.Mesh{
		Positions: make([]mgl32.Vec3, 0, cells*rowLen*rowLen),
		Colors:    make([]mgl32.Vec3, 0, cells*rowLen*rowLen),
		Indexes:   make([]uint32, 0, cells*steps*steps*6),
	}
	for w := range g.width - 1 {
		for h := range g.height - 1 {
			cell := g.Cell(w, h)
			cell.appendLattice(m, steps)
		}
	}

	gradmesh.Logger().Debug("patch: mesh built",
		"grid", fmt.Sprintf("%dx%d", g.width, g.height),
		"subdivs", subdivs,
		"vertices", len(m.Positions),
		"triangles", len(m.Indexes)/3)
	return m
}

// Outline returns the boundary curves of every cell as a line-list mesh,
// each curve split into steps segments.
func (g *Grid) Outline(steps int) *mesh.Mesh {
	steps = max(steps, 1)
	m := &mesh.Mesh{}
	for w := range g.width - 1 {
		for h := range g.height - 1 {
			c := g.Cell(w, h)
			for _, edge := range [4]struct {
				fixed float32
				alongU bool
			}{{0, false}, {1, false}, {0, true}, {1, true}} {
				c.appendCurve(m, steps, edge.fixed, edge.alongU)
			}
		}
	}
	return m
}

// ToClip maps a point of the unit square to clip space, with y pointing up.
func ToClip(p mgl32.Vec2) mgl32.Vec3 {
	return mgl32.Vec3{2*p[0] - 1, -(2*p[1] - 1), 0}
}
