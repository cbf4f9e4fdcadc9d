package gradmesh

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Topology selects how consecutive vertices are assembled into primitives.
// The shading stage behaves identically under every topology; only the
// rasterizer's coverage rule changes.
type Topology int

const (
	// TriangleList assembles every three vertices into a triangle.
	TriangleList Topology = iota
	// LineList assembles every two vertices into a line segment.
	LineList
	// PointList draws every vertex as a one-pixel point.
	PointList
)

// Vertices returns the number of vertices that make up one primitive.
func (t Topology) Vertices() int {
	switch t {
	case PointList:
		return 1
	case LineList:
		return 2
	default:
		return 3
	}
}

// Valid reports whether t is a known topology.
func (t Topology) Valid() bool {
	return t == TriangleList || t == LineList || t == PointList
}

// GPUTopology maps t to the WebGPU primitive topology.
func (t Topology) GPUTopology() gputypes.PrimitiveTopology {
	switch t {
	case PointList:
		return gputypes.PrimitiveTopologyPointList
	case LineList:
		return gputypes.PrimitiveTopologyLineList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

// String returns the topology name used on the command line.
func (t Topology) String() string {
	switch t {
	case TriangleList:
		return "triangles"
	case LineList:
		return "lines"
	case PointList:
		return "points"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// ParseTopology parses a topology name. Both the short form ("triangles")
// and the WebGPU form ("triangle-list") are accepted.
func ParseTopology(s string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "triangles", "triangle-list", "":
		return TriangleList, nil
	case "lines", "line-list":
		return LineList, nil
	case "points", "point-list":
		return PointList, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTopology, s)
}
