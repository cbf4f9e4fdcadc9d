package gradmesh

import "errors"

// Errors reported by the host layer. The shading stage itself never fails;
// these describe malformed draws and pipeline configurations.
var (
	// ErrStrideMismatch is returned when a vertex buffer length is not a
	// multiple of VertexStride.
	ErrStrideMismatch = errors.New("gradmesh: vertex buffer length is not a multiple of the vertex stride")

	// ErrIndexOutOfRange is returned when an index refers past the end of
	// the vertex buffer.
	ErrIndexOutOfRange = errors.New("gradmesh: index out of range")

	// ErrEmptyDraw is returned for a draw call without vertices.
	ErrEmptyDraw = errors.New("gradmesh: draw call has no vertices")

	// ErrUnknownTopology is returned for topologies outside PointList,
	// LineList and TriangleList.
	ErrUnknownTopology = errors.New("gradmesh: unknown primitive topology")

	// ErrInvalidSize is returned for non-positive color target dimensions.
	ErrInvalidSize = errors.New("gradmesh: color target size must be positive")

	// ErrInvalidSampleCount is returned for sample counts other than 1 and 4.
	ErrInvalidSampleCount = errors.New("gradmesh: sample count must be 1 or 4")

	// ErrUnsupportedFormat is returned when a renderer cannot write the
	// requested color target format.
	ErrUnsupportedFormat = errors.New("gradmesh: unsupported color target format")

	// ErrRendererClosed is returned by Draw after Close.
	ErrRendererClosed = errors.New("gradmesh: renderer is closed")
)
