package gradmesh

import "fmt"

// DrawCall is one draw issued by the host: a vertex buffer, an optional
// index buffer and the topology used to assemble primitives.
//
// When Indices is nil the vertices are consumed in order. Vertices (or
// indices) left over after the last complete primitive are ignored.
type DrawCall struct {
	Vertices []VertexIn
	Indices  []uint32
	Topology Topology
}

// Validate checks the draw call against the vertex buffer it references.
func (d *DrawCall) Validate() error {
	if !d.Topology.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownTopology, int(d.Topology))
	}
	if len(d.Vertices) == 0 {
		return ErrEmptyDraw
	}
	n := uint32(len(d.Vertices)) //nolint:gosec // vertex count fits uint32 for any uploadable buffer
	for i, idx := range d.Indices {
		if idx >= n {
			return fmt.Errorf("%w: indexes[%d] = %d, %d vertices", ErrIndexOutOfRange, i, idx, n)
		}
	}
	return nil
}

// ElementCount returns the number of vertices the pipeline fetches:
// the index count for indexed draws, the vertex count otherwise.
func (d *DrawCall) ElementCount() int {
	if d.Indices != nil {
		return len(d.Indices)
	}
	return len(d.Vertices)
}

// PrimitiveCount returns the number of complete primitives in the draw.
func (d *DrawCall) PrimitiveCount() int {
	return d.ElementCount() / d.Topology.Vertices()
}

// Element returns the vertex index fetched at position i of the draw.
func (d *DrawCall) Element(i int) int {
	if d.Indices != nil {
		return int(d.Indices[i])
	}
	return i
}

// Expand de-indexes the draw into a flat vertex list holding only complete
// primitives. The result can be uploaded as a non-indexed vertex buffer.
func (d *DrawCall) Expand() []VertexIn {
	count := d.PrimitiveCount() * d.Topology.Vertices()
	out := make([]VertexIn, count)
	for i := range out {
		out[i] = d.Vertices[d.Element(i)]
	}
	return out
}
