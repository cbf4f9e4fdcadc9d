// Package mesh reads and writes gradient meshes.
//
// A mesh file is a JSON object with three arrays: vertex positions in clip
// space, one RGB color per position, and an optional triangle index list:
//
//	{
//	  "positions": [[-1, -1, 0], [1, -1, 0], [0, 1, 0]],
//	  "colors":    [[1, 0, 0], [0, 1, 0], [0, 0, 1]],
//	  "indexes":   [0, 1, 2]
//	}
//
// Meshes without indexes draw their vertices in order.
package mesh

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/gradmesh"
)

var (
	// ErrLengthMismatch is returned when positions and colors differ in
	// length.
	ErrLengthMismatch = errors.New("mesh: positions and colors differ in length")

	// ErrEmpty is returned for a mesh without vertices.
	ErrEmpty = errors.New("mesh: no vertices")
)

// Mesh is an indexed, per-vertex colored mesh.
type Mesh struct {
	Positions []mgl32.Vec3 `json:"positions"`
	Colors    []mgl32.Vec3 `json:"colors"`
	Indexes   []uint32     `json:"indexes,omitempty"`
}

// Validate checks that every position has a color and every index refers
// to a vertex.
func (m *Mesh) Validate() error {
	if len(m.Positions) != len(m.Colors) {
		return fmt.Errorf("%w: %d positions, %d colors", ErrLengthMismatch, len(m.Positions), len(m.Colors))
	}
	if len(m.Positions) == 0 {
		return ErrEmpty
	}
	n := uint32(len(m.Positions)) //nolint:gosec // vertex count fits uint32
	for i, idx := range m.Indexes {
		if idx >= n {
			return fmt.Errorf("mesh: %w: indexes[%d] = %d, %d vertices", gradmesh.ErrIndexOutOfRange, i, idx, n)
		}
	}
	return nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Vertices returns the vertex buffer records of the mesh.
func (m *Mesh) Vertices() []gradmesh.VertexIn {
	n := min(len(m.Positions), len(m.Colors))
	out := make([]gradmesh.VertexIn, n)
	for i := range out {
		out[i] = gradmesh.VertexIn{Pos: m.Positions[i], Color: m.Colors[i]}
	}
	return out
}

// VertexBuffer returns the vertices encoded in the 24-byte vertex layout.
func (m *Mesh) VertexBuffer() []byte {
	return gradmesh.EncodeVertices(m.Vertices())
}

// DrawCall returns a draw of the mesh with the given topology. The index
// list, if any, is used as is.
func (m *Mesh) DrawCall(topology gradmesh.Topology) gradmesh.DrawCall {
	return gradmesh.DrawCall{
		Vertices: m.Vertices(),
		Indices:  m.Indexes,
		Topology: topology,
	}
}

// Append adds the vertices and indexes of other to m, offsetting the
// appended indexes past the existing vertices. A non-indexed other is
// appended as a sequential index range when m is indexed.
func (m *Mesh) Append(other *Mesh) {
	base := uint32(len(m.Positions)) //nolint:gosec // vertex count fits uint32
	indexed := m.Indexes != nil || other.Indexes != nil
	if indexed && m.Indexes == nil {
		m.Indexes = sequence(0, base)
	}

	m.Positions = append(m.Positions, other.Positions...)
	m.Colors = append(m.Colors, other.Colors...)

	if !indexed {
		return
	}
	if other.Indexes == nil {
		m.Indexes = append(m.Indexes, sequence(base, uint32(len(other.Positions)))...) //nolint:gosec // vertex count fits uint32
		return
	}
	for _, idx := range other.Indexes {
		m.Indexes = append(m.Indexes, base+idx)
	}
}

func sequence(start, n uint32) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = start + uint32(i) //nolint:gosec // i < n
	}
	return out
}

// Load decodes and validates a mesh.
func Load(r io.Reader) (*Mesh, error) {
	var m Mesh
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("mesh: decode: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile reads a mesh file.
func LoadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: %w", err)
	}
	defer f.Close()

	m, err := Load(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	gradmesh.Logger().Debug("mesh: loaded", "path", path,
		"vertices", len(m.Positions), "indexes", len(m.Indexes))
	return m, nil
}

// Save encodes m as JSON.
func (m *Mesh) Save(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("mesh: encode: %w", err)
	}
	return nil
}

// SaveFile writes m to path, replacing any existing file.
func (m *Mesh) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mesh: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := m.Save(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("mesh: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("mesh: %w", err)
	}
	gradmesh.Logger().Debug("mesh: saved", "path", path, "vertices", len(m.Positions))
	return nil
}
