package gradmesh

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
)

// Vertex buffer layout shared by the software pipeline and the WGSL shader.
//
//	position (vec3<f32>) = 12 bytes (location 0)
//	color    (vec3<f32>) = 12 bytes (location 1)
//
// Total = 24 bytes per vertex, tightly packed, little endian.
const (
	VertexStride     = 24
	PositionOffset   = 0
	ColorOffset      = 12
	PositionLocation = 0
	ColorLocation    = 1
)

// VertexBufferLayout returns the single vertex buffer layout expected by
// the shader: slot 0 position, slot 1 color, stepped per vertex.
func VertexBufferLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: PositionOffset, ShaderLocation: PositionLocation},
				{Format: gputypes.VertexFormatFloat32x3, Offset: ColorOffset, ShaderLocation: ColorLocation},
			},
		},
	}
}

// EncodeVertices packs vertices into a buffer laid out per VertexBufferLayout.
func EncodeVertices(vertices []VertexIn) []byte {
	return AppendVertices(make([]byte, 0, len(vertices)*VertexStride), vertices)
}

// AppendVertices appends the encoded vertices to buf and returns the
// extended buffer.
func AppendVertices(buf []byte, vertices []VertexIn) []byte {
	for i := range vertices {
		v := &vertices[i]
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Pos[0]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Pos[1]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Pos[2]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Color[0]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Color[1]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Color[2]))
	}
	return buf
}

// DecodeVertices unpacks a vertex buffer. The buffer length must be an exact
// multiple of VertexStride.
func DecodeVertices(buf []byte) ([]VertexIn, error) {
	if len(buf)%VertexStride != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrStrideMismatch, len(buf))
	}
	vertices := make([]VertexIn, len(buf)/VertexStride)
	for i := range vertices {
		rec := buf[i*VertexStride : (i+1)*VertexStride]
		v := &vertices[i]
		for c := 0; c < 3; c++ {
			v.Pos[c] = math.Float32frombits(binary.LittleEndian.Uint32(rec[PositionOffset+c*4:]))
			v.Color[c] = math.Float32frombits(binary.LittleEndian.Uint32(rec[ColorOffset+c*4:]))
		}
	}
	return vertices, nil
}
