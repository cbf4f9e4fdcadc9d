package gradmesh

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

func TestVertexBufferLayout(t *testing.T) {
	layouts := VertexBufferLayout()
	if len(layouts) != 1 {
		t.Fatalf("len(layouts) = %d, want 1", len(layouts))
	}
	l := layouts[0]
	if l.ArrayStride != 24 {
		t.Errorf("ArrayStride = %d, want 24", l.ArrayStride)
	}
	if l.StepMode != gputypes.VertexStepModeVertex {
		t.Errorf("StepMode = %v, want vertex", l.StepMode)
	}
	if len(l.Attributes) != 2 {
		t.Fatalf("len(Attributes) = %d, want 2", len(l.Attributes))
	}

	tests := []struct {
		name     string
		attr     gputypes.VertexAttribute
		offset   uint64
		location uint32
	}{
		{"position", l.Attributes[0], 0, 0},
		{"color", l.Attributes[1], 12, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Format != gputypes.VertexFormatFloat32x3 {
				t.Errorf("Format = %v, want float32x3", tt.attr.Format)
			}
			if uint64(tt.attr.Offset) != tt.offset {
				t.Errorf("Offset = %d, want %d", tt.attr.Offset, tt.offset)
			}
			if uint32(tt.attr.ShaderLocation) != tt.location {
				t.Errorf("ShaderLocation = %d, want %d", tt.attr.ShaderLocation, tt.location)
			}
		})
	}
}

func TestEncodeDecodeVertices(t *testing.T) {
	in := []VertexIn{
		{Pos: mgl32.Vec3{-1, -1, 0}, Color: mgl32.Vec3{1, 0, 0}},
		{Pos: mgl32.Vec3{1, -1, 0}, Color: mgl32.Vec3{0, 1, 0}},
		{Pos: mgl32.Vec3{0, 1, 0.5}, Color: mgl32.Vec3{0, 0, 1}},
	}
	buf := EncodeVertices(in)
	if len(buf) != len(in)*VertexStride {
		t.Fatalf("len(buf) = %d, want %d", len(buf), len(in)*VertexStride)
	}

	// Color of the first vertex starts at byte 12: 1.0f little endian.
	if got := buf[12:16]; got[0] != 0x00 || got[1] != 0x00 || got[2] != 0x80 || got[3] != 0x3F {
		t.Errorf("color.r bytes = % x, want 00 00 80 3f", got)
	}

	out, err := DecodeVertices(buf)
	if err != nil {
		t.Fatalf("DecodeVertices() = %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("vertex %d = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestDecodeVerticesStrideMismatch(t *testing.T) {
	for _, n := range []int{1, 23, 25, 47} {
		if _, err := DecodeVertices(make([]byte, n)); !errors.Is(err, ErrStrideMismatch) {
			t.Errorf("DecodeVertices(%d bytes) error = %v, want ErrStrideMismatch", n, err)
		}
	}
	if v, err := DecodeVertices(nil); err != nil || len(v) != 0 {
		t.Errorf("DecodeVertices(nil) = %v, %v", v, err)
	}
}
