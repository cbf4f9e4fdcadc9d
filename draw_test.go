package gradmesh

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func quad() []VertexIn {
	return []VertexIn{
		{Pos: mgl32.Vec3{-1, -1, 0}, Color: mgl32.Vec3{1, 0, 0}},
		{Pos: mgl32.Vec3{1, -1, 0}, Color: mgl32.Vec3{0, 1, 0}},
		{Pos: mgl32.Vec3{1, 1, 0}, Color: mgl32.Vec3{0, 0, 1}},
		{Pos: mgl32.Vec3{-1, 1, 0}, Color: mgl32.Vec3{1, 1, 1}},
	}
}

func TestDrawCallValidate(t *testing.T) {
	tests := []struct {
		name    string
		call    DrawCall
		wantErr error
	}{
		{"non-indexed", DrawCall{Vertices: quad()}, nil},
		{"indexed", DrawCall{Vertices: quad(), Indices: []uint32{0, 1, 2, 0, 2, 3}}, nil},
		{"index out of range", DrawCall{Vertices: quad(), Indices: []uint32{0, 1, 4}}, ErrIndexOutOfRange},
		{"no vertices", DrawCall{}, ErrEmptyDraw},
		{"unknown topology", DrawCall{Vertices: quad(), Topology: Topology(9)}, ErrUnknownTopology},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDrawCallPrimitiveCount(t *testing.T) {
	tests := []struct {
		name string
		call DrawCall
		want int
	}{
		{"triangles", DrawCall{Vertices: quad(), Indices: []uint32{0, 1, 2, 0, 2, 3}}, 2},
		{"trailing vertex ignored", DrawCall{Vertices: quad()}, 1},
		{"lines", DrawCall{Vertices: quad(), Topology: LineList}, 2},
		{"points", DrawCall{Vertices: quad(), Topology: PointList}, 4},
		{"indexed points", DrawCall{Vertices: quad(), Indices: []uint32{3, 3}, Topology: PointList}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.call.PrimitiveCount(); got != tt.want {
				t.Errorf("PrimitiveCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDrawCallExpand(t *testing.T) {
	v := quad()
	call := DrawCall{Vertices: v, Indices: []uint32{0, 1, 2, 0, 2, 3, 1}}
	got := call.Expand()

	want := []VertexIn{v[0], v[1], v[2], v[0], v[2], v[3]}
	if len(got) != len(want) {
		t.Fatalf("len(Expand()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expand()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
