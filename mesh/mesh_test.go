package mesh

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/gradmesh"
)

const triangleJSON = `{
  "positions": [[-1, -1, 0], [1, -1, 0], [0, 1, 0]],
  "colors":    [[1, 0, 0], [0, 1, 0], [0, 0, 1]],
  "indexes":   [0, 1, 2]
}`

func TestLoad(t *testing.T) {
	m, err := Load(strings.NewReader(triangleJSON))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if m.VertexCount() != 3 || len(m.Indexes) != 3 {
		t.Fatalf("loaded %d vertices, %d indexes", m.VertexCount(), len(m.Indexes))
	}
	if m.Positions[2] != (mgl32.Vec3{0, 1, 0}) || m.Colors[1] != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("unexpected mesh contents: %+v", m)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr error
	}{
		{"length mismatch", `{"positions": [[0,0,0],[1,1,1]], "colors": [[1,1,1]]}`, ErrLengthMismatch},
		{"empty", `{"positions": [], "colors": []}`, ErrEmpty},
		{"index out of range", `{"positions": [[0,0,0]], "colors": [[1,1,1]], "indexes": [0, 1]}`, gradmesh.ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.json)); !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if _, err := Load(strings.NewReader("{not json")); err == nil {
		t.Error("Load(malformed) succeeded")
	}
}

func TestSaveLoadFile(t *testing.T) {
	m, err := Load(strings.NewReader(triangleJSON))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "mesh.json")
	if err := m.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() = %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() = %v", err)
	}
	for i := range m.Positions {
		if got.Positions[i] != m.Positions[i] || got.Colors[i] != m.Colors[i] {
			t.Errorf("vertex %d differs after round trip", i)
		}
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadFile(missing) succeeded")
	}
}

func TestSaveOmitsEmptyIndexes(t *testing.T) {
	m := &Mesh{Positions: []mgl32.Vec3{{0, 0, 0}}, Colors: []mgl32.Vec3{{1, 1, 1}}}
	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "indexes") {
		t.Errorf("non-indexed mesh wrote indexes: %s", buf.String())
	}
}

func TestDrawCall(t *testing.T) {
	m, err := Load(strings.NewReader(triangleJSON))
	if err != nil {
		t.Fatal(err)
	}
	call := m.DrawCall(gradmesh.TriangleList)
	if err := call.Validate(); err != nil {
		t.Fatalf("DrawCall().Validate() = %v", err)
	}
	if call.PrimitiveCount() != 1 {
		t.Errorf("PrimitiveCount() = %d, want 1", call.PrimitiveCount())
	}
	want := gradmesh.VertexIn{Pos: mgl32.Vec3{1, -1, 0}, Color: mgl32.Vec3{0, 1, 0}}
	if call.Vertices[1] != want {
		t.Errorf("Vertices[1] = %v, want %v", call.Vertices[1], want)
	}
	if n := len(m.VertexBuffer()); n != 3*gradmesh.VertexStride {
		t.Errorf("len(VertexBuffer()) = %d", n)
	}
}

func TestAppend(t *testing.T) {
	a := &Mesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Colors:    []mgl32.Vec3{{1, 0, 0}, {1, 0, 0}, {1, 0, 0}},
		Indexes:   []uint32{0, 1, 2},
	}
	b := &Mesh{
		Positions: []mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}},
		Colors:    []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Indexes:   []uint32{2, 1, 0},
	}
	a.Append(b)

	if a.VertexCount() != 6 {
		t.Fatalf("VertexCount() = %d, want 6", a.VertexCount())
	}
	want := []uint32{0, 1, 2, 5, 4, 3}
	for i, idx := range want {
		if a.Indexes[i] != idx {
			t.Errorf("Indexes[%d] = %d, want %d", i, a.Indexes[i], idx)
		}
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	plain := &Mesh{Positions: []mgl32.Vec3{{0, 0, 0}}, Colors: []mgl32.Vec3{{0, 0, 0}}}
	plain.Append(b)
	if want := []uint32{0, 3, 2, 1}; len(plain.Indexes) != 4 || plain.Indexes[0] != want[0] || plain.Indexes[1] != want[1] {
		t.Errorf("Append to non-indexed mesh: Indexes = %v, want %v", plain.Indexes, want)
	}
}
