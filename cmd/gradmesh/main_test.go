package main

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/gradmesh"
	"github.com/gogpu/gradmesh/mesh"
	"github.com/gogpu/gradmesh/patch"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { gradmesh.SetLogger(nil) })
	var stderr bytes.Buffer
	err := run(args, &stderr)
	return stderr.String(), err
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode(%s) = %v", path, err)
	}
	return img
}

func TestRunUsage(t *testing.T) {
	if _, err := runCLI(t); !errors.Is(err, errUsage) {
		t.Errorf("run() = %v, want usage error", err)
	}
	if _, err := runCLI(t, "paint"); !errors.Is(err, errUsage) {
		t.Errorf("run(paint) = %v, want usage error", err)
	}
	if _, err := runCLI(t, "help"); err != nil {
		t.Errorf("run(help) = %v", err)
	}
}

func TestGenerateThenRender(t *testing.T) {
	dir := t.TempDir()
	meshPath := filepath.Join(dir, "mesh.json")
	imgPath := filepath.Join(dir, "out.png")

	if _, err := runCLI(t, "generate", "-subdivs", "2", "-o", meshPath); err != nil {
		t.Fatalf("generate = %v", err)
	}
	m, err := mesh.LoadFile(meshPath)
	if err != nil {
		t.Fatalf("LoadFile() = %v", err)
	}
	if want := 4 * 4 * 4; m.VertexCount() != want {
		t.Errorf("generated %d vertices, want %d", m.VertexCount(), want)
	}

	logs, err := runCLI(t, "render", "-width", "32", "-height", "64", "-samples", "1", "-o", imgPath, meshPath)
	if err != nil {
		t.Fatalf("render = %v", err)
	}
	if !strings.Contains(logs, "msg=rendered") || !strings.Contains(logs, "backend=software") {
		t.Errorf("render log = %q", logs)
	}

	img := decodePNG(t, imgPath)
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 64 {
		t.Fatalf("image bounds = %v, want 32x64", b)
	}
	// The bottom row of the default grid is green, the middle row blue.
	r, g, b, a := img.At(16, 60).RGBA()
	if g>>8 < 180 || b>>8 > 80 || r>>8 > 10 || a>>8 != 255 {
		t.Errorf("bottom pixel = (%d, %d, %d, %d), want mostly green", r>>8, g>>8, b>>8, a>>8)
	}
	_, _, b, _ = img.At(16, 32).RGBA()
	if b>>8 < 200 {
		t.Errorf("middle pixel blue = %d, want mostly blue", b>>8)
	}
}

func TestRenderConfigFile(t *testing.T) {
	dir := t.TempDir()
	meshPath := filepath.Join(dir, "mesh.json")
	if err := patch.DefaultGrid().Build(0).SaveFile(meshPath); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "gradmesh.yaml")
	imgPath := filepath.Join(dir, "out.png")
	cfg := "render:\n  width: 20\n  height: 10\n  samples: 1\n  output: " + imgPath + "\n  clear: [1, 0, 0]\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	// -width on the command line wins over the file.
	if _, err := runCLI(t, "render", "-config", cfgPath, "-width", "16", "-topology", "points", meshPath); err != nil {
		t.Fatalf("render = %v", err)
	}
	img := decodePNG(t, imgPath)
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 10 {
		t.Errorf("image bounds = %v, want 16x10", b)
	}
	// Points leave most of the target at the clear color.
	if r, g, _, _ := img.At(3, 3).RGBA(); r>>8 != 255 || g>>8 != 0 {
		t.Errorf("clear pixel = (%d, %d), want red", r>>8, g>>8)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	meshPath := filepath.Join(dir, "mesh.json")
	if err := patch.DefaultGrid().Build(0).SaveFile(meshPath); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no mesh", []string{"render"}, nil},
		{"bad topology", []string{"render", "-topology", "quads", meshPath}, gradmesh.ErrUnknownTopology},
		{"bad format", []string{"render", "-format", "cmyk", meshPath}, gradmesh.ErrUnsupportedFormat},
		{"bad samples", []string{"render", "-samples", "2", "-o", filepath.Join(dir, "x.png"), meshPath}, gradmesh.ErrInvalidSampleCount},
		{"bad extension", []string{"render", "-o", filepath.Join(dir, "x.gif"), meshPath}, nil},
		{"bad backend", []string{"render", "-backend", "opengl", "-o", filepath.Join(dir, "x.png"), meshPath}, nil},
		{"missing mesh", []string{"render", filepath.Join(dir, "missing.json")}, os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("render succeeded")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("render = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateConfigGrid(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "gen.yaml")
	out := filepath.Join(dir, "grid.json")
	cfg := `generate:
  subdivs: 1
  output: ` + out + `
  grid:
    width: 2
    height: 2
    colors: [[1, 0, 0], [0, 1, 0], [0, 0, 1], [1, 1, 1]]
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "generate", "-config", cfgPath); err != nil {
		t.Fatalf("generate = %v", err)
	}
	m, err := mesh.LoadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	// One cell sampled on a 3x3 lattice.
	if m.VertexCount() != 9 || len(m.Indexes) != 24 {
		t.Errorf("mesh has %d vertices, %d indexes", m.VertexCount(), len(m.Indexes))
	}
	if m.Colors[0] != [3]float32{1, 0, 0} {
		t.Errorf("first color = %v, want red", m.Colors[0])
	}
}

func TestGenerateOutline(t *testing.T) {
	out := filepath.Join(t.TempDir(), "outline.json")
	if _, err := runCLI(t, "generate", "-outline", "-steps", "4", "-o", out); err != nil {
		t.Fatalf("generate = %v", err)
	}
	m, err := mesh.LoadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if m.VertexCount() != 4*4*4*2 || m.Indexes != nil {
		t.Errorf("outline mesh has %d vertices, indexed=%v", m.VertexCount(), m.Indexes != nil)
	}
}

func TestGridFromConfigErrors(t *testing.T) {
	if _, err := gridFromConfig(gridConfig{Width: 1, Height: 2, Colors: make([][3]float32, 2)}); !errors.Is(err, patch.ErrGridSize) {
		t.Errorf("gridFromConfig(1x2) = %v", err)
	}
	_, err := gridFromConfig(gridConfig{
		Width: 2, Height: 2,
		Colors:    make([][3]float32, 4),
		Positions: make([][2]float32, 3),
	})
	if err == nil {
		t.Error("gridFromConfig accepted 3 positions for 4 points")
	}
}

func TestWriteImageFormats(t *testing.T) {
	dir := t.TempDir()
	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	for _, name := range []string{"a.png", "a.bmp", "a.tiff", "a.TIF"} {
		path := filepath.Join(dir, name)
		if err := writeImage(path, src); err != nil {
			t.Fatalf("writeImage(%s) = %v", name, err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		var img image.Image
		switch strings.ToLower(filepath.Ext(name)) {
		case ".png":
			img, err = png.Decode(f)
		case ".bmp":
			img, err = bmp.Decode(f)
		default:
			img, err = tiff.Decode(f)
		}
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
			t.Errorf("%s bounds = %v", name, img.Bounds())
		}
	}
	if err := writeImage(filepath.Join(dir, "a.jpg"), src); err == nil {
		t.Error("writeImage(.jpg) succeeded")
	}
}

func TestScaleImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 20))
	if got := scaleImage(src, 1); got != src {
		t.Error("scaleImage(1) copied the image")
	}
	got := scaleImage(src, 0.5)
	if got.Bounds().Dx() != 5 || got.Bounds().Dy() != 10 {
		t.Errorf("scaleImage(0.5) bounds = %v", got.Bounds())
	}
	if got := scaleImage(src, 0.01); got.Bounds().Dx() != 1 {
		t.Errorf("tiny scale bounds = %v", got.Bounds())
	}
}

func TestClearColor(t *testing.T) {
	if _, err := clearColor([]float32{1, 2}); err == nil {
		t.Error("clearColor accepted two components")
	}
	c, err := clearColor([]float32{0.1, 0.2, 0.3})
	if err != nil || c[3] != 1 {
		t.Errorf("clearColor(rgb) = %v, %v", c, err)
	}
}
