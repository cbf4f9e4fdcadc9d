package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/gradmesh/mesh"
	"github.com/gogpu/gradmesh/patch"
)

func runGenerate(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		subdivs = fs.Int("subdivs", 0, "lattice subdivisions per patch")
		output  = fs.String("o", "", "output mesh file (default mesh-<unix time>-subdiv<n>.json)")
		outline = fs.Bool("outline", false, "write the patch boundaries as a line mesh")
		steps   = fs.Int("steps", 32, "segments per boundary curve with -outline")
		cfgPath = fs.String("config", "", "YAML configuration file")
		verbose = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("generate: unexpected arguments %v", fs.Args())
	}

	grid := patch.DefaultGrid()
	if *cfgPath != "" {
		fc, err := loadConfig(*cfgPath)
		if err != nil {
			return err
		}
		set := setFlags(fs)
		gc := fc.Generate
		merge(set, "subdivs", subdivs, gc.Subdivs)
		merge(set, "o", output, gc.Output)
		merge(set, "outline", outline, gc.Outline)
		merge(set, "steps", steps, gc.Steps)
		if gc.Grid.Width != 0 || gc.Grid.Height != 0 {
			if grid, err = gridFromConfig(gc.Grid); err != nil {
				return err
			}
		}
	}
	logger := setupLogging(stderr, *verbose)

	if *subdivs < 0 {
		return fmt.Errorf("generate: subdivs must not be negative, got %d", *subdivs)
	}
	if *output == "" {
		*output = fmt.Sprintf("mesh-%d-subdiv%d.json", time.Now().Unix(), *subdivs)
	}

	var m *mesh.Mesh
	if *outline {
		m = grid.Outline(*steps)
	} else {
		m = grid.Build(*subdivs)
	}
	if err := m.SaveFile(*output); err != nil {
		return err
	}
	logger.Info("mesh written",
		"output", *output,
		"grid", fmt.Sprintf("%dx%d", grid.Width(), grid.Height()),
		"vertices", m.VertexCount(),
		"indexes", len(m.Indexes))
	return nil
}

func gridFromConfig(gc gridConfig) (*patch.Grid, error) {
	colors := make([]mgl32.Vec3, len(gc.Colors))
	for i, c := range gc.Colors {
		colors[i] = mgl32.Vec3(c)
	}
	grid, err := patch.NewGrid(gc.Width, gc.Height, colors)
	if err != nil {
		return nil, err
	}
	if len(gc.Positions) == 0 {
		return grid, nil
	}
	if len(gc.Positions) != grid.Len() {
		return nil, fmt.Errorf("generate: %d positions for %d control points", len(gc.Positions), grid.Len())
	}
	for i, p := range gc.Positions {
		grid.SetPosition(i, mgl32.Vec2(p))
	}
	return grid, nil
}
