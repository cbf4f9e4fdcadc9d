package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML configuration accepted by -config. Command-line
// flags that are set explicitly take precedence over it.
type fileConfig struct {
	Render   renderConfig   `yaml:"render"`
	Generate generateConfig `yaml:"generate"`
}

type renderConfig struct {
	Output   string    `yaml:"output"`
	Width    int       `yaml:"width"`
	Height   int       `yaml:"height"`
	Samples  int       `yaml:"samples"`
	Topology string    `yaml:"topology"`
	Backend  string    `yaml:"backend"`
	Format   string    `yaml:"format"`
	Scale    float64   `yaml:"scale"`
	Workers  int       `yaml:"workers"`
	Clear    []float32 `yaml:"clear,flow"`
	Verbose  bool      `yaml:"verbose"`
}

type generateConfig struct {
	Output  string     `yaml:"output"`
	Subdivs int        `yaml:"subdivs"`
	Outline bool       `yaml:"outline"`
	Steps   int        `yaml:"steps"`
	Grid    gridConfig `yaml:"grid"`
}

// gridConfig describes a custom control grid. Colors and positions are
// listed row by row; positions are optional and default to an even
// spacing on the unit square.
type gridConfig struct {
	Width     int          `yaml:"width"`
	Height    int          `yaml:"height"`
	Colors    [][3]float32 `yaml:"colors,flow"`
	Positions [][2]float32 `yaml:"positions,flow"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// setFlags returns the names of the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// merge copies v into dst unless the flag name was set explicitly or v is
// the zero value.
func merge[T comparable](set map[string]bool, name string, dst *T, v T) {
	var zero T
	if set[name] || v == zero {
		return
	}
	*dst = v
}

func clearColor(c []float32) (mgl32.Vec4, error) {
	switch len(c) {
	case 0:
		return mgl32.Vec4{0, 0, 0, 1}, nil
	case 3:
		return mgl32.Vec4{c[0], c[1], c[2], 1}, nil
	case 4:
		return mgl32.Vec4{c[0], c[1], c[2], c[3]}, nil
	}
	return mgl32.Vec4{}, fmt.Errorf("clear color needs 3 or 4 components, got %d", len(c))
}
