// Command gradmesh renders and generates gradient meshes.
//
// Usage:
//
//	gradmesh render [flags] mesh.json
//	gradmesh generate [flags]
//
// render draws a mesh file with the software or GPU renderer and writes
// the image as PNG, BMP or TIFF. generate samples a grid of Ferguson
// patches into a mesh file.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gogpu/gradmesh"
)

var errUsage = errors.New("usage: gradmesh <render|generate> [flags]")

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "gradmesh: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "render":
		return runRender(args[1:], stderr)
	case "generate", "gen":
		return runGenerate(args[1:], stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprintln(stderr, errUsage)
		return nil
	}
	return fmt.Errorf("unknown command %q\n%w", args[0], errUsage)
}

// setupLogging installs a text logger on stderr for the library and
// returns it.
func setupLogging(stderr io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	gradmesh.SetLogger(logger)
	return logger
}
