package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/gogpu/gradmesh"
	"github.com/gogpu/gradmesh/gpu"
	"github.com/gogpu/gradmesh/mesh"
)

// Window size of the original mesh viewer.
const (
	defaultWidth  = 428
	defaultHeight = 926
)

func runRender(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		output   = fs.String("o", "out.png", "output image (.png, .bmp, .tif, .tiff)")
		width    = fs.Int("width", defaultWidth, "color target width")
		height   = fs.Int("height", defaultHeight, "color target height")
		samples  = fs.Int("samples", 4, "samples per pixel, 1 or 4")
		topology = fs.String("topology", "triangles", "primitive topology: triangles, lines or points")
		backend  = fs.String("backend", "software", "renderer: software, gpu or auto")
		format   = fs.String("format", "unorm", "color target format: unorm or srgb")
		scale    = fs.Float64("scale", 1, "resize the rendered image by this factor")
		workers  = fs.Int("workers", 0, "software worker count, 0 for GOMAXPROCS")
		cfgPath  = fs.String("config", "", "YAML configuration file")
		verbose  = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("render: expected exactly one mesh file")
	}

	clearCol := mgl32.Vec4{0, 0, 0, 1}
	if *cfgPath != "" {
		fc, err := loadConfig(*cfgPath)
		if err != nil {
			return err
		}
		set := setFlags(fs)
		rc := fc.Render
		merge(set, "o", output, rc.Output)
		merge(set, "width", width, rc.Width)
		merge(set, "height", height, rc.Height)
		merge(set, "samples", samples, rc.Samples)
		merge(set, "topology", topology, rc.Topology)
		merge(set, "backend", backend, rc.Backend)
		merge(set, "format", format, rc.Format)
		merge(set, "scale", scale, rc.Scale)
		merge(set, "workers", workers, rc.Workers)
		merge(set, "v", verbose, rc.Verbose)
		if clearCol, err = clearColor(rc.Clear); err != nil {
			return err
		}
	}
	logger := setupLogging(stderr, *verbose)

	topo, err := gradmesh.ParseTopology(*topology)
	if err != nil {
		return err
	}
	colorFormat, err := gradmesh.ParseColorFormat(*format)
	if err != nil {
		return err
	}
	if *scale <= 0 {
		return fmt.Errorf("render: scale must be positive, got %v", *scale)
	}
	if _, err := encoderFor(*output); err != nil {
		return err
	}

	m, err := mesh.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	cfg := gradmesh.DefaultPipelineConfig(*width, *height)
	cfg.SampleCount = *samples
	cfg.Format = colorFormat
	cfg.ClearColor = clearCol
	if *workers > 0 {
		cfg.Workers = *workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progress := newTileProgress(stderr)
	r, name, err := newRenderer(cfg, *backend, logger, progress)
	if err != nil {
		return err
	}
	defer r.Close()

	start := time.Now()
	err = r.Draw(ctx, m.DrawCall(topo))
	progress.finish()
	if err != nil {
		return err
	}

	img := scaleImage(r.Image(), *scale)
	if err := writeImage(*output, img); err != nil {
		return err
	}
	logger.Info("rendered",
		"mesh", fs.Arg(0),
		"output", *output,
		"backend", name,
		"size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()),
		"elapsed", time.Since(start))
	return nil
}

// newRenderer creates the renderer for backend and returns it with a
// display name. "auto" prefers the GPU and falls back to software.
func newRenderer(cfg gradmesh.PipelineConfig, backend string, logger *slog.Logger, progress *tileProgress) (gradmesh.Renderer, string, error) {
	switch backend {
	case "software", "cpu":
		r, err := gradmesh.NewSoftwareRenderer(cfg,
			gradmesh.WithLogger(logger),
			gradmesh.WithProgress(progress.update))
		if err != nil {
			return nil, "", err
		}
		return r, "software", nil
	case "gpu":
		r, err := gpu.Open(cfg)
		if err != nil {
			return nil, "", err
		}
		return r, "gpu " + r.Adapter(), nil
	case "auto":
		r, err := gpu.Open(cfg)
		if err == nil {
			return r, "gpu " + r.Adapter(), nil
		}
		logger.Warn("gpu unavailable, using software renderer", "err", err)
		return newRenderer(cfg, "software", logger, progress)
	}
	return nil, "", fmt.Errorf("render: unknown backend %q", backend)
}

// tileProgress shows a progress bar over rasterized tiles when w is a
// terminal.
type tileProgress struct {
	w       io.Writer
	enabled bool
	once    sync.Once
	bar     *progressbar.ProgressBar
}

func newTileProgress(w io.Writer) *tileProgress {
	f, ok := w.(*os.File)
	return &tileProgress{w: w, enabled: ok && term.IsTerminal(int(f.Fd()))}
}

func (p *tileProgress) update(_, total int) {
	if !p.enabled {
		return
	}
	p.once.Do(func() {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription("rasterizing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish())
	})
	_ = p.bar.Add(1)
}

func (p *tileProgress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
