package gradmesh

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/gradmesh/internal/color"
	"github.com/gogpu/gradmesh/internal/parallel"
	"github.com/gogpu/gradmesh/internal/raster"
)

// vertexChunk is the number of vertices one pool job runs through the
// vertex stage.
const vertexChunk = 4096

// SoftwareRenderer runs the shading stage on the CPU.
//
// Vertices are shaded in parallel chunks. Assembled primitives are binned
// into 64x64 tiles and every tile is one pool job. Within a tile,
// primitives are drawn in submission order, so output does not depend on
// scheduling.
//
// Thread safety: SoftwareRenderer is safe for concurrent use; draws are
// serialized.
type SoftwareRenderer struct {
	mu     sync.Mutex
	cfg    PipelineConfig
	fb     *raster.Framebuffer
	grid   *parallel.TileGrid
	pool   *parallel.WorkerPool
	log    *slog.Logger
	onTile func(done, total int)
	stats  DrawStats
	closed bool
}

var _ Renderer = (*SoftwareRenderer)(nil)

// NewSoftwareRenderer creates a CPU renderer for cfg.
func NewSoftwareRenderer(cfg PipelineConfig, opts ...Option) (*SoftwareRenderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{workers: cfg.Workers}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}

	r := &SoftwareRenderer{
		cfg:    cfg,
		fb:     raster.NewFramebuffer(cfg.Width, cfg.Height, cfg.SampleCount),
		grid:   parallel.NewTileGrid(cfg.Width, cfg.Height),
		pool:   parallel.NewWorkerPool(o.workers),
		log:    o.logger,
		onTile: o.progress,
	}
	r.fb.Clear(cfg.ClearColor)
	r.log.Debug("software renderer created",
		"width", cfg.Width, "height", cfg.Height,
		"samples", cfg.SampleCount, "format", cfg.Format,
		"workers", r.pool.Workers(), "tiles", r.grid.TileCount())
	return r, nil
}

// Config returns the pipeline configuration.
func (r *SoftwareRenderer) Config() PipelineConfig {
	return r.cfg
}

// Draw clears the color target and draws calls in order.
//
// All calls are validated before anything is drawn; a malformed call
// leaves the target untouched. If ctx is cancelled, tiles not yet started
// are skipped and ctx.Err() is returned.
func (r *SoftwareRenderer) Draw(ctx context.Context, calls ...DrawCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRendererClosed
	}
	for i := range calls {
		if err := calls[i].Validate(); err != nil {
			return fmt.Errorf("draw call %d: %w", i, err)
		}
	}

	start := time.Now()
	var stats DrawStats

	var prims []raster.Prepared
	for i := range calls {
		outs, err := r.runVertexStage(ctx, calls[i].Vertices)
		if err != nil {
			return err
		}
		stats.Vertices += len(outs)
		prims = r.assemble(prims, &calls[i], outs, &stats)
	}

	r.fb.Clear(r.cfg.ClearColor)
	fragments, err := r.rasterize(ctx, prims)
	stats.Fragments = fragments
	r.stats = stats
	if err != nil {
		return err
	}

	r.log.Debug("draw",
		"calls", len(calls),
		"vertices", stats.Vertices,
		"primitives", stats.Primitives,
		"culled", stats.Culled,
		"fragments", stats.Fragments,
		"elapsed", time.Since(start))
	return nil
}

// runVertexStage shades every vertex of a draw in parallel chunks.
func (r *SoftwareRenderer) runVertexStage(ctx context.Context, in []VertexIn) ([]VertexOut, error) {
	out := make([]VertexOut, len(in))
	err := r.pool.ForChunks(ctx, len(in), vertexChunk, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = VertexStage(in[i])
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// assemble groups shaded vertices into primitives and prepares them for
// rasterization. Primitives that cannot produce fragments are counted and
// dropped.
func (r *SoftwareRenderer) assemble(dst []raster.Prepared, call *DrawCall, outs []VertexOut, stats *DrawStats) []raster.Prepared {
	kind := rasterKind(call.Topology)
	per := call.Topology.Vertices()
	n := call.PrimitiveCount()
	stats.Primitives += n

	for p := range n {
		prim := raster.Primitive{Kind: kind}
		for j := range per {
			prim.V[j] = raster.Vertex(outs[call.Element(p*per+j)])
		}
		pp, ok := raster.Prepare(prim, r.cfg.Width, r.cfg.Height)
		if !ok {
			stats.Culled++
			continue
		}
		dst = append(dst, pp)
	}
	return dst
}

// rasterize bins prims into tiles and rasterizes every tile as one pool job.
func (r *SoftwareRenderer) rasterize(ctx context.Context, prims []raster.Prepared) (int, error) {
	bins := make([][]raster.Prepared, r.grid.TileCount())
	for i := range prims {
		for _, t := range r.grid.TilesInRect(prims[i].Bounds) {
			idx := t.Y*r.grid.TilesX() + t.X
			bins[idx] = append(bins[idx], prims[i])
		}
	}

	shade := func(f raster.Vertex) mgl32.Vec4 {
		return FragmentStage(VertexOut(f))
	}

	var fragments atomic.Int64
	var finished atomic.Int64
	tiles := r.grid.Tiles()
	total := len(tiles)
	jobs := make([]func(), 0, total)
	for i, t := range tiles {
		bin := bins[i]
		jobs = append(jobs, func() {
			if len(bin) > 0 {
				fragments.Add(int64(r.fb.Rasterize(bin, t.Rect, shade)))
			}
			done := finished.Add(1)
			if r.onTile != nil {
				r.onTile(int(done), total)
			}
		})
	}

	err := r.pool.Run(ctx, jobs)
	return int(fragments.Load()), err
}

// rasterKind maps a topology to the rasterizer's primitive type.
func rasterKind(t Topology) raster.Kind {
	switch t {
	case PointList:
		return raster.KindPoint
	case LineList:
		return raster.KindLine
	default:
		return raster.KindTriangle
	}
}

// Pixel returns the resolved linear color of pixel (x, y).
// Coordinates outside the target return the zero vector.
func (r *SoftwareRenderer) Pixel(x, y int) mgl32.Vec4 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fb.Resolve(x, y)
}

// LastStats returns statistics of the most recent Draw.
func (r *SoftwareRenderer) LastStats() DrawStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Image returns the resolved color target encoded in the configured
// format. sRGB targets get the transfer function applied; float targets
// are quantized like UNORM.
func (r *SoftwareRenderer) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := image.NewRGBA(r.fb.Bounds())
	enc := color.Linear
	if r.cfg.Format == FormatRGBA8UnormSRGB {
		enc = color.SRGB
	}

	tiles := r.grid.Tiles()
	jobs := make([]func(), 0, len(tiles))
	for _, t := range tiles {
		jobs = append(jobs, func() {
			color.EncodeRect(img, t.Rect, enc, r.fb.Resolve)
		})
	}
	if r.closed {
		for _, job := range jobs {
			job()
		}
		return img
	}
	_ = r.pool.Run(context.Background(), jobs)
	return img
}

// Close stops the worker pool. The last image stays readable.
func (r *SoftwareRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.pool.Close()
	return nil
}
