// Package gpu runs the gradmesh shading stage on a GPU through the
// gogpu/wgpu HAL.
//
// The host either supplies a device it already owns (NewRenderer,
// NewRendererFromProvider) or lets the package open one (Open). Frames are
// rendered offscreen and read back, so Image works the same as on the
// software renderer.
//
// Usage:
//
//	r, err := gpu.Open(gradmesh.DefaultPipelineConfig(428, 926))
//	if err != nil {
//	    // no Vulkan device: fall back to gradmesh.NewSoftwareRenderer
//	}
//	defer r.Close()
//	err = r.Draw(ctx, call)
//	img := r.Image()
package gpu

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan backend for Open

	"github.com/gogpu/gradmesh"
	"github.com/gogpu/gradmesh/internal/color"
	gpuimpl "github.com/gogpu/gradmesh/internal/gpu"
)

var (
	// ErrNoBackend is returned by Open when the Vulkan backend is not
	// available on this platform.
	ErrNoBackend = errors.New("gpu: vulkan backend not available")

	// ErrNoAdapter is returned by Open when no GPU adapter was found.
	ErrNoAdapter = errors.New("gpu: no GPU adapters found")

	// ErrNotHalProvider is returned when a device provider does not expose
	// HAL device and queue objects.
	ErrNotHalProvider = errors.New("gpu: provider does not expose HAL types")
)

// Renderer draws on a HAL device. It implements gradmesh.Renderer.
//
// Thread safety: Renderer is safe for concurrent use; frames are
// serialized.
type Renderer struct {
	mu       sync.Mutex
	cfg      gradmesh.PipelineConfig
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance // set when the renderer opened the device itself
	adapter  string
	session  *gpuimpl.Session
	pixels   []byte
	closed   bool
}

var _ gradmesh.Renderer = (*Renderer)(nil)

// NewRenderer creates a renderer on a device owned by the host. Close
// releases the renderer's pipelines and textures but not the device.
func NewRenderer(device hal.Device, queue hal.Queue, cfg gradmesh.PipelineConfig) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, errors.New("gpu: device and queue are required")
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	gpuimpl.SetLogger(gradmesh.Logger())

	r := &Renderer{
		cfg:     cfg,
		device:  device,
		queue:   queue,
		session: gpuimpl.NewSession(device, queue, uint32(cfg.SampleCount)), //nolint:gosec // validated to 1 or 4
		pixels:  make([]byte, cfg.Width*cfg.Height*4),
	}
	r.fillClear()
	return r, nil
}

// NewRendererFromProvider creates a renderer on the device of a gogpu
// host. The provider must implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue, as *Provider does.
func NewRendererFromProvider(provider any, cfg gradmesh.PipelineConfig) (*Renderer, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNotHalProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNotHalProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNotHalProvider)
	}
	return NewRenderer(device, queue, cfg)
}

// Open creates a Vulkan instance, picks an adapter (discrete or integrated
// GPUs first) and opens a device owned by the returned renderer.
func Open(cfg gradmesh.PipelineConfig) (*Renderer, error) {
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrNoBackend
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}

	r, err := NewRenderer(openDev.Device, openDev.Queue, cfg)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	r.instance = instance
	r.adapter = selected.Info.Name
	gradmesh.Logger().Info("gpu: device opened", "adapter", r.adapter)
	return r, nil
}

// validate checks cfg for the GPU path. Only 8-bit UNORM targets can be
// read back from the BGRA8Unorm attachments.
func validate(cfg *gradmesh.PipelineConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Format != gradmesh.FormatRGBA8Unorm {
		return fmt.Errorf("%w: %v on GPU", gradmesh.ErrUnsupportedFormat, cfg.Format)
	}
	return nil
}

// Config returns the pipeline configuration.
func (r *Renderer) Config() gradmesh.PipelineConfig {
	return r.cfg
}

// Adapter returns the name of the adapter opened by Open, or "" for
// host-supplied devices.
func (r *Renderer) Adapter() string {
	return r.adapter
}

// Draw clears the target and draws calls in one render pass. Indexed
// calls are expanded on the CPU before upload.
func (r *Renderer) Draw(ctx context.Context, calls ...gradmesh.DrawCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return gradmesh.ErrRendererClosed
	}
	for i := range calls {
		if err := calls[i].Validate(); err != nil {
			return fmt.Errorf("draw call %d: %w", i, err)
		}
	}

	draws := make([]gpuimpl.Draw, 0, len(calls))
	for i := range calls {
		verts := calls[i].Expand()
		draws = append(draws, gpuimpl.Draw{
			Vertices: gradmesh.EncodeVertices(verts),
			Count:    uint32(len(verts)), //nolint:gosec // vertex count fits uint32
			Topology: calls[i].Topology.GPUTopology(),
		})
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c := r.cfg.ClearColor
	clear := gputypes.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
	//nolint:gosec // dimensions validated positive
	return r.session.RenderFrame(uint32(r.cfg.Width), uint32(r.cfg.Height), clear, draws, r.pixels)
}

// Image returns a copy of the last frame.
func (r *Renderer) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
	copy(img.Pix, r.pixels)
	return img
}

// Provider returns a gpucontext.DeviceProvider sharing this renderer's
// device with other gogpu components.
func (r *Renderer) Provider() *Provider {
	return &Provider{device: r.device, queue: r.queue, adapter: r.adapter}
}

// Close releases pipelines and textures, and the device and instance if
// Open created them. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.session.Destroy()
	if r.instance != nil {
		r.device.Destroy()
		r.instance.Destroy()
		r.instance = nil
	}
	return nil
}

// fillClear initializes the readback buffer with the clear color so Image
// is meaningful before the first Draw.
func (r *Renderer) fillClear() {
	c := r.cfg.ClearColor
	px := [4]byte{color.Unorm(c[0]), color.Unorm(c[1]), color.Unorm(c[2]), color.Unorm(c[3])}
	for i := 0; i < len(r.pixels); i += 4 {
		copy(r.pixels[i:i+4], px[:])
	}
}
