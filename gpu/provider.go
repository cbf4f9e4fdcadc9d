package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	gpuimpl "github.com/gogpu/gradmesh/internal/gpu"
)

// Provider exposes a renderer's device to other gogpu components.
//
// It implements gpucontext.DeviceProvider and also HalDevice/HalQueue for
// consumers that need direct HAL access.
type Provider struct {
	device  hal.Device
	queue   hal.Queue
	adapter string
}

var _ gpucontext.DeviceProvider = (*Provider)(nil)

// Device returns the shared device. Destroy on the returned value is a
// no-op; the owning Renderer releases the device in Close.
func (p *Provider) Device() gpucontext.Device {
	return sharedDevice{}
}

// Queue returns the shared queue.
func (p *Provider) Queue() gpucontext.Queue {
	return sharedQueue{}
}

// Adapter returns the adapter the device was opened on.
func (p *Provider) Adapter() gpucontext.Adapter {
	return sharedAdapter{name: p.adapter}
}

// SurfaceFormat returns the color attachment format of the renderer.
func (p *Provider) SurfaceFormat() gputypes.TextureFormat {
	return gpuimpl.ColorFormat
}

// HalDevice returns the underlying hal.Device.
func (p *Provider) HalDevice() any { return p.device }

// HalQueue returns the underlying hal.Queue.
func (p *Provider) HalQueue() any { return p.queue }

// sharedDevice is a non-owning device handle. HAL submissions complete
// through fences, so there is nothing to poll.
type sharedDevice struct{}

func (sharedDevice) Poll(bool) {}
func (sharedDevice) Destroy()  {}

type sharedQueue struct{}

type sharedAdapter struct {
	name string
}

// String returns the adapter name.
func (a sharedAdapter) String() string { return a.name }
