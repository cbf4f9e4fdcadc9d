package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ColorFormat is the format of every color attachment. BGRA8Unorm is the
// format all backends can render to and copy from.
const ColorFormat = gputypes.TextureFormatBGRA8Unorm

// textureSet holds the color attachments of an offscreen render pass:
//   - MSAA color: N samples, BGRA8Unorm, RenderAttachment (only when N > 1)
//   - Resolve: 1 sample, BGRA8Unorm, RenderAttachment | CopySrc
//
// With a single sample the pass renders into the resolve texture directly.
type textureSet struct {
	msaaTex     hal.Texture
	msaaView    hal.TextureView
	resolveTex  hal.Texture
	resolveView hal.TextureView
	width       uint32
	height      uint32
	samples     uint32
}

// ensureTextures creates or recreates the textures when the requested size
// or sample count differs from the current one.
func (ts *textureSet) ensureTextures(device hal.Device, w, h, samples uint32, labelPrefix string) error {
	if ts.width == w && ts.height == h && ts.samples == samples && ts.resolveTex != nil {
		return nil
	}
	ts.destroyTextures(device)

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	if samples > 1 {
		msaaTex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         labelPrefix + "_msaa_color",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   samples,
			Dimension:     gputypes.TextureDimension2D,
			Format:        ColorFormat,
			Usage:         gputypes.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("create MSAA color texture: %w", err)
		}
		ts.msaaTex = msaaTex

		msaaView, err := device.CreateTextureView(msaaTex, &hal.TextureViewDescriptor{
			Label: labelPrefix + "_msaa_color_view",
		})
		if err != nil {
			ts.destroyTextures(device)
			return fmt.Errorf("create MSAA color view: %w", err)
		}
		ts.msaaView = msaaView
	}

	resolveTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         labelPrefix + "_resolve",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        ColorFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		ts.destroyTextures(device)
		return fmt.Errorf("create resolve texture: %w", err)
	}
	ts.resolveTex = resolveTex

	resolveView, err := device.CreateTextureView(resolveTex, &hal.TextureViewDescriptor{
		Label: labelPrefix + "_resolve_view",
	})
	if err != nil {
		ts.destroyTextures(device)
		return fmt.Errorf("create resolve view: %w", err)
	}
	ts.resolveView = resolveView

	ts.width = w
	ts.height = h
	ts.samples = samples
	return nil
}

// colorAttachment returns the pass attachment for the current textures,
// cleared to clear.
func (ts *textureSet) colorAttachment(clear gputypes.Color) hal.RenderPassColorAttachment {
	att := hal.RenderPassColorAttachment{
		View:       ts.resolveView,
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: clear,
	}
	if ts.msaaView != nil {
		att.View = ts.msaaView
		att.ResolveTarget = ts.resolveView
	}
	return att
}

// destroyTextures releases all texture resources and resets dimensions.
func (ts *textureSet) destroyTextures(device hal.Device) {
	if ts.resolveView != nil {
		device.DestroyTextureView(ts.resolveView)
		ts.resolveView = nil
	}
	if ts.resolveTex != nil {
		device.DestroyTexture(ts.resolveTex)
		ts.resolveTex = nil
	}
	if ts.msaaView != nil {
		device.DestroyTextureView(ts.msaaView)
		ts.msaaView = nil
	}
	if ts.msaaTex != nil {
		device.DestroyTexture(ts.msaaTex)
		ts.msaaTex = nil
	}
	ts.width = 0
	ts.height = 0
	ts.samples = 0
}
