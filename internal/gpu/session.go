package gpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the WebGPU row alignment for texture-to-buffer
// copies.
const copyPitchAlignment = 256

// fenceTimeout bounds the wait for one frame.
const fenceTimeout = 5 * time.Second

// ErrFenceTimeout is returned when a frame does not complete within the
// fence timeout.
var ErrFenceTimeout = errors.New("gpu: timed out waiting for frame")

// Draw is one non-indexed draw of a frame.
type Draw struct {
	// Vertices is the encoded vertex buffer in the 24-byte mesh layout.
	Vertices []byte
	// Count is the number of vertices to draw.
	Count uint32
	// Topology selects the pipeline.
	Topology gputypes.PrimitiveTopology
}

// Session renders frames offscreen and reads them back to the CPU.
//
// Each frame is one command buffer: upload vertex buffers, one render pass
// cleared to the clear color with one draw per Draw, a copy of the resolve
// texture into a staging buffer, then submit and wait on a fence.
type Session struct {
	device   hal.Device
	queue    hal.Queue
	pipeline *MeshPipeline
	textures textureSet
}

// NewSession creates a session rendering with samples samples per pixel.
// Textures and pipelines are created on the first frame.
func NewSession(device hal.Device, queue hal.Queue, samples uint32) *Session {
	return &Session{
		device:   device,
		queue:    queue,
		pipeline: NewMeshPipeline(device, samples),
	}
}

// Size returns the current texture dimensions, or (0, 0) before the first
// frame.
func (s *Session) Size() (uint32, uint32) {
	return s.textures.width, s.textures.height
}

// RenderFrame draws draws into a w x h target cleared to clear and writes
// the result as tightly packed RGBA8 rows into dst, which must hold at
// least w*h*4 bytes.
func (s *Session) RenderFrame(w, h uint32, clear gputypes.Color, draws []Draw, dst []byte) error {
	if w == 0 || h == 0 {
		return fmt.Errorf("gpu: invalid frame size %dx%d", w, h)
	}
	if need := int(w) * int(h) * 4; len(dst) < need {
		return fmt.Errorf("gpu: readback buffer too small: %d < %d", len(dst), need)
	}
	if err := s.textures.ensureTextures(s.device, w, h, s.pipeline.SampleCount(), "session"); err != nil {
		return err
	}

	pipelines := make([]hal.RenderPipeline, len(draws))
	buffers := make([]hal.Buffer, 0, len(draws))
	defer func() {
		for _, b := range buffers {
			s.device.DestroyBuffer(b)
		}
	}()
	for i, d := range draws {
		if d.Count == 0 || len(d.Vertices) == 0 {
			continue
		}
		p, err := s.pipeline.Pipeline(d.Topology)
		if err != nil {
			return err
		}
		pipelines[i] = p
		buf, err := s.createAndUploadBuffer(fmt.Sprintf("mesh_vertices_%d", i), d.Vertices,
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		buffers = append(buffers, buf)
	}

	return s.encodeSubmitReadback(w, h, clear, draws, pipelines, buffers, dst)
}

// encodeSubmitReadback records the render pass and the resolve copy,
// submits, waits and reads the pixels back.
func (s *Session) encodeSubmitReadback(
	w, h uint32,
	clear gputypes.Color,
	draws []Draw,
	pipelines []hal.RenderPipeline,
	buffers []hal.Buffer,
	dst []byte,
) error {
	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "mesh_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("mesh_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "mesh_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{s.textures.colorAttachment(clear)},
	})
	next := 0
	for i, d := range draws {
		if pipelines[i] == nil {
			continue
		}
		rp.SetPipeline(pipelines[i])
		rp.SetVertexBuffer(0, buffers[next], 0)
		rp.Draw(d.Count, 1, 0, 0)
		next++
	}
	rp.End()

	// CopyTextureToBuffer needs the resolve texture in copy-source usage.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.textures.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingBufSize := uint64(alignedBytesPerRow) * uint64(h)

	stagingBuf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mesh_staging",
		Size:  stagingBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer s.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(s.textures.resolveTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: s.textures.resolveTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	// Back to render attachment for the next frame's pass.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.textures.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	fence, err := s.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer s.device.DestroyFence(fence)

	if err := s.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := s.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !fenceOK {
		return fmt.Errorf("%w after %v", ErrFenceTimeout, fenceTimeout)
	}

	readback := make([]byte, stagingBufSize)
	if err := s.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}

	for row := range int(h) {
		src := readback[row*int(alignedBytesPerRow) : row*int(alignedBytesPerRow)+int(bytesPerRow)]
		convertBGRAToRGBA(src, dst[row*int(bytesPerRow):(row+1)*int(bytesPerRow)])
	}
	slogger().Debug("gpu: frame rendered", "width", w, "height", h, "draws", len(buffers))
	return nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (s *Session) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	s.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// convertBGRAToRGBA swaps the red and blue channels of every pixel in src
// and writes the result to dst.
func convertBGRAToRGBA(src, dst []byte) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
}

// Destroy releases textures and pipelines. The session can be reused
// afterwards; resources are recreated on the next frame.
func (s *Session) Destroy() {
	s.textures.destroyTextures(s.device)
	s.pipeline.Destroy()
}
