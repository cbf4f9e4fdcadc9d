// Package gpu runs the gradient-mesh shading stage on a WebGPU device.
//
// It uses the gogpu/wgpu HAL directly (zero CGO): the embedded WGSL shader
// is compiled to SPIR-V with naga, one render pipeline is built per
// primitive topology, and frames are rendered offscreen and read back.
//
// # Architecture Overview
//
//	vertex bytes -> MeshPipeline (per topology) -> render pass -> resolve -> staging buffer -> RGBA
//
// Key components:
//
//   - MeshPipeline: shader module, empty pipeline layout, cached pipelines
//   - Session: per-frame command encoding, submission and readback
//   - textureSet: MSAA color and single-sample resolve attachments
//
// All attachments are BGRA8Unorm. Readback converts to RGBA.
package gpu
