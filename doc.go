// Package gradmesh implements the shading stage of a gradient-mesh
// visualizer together with the pipeline that drives it.
//
// # Overview
//
// The shading stage is two pure functions. VertexStage lifts a clip-space
// position and an RGB color to homogeneous form with w and alpha set to 1.
// FragmentStage returns the color the rasterizer interpolated for a
// fragment, unchanged. Nothing else happens on the way: no projection, no
// lighting, no clamping.
//
// Gradients come from the rasterizer. A triangle whose corners are red,
// green and blue is filled with the barycentric blend of the three
// colors; a line blends its two end colors; a point keeps its color.
//
// # Quick Start
//
//	r, err := gradmesh.NewSoftwareRenderer(gradmesh.DefaultPipelineConfig(512, 512))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	err = r.Draw(ctx, gradmesh.DrawCall{Vertices: []gradmesh.VertexIn{
//	    {Pos: mgl32.Vec3{-1, -1, 0}, Color: mgl32.Vec3{1, 0, 0}},
//	    {Pos: mgl32.Vec3{1, -1, 0}, Color: mgl32.Vec3{0, 1, 0}},
//	    {Pos: mgl32.Vec3{0, 1, 0}, Color: mgl32.Vec3{0, 0, 1}},
//	}})
//	img := r.Image()
//
// # Renderers
//
// SoftwareRenderer runs the stage on the CPU with a work-stealing worker
// pool: vertices in parallel chunks, fragments in parallel 64x64 tiles.
// The gpu sub-package runs the same stage as a WGSL shader (ShaderSource)
// through gogpu/wgpu. Both consume the vertex layout described by
// VertexBufferLayout: position at location 0, color at location 1, 24 bytes
// per vertex.
//
// # Architecture
//
//   - Public API: VertexStage, FragmentStage, DrawCall, PipelineConfig, Renderer
//   - Internal: raster (coverage, interpolation, MSAA), parallel (scheduling),
//     color (target encoding), gpu (HAL pipeline)
//   - Sub-packages: gpu (GPU renderer), mesh (file format), patch (mesh generator)
//   - Command: cmd/gradmesh renders mesh files and generates patch meshes
//
// # Logging
//
// gradmesh is silent by default. Call SetLogger to receive debug output
// from renderers and the shader compiler.
package gradmesh
