package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gradmesh"
)

// MeshPipeline owns the shader module, the pipeline layout and one render
// pipeline per primitive topology. Topology is part of the pipeline state
// in WebGPU, so each topology the host draws with gets its own pipeline,
// created on first use and cached.
//
// The shader has no bindings; the pipeline layout is empty.
type MeshPipeline struct {
	device  hal.Device
	samples uint32

	mu         sync.Mutex
	shader     hal.ShaderModule
	pipeLayout hal.PipelineLayout
	pipelines  map[gputypes.PrimitiveTopology]hal.RenderPipeline
}

// NewMeshPipeline creates a pipeline cache for the given device and sample
// count. GPU objects are not created until Pipeline is called.
func NewMeshPipeline(device hal.Device, samples uint32) *MeshPipeline {
	if samples == 0 {
		samples = 1
	}
	return &MeshPipeline{
		device:    device,
		samples:   samples,
		pipelines: make(map[gputypes.PrimitiveTopology]hal.RenderPipeline),
	}
}

// SampleCount returns the multisample count of the pipelines.
func (mp *MeshPipeline) SampleCount() uint32 {
	return mp.samples
}

// Pipeline returns the render pipeline for topology, creating it if needed.
func (mp *MeshPipeline) Pipeline(topology gputypes.PrimitiveTopology) (hal.RenderPipeline, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if p, ok := mp.pipelines[topology]; ok {
		return p, nil
	}
	if err := mp.ensureShader(); err != nil {
		return nil, err
	}
	p, err := mp.createPipeline(topology)
	if err != nil {
		return nil, err
	}
	mp.pipelines[topology] = p
	return p, nil
}

// ensureShader creates the shader module and pipeline layout once.
// SPIR-V from the naga compiler is preferred; the WGSL source is handed to
// the backend when compilation fails.
func (mp *MeshPipeline) ensureShader() error {
	if mp.shader != nil {
		return nil
	}

	src := hal.ShaderSource{WGSL: gradmesh.ShaderSource()}
	if words, err := gradmesh.CompileShader(); err == nil {
		src = hal.ShaderSource{SPIRV: words}
	} else {
		slogger().Warn("gpu: SPIR-V compilation failed, using WGSL", "err", err)
	}

	shader, err := mp.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "mesh_shader",
		Source: src,
	})
	if err != nil {
		return fmt.Errorf("create mesh shader: %w", err)
	}
	mp.shader = shader

	pipeLayout, err := mp.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "mesh_pipe_layout",
	})
	if err != nil {
		mp.device.DestroyShaderModule(mp.shader)
		mp.shader = nil
		return fmt.Errorf("create mesh pipeline layout: %w", err)
	}
	mp.pipeLayout = pipeLayout
	return nil
}

// createPipeline builds the render pipeline for one topology. Fragments
// replace the target color: no blending.
func (mp *MeshPipeline) createPipeline(topology gputypes.PrimitiveTopology) (hal.RenderPipeline, error) {
	pipeline, err := mp.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "mesh_pipeline",
		Layout: mp.pipeLayout,
		Vertex: hal.VertexState{
			Module:     mp.shader,
			EntryPoint: gradmesh.VertexEntryPoint,
			Buffers:    gradmesh.VertexBufferLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     mp.shader,
			EntryPoint: gradmesh.FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    ColorFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: mp.samples,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create mesh pipeline: %w", err)
	}
	slogger().Debug("gpu: mesh pipeline created", "topology", topology, "samples", mp.samples)
	return pipeline, nil
}

// Destroy releases all pipeline resources in reverse creation order. Safe
// to call multiple times.
func (mp *MeshPipeline) Destroy() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.device == nil {
		return
	}
	for topo, p := range mp.pipelines {
		mp.device.DestroyRenderPipeline(p)
		delete(mp.pipelines, topo)
	}
	if mp.pipeLayout != nil {
		mp.device.DestroyPipelineLayout(mp.pipeLayout)
		mp.pipeLayout = nil
	}
	if mp.shader != nil {
		mp.device.DestroyShaderModule(mp.shader)
		mp.shader = nil
	}
}
