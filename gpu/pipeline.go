package gpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/overlayfx"
)

// blendModeCount sizes the per-blend pipeline arrays.
const blendModeCount = 3

// blendState maps an overlayfx blend mode to the GPU blend equation.
// Colors are straight alpha throughout the pipeline.
func blendState(mode overlayfx.BlendMode) gputypes.BlendState {
	switch mode {
	case overlayfx.BlendReplace:
		return gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorZero,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorZero,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	case overlayfx.BlendAdditive:
		return gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	default: // BlendSourceOver
		return gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorSrcAlpha,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	}
}

// arcVertexLayout returns the vertex buffer layout for the ElectricArc
// pipeline: position (vec3) + color (vec4), interleaved.
func arcVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: overlayfx.Vertex3DStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
			},
		},
	}
}

// blendIndex maps a blend mode to its pipeline slot. Out-of-range
// values degrade to source-over, matching the software blender.
func blendIndex(mode overlayfx.BlendMode) int {
	if mode < 0 || int(mode) >= blendModeCount {
		return int(overlayfx.BlendSourceOver)
	}
	return int(mode)
}

// effectPipeline holds the shader module, layouts, and one render
// pipeline per blend mode for a single effect program.
type effectPipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	byBlend    [blendModeCount]hal.RenderPipeline
}

// forBlend returns the pipeline for the given blend mode.
func (p *effectPipeline) forBlend(mode overlayfx.BlendMode) hal.RenderPipeline {
	return p.byBlend[blendIndex(mode)]
}

func (p *effectPipeline) destroy(device hal.Device) {
	if p == nil {
		return
	}
	for i, pl := range p.byBlend {
		if pl != nil {
			device.DestroyRenderPipeline(pl)
			p.byBlend[i] = nil
		}
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// createQuadPipeline builds the pipeline set for one 2D effect program:
// uniform block, source texture, and sampler in bind group 0, triangle
// strip fullscreen quad with no vertex buffer.
func createQuadPipeline(device hal.Device, label string, spirv []uint32) (*effectPipeline, error) {
	p := &effectPipeline{}

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, classifyResourceErr("create shader module "+label, err)
	}
	p.shader = shader

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		p.destroy(device)
		return nil, classifyResourceErr("create bind group layout "+label, err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.destroy(device)
		return nil, classifyResourceErr("create pipeline layout "+label, err)
	}
	p.pipeLayout = pipeLayout

	for mode := overlayfx.BlendSourceOver; int(mode) < blendModeCount; mode++ {
		blend := blendState(mode)
		pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
			Label:  label + "_" + mode.String(),
			Layout: p.pipeLayout,
			Vertex: hal.VertexState{
				Module:     p.shader,
				EntryPoint: "vs_main",
			},
			Fragment: &hal.FragmentState{
				Module:     p.shader,
				EntryPoint: "fs_main",
				Targets: []gputypes.ColorTargetState{
					{
						Format:    gputypes.TextureFormatRGBA8Unorm,
						Blend:     &blend,
						WriteMask: gputypes.ColorWriteMaskAll,
					},
				},
			},
			Primitive: gputypes.PrimitiveState{
				Topology: gputypes.PrimitiveTopologyTriangleStrip,
				CullMode: gputypes.CullModeNone,
			},
			Multisample: gputypes.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		})
		if err != nil {
			p.destroy(device)
			return nil, classifyResourceErr("create render pipeline "+label, err)
		}
		p.byBlend[mode] = pipeline
	}
	return p, nil
}

// createArcPipeline builds the pipeline set for the ElectricArc
// program: transform, time, and gate uniform blocks in bind group 0, a
// triangle list with explicit position+color vertices.
func createArcPipeline(device hal.Device, spirv []uint32) (*effectPipeline, error) {
	const label = "overlayfx_arc"
	p := &effectPipeline{}

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, classifyResourceErr("create shader module "+label, err)
	}
	p.shader = shader

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		p.destroy(device)
		return nil, classifyResourceErr("create bind group layout "+label, err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.destroy(device)
		return nil, classifyResourceErr("create pipeline layout "+label, err)
	}
	p.pipeLayout = pipeLayout

	for mode := overlayfx.BlendSourceOver; int(mode) < blendModeCount; mode++ {
		blend := blendState(mode)
		pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
			Label:  label + "_" + mode.String(),
			Layout: p.pipeLayout,
			Vertex: hal.VertexState{
				Module:     p.shader,
				EntryPoint: "vs_main",
				Buffers:    arcVertexLayout(),
			},
			Fragment: &hal.FragmentState{
				Module:     p.shader,
				EntryPoint: "fs_main",
				Targets: []gputypes.ColorTargetState{
					{
						Format:    gputypes.TextureFormatRGBA8Unorm,
						Blend:     &blend,
						WriteMask: gputypes.ColorWriteMaskAll,
					},
				},
			},
			Primitive: gputypes.PrimitiveState{
				Topology: gputypes.PrimitiveTopologyTriangleList,
				CullMode: gputypes.CullModeNone,
			},
			Multisample: gputypes.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		})
		if err != nil {
			p.destroy(device)
			return nil, classifyResourceErr("create render pipeline "+label, err)
		}
		p.byBlend[mode] = pipeline
	}
	return p, nil
}
