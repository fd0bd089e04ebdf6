// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// positionStride is the byte stride of the position stream: 3 x float32.
const positionStride = 12

// texCoordStride is the byte stride of a texcoord stream: 2 x float32.
const texCoordStride = 8

// vertexLayout returns the fixed buffer layout: positions in slot 0 and one
// texcoord stream per channel after it.
func (d *Device) vertexLayout() []gputypes.VertexBufferLayout {
	layout := make([]gputypes.VertexBufferLayout, 0, 1+d.cfg.texCoordChannels)
	layout = append(layout, gputypes.VertexBufferLayout{
		ArrayStride: positionStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		},
	})
	for ch := range d.cfg.texCoordChannels {
		layout = append(layout, gputypes.VertexBufferLayout{
			ArrayStride: texCoordStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: uint32(1 + ch)},
			},
		})
	}
	return layout
}

// pipelineDescriptor describes the render pipeline for one program. A
// missing fragment unit yields a depth-only style pipeline with no color
// output.
func (d *Device) pipelineDescriptor(label string, vertex hal.ShaderModule, fragment *shaderEntry) *hal.RenderPipelineDescriptor {
	desc := &hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: d.layout,
		Vertex: hal.VertexState{
			Module:     vertex,
			EntryPoint: d.cfg.vertexEntry,
			Buffers:    d.vertexLayout(),
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: d.cfg.sampleCount,
			Mask:  0xFFFFFFFF,
		},
	}
	if fragment != nil {
		desc.Fragment = &hal.FragmentState{
			Module:     fragment.module,
			EntryPoint: d.cfg.fragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    d.cfg.format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		}
	}
	return desc
}
