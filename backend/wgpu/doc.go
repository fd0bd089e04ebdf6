// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements backend.Device on the gogpu/wgpu HAL.
//
// Shader stages are WGSL. Each unit is first checked by the naga compiler,
// whose diagnostics become the compile log, and then turned into a HAL
// shader module. Linking a vertex and an optional fragment unit creates a
// render pipeline with a fixed vertex layout:
//
//	slot 0: position  float32x3 at @location(0)
//	slot n: texcoords float32x2 at @location(n), n = 1 + channel
//
// Entry points default to vs_main and fs_main.
//
// WebGPU binds pipelines and vertex buffers on a render pass, so the host
// hands the active pass to the device with SetRenderPass. Program and
// stream bindings made while no pass is set are applied when one is.
//
// # Usage
//
//	dev, err := wgpu.NewFromProvider(provider)
//	if err != nil {
//		return err
//	}
//	r := progsel.New(dev, settings)
//
//	// per frame
//	dev.SetRenderPass(rp)
//	r.BeginFrame()
//	if name, ok := r.SetupProgram(shape, ""); ok {
//		rp.Draw(count, 1, 0, 0)
//	}
package wgpu
