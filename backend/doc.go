// Package backend provides a pluggable GPU device abstraction.
//
// The program catalog compiles shader stages, links programs and binds
// them through the Device interface, so the same catalog runs on WebGPU,
// OpenGL or no GPU at all.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The null backend is automatically registered on import:
//
//	import _ "github.com/gogpu/progsel/backend"
//
// The OpenGL backend registers itself when imported, and the WebGPU
// backend is constructed from a host device:
//
//	import _ "github.com/gogpu/progsel/backend/opengl"
//
//	dev, err := wgpu.NewFromProvider(provider)
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	// Get the default (best available) device
//	d := backend.Default()
//
//	// Or request a specific device
//	d := backend.Get("opengl")
//
// # Available Backends
//
//   - "wgpu": WebGPU HAL device, WGSL shaders checked by naga. It opens
//     the best GPU HAL linked into the binary (import e.g. hal/vulkan) and
//     yields to the next backend when there is none
//   - "opengl": OpenGL 4.1 core, GLSL shaders
//   - "wgsl-check": the wgpu device over the noop HAL, for offline checks
//     (registered by importing backend/wgpu)
//   - "null": accepts any shader, binds nothing (always available)
package backend
