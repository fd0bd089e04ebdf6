// Package progsel selects GPU shader programs for scene-graph shapes.
//
// # Overview
//
// Rendering effects are described by program descriptors: small text
// files that name the shader stages of a program, its texture coordinate
// bindings, and the conditions on scene-graph attributes under which it
// applies. progsel loads a directory of descriptors and shader sources,
// compiles and links them through a backend device, and for every shape
// drawn picks the first program whose conditions hold.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/progsel"
//	    "github.com/gogpu/progsel/backend"
//	    "github.com/gogpu/progsel/config"
//	)
//
//	dev, err := backend.Open("opengl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r := progsel.New(dev, config.Default())
//	defer r.Close()
//
//	if !r.Initialize() {
//	    // No usable program: draw everything through the fallback path.
//	}
//
//	for _, shape := range shapes {
//	    r.BeginFrame()
//	    if _, ok := r.SetupProgram(shape, ""); !ok {
//	        drawFixedFunction(shape)
//	    }
//	}
//
// # Descriptor Format
//
//	# skin.prog
//	shaders skin.vert skin.frag
//	texcoords 0 base
//	checkgroup begin or
//	    check Name == "Eye_L"
//	    check Name == "Eye_R"
//	checkgroup end
//	check not NiAlphaProperty
//	check HEADER/Version >= 0x14020007
//
// Conditions at the top level must all hold. A condition on an attribute
// the shape does not have is false, and "not" then negates it.
//
// # Selection Order
//
// Programs are tried in load order: descriptor directories in the order
// configured, files sorted by name. An explicit hint passed to
// SetupProgram wins over the conditions when it names a valid program.
//
// # Architecture
//
// The library is organized into:
//   - condition: expression language, parser and evaluator
//   - descriptor: the .prog file format
//   - catalog: compiled shader units and linked programs
//   - selector: first-match selection with optional memoization
//   - backend: device interface, registry, and the wgpu, opengl and null devices
//   - model: the read-only scene-graph view conditions evaluate against
//
// # Threading
//
// A Renderer must be used from the goroutine that owns the GPU context.
// Reloads triggered by the file watcher run inside BeginFrame.
package progsel

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
