package backend

import (
	"errors"
	"fmt"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrNoProgram is returned by UseProgram for an unknown or destroyed
	// program handle.
	ErrNoProgram = errors.New("backend: no such program")

	// ErrNoShader is returned by LinkProgram when a shader handle is
	// unknown or destroyed.
	ErrNoShader = errors.New("backend: no such shader")

	// ErrNoVertexStage is returned by LinkProgram when no vertex shader
	// is attached.
	ErrNoVertexStage = errors.New("backend: program has no vertex stage")

	// ErrShadersUnsupported is returned when the device cannot run
	// programmable shaders.
	ErrShadersUnsupported = errors.New("backend: shaders not supported")
)

// ShaderID identifies a compiled shader stage on a Device. Zero is invalid.
type ShaderID uint32

// ProgramID identifies a linked program on a Device. Zero is invalid.
type ProgramID uint32

// Stage is a programmable pipeline stage.
type Stage uint8

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota
	// StageFragment is the fragment stage.
	StageFragment
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// Stream is a vertex attribute stream supplied by the host. Buffer is the
// device-specific buffer object (a hal.Buffer for wgpu, a GL buffer name
// for OpenGL).
type Stream struct {
	Buffer any
	Offset uint64
}

// Device is the GPU driver seen by the program catalog: it compiles shader
// stages, links them into programs and binds programs for drawing.
//
// Devices are not safe for concurrent use. All calls must come from the
// goroutine that owns the GPU context.
//
// Devices are registered via Register() and selected via Get() or Default().
type Device interface {
	// Name returns the backend identifier (e.g., "wgpu", "opengl").
	Name() string

	// Init prepares the device. It must be called before any other method.
	Init() error

	// Close releases every resource the device still owns.
	Close()

	// SupportsShaders reports whether the context can compile shaders at all.
	SupportsShaders() bool

	// CompileShader compiles source for stage. On failure the error text
	// is the compiler log.
	CompileShader(name string, stage Stage, source string) (ShaderID, error)

	// DestroyShader releases a shader. Unknown handles are ignored.
	DestroyShader(ShaderID)

	// LinkProgram links shaders into a program. On failure the error
	// text is the linker log and no resource is retained.
	LinkProgram(name string, shaders []ShaderID) (ProgramID, error)

	// DestroyProgram releases a program. Unknown handles are ignored.
	DestroyProgram(ProgramID)

	// UseProgram makes p the active program.
	UseProgram(p ProgramID) error

	// StopProgram unbinds the active program. It is safe to call when
	// nothing is bound.
	StopProgram()

	// BindTexCoords attaches a texture coordinate stream to channel of
	// the active program.
	BindTexCoords(channel int, semantic string, s Stream) error
}
