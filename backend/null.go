package backend

import (
	"errors"
	"fmt"
	"strings"
)

// NullDevice is a Device that never touches a GPU. It accepts any
// non-empty shader source and links any program with a vertex stage, which
// makes it useful for validating a catalog without a context.
//
// NullDevice also serves as the reference implementation of the Device
// contract for tests.
type NullDevice struct {
	initialized bool
	nextID      uint32
	shaders     map[ShaderID]Stage
	programs    map[ProgramID]string
	current     ProgramID
}

// init registers the null backend on package import.
func init() {
	Register(BackendNull, func() Device {
		return NewNullDevice()
	})
}

// NewNullDevice creates a new null device.
func NewNullDevice() *NullDevice {
	return &NullDevice{
		shaders:  make(map[ShaderID]Stage),
		programs: make(map[ProgramID]string),
	}
}

// Name returns the backend identifier.
func (d *NullDevice) Name() string {
	return BackendNull
}

// Init initializes the device.
func (d *NullDevice) Init() error {
	d.initialized = true
	return nil
}

// Close releases all handles.
func (d *NullDevice) Close() {
	clear(d.shaders)
	clear(d.programs)
	d.current = 0
	d.initialized = false
}

// SupportsShaders always reports true.
func (d *NullDevice) SupportsShaders() bool { return true }

// CompileShader records a shader. Blank source fails.
func (d *NullDevice) CompileShader(name string, stage Stage, source string) (ShaderID, error) {
	if !d.initialized {
		return 0, ErrNotInitialized
	}
	if strings.TrimSpace(source) == "" {
		return 0, fmt.Errorf("%s: empty %s shader source", name, stage)
	}
	d.nextID++
	id := ShaderID(d.nextID)
	d.shaders[id] = stage
	return id, nil
}

// DestroyShader forgets a shader.
func (d *NullDevice) DestroyShader(id ShaderID) {
	delete(d.shaders, id)
}

// LinkProgram records a program over live shaders.
func (d *NullDevice) LinkProgram(name string, shaders []ShaderID) (ProgramID, error) {
	if !d.initialized {
		return 0, ErrNotInitialized
	}
	vertex := false
	for _, s := range shaders {
		stage, ok := d.shaders[s]
		if !ok {
			return 0, fmt.Errorf("%s: %w: %d", name, ErrNoShader, s)
		}
		vertex = vertex || stage == StageVertex
	}
	if !vertex {
		return 0, fmt.Errorf("%s: %w", name, ErrNoVertexStage)
	}
	d.nextID++
	id := ProgramID(d.nextID)
	d.programs[id] = name
	return id, nil
}

// DestroyProgram forgets a program, unbinding it if active.
func (d *NullDevice) DestroyProgram(id ProgramID) {
	delete(d.programs, id)
	if d.current == id {
		d.current = 0
	}
}

// UseProgram marks p active.
func (d *NullDevice) UseProgram(p ProgramID) error {
	if _, ok := d.programs[p]; !ok {
		return ErrNoProgram
	}
	d.current = p
	return nil
}

// StopProgram clears the active program.
func (d *NullDevice) StopProgram() { d.current = 0 }

// BindTexCoords accepts any stream while a program is active.
func (d *NullDevice) BindTexCoords(channel int, semantic string, s Stream) error {
	if d.current == 0 {
		return ErrNoProgram
	}
	if channel < 0 {
		return errors.New("backend: negative texcoord channel")
	}
	return nil
}

// Current returns the active program, or 0.
func (d *NullDevice) Current() ProgramID { return d.current }

// Live returns the number of shaders and programs currently held.
func (d *NullDevice) Live() (shaders, programs int) {
	return len(d.shaders), len(d.programs)
}
