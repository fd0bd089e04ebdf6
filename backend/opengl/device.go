// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package opengl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/progsel/backend"
)

// ErrBadStream is returned when a stream buffer is not a GL buffer name.
var ErrBadStream = errors.New("opengl: stream buffer is not a uint32 buffer name")

// init registers the OpenGL backend on package import.
func init() {
	backend.Register(backend.BackendOpenGL, func() backend.Device {
		return New()
	})
}

// Device is a backend.Device over the current OpenGL context.
type Device struct {
	initialized bool
	version     string
	shaders     map[backend.ShaderID]backend.Stage
	programs    map[backend.ProgramID]string
	current     backend.ProgramID
	enabled     []uint32
}

// New creates an uninitialized device.
func New() *Device {
	return &Device{
		shaders:  make(map[backend.ShaderID]backend.Stage),
		programs: make(map[backend.ProgramID]string),
	}
}

// Name returns the backend identifier.
func (d *Device) Name() string { return backend.BackendOpenGL }

// Init loads the GL function pointers for the current context.
func (d *Device) Init() error {
	if d.initialized {
		return nil
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("opengl: init: %w", err)
	}
	d.version = gl.GoStr(gl.GetString(gl.VERSION))
	d.initialized = true
	return nil
}

// Version returns the GL_VERSION string of the context.
func (d *Device) Version() string { return d.version }

// SupportsShaders reports whether the context is at least OpenGL 2.0.
func (d *Device) SupportsShaders() bool {
	return d.initialized && majorVersion(d.version) >= 2
}

// Close deletes every shader and program still held.
func (d *Device) Close() {
	if !d.initialized {
		return
	}
	d.StopProgram()
	for id := range d.programs {
		d.DestroyProgram(id)
	}
	for id := range d.shaders {
		d.DestroyShader(id)
	}
}

// CompileShader compiles GLSL source. The error text is the info log.
func (d *Device) CompileShader(name string, stage backend.Stage, source string) (backend.ShaderID, error) {
	if !d.initialized {
		return 0, backend.ErrNotInitialized
	}
	kind, err := glStage(stage)
	if err != nil {
		return 0, err
	}
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetShaderInfoLog(shader, logLen, nil, buf) })
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s: %s", name, log)
	}

	id := backend.ShaderID(shader)
	d.shaders[id] = stage
	return id, nil
}

// DestroyShader deletes a shader object.
func (d *Device) DestroyShader(id backend.ShaderID) {
	if _, ok := d.shaders[id]; !ok {
		return
	}
	delete(d.shaders, id)
	gl.DeleteShader(uint32(id))
}

// LinkProgram attaches and links shaders. On failure the program object
// is deleted and the error text is the info log.
func (d *Device) LinkProgram(name string, shaders []backend.ShaderID) (backend.ProgramID, error) {
	if !d.initialized {
		return 0, backend.ErrNotInitialized
	}
	vertex := false
	for _, s := range shaders {
		stage, ok := d.shaders[s]
		if !ok {
			return 0, fmt.Errorf("%s: %w: %d", name, backend.ErrNoShader, s)
		}
		vertex = vertex || stage == backend.StageVertex
	}
	if !vertex {
		return 0, fmt.Errorf("%s: %w", name, backend.ErrNoVertexStage)
	}

	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, uint32(s))
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetProgramInfoLog(program, logLen, nil, buf) })
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%s: %s", name, log)
	}
	for _, s := range shaders {
		gl.DetachShader(program, uint32(s))
	}

	id := backend.ProgramID(program)
	d.programs[id] = name
	return id, nil
}

// DestroyProgram deletes a program object, unbinding it if active.
func (d *Device) DestroyProgram(id backend.ProgramID) {
	if _, ok := d.programs[id]; !ok {
		return
	}
	if d.current == id {
		d.StopProgram()
	}
	delete(d.programs, id)
	gl.DeleteProgram(uint32(id))
}

// UseProgram installs a program.
func (d *Device) UseProgram(id backend.ProgramID) error {
	if _, ok := d.programs[id]; !ok {
		return backend.ErrNoProgram
	}
	gl.UseProgram(uint32(id))
	d.current = id
	return nil
}

// StopProgram uninstalls the active program and disables the attribute
// arrays enabled by BindTexCoords.
func (d *Device) StopProgram() {
	if !d.initialized {
		return
	}
	for _, loc := range d.enabled {
		gl.DisableVertexAttribArray(loc)
	}
	d.enabled = d.enabled[:0]
	if d.current != 0 {
		gl.UseProgram(0)
		d.current = 0
	}
}

// BindTexCoords points the attribute for semantic at the stream buffer.
func (d *Device) BindTexCoords(channel int, semantic string, s backend.Stream) error {
	if d.current == 0 {
		return backend.ErrNoProgram
	}
	buf, ok := s.Buffer.(uint32)
	if !ok {
		return fmt.Errorf("%w (%s)", ErrBadStream, semantic)
	}
	loc := gl.GetAttribLocation(uint32(d.current), gl.Str(semantic+"\x00"))
	if loc < 0 {
		loc = int32(1 + channel)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointerWithOffset(uint32(loc), 2, gl.FLOAT, false, 0, uintptr(s.Offset))
	d.enabled = append(d.enabled, uint32(loc))
	return nil
}

func glStage(s backend.Stage) (uint32, error) {
	switch s {
	case backend.StageVertex:
		return gl.VERTEX_SHADER, nil
	case backend.StageFragment:
		return gl.FRAGMENT_SHADER, nil
	}
	return 0, fmt.Errorf("opengl: unsupported stage %s", s)
}

func infoLog(n int32, read func(*uint8)) string {
	if n <= 0 {
		return "no info log"
	}
	log := make([]uint8, n)
	read(&log[0])
	return strings.TrimRight(string(log), "\x00\n")
}

// majorVersion extracts the major number from a GL_VERSION string such as
// "4.1 Metal - 76.3" or "OpenGL ES 3.0 Mesa".
func majorVersion(v string) int {
	for _, f := range strings.Fields(v) {
		if f == "" || f[0] < '0' || f[0] > '9' {
			continue
		}
		n := 0
		for _, c := range f {
			if c < '0' || c > '9' {
				break
			}
			n = n*10 + int(c-'0')
		}
		return n
	}
	return 0
}

var _ backend.Device = (*Device)(nil)
