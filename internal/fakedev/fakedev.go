// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package fakedev provides a recording backend.Device for tests.
package fakedev

import (
	"errors"
	"fmt"

	"github.com/gogpu/progsel/backend"
)

// Binding is one recorded BindTexCoords call.
type Binding struct {
	Program  string
	Channel  int
	Semantic string
	Stream   backend.Stream
}

// Device wraps backend.NullDevice, records every call in Calls and fails
// compiles and links on request.
type Device struct {
	*backend.NullDevice

	// FailCompile maps a shader unit name to the compiler log to fail with.
	FailCompile map[string]string
	// FailLink maps a program name to the linker log to fail with.
	FailLink map[string]string
	// FailUse makes UseProgram fail for these program names.
	FailUse map[string]bool
	// NoShaders makes SupportsShaders report false.
	NoShaders bool

	Calls    []string
	Bindings []Binding

	shaderNames  map[backend.ShaderID]string
	programNames map[backend.ProgramID]string
}

// New returns an initialized fake device.
func New() *Device {
	d := &Device{
		NullDevice:   backend.NewNullDevice(),
		FailCompile:  make(map[string]string),
		FailLink:     make(map[string]string),
		FailUse:      make(map[string]bool),
		shaderNames:  make(map[backend.ShaderID]string),
		programNames: make(map[backend.ProgramID]string),
	}
	_ = d.NullDevice.Init()
	return d
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

// Name returns "fake".
func (d *Device) Name() string { return "fake" }

// Init is a no-op; New already initialized the device.
func (d *Device) Init() error { return nil }

// SupportsShaders reports !NoShaders.
func (d *Device) SupportsShaders() bool { return !d.NoShaders }

// CompileShader records the call and fails if name is in FailCompile.
func (d *Device) CompileShader(name string, stage backend.Stage, source string) (backend.ShaderID, error) {
	d.record("compile %s", name)
	if log, ok := d.FailCompile[name]; ok {
		return 0, errors.New(log)
	}
	id, err := d.NullDevice.CompileShader(name, stage, source)
	if err == nil {
		d.shaderNames[id] = name
	}
	return id, err
}

// DestroyShader records the call.
func (d *Device) DestroyShader(id backend.ShaderID) {
	if name, ok := d.shaderNames[id]; ok {
		d.record("destroy-shader %s", name)
		delete(d.shaderNames, id)
	}
	d.NullDevice.DestroyShader(id)
}

// LinkProgram records the call and fails if name is in FailLink.
func (d *Device) LinkProgram(name string, shaders []backend.ShaderID) (backend.ProgramID, error) {
	d.record("link %s", name)
	if log, ok := d.FailLink[name]; ok {
		return 0, errors.New(log)
	}
	id, err := d.NullDevice.LinkProgram(name, shaders)
	if err == nil {
		d.programNames[id] = name
	}
	return id, err
}

// DestroyProgram records the call.
func (d *Device) DestroyProgram(id backend.ProgramID) {
	if name, ok := d.programNames[id]; ok {
		d.record("destroy-program %s", name)
		delete(d.programNames, id)
	}
	d.NullDevice.DestroyProgram(id)
}

// UseProgram records the call.
func (d *Device) UseProgram(id backend.ProgramID) error {
	name := d.programNames[id]
	d.record("use %s", name)
	if d.FailUse[name] {
		return fmt.Errorf("fake: use %s failed", name)
	}
	return d.NullDevice.UseProgram(id)
}

// StopProgram records the call.
func (d *Device) StopProgram() {
	d.record("stop")
	d.NullDevice.StopProgram()
}

// BindTexCoords records the binding.
func (d *Device) BindTexCoords(channel int, semantic string, s backend.Stream) error {
	if err := d.NullDevice.BindTexCoords(channel, semantic, s); err != nil {
		return err
	}
	d.record("bind %d %s", channel, semantic)
	d.Bindings = append(d.Bindings, Binding{
		Program:  d.programNames[d.Current()],
		Channel:  channel,
		Semantic: semantic,
		Stream:   s,
	})
	return nil
}

// Bound returns the name of the active program, or "".
func (d *Device) Bound() string {
	return d.programNames[d.Current()]
}

// Reset clears the recorded calls and bindings.
func (d *Device) Reset() {
	d.Calls = d.Calls[:0]
	d.Bindings = d.Bindings[:0]
}

var _ backend.Device = (*Device)(nil)
