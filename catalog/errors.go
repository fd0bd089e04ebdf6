// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package catalog

import (
	"errors"
	"fmt"

	"github.com/gogpu/progsel/backend"
)

var (
	// ErrStageNotFound is returned when a descriptor names a shader unit
	// that exists neither in the loaded set nor in the shader directory.
	ErrStageNotFound = errors.New("catalog: shader stage not found")

	// ErrUnknownStage is returned for a shader file whose name does not
	// end in .vert or .frag (optionally followed by .wgsl or .glsl).
	ErrUnknownStage = errors.New("catalog: cannot infer shader stage from file name")

	// ErrNotLoaded is returned by Reload before the first load.
	ErrNotLoaded = errors.New("catalog: nothing loaded yet")
)

// CompileError reports a shader unit the device failed to compile.
type CompileError struct {
	Unit  string
	Stage backend.Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("catalog: compile %s shader %s: %s", e.Stage, e.Unit, e.Log)
}

// LinkError reports a program the device failed to link.
type LinkError struct {
	Program string
	Log     string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("catalog: link program %s: %s", e.Program, e.Log)
}

// ProgramError ties a load failure to the program it invalidated.
type ProgramError struct {
	Program string
	Err     error
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("catalog: program %s: %v", e.Program, e.Err)
}

func (e *ProgramError) Unwrap() error { return e.Err }
