// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package catalog

import (
	"strings"

	"github.com/gogpu/progsel/backend"
)

// ShaderUnit is one shader stage loaded from a source file.
type ShaderUnit struct {
	// Name is the file path relative to the shader directory.
	Name   string
	Stage  backend.Stage
	Source string
	// Log holds the compiler diagnostics of a failed compile.
	Log string
	// Err is the load or compile failure, nil for a valid unit.
	Err error

	handle backend.ShaderID
	table  *table
}

// Valid reports whether the unit compiled and its table is still live.
func (u *ShaderUnit) Valid() bool {
	return u.Err == nil && u.handle != 0 && u.table.live
}

// Handle returns the device handle, or 0 if the unit is not valid.
func (u *ShaderUnit) Handle() backend.ShaderID {
	if !u.Valid() {
		return 0
	}
	return u.handle
}

// stageSuffixes maps the stage part of a shader file name.
var stageSuffixes = map[string]backend.Stage{
	".vert": backend.StageVertex,
	".frag": backend.StageFragment,
}

// languageSuffixes may follow the stage suffix.
var languageSuffixes = []string{".wgsl", ".glsl"}

// StageOf infers the stage from a shader file name: "skin.vert",
// "skin.frag.wgsl" and "skin.vert.glsl" are recognized.
func StageOf(name string) (backend.Stage, bool) {
	base := name
	for _, lang := range languageSuffixes {
		if trimmed, ok := strings.CutSuffix(base, lang); ok {
			base = trimmed
			break
		}
	}
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return 0, false
	}
	s, ok := stageSuffixes[base[i:]]
	return s, ok
}
