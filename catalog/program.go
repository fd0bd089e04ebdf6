// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package catalog

import (
	"github.com/gogpu/progsel/backend"
	"github.com/gogpu/progsel/condition"
	"github.com/gogpu/progsel/descriptor"
)

// Program is one catalog entry: an applicability rule, the shader stages
// it links and the texture coordinate channels it reads.
type Program struct {
	// Name is the descriptor base name and the catalog key.
	Name string
	// File is the descriptor path within the loaded file system.
	File       string
	Conditions *condition.Tree
	Stages     []string
	TexCoords  []descriptor.TexCoord
	// Err is the reason the program is invalid, nil once linked.
	Err error

	units  []*ShaderUnit
	handle backend.ProgramID
	table  *table
	report *ProgramError
}

// Valid reports whether the program linked and its table is still live.
func (p *Program) Valid() bool {
	return p.Err == nil && p.handle != 0 && p.table.live
}

// Handle returns the device handle, or 0 if the program is not valid.
func (p *Program) Handle() backend.ProgramID {
	if !p.Valid() {
		return 0
	}
	return p.handle
}

// Units returns the resolved shader units in stage order. It is empty for
// a program that failed before stage resolution.
func (p *Program) Units() []*ShaderUnit {
	return append([]*ShaderUnit(nil), p.units...)
}

// Matches evaluates the program's rule against env. A program without
// conditions matches everything.
func (p *Program) Matches(env condition.Env) bool {
	return p.Conditions.Eval(env)
}
