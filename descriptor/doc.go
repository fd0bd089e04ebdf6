// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package descriptor reads program descriptor files.
//
// A descriptor is a line-oriented text file named <program>.prog. Header
// directives name the shader stages to link and the texture coordinate
// channels the program consumes; the remaining lines form the condition
// block parsed by package condition:
//
//	# skinned meshes with a normal map
//	shaders skin.vert skin.frag
//	texcoords 0 base
//	texcoords 1 tangents
//	check ShaderFlags1 & 0x1
//	checkgroup begin or
//		check Name == "Eye_L"
//		check Name == "Eye_R"
//	checkgroup end
//
// Header directives and conditions may be interleaved. Lines starting with
// '#' and blank lines are ignored.
package descriptor
