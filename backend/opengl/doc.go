// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package opengl implements backend.Device on OpenGL 4.1 core with GLSL
// shader stages.
//
// The package registers the "opengl" backend on import. A GL context must
// be current on the calling thread before Init, and every later call must
// come from that thread.
//
// Texture coordinate streams are GL buffer names (uint32). Each stream is
// bound to the vertex attribute named after its semantic; programs that
// do not declare such an attribute receive it at location 1 + channel.
package opengl
