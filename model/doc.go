// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package model defines the narrow view of a scene graph that program
// selection consumes.
//
// The scene graph itself (block layout, links, file format) lives outside
// this module. Selection only needs to ask three questions about a node:
// whether an attribute path exists, what typed value it holds, and whether
// the node belongs to a named type. Implementations of [View] answer them.
//
// Two reference implementations ship with the module: [memview] keeps nodes
// in memory and loads YAML fixtures, [entityview] adapts gits transport
// entities.
//
// [memview]: github.com/gogpu/progsel/model/memview
// [entityview]: github.com/gogpu/progsel/model/entityview
package model
