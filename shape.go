// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package progsel

import (
	"github.com/gogpu/progsel/backend"
	"github.com/gogpu/progsel/condition"
	"github.com/gogpu/progsel/model"
)

// Shape is something to draw. Env returns the scene-graph nodes program
// conditions are evaluated against, primary node first.
type Shape interface {
	Env() condition.Env
}

// StreamSource is implemented by shapes that carry vertex data. The
// renderer asks it for the stream behind every texture coordinate
// binding of the selected program.
type StreamSource interface {
	Stream(channel int, semantic string) (backend.Stream, bool)
}

// Mesh is a Shape backed by a view and a node list, with optional
// texture coordinate streams keyed by semantic.
type Mesh struct {
	View    model.View
	Nodes   []model.Node
	Streams map[string]backend.Stream
}

// NewMesh returns a mesh over nodes of view.
func NewMesh(view model.View, nodes ...model.Node) *Mesh {
	return &Mesh{View: view, Nodes: nodes}
}

// Env implements Shape.
func (m *Mesh) Env() condition.Env {
	return condition.Env{View: m.View, Nodes: m.Nodes}
}

// SetStream registers the stream for semantic.
func (m *Mesh) SetStream(semantic string, s backend.Stream) *Mesh {
	if m.Streams == nil {
		m.Streams = make(map[string]backend.Stream)
	}
	m.Streams[semantic] = s
	return m
}

// Stream implements StreamSource. Streams are looked up by semantic; the
// channel is chosen by the program.
func (m *Mesh) Stream(_ int, semantic string) (backend.Stream, bool) {
	s, ok := m.Streams[semantic]
	return s, ok
}

var (
	_ Shape        = (*Mesh)(nil)
	_ StreamSource = (*Mesh)(nil)
)
