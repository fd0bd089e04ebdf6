// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package memview is an in-memory scene graph implementing model.View.
//
// It backs the command line tools and the tests. Nodes carry a type name,
// scalar attributes and named links to other nodes; a path such as
// "Shader/Flags" follows the "Shader" link and reads "Flags" on the target.
package memview

import (
	"github.com/gogpu/progsel/model"
)

type nodeData struct {
	name  string
	typ   string
	attrs map[string]model.Value
	links map[string]model.Node
}

// Graph is a mutable scene graph. It is not safe for concurrent mutation.
type Graph struct {
	nodes   []*nodeData
	header  *nodeData
	parents map[string]string
	byName  map[string]model.Node
	rev     uint64
}

var (
	_ model.View      = (*Graph)(nil)
	_ model.Versioned = (*Graph)(nil)
)

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		header:  &nodeData{attrs: make(map[string]model.Value)},
		parents: make(map[string]string),
		byName:  make(map[string]model.Node),
	}
}

// DefineType records that typ derives from parent. An empty parent makes
// typ a root type.
func (g *Graph) DefineType(typ, parent string) {
	g.parents[typ] = parent
	g.rev++
}

// Add appends a node and returns its handle. A non-empty name can later be
// resolved with Lookup.
func (g *Graph) Add(name, typ string, attrs map[string]model.Value) model.Node {
	nd := &nodeData{
		name:  name,
		typ:   typ,
		attrs: make(map[string]model.Value, len(attrs)),
		links: make(map[string]model.Node),
	}
	for k, v := range attrs {
		nd.attrs[k] = v
	}
	n := model.Node(len(g.nodes))
	g.nodes = append(g.nodes, nd)
	if name != "" {
		g.byName[name] = n
	}
	g.rev++
	return n
}

// Set stores an attribute on node. Unknown nodes are ignored.
func (g *Graph) Set(node model.Node, attr string, v model.Value) {
	nd := g.node(node)
	if nd == nil {
		return
	}
	nd.attrs[attr] = v
	g.rev++
}

// Unset removes an attribute from node.
func (g *Graph) Unset(node model.Node, attr string) {
	if nd := g.node(node); nd != nil {
		delete(nd.attrs, attr)
		g.rev++
	}
}

// Link creates a named reference from one node to another.
func (g *Graph) Link(from model.Node, name string, to model.Node) {
	nd := g.node(from)
	if nd == nil || nd == g.header {
		return
	}
	nd.links[name] = to
	g.rev++
}

// SetHeader stores an attribute on the file header.
func (g *Graph) SetHeader(attr string, v model.Value) {
	g.header.attrs[attr] = v
	g.rev++
}

// Lookup returns the node registered under name.
func (g *Graph) Lookup(name string) (model.Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// TypeOf returns the type name of node, or "" for unknown nodes.
func (g *Graph) TypeOf(node model.Node) string {
	if nd := g.node(node); nd != nil {
		return nd.typ
	}
	return ""
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Revision implements model.Versioned.
func (g *Graph) Revision() uint64 { return g.rev }

// Has implements model.View.
func (g *Graph) Has(node model.Node, path string) bool {
	if path == "" {
		return g.node(node) != nil
	}
	if _, ok := g.resolve(node, path); ok {
		return true
	}
	_, ok := g.follow(node, path)
	return ok
}

// Get implements model.View.
func (g *Graph) Get(node model.Node, path string) (model.Value, bool) {
	return g.resolve(node, path)
}

// Inherits implements model.View.
func (g *Graph) Inherits(node model.Node, typeName string) bool {
	nd := g.node(node)
	if nd == nil || nd.typ == "" {
		return false
	}
	seen := 0
	for t := nd.typ; t != ""; t = g.parents[t] {
		if t == typeName {
			return true
		}
		// Guards against cycles in user supplied hierarchies.
		if seen++; seen > len(g.parents)+1 {
			break
		}
	}
	return false
}

func (g *Graph) node(n model.Node) *nodeData {
	if n == model.Header {
		return g.header
	}
	if n < 0 || int(n) >= len(g.nodes) {
		return nil
	}
	return g.nodes[n]
}

// resolve walks links until the remaining path names an attribute.
func (g *Graph) resolve(node model.Node, path string) (model.Value, bool) {
	for depth := 0; depth <= len(g.nodes); depth++ {
		nd := g.node(node)
		if nd == nil {
			return model.Value{}, false
		}
		if v, ok := nd.attrs[path]; ok {
			return v, true
		}
		head, rest := model.SplitPath(path)
		next, ok := nd.links[head]
		if !ok || rest == "" {
			return model.Value{}, false
		}
		node, path = next, rest
	}
	return model.Value{}, false
}

// follow resolves a path made only of link names to the node it reaches.
func (g *Graph) follow(node model.Node, path string) (model.Node, bool) {
	for path != "" {
		nd := g.node(node)
		if nd == nil {
			return model.NoNode, false
		}
		head, rest := model.SplitPath(path)
		next, ok := nd.links[head]
		if !ok {
			return model.NoNode, false
		}
		node, path = next, rest
	}
	return node, g.node(node) != nil
}
