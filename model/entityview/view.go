// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package entityview exposes a gits transport entity tree as a model.View.
//
// Scene graphs exported into gits arrive as nested TransportEntity values
// whose Properties are all strings. The view flattens the tree in pre-order,
// assigns each entity a model.Node and types property strings on demand,
// either from a declared kind table or by inference.
//
// Paths step through child relations: "Shader/Flags" reads the Flags
// property of the first child reached through a relation whose Context (or,
// failing that, the target's Type) is "Shader".
package entityview

import (
	"github.com/voodooEntity/gits/src/transport"

	"github.com/gogpu/progsel/model"
)

// ValueProperty is the pseudo attribute that reads an entity's Value field.
const ValueProperty = "Value"

// Option configures a View.
type Option func(*View)

// WithKinds declares the kind of named properties. Undeclared properties
// are typed with model.Infer.
func WithKinds(kinds map[string]model.Kind) Option {
	return func(v *View) {
		for k, kind := range kinds {
			v.kinds[k] = kind
		}
	}
}

// WithTypeParents declares the type hierarchy as child type → parent type.
func WithTypeParents(parents map[string]string) Option {
	return func(v *View) {
		for k, p := range parents {
			v.parents[k] = p
		}
	}
}

// WithHeader attaches an entity whose properties answer HEADER/ paths.
func WithHeader(h transport.TransportEntity) Option {
	return func(v *View) {
		v.header = &h
	}
}

// View is an immutable view over a transport entity tree.
type View struct {
	nodes   []*transport.TransportEntity
	byID    map[int]model.Node
	header  *transport.TransportEntity
	kinds   map[string]model.Kind
	parents map[string]string
}

var _ model.View = (*View)(nil)

// New flattens root and its child relations into a view. The entity tree is
// copied by reference; callers must not mutate it while the view is in use.
func New(root transport.TransportEntity, opts ...Option) *View {
	v := &View{
		byID:    make(map[int]model.Node),
		kinds:   make(map[string]model.Kind),
		parents: make(map[string]string),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.flatten(&root)
	return v
}

func (v *View) flatten(e *transport.TransportEntity) {
	n := model.Node(len(v.nodes))
	v.nodes = append(v.nodes, e)
	if _, dup := v.byID[e.ID]; !dup && e.ID >= 0 {
		v.byID[e.ID] = n
	}
	for i := range e.ChildRelations {
		v.flatten(&e.ChildRelations[i].Target)
	}
}

// Len returns the number of entities in the view.
func (v *View) Len() int { return len(v.nodes) }

// Root returns the node of the root entity.
func (v *View) Root() model.Node { return 0 }

// Node returns the node of the entity with the given gits ID.
func (v *View) Node(id int) (model.Node, bool) {
	n, ok := v.byID[id]
	return n, ok
}

// Entity returns the entity behind node.
func (v *View) Entity(node model.Node) (*transport.TransportEntity, bool) {
	e := v.entity(node)
	return e, e != nil
}

// Has implements model.View.
func (v *View) Has(node model.Node, path string) bool {
	if path == "" {
		return v.entity(node) != nil
	}
	if _, ok := v.Get(node, path); ok {
		return true
	}
	_, ok := v.follow(v.entity(node), path)
	return ok
}

// Get implements model.View.
func (v *View) Get(node model.Node, path string) (model.Value, bool) {
	e := v.entity(node)
	for e != nil {
		if text, ok := property(e, path); ok {
			return v.typed(path, text), true
		}
		head, rest := model.SplitPath(path)
		if rest == "" {
			break
		}
		e = child(e, head)
		path = rest
	}
	return model.Value{}, false
}

// Inherits implements model.View.
func (v *View) Inherits(node model.Node, typeName string) bool {
	e := v.entity(node)
	if e == nil {
		return false
	}
	for t, hops := e.Type, 0; t != "" && hops <= len(v.parents); t, hops = v.parents[t], hops+1 {
		if t == typeName {
			return true
		}
	}
	return false
}

func (v *View) entity(node model.Node) *transport.TransportEntity {
	if node == model.Header {
		return v.header
	}
	if node < 0 || int(node) >= len(v.nodes) {
		return nil
	}
	return v.nodes[node]
}

func (v *View) typed(name, text string) model.Value {
	if kind, ok := v.kinds[name]; ok {
		if val, err := model.Parse(kind, text); err == nil {
			return val
		}
	}
	return model.Infer(text)
}

func (v *View) follow(e *transport.TransportEntity, path string) (*transport.TransportEntity, bool) {
	for e != nil && path != "" {
		head, rest := model.SplitPath(path)
		e, path = child(e, head), rest
	}
	return e, e != nil
}

func property(e *transport.TransportEntity, name string) (string, bool) {
	if name == ValueProperty {
		return e.Value, true
	}
	text, ok := e.Properties[name]
	return text, ok
}

func child(e *transport.TransportEntity, name string) *transport.TransportEntity {
	for i := range e.ChildRelations {
		rel := &e.ChildRelations[i]
		if rel.Context == name || (rel.Context == "" && rel.Target.Type == name) {
			return &rel.Target
		}
	}
	return nil
}
