// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/voodooEntity/gits/src/transport"

	"github.com/gogpu/progsel"
	"github.com/gogpu/progsel/model"
	"github.com/gogpu/progsel/model/entityview"
	"github.com/gogpu/progsel/model/memview"
)

var errReadOnly = errors.New("scene is read-only")

// scene is a loaded scene graph with node lookup by name.
type scene struct {
	view   model.View
	lookup func(name string) (model.Node, bool)
	graph  *memview.Graph // nil unless the scene is editable
}

// loadScene reads a YAML scene graph, or a gits transport entity tree
// when the file ends in .json.
func loadScene(path string) (*scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var root transport.TransportEntity
		if err := json.NewDecoder(f).Decode(&root); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		v := entityview.New(root)
		return &scene{view: v, lookup: entityLookup(v)}, nil
	}

	g, err := memview.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &scene{view: g, lookup: g.Lookup, graph: g}, nil
}

// entityLookup finds entities by "#ID" or by their Value.
func entityLookup(v *entityview.View) func(string) (model.Node, bool) {
	return func(name string) (model.Node, bool) {
		if id, ok := strings.CutPrefix(name, "#"); ok {
			n, err := strconv.Atoi(id)
			if err != nil {
				return model.NoNode, false
			}
			return v.Node(n)
		}
		for i := range v.Len() {
			if e, ok := v.Entity(model.Node(i)); ok && e.Value == name {
				return model.Node(i), true
			}
		}
		return model.NoNode, false
	}
}

// nodes resolves node names, primary first.
func (s *scene) nodes(names []string) ([]model.Node, error) {
	out := make([]model.Node, 0, len(names))
	for _, name := range names {
		n, ok := s.lookup(name)
		if !ok {
			return nil, fmt.Errorf("scene has no node %q", name)
		}
		out = append(out, n)
	}
	return out, nil
}

// mesh builds the shape for the named nodes.
func (s *scene) mesh(names []string) (*progsel.Mesh, error) {
	ns, err := s.nodes(names)
	if err != nil {
		return nil, err
	}
	return progsel.NewMesh(s.view, ns...), nil
}

// set changes one attribute of an editable scene.
func (s *scene) set(name, attr string, v model.Value) error {
	if s.graph == nil {
		return errReadOnly
	}
	n, ok := s.lookup(name)
	if !ok {
		return fmt.Errorf("scene has no node %q", name)
	}
	s.graph.Set(n, attr, v)
	return nil
}
