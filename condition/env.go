// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package condition

import (
	"strings"

	"github.com/gogpu/progsel/model"
)

// headerPrefix routes a path to the file header instead of the shape nodes.
const headerPrefix = "HEADER/"

// Env is what a rule is evaluated against: the scene-graph view and the
// nodes backing one shape, highest priority first (the shape node itself,
// then its properties, bound pose nodes and so on).
type Env struct {
	View  model.View
	Nodes []model.Node
}

// resolve finds the node and node-relative path that path refers to.
//
// For each node in priority order the first segment is tried as a type
// name: if the node inherits it, the rest of the path is looked up on that
// node ("BSShaderProperty/Flags"). Otherwise the path is looked up on the
// node as is. The first node on which the path resolves wins.
func (env Env) resolve(path string) (model.Node, string, bool) {
	if env.View == nil {
		return model.NoNode, "", false
	}
	if rest, ok := strings.CutPrefix(path, headerPrefix); ok {
		return model.Header, rest, env.View.Has(model.Header, rest)
	}
	head, rest := model.SplitPath(path)
	for _, n := range env.Nodes {
		if env.View.Inherits(n, head) && (rest == "" || env.View.Has(n, rest)) {
			return n, rest, true
		}
		if env.View.Has(n, path) {
			return n, path, true
		}
	}
	return model.NoNode, "", false
}
