// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package model

import "strings"

// Node addresses one element of the scene graph, typically a block index.
type Node int

const (
	// NoNode is never a valid node.
	NoNode Node = -1

	// Header addresses the file header of the loaded asset. Views that
	// have no header simply report no attributes for it.
	Header Node = -2
)

// PathSep separates the segments of an attribute path.
const PathSep = "/"

// View is the read-only window onto the scene graph that condition
// evaluation uses. Implementations must not mutate the graph.
type View interface {
	// Has reports whether path resolves on node.
	Has(node Node, path string) bool

	// Get returns the value at path on node. The boolean is false when the
	// path does not resolve or does not hold a scalar value.
	Get(node Node, path string) (Value, bool)

	// Inherits reports whether node is of type typeName or derives from it.
	Inherits(node Node, typeName string) bool
}

// Versioned is implemented by views that can tell when their content
// changed. Revision must increase on every mutation that can affect
// attribute values or types.
type Versioned interface {
	Revision() uint64
}

// SplitPath splits "Type/Field/Sub" into its first segment and the rest.
// A path without a separator yields an empty rest.
func SplitPath(path string) (head, rest string) {
	head, rest, _ = strings.Cut(path, PathSep)
	return head, rest
}
