// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package condition

import (
	"strings"
)

// Combinator selects how a Tree combines its children.
type Combinator uint8

const (
	// And requires every child to hold. An empty And holds.
	And Combinator = iota
	// Or requires at least one child to hold. An empty Or does not hold.
	Or
)

// String returns the keyword used in checkgroup markers.
func (c Combinator) String() string {
	if c == Or {
		return "or"
	}
	return "and"
}

// Cond is one child of a Tree: exactly one of Leaf and Group is set.
type Cond struct {
	Leaf  *Expr
	Group *Tree
}

// Eval evaluates whichever variant c holds. The zero Cond holds.
func (c Cond) Eval(env Env) bool {
	switch {
	case c.Leaf != nil:
		return c.Leaf.Eval(env)
	case c.Group != nil:
		return c.Group.Eval(env)
	}
	return true
}

// Tree combines conditions under one Combinator. Children are evaluated in
// order and evaluation stops as soon as the result is known.
type Tree struct {
	Combinator Combinator
	Children   []Cond
}

// NewTree returns an empty tree.
func NewTree(c Combinator) *Tree {
	return &Tree{Combinator: c}
}

// AddExpr appends a leaf.
func (t *Tree) AddExpr(e Expr) *Tree {
	t.Children = append(t.Children, Cond{Leaf: &e})
	return t
}

// AddTree appends a nested group.
func (t *Tree) AddTree(sub *Tree) *Tree {
	t.Children = append(t.Children, Cond{Group: sub})
	return t
}

// Len returns the number of direct children.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Children)
}

// Eval evaluates the tree against env. A nil tree holds.
func (t *Tree) Eval(env Env) bool {
	if t == nil {
		return true
	}
	if t.Combinator == Or {
		for _, c := range t.Children {
			if c.Eval(env) {
				return true
			}
		}
		return false
	}
	for _, c := range t.Children {
		if !c.Eval(env) {
			return false
		}
	}
	return true
}

// Step records one leaf evaluation for Explain.
type Step struct {
	Depth  int
	Expr   Expr
	Result bool
}

// Explain evaluates t like Eval and returns every leaf that was actually
// evaluated, in order, together with the overall result.
func (t *Tree) Explain(env Env) ([]Step, bool) {
	var steps []Step
	ok := t.explain(env, 0, &steps)
	return steps, ok
}

func (t *Tree) explain(env Env, depth int, steps *[]Step) bool {
	if t == nil {
		return true
	}
	want := t.Combinator == Or
	for _, c := range t.Children {
		var r bool
		switch {
		case c.Leaf != nil:
			r = c.Leaf.Eval(env)
			*steps = append(*steps, Step{Depth: depth, Expr: *c.Leaf, Result: r})
		case c.Group != nil:
			r = c.Group.explain(env, depth+1, steps)
		default:
			r = true
		}
		if r == want {
			return want
		}
	}
	return !want
}

// String formats the tree in descriptor syntax. The top-level tree is
// written without a group marker when it is an And.
func (t *Tree) String() string {
	var sb strings.Builder
	t.format(&sb, 0, true)
	return sb.String()
}

func (t *Tree) format(sb *strings.Builder, indent int, top bool) {
	if t == nil {
		return
	}
	inner := indent
	if !top || t.Combinator == Or {
		writeLine(sb, indent, "checkgroup begin "+t.Combinator.String())
		inner++
	}
	for _, c := range t.Children {
		switch {
		case c.Leaf != nil:
			writeLine(sb, inner, "check "+c.Leaf.String())
		case c.Group != nil:
			c.Group.format(sb, inner, false)
		}
	}
	if inner != indent {
		writeLine(sb, indent, "checkgroup end")
	}
}

func writeLine(sb *strings.Builder, indent int, s string) {
	for range indent {
		sb.WriteByte('\t')
	}
	sb.WriteString(s)
	sb.WriteByte('\n')
}
