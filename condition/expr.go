// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package condition

import (
	"cmp"
	"errors"
	"strings"

	"github.com/gogpu/progsel/model"
)

// Expr is a single comparison: "path op literal", optionally inverted.
// Expr values are immutable; use Invert to obtain the negated form.
type Expr struct {
	path    string
	op      Op
	literal model.Value
	raw     string
	negate  bool
}

// Path returns the attribute path on the left-hand side.
func (e Expr) Path() string { return e.path }

// Op returns the comparison operator.
func (e Expr) Op() Op { return e.op }

// Literal returns the typed right-hand side. It is invalid for OpExists.
func (e Expr) Literal() model.Value { return e.literal }

// Negate reports whether the result is inverted after evaluation.
func (e Expr) Negate() bool { return e.negate }

// Invert returns a copy of e with negation toggled.
func (e Expr) Invert() Expr {
	e.negate = !e.negate
	return e
}

// String formats e in descriptor syntax.
func (e Expr) String() string {
	var sb strings.Builder
	if e.negate {
		sb.WriteString("not ")
	}
	sb.WriteString(e.path)
	if e.op != OpExists {
		sb.WriteByte(' ')
		sb.WriteString(e.op.String())
		sb.WriteByte(' ')
		if e.raw != "" {
			sb.WriteString(e.raw)
		} else {
			sb.WriteString(e.literal.String())
		}
	}
	return sb.String()
}

// Eval evaluates the comparison against env. Evaluation never mutates the
// scene graph.
func (e Expr) Eval(env Env) bool {
	return e.match(env) != e.negate
}

// match is the comparison before negation. Unresolved paths never match.
func (e Expr) match(env Env) bool {
	node, path, ok := env.resolve(e.path)
	if !ok {
		return false
	}
	if e.op == OpExists {
		return true
	}
	v, ok := env.View.Get(node, path)
	if !ok {
		return false
	}
	return compare(e.op, v, e.literal)
}

// compare applies op to an attribute value a and a literal b. Pairings that
// the parser could not rule out (because the attribute kind is only known
// at runtime) compare false.
func compare(op Op, a, b model.Value) bool {
	switch {
	case b.Kind() == model.KindString:
		if a.Kind() != model.KindString {
			return false
		}
		switch op {
		case OpEQ:
			return a.Str() == b.Str()
		case OpNE:
			return a.Str() != b.Str()
		}
		return false

	case a.Kind() == model.KindString || !a.IsValid():
		return false

	case op.Bitwise():
		if !a.Kind().Integral() || !b.Kind().Integral() {
			return false
		}
		set := a.Uint()&b.Uint() != 0
		if op == OpBitAnd {
			return set
		}
		return !set

	case a.Kind() == model.KindFloat || b.Kind() == model.KindFloat:
		return ordered(op, a.Float(), b.Float())

	case a.Kind() == model.KindFlags || b.Kind() == model.KindFlags:
		return ordered(op, compareIntegral(a, b), 0)

	default:
		return ordered(op, a.Int(), b.Int())
	}
}

// compareIntegral orders two integral values where at least one is
// unsigned. A negative signed value sorts below every unsigned one.
func compareIntegral(a, b model.Value) int {
	switch {
	case a.Kind() == model.KindInt && a.Int() < 0 && b.Kind() == model.KindFlags:
		return -1
	case b.Kind() == model.KindInt && b.Int() < 0 && a.Kind() == model.KindFlags:
		return 1
	}
	return cmp.Compare(a.Uint(), b.Uint())
}

func ordered[T cmp.Ordered](op Op, a, b T) bool {
	switch op {
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	case OpLT:
		return a < b
	case OpLE:
		return a <= b
	case OpGT:
		return a > b
	case OpGE:
		return a >= b
	}
	return false
}

// NewExpr builds a comparison programmatically. It applies the same
// operator/type checks as the parser.
func NewExpr(path string, op Op, literal model.Value) (Expr, error) {
	e := Expr{path: path, op: op, literal: literal}
	if path == "" {
		return Expr{}, &ParseError{Err: errors.New("missing attribute path")}
	}
	if op == OpExists {
		e.literal = model.Value{}
		return e, nil
	}
	if !literal.IsValid() {
		return Expr{}, &ParseError{Text: path, Err: ErrBadLiteral}
	}
	if err := checkPair(op, literal.Kind()); err != nil {
		return Expr{}, &ParseError{Text: e.String(), Err: err}
	}
	return e, nil
}
